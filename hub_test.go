package gpuhub

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
)

func TestHubClose(t *testing.T) {
	exposed := newFakeAdapter("gpu", gputypes.DeviceTypeDiscreteGPU)
	fa := exposed.Adapter.(*fakeAdapter)
	b := &fakeBackend{adapters: []ExposedAdapter{exposed}}
	h, err := New(b, WithPlatform("linux"))
	if err != nil {
		t.Fatal(err)
	}

	inst, err := h.CreateInstance()
	if err != nil {
		t.Fatal(err)
	}
	a, _ := h.GetAdapter(inst, nil)
	d, err := h.CreateDevice(a, nil)
	if err != nil {
		t.Fatal(err)
	}
	s, err := h.CreateSurface(inst, XlibWindow{Display: 1, Window: 2})
	if err != nil {
		t.Fatal(err)
	}

	h.Close()
	h.Close()

	if n := fa.openDevices[0].destroyed.Load(); n != 1 {
		t.Errorf("device destroyed %d times, want 1", n)
	}
	if n := b.instances[0].destroyed.Load(); n != 1 {
		t.Errorf("instance destroyed %d times, want 1", n)
	}
	if st := h.Stats(); st.Instances.Live+st.Adapters.Live+st.Devices.Live+st.Surfaces.Live != 0 {
		t.Errorf("Stats() after Close = %+v", st)
	}

	if _, err := h.DeviceInfo(d); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("DeviceInfo() after Close error = %v, want ErrStaleHandle", err)
	}
	if err := h.DropSurface(s); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("DropSurface() after Close error = %v, want ErrStaleHandle", err)
	}
	if _, err := h.CreateInstance(); !errors.Is(err, ErrClosed) {
		t.Errorf("CreateInstance() after Close error = %v, want ErrClosed", err)
	}
	if _, err := h.GetAdapter(inst, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("GetAdapter() after Close error = %v, want ErrClosed", err)
	}
}

func TestStats(t *testing.T) {
	h, _ := newTestHub(t, newFakeAdapter("gpu", gputypes.DeviceTypeDiscreteGPU))
	_, a := mustAdapter(t, h, PowerPreferenceDefault)
	d, _ := h.CreateDevice(a, nil)
	if err := h.DropDevice(d); err != nil {
		t.Fatal(err)
	}

	st := h.Stats()
	if st.Instances != (CategoryStats{Live: 1, Registered: 1}) {
		t.Errorf("Instances = %+v", st.Instances)
	}
	if st.Adapters != (CategoryStats{Live: 1, Registered: 1}) {
		t.Errorf("Adapters = %+v", st.Adapters)
	}
	if st.Devices != (CategoryStats{Live: 0, Registered: 1}) {
		t.Errorf("Devices = %+v", st.Devices)
	}
}

func TestConcurrentCreateInstance(t *testing.T) {
	h, _ := newTestHub(t)

	const workers, perWorker = 16, 64
	ids := make([][]InstanceID, workers)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				id, err := h.CreateInstance()
				if err != nil {
					t.Error(err)
					return
				}
				ids[w] = append(ids[w], id)
			}
		}()
	}
	wg.Wait()

	seen := make(map[InstanceID]bool, workers*perWorker)
	for _, batch := range ids {
		for _, id := range batch {
			if seen[id] {
				t.Fatalf("handle %#x issued twice", uint64(id))
			}
			seen[id] = true
		}
	}
	if len(seen) != workers*perWorker {
		t.Errorf("got %d handles, want %d", len(seen), workers*perWorker)
	}
}

// TestConcurrentSelectAndOpen runs adapter selection, device creation and
// teardown on shared objects at once. It fails by timing out if any path
// locks categories out of order.
func TestConcurrentSelectAndOpen(t *testing.T) {
	h, _ := newTestHub(t,
		newFakeAdapter("integrated", gputypes.DeviceTypeIntegratedGPU),
		newFakeAdapter("discrete", gputypes.DeviceTypeDiscreteGPU),
	)
	inst, shared := mustAdapter(t, h, PowerPreferenceDefault)

	const workers, rounds = 8, 100
	done := make(chan struct{})
	errs := make(chan error, workers*3)
	var wg sync.WaitGroup

	for w := range workers {
		wg.Add(3)
		go func() {
			defer wg.Done()
			for range rounds {
				a, err := h.GetAdapter(inst, &AdapterDescriptor{PowerPreference: PowerPreference(w % 3)})
				if err != nil {
					errs <- err
					return
				}
				if err := h.DropAdapter(a); err != nil {
					errs <- err
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for range rounds {
				d, err := h.CreateDevice(shared, nil)
				if err != nil {
					errs <- err
					return
				}
				if _, err := h.DeviceAdapter(d); err != nil {
					errs <- err
					return
				}
				if err := h.DropDevice(d); err != nil {
					errs <- err
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for range rounds {
				// Always in use: the shared adapter is never dropped.
				if err := h.DropInstance(inst); !errors.Is(err, ErrInUse) {
					errs <- fmt.Errorf("DropInstance() = %v, want ErrInUse", err)
					return
				}
				_ = h.Stats()
			}
		}()
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("concurrent hub operations did not finish; possible deadlock")
	}
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestConcurrentCloseDoesNotLeak(t *testing.T) {
	b := &fakeBackend{}
	h, err := New(b)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if _, err := h.CreateInstance(); errors.Is(err, ErrClosed) {
					return
				}
			}
		}()
	}
	time.Sleep(10 * time.Millisecond)
	h.Close()
	wg.Wait()

	// Every instance the backend created was destroyed exactly once,
	// whether by Close or by the losing registration.
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, inst := range b.instances {
		if n := inst.destroyed.Load(); n != 1 {
			t.Fatalf("instance %d destroyed %d times, want 1", i, n)
		}
	}
	if n := h.Stats().Instances.Live; n != 0 {
		t.Errorf("live instances after Close = %d", n)
	}
}
