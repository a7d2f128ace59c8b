package gpuhub

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gogpu/gputypes"
)

// deviceTypeOther is neither integrated nor discrete (virtual, CPU, unknown).
const deviceTypeOther = gputypes.DeviceType(0xff)

// fakeBackend implements Backend for tests. Every instance it creates
// enumerates the same adapters.
type fakeBackend struct {
	adapters   []ExposedAdapter
	createErr  error
	surfaceErr error

	mu        sync.Mutex
	instances []*fakeInstance
	lastDesc  InstanceDescriptor
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) CreateInstance(desc *InstanceDescriptor) (NativeInstance, error) {
	if b.createErr != nil {
		return nil, b.createErr
	}
	inst := &fakeInstance{adapters: b.adapters, surfaceErr: b.surfaceErr}
	b.mu.Lock()
	b.instances = append(b.instances, inst)
	b.lastDesc = *desc
	b.mu.Unlock()
	return inst, nil
}

type fakeInstance struct {
	adapters   []ExposedAdapter
	surfaceErr error
	destroyed  atomic.Int32
}

func (i *fakeInstance) EnumerateAdapters() []ExposedAdapter {
	return append([]ExposedAdapter(nil), i.adapters...)
}

func (i *fakeInstance) CreateSurface(window NativeWindow) (NativeSurface, error) {
	if i.surfaceErr != nil {
		return nil, i.surfaceErr
	}
	return &fakeSurface{window: window}, nil
}

func (i *fakeInstance) Destroy() { i.destroyed.Add(1) }

type fakeAdapter struct {
	families []QueueFamily
	features Extensions
	openErr  error

	mu          sync.Mutex
	memory      MemoryProperties
	opens       int
	lastQueues  []QueueRequest
	lastExt     Extensions
	openDevices []*fakeDevice
}

func (a *fakeAdapter) QueueFamilies() []QueueFamily { return a.families }

func (a *fakeAdapter) MemoryProperties() MemoryProperties {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.memory
}

func (a *fakeAdapter) Features() Extensions { return a.features }

func (a *fakeAdapter) Open(queues []QueueRequest, ext Extensions) (OpenDevice, error) {
	if a.openErr != nil {
		return OpenDevice{}, a.openErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.opens++
	a.lastQueues = append([]QueueRequest(nil), queues...)
	a.lastExt = ext

	dev := &fakeDevice{}
	a.openDevices = append(a.openDevices, dev)
	var qs []NativeQueue
	for _, q := range queues {
		for n := uint32(0); n < q.Count; n++ {
			qs = append(qs, &fakeQueue{family: q.Family})
		}
	}
	return OpenDevice{Device: dev, Queues: qs}, nil
}

type fakeDevice struct {
	destroyed atomic.Int32
}

func (d *fakeDevice) Destroy() { d.destroyed.Add(1) }

type fakeQueue struct {
	family QueueFamilyID
}

type fakeSurface struct {
	window    NativeWindow
	destroyed atomic.Int32
}

func (s *fakeSurface) Destroy() { s.destroyed.Add(1) }

// newFakeAdapter returns an adapter with one general queue family and a
// single device-local heap.
func newFakeAdapter(name string, t gputypes.DeviceType) ExposedAdapter {
	return ExposedAdapter{
		Adapter: &fakeAdapter{
			families: []QueueFamily{{ID: 0, Capabilities: QueueGeneral, Count: 1}},
			features: Extensions{AnisotropicFiltering: true},
			memory: MemoryProperties{
				Types: []MemoryType{{Properties: MemoryDeviceLocal, HeapIndex: 0}},
				Heaps: []MemoryHeap{{Size: 1 << 30, DeviceLocal: true}},
			},
		},
		Info: AdapterInfo{Name: name, Vendor: "test", DeviceType: t, Backend: gputypes.BackendVulkan},
	}
}

func newTestHub(t *testing.T, adapters ...ExposedAdapter) (*Hub, *fakeBackend) {
	t.Helper()
	b := &fakeBackend{adapters: adapters}
	h, err := New(b, WithPlatform("linux"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(h.Close)
	return h, b
}

// mustAdapter creates an instance and selects an adapter from it.
func mustAdapter(t *testing.T, h *Hub, pref PowerPreference) (InstanceID, AdapterID) {
	t.Helper()
	inst, err := h.CreateInstance()
	if err != nil {
		t.Fatalf("CreateInstance() error = %v", err)
	}
	a, err := h.GetAdapter(inst, &AdapterDescriptor{PowerPreference: pref})
	if err != nil {
		t.Fatalf("GetAdapter() error = %v", err)
	}
	return inst, a
}

var errFake = errors.New("fake failure")
