package gpuhub

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestCreateInstance(t *testing.T) {
	h, b := newTestHub(t)

	a, err := h.CreateInstance()
	if err != nil {
		t.Fatalf("CreateInstance() error = %v", err)
	}
	c, err := h.CreateInstance()
	if err != nil {
		t.Fatalf("CreateInstance() error = %v", err)
	}
	if a == c {
		t.Error("instances are not deduplicated, want distinct handles")
	}
	if len(b.instances) != 2 {
		t.Errorf("backend instances = %d, want 2", len(b.instances))
	}
}

func TestCreateInstanceBackendFailure(t *testing.T) {
	h, b := newTestHub(t)
	b.createErr = errFake

	_, err := h.CreateInstance()
	if !errors.Is(err, errFake) {
		t.Errorf("CreateInstance() error = %v, want wrapped backend error", err)
	}
	if h.Stats().Instances.Registered != 0 {
		t.Error("failed instance was registered")
	}
}

func TestCreateSurfacePlatforms(t *testing.T) {
	tests := []struct {
		platform string
		window   NativeWindow
		wantErr  error
	}{
		{"linux", XlibWindow{Display: 1, Window: 2}, nil},
		{"freebsd", XlibWindow{Display: 1, Window: 2}, nil},
		{"windows", XlibWindow{Display: 1, Window: 2}, ErrUnsupportedPlatform},
		{"darwin", XlibWindow{Display: 1, Window: 2}, ErrUnsupportedPlatform},
		{"darwin", MetalLayer{Layer: 3}, nil},
		{"linux", MetalLayer{Layer: 3}, ErrUnsupportedPlatform},
		{"windows", WindowsHWND{HInstance: 1, HWND: 4}, nil},
		{"linux", WindowsHWND{HWND: 4}, ErrUnsupportedPlatform},
		{"linux", DisplayWindow{Display: 1, Window: 5}, nil},
		{"windows", DisplayWindow{Window: 5}, nil},
		{"linux", XlibWindow{Display: 1}, ErrInvalidArgument},
		{"darwin", MetalLayer{}, ErrInvalidArgument},
		{"windows", WindowsHWND{HInstance: 1}, ErrInvalidArgument},
		{"linux", nil, ErrInvalidArgument},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("%s/%T", tt.platform, tt.window)
		t.Run(name, func(t *testing.T) {
			h, err := New(&fakeBackend{}, WithPlatform(tt.platform))
			if err != nil {
				t.Fatal(err)
			}
			defer h.Close()
			inst, err := h.CreateInstance()
			if err != nil {
				t.Fatal(err)
			}

			id, err := h.CreateSurface(inst, tt.window)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("CreateSurface() error = %v", err)
				}
				if id == 0 {
					t.Error("CreateSurface() returned the zero handle")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateSurface() error = %v, want %v", err, tt.wantErr)
			}
			if h.Stats().Surfaces.Registered != 0 {
				t.Error("failed surface was registered")
			}
		})
	}
}

func TestCreateSurfacePlatformError(t *testing.T) {
	h, err := New(&fakeBackend{}, WithPlatform("darwin"))
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	inst, _ := h.CreateInstance()

	_, err = h.CreateSurface(inst, XlibWindow{Display: 1, Window: 2})
	var serr *SurfaceError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want *SurfaceError", err)
	}
	if serr.Window != "xlib" || serr.Platform != "darwin" || serr.Backend != "fake" {
		t.Errorf("SurfaceError = %+v", serr)
	}
}

func TestCreateSurfaceBackendUnsupported(t *testing.T) {
	h, b := newTestHub(t)
	b.surfaceErr = fmt.Errorf("no xlib extension: %w", ErrUnsupportedPlatform)
	inst, _ := h.CreateInstance()

	_, err := h.CreateSurface(inst, XlibWindow{Display: 1, Window: 2})
	var serr *SurfaceError
	if !errors.As(err, &serr) || serr.Err == nil {
		t.Fatalf("error = %v, want *SurfaceError carrying the backend error", err)
	}
	if StatusOf(err) != StatusUnsupportedPlatform {
		t.Errorf("StatusOf() = %v", StatusOf(err))
	}
}

func TestCreateSurfaceBackendFailure(t *testing.T) {
	h, b := newTestHub(t)
	b.surfaceErr = errFake
	inst, _ := h.CreateInstance()

	_, err := h.CreateSurface(inst, XlibWindow{Display: 1, Window: 2})
	if !errors.Is(err, errFake) || errors.Is(err, ErrUnsupportedPlatform) {
		t.Errorf("CreateSurface() error = %v", err)
	}
}

func TestCreateSurfaceUnknownInstance(t *testing.T) {
	h, _ := newTestHub(t)
	_, err := h.CreateSurface(InstanceID(1<<32), XlibWindow{Display: 1, Window: 2})
	if !errors.Is(err, ErrHandleNotFound) {
		t.Errorf("CreateSurface() error = %v, want ErrHandleNotFound", err)
	}
}

func TestDropSurface(t *testing.T) {
	h, _ := newTestHub(t)
	inst, _ := h.CreateInstance()
	s, err := h.CreateSurface(inst, XlibWindow{Display: 1, Window: 2})
	if err != nil {
		t.Fatal(err)
	}

	if err := h.DropSurface(s); err != nil {
		t.Fatalf("DropSurface() error = %v", err)
	}
	if err := h.DropSurface(s); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("second DropSurface() error = %v, want ErrStaleHandle", err)
	}
}

func TestDropInstanceInUse(t *testing.T) {
	h, b := newTestHub(t, newFakeAdapter("gpu", gputypes.DeviceTypeDiscreteGPU))
	inst, a := mustAdapter(t, h, PowerPreferenceDefault)
	s, err := h.CreateSurface(inst, XlibWindow{Display: 1, Window: 2})
	if err != nil {
		t.Fatal(err)
	}

	if err := h.DropInstance(inst); !errors.Is(err, ErrInUse) {
		t.Fatalf("DropInstance() with children error = %v, want ErrInUse", err)
	}
	if err := h.DropAdapter(a); err != nil {
		t.Fatal(err)
	}
	if err := h.DropInstance(inst); !errors.Is(err, ErrInUse) {
		t.Fatalf("DropInstance() with surface error = %v, want ErrInUse", err)
	}
	if err := h.DropSurface(s); err != nil {
		t.Fatal(err)
	}

	if err := h.DropInstance(inst); err != nil {
		t.Fatalf("DropInstance() error = %v", err)
	}
	if n := b.instances[0].destroyed.Load(); n != 1 {
		t.Errorf("instance destroyed %d times, want 1", n)
	}
	if _, err := h.GetAdapter(inst, nil); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("GetAdapter() on dropped instance error = %v, want ErrStaleHandle", err)
	}
}

func TestDropInstanceWithOrphanedDevice(t *testing.T) {
	h, b := newTestHub(t, newFakeAdapter("gpu", gputypes.DeviceTypeDiscreteGPU))
	inst, a := mustAdapter(t, h, PowerPreferenceDefault)
	d, err := h.CreateDevice(a, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.DropAdapter(a); err != nil {
		t.Fatal(err)
	}

	// The device no longer reaches its adapter but still pins the instance.
	if err := h.DropInstance(inst); !errors.Is(err, ErrInUse) {
		t.Fatalf("DropInstance() with live device error = %v, want ErrInUse", err)
	}
	if n := b.instances[0].destroyed.Load(); n != 0 {
		t.Fatalf("instance destroyed %d times while a device is registered", n)
	}
	if _, err := h.DeviceInfo(d); err != nil {
		t.Errorf("DeviceInfo() error = %v", err)
	}

	if err := h.DropDevice(d); err != nil {
		t.Fatal(err)
	}
	if err := h.DropInstance(inst); err != nil {
		t.Fatalf("DropInstance() after DropDevice error = %v", err)
	}
	if n := b.instances[0].destroyed.Load(); n != 1 {
		t.Errorf("instance destroyed %d times, want 1", n)
	}
}

func TestDropInstanceIgnoresOtherInstances(t *testing.T) {
	h, _ := newTestHub(t, newFakeAdapter("gpu", gputypes.DeviceTypeDiscreteGPU))
	_, _ = mustAdapter(t, h, PowerPreferenceDefault)
	other, err := h.CreateInstance()
	if err != nil {
		t.Fatal(err)
	}
	if err := h.DropInstance(other); err != nil {
		t.Errorf("DropInstance() error = %v", err)
	}
}
