// Command capi builds gpuhub as a C shared library:
//
//	go build -buildmode=c-shared -o libgpuhub.so ./capi
//
// The build needs cgo. On Linux, FreeBSD and macOS that leaves the Vulkan
// bindings out, so hubs there run on the noop backend; Windows builds get
// Vulkan when a loader is installed.
//
// Every exported function returns a gpuhub status code and writes results
// through out-parameters. Hubs are passed to C as opaque handles; every
// other object is passed as its 64-bit gpuhub handle.
package main

import (
	"fmt"
	"runtime/cgo"

	"github.com/gogpu/gpuhub"
	"github.com/gogpu/gpuhub/backend"
	_ "github.com/gogpu/gpuhub/backend/wgpu"
)

func main() {}

// newBackend creates the backend for each new hub: Vulkan if it is linked
// and its loader opens, noop otherwise.
var newBackend = backend.Default

// guard converts panics into StatusInternal; a panic must not unwind into C.
func guard(st *gpuhub.Status) {
	if r := recover(); r != nil {
		gpuhub.Logger().Error("capi: recovered panic", "panic", r)
		*st = gpuhub.StatusInternal
	}
}

func hubNew(out *uintptr) (st gpuhub.Status) {
	defer guard(&st)
	if out == nil {
		return gpuhub.StatusInvalidArgument
	}
	b, err := newBackend()
	if err != nil {
		gpuhub.Logger().Error("capi: backend unavailable", "error", err)
		return gpuhub.StatusOf(err)
	}
	h, err := gpuhub.New(b)
	if err != nil {
		return gpuhub.StatusOf(err)
	}
	*out = uintptr(cgo.NewHandle(h))
	return gpuhub.StatusOK
}

func hubFree(handle uintptr) (st gpuhub.Status) {
	defer guard(&st)
	h, err := lookupHub(handle)
	if err != nil {
		return gpuhub.StatusOf(err)
	}
	cgo.Handle(handle).Delete()
	h.Close()
	return gpuhub.StatusOK
}

func lookupHub(handle uintptr) (*gpuhub.Hub, error) {
	if handle == 0 {
		return nil, fmt.Errorf("%w: null hub", gpuhub.ErrInvalidArgument)
	}
	h, ok := cgo.Handle(handle).Value().(*gpuhub.Hub)
	if !ok {
		return nil, fmt.Errorf("%w: not a hub handle", gpuhub.ErrInvalidArgument)
	}
	return h, nil
}

// withHub resolves the hub handle and runs fn, mapping its error to a
// status.
func withHub(handle uintptr, fn func(*gpuhub.Hub) error) (st gpuhub.Status) {
	defer guard(&st)
	h, err := lookupHub(handle)
	if err != nil {
		return gpuhub.StatusOf(err)
	}
	if err := fn(h); err != nil {
		gpuhub.Logger().Debug("capi: call failed", "error", err)
		return gpuhub.StatusOf(err)
	}
	return gpuhub.StatusOK
}

// create runs a creation call and stores its handle in out.
func create[I ~uint64](handle uintptr, out *uint64, fn func(*gpuhub.Hub) (I, error)) gpuhub.Status {
	if out == nil {
		return gpuhub.StatusInvalidArgument
	}
	return withHub(handle, func(h *gpuhub.Hub) error {
		id, err := fn(h)
		if err != nil {
			return err
		}
		*out = uint64(id)
		return nil
	})
}

func createInstance(hub uintptr, out *uint64) gpuhub.Status {
	return create(hub, out, (*gpuhub.Hub).CreateInstance)
}

func createSurface(hub uintptr, instance uint64, window gpuhub.NativeWindow, out *uint64) gpuhub.Status {
	return create(hub, out, func(h *gpuhub.Hub) (gpuhub.SurfaceID, error) {
		return h.CreateSurface(gpuhub.InstanceID(instance), window)
	})
}

func getAdapter(hub uintptr, instance uint64, power int32, out *uint64) gpuhub.Status {
	return create(hub, out, func(h *gpuhub.Hub) (gpuhub.AdapterID, error) {
		return h.GetAdapter(gpuhub.InstanceID(instance), &gpuhub.AdapterDescriptor{
			PowerPreference: gpuhub.PowerPreference(power),
		})
	})
}

func createDevice(hub uintptr, adapter uint64, anisotropic bool, out *uint64) gpuhub.Status {
	return create(hub, out, func(h *gpuhub.Hub) (gpuhub.DeviceID, error) {
		return h.CreateDevice(gpuhub.AdapterID(adapter), &gpuhub.DeviceDescriptor{
			Extensions: gpuhub.Extensions{AnisotropicFiltering: anisotropic},
		})
	})
}

func dropInstance(hub uintptr, id uint64) gpuhub.Status {
	return withHub(hub, func(h *gpuhub.Hub) error { return h.DropInstance(gpuhub.InstanceID(id)) })
}

func dropAdapter(hub uintptr, id uint64) gpuhub.Status {
	return withHub(hub, func(h *gpuhub.Hub) error { return h.DropAdapter(gpuhub.AdapterID(id)) })
}

func dropDevice(hub uintptr, id uint64) gpuhub.Status {
	return withHub(hub, func(h *gpuhub.Hub) error { return h.DropDevice(gpuhub.DeviceID(id)) })
}

func dropSurface(hub uintptr, id uint64) gpuhub.Status {
	return withHub(hub, func(h *gpuhub.Hub) error { return h.DropSurface(gpuhub.SurfaceID(id)) })
}
