// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gpuhub"
	"github.com/gogpu/gpuhub/backend"
	"github.com/gogpu/gpuhub/internal/loader"
)

// ErrBackendUnavailable is returned by New when no hal backend of the
// requested kind is registered.
var ErrBackendUnavailable = errors.New("wgpu: hal backend not available")

// Backend implements gpuhub.Backend over a hal backend.
type Backend struct {
	api  hal.Backend
	kind gputypes.Backend
	name string

	// findLoader runs before each instance is created; nil skips it.
	findLoader func() (string, error)
}

var _ gpuhub.Backend = (*Backend)(nil)

// New returns the registered hal backend of the given kind. Vulkan
// backends look for the platform loader before creating instances.
//
// hal/vulkan is linked only where its FFI layer builds (see vulkan.go);
// elsewhere New(gputypes.BackendVulkan) returns ErrBackendUnavailable.
func New(kind gputypes.Backend) (*Backend, error) {
	api, ok := hal.GetBackend(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, kind)
	}
	b := NewWithAPI(api, kind)
	if kind == gputypes.BackendVulkan {
		b.findLoader = func() (string, error) { return loader.Locate(loader.Vulkan) }
	}
	return b, nil
}

// NewWithAPI wraps an explicit hal backend, such as the noop backend in
// tests. The loader is not checked.
func NewWithAPI(api hal.Backend, kind gputypes.Backend) *Backend {
	name := strings.ToLower(fmt.Sprint(kind))
	if kind == gputypes.BackendVulkan {
		name = backend.Vulkan
	}
	return &Backend{api: api, kind: kind, name: name}
}

// Name implements gpuhub.Backend.
func (b *Backend) Name() string { return b.name }

// CreateInstance implements gpuhub.Backend.
func (b *Backend) CreateInstance(desc *gpuhub.InstanceDescriptor) (gpuhub.NativeInstance, error) {
	if b.findLoader != nil {
		lib, err := b.findLoader()
		if err != nil {
			return nil, err
		}
		gpuhub.Logger().Debug("wgpu: loader found", "library", lib)
	}

	raw, err := b.api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	gpuhub.Logger().Debug("wgpu: instance created",
		"backend", b.Name(),
		"application", desc.Application,
		"version", desc.Version)
	return &instance{raw: raw, kind: b.kind}, nil
}

// instance wraps a hal instance.
type instance struct {
	raw  hal.Instance
	kind gputypes.Backend
}

func (i *instance) EnumerateAdapters() []gpuhub.ExposedAdapter {
	found := i.raw.EnumerateAdapters(nil)
	exposed := make([]gpuhub.ExposedAdapter, len(found))
	for n := range found {
		info := gpuhub.AdapterInfo{
			Name:       found[n].Info.Name,
			Vendor:     found[n].Info.Vendor,
			Driver:     found[n].Info.Driver,
			DeviceType: found[n].Info.DeviceType,
			Backend:    i.kind,
		}
		exposed[n] = gpuhub.ExposedAdapter{
			Adapter: &adapter{raw: found[n].Adapter, deviceType: info.DeviceType},
			Info:    info,
		}
	}
	return exposed
}

func (i *instance) CreateSurface(window gpuhub.NativeWindow) (gpuhub.NativeSurface, error) {
	display, handle, err := lowerWindow(window)
	if err != nil {
		return nil, err
	}
	raw, err := i.raw.CreateSurface(display, handle)
	if err != nil {
		return nil, err
	}
	return &surface{raw: raw}, nil
}

func (i *instance) Destroy() { i.raw.Destroy() }

// Native returns the hal instance.
func (i *instance) Native() hal.Instance { return i.raw }

// lowerWindow converts a native window to the handle pair hal expects.
func lowerWindow(w gpuhub.NativeWindow) (display, window uintptr, err error) {
	switch w := w.(type) {
	case gpuhub.DisplayWindow:
		return w.Display, w.Window, nil
	case gpuhub.XlibWindow:
		return w.Display, uintptr(w.Window), nil
	case gpuhub.MetalLayer:
		return 0, w.Layer, nil
	case gpuhub.WindowsHWND:
		return w.HInstance, w.HWND, nil
	default:
		return 0, 0, fmt.Errorf("%w: window kind %T", gpuhub.ErrUnsupportedPlatform, w)
	}
}

// generalFamily is the single queue family of every WebGPU adapter.
var generalFamily = gpuhub.QueueFamily{ID: 0, Capabilities: gpuhub.QueueGeneral, Count: 1}

// adapter wraps a hal adapter.
type adapter struct {
	raw        hal.Adapter
	deviceType gputypes.DeviceType
}

func (a *adapter) QueueFamilies() []gpuhub.QueueFamily {
	return []gpuhub.QueueFamily{generalFamily}
}

func (a *adapter) MemoryProperties() gpuhub.MemoryProperties {
	flags := gpuhub.MemoryDeviceLocal
	if a.deviceType != gputypes.DeviceTypeDiscreteGPU {
		flags |= gpuhub.MemoryHostVisible | gpuhub.MemoryHostCoherent
	}
	return gpuhub.MemoryProperties{
		Types: []gpuhub.MemoryType{{Properties: flags, HeapIndex: 0}},
		Heaps: []gpuhub.MemoryHeap{{Size: gputypes.DefaultLimits().MaxBufferSize, DeviceLocal: true}},
	}
}

func (a *adapter) Features() gpuhub.Extensions {
	return gpuhub.Extensions{AnisotropicFiltering: true}
}

// Open ignores the extensions: anisotropy is sampler state in WebGPU and
// needs no device feature.
func (a *adapter) Open(queues []gpuhub.QueueRequest, _ gpuhub.Extensions) (gpuhub.OpenDevice, error) {
	for _, q := range queues {
		if q.Family != generalFamily.ID || q.Count > generalFamily.Count {
			return gpuhub.OpenDevice{}, fmt.Errorf("%w: %d queues from family %d", gpuhub.ErrInvalidArgument, q.Count, q.Family)
		}
	}
	opened, err := a.raw.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return gpuhub.OpenDevice{}, err
	}
	return gpuhub.OpenDevice{
		Device: &device{raw: opened.Device},
		Queues: []gpuhub.NativeQueue{opened.Queue},
	}, nil
}

// Native returns the hal adapter.
func (a *adapter) Native() hal.Adapter { return a.raw }
