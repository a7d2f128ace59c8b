// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpuhub

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpuhub/internal/registry"
)

// CreateInstance opens a new backend instance and registers it. Instances
// are not deduplicated: every call yields a new instance and handle.
func (h *Hub) CreateInstance() (InstanceID, error) {
	if err := h.checkOpen(); err != nil {
		return 0, err
	}
	raw, err := h.backend.CreateInstance(&InstanceDescriptor{
		Application: h.opts.application,
		Version:     h.opts.version,
	})
	if err != nil {
		return 0, fmt.Errorf("gpuhub: create %s instance: %w", h.backend.Name(), err)
	}

	id, err := register(h, registry.Root(), h.instances, instanceEntry{raw: raw},
		func(e instanceEntry) { e.raw.Destroy() })
	if err != nil {
		return 0, err
	}
	h.logger().Info("gpuhub: instance created", "backend", h.backend.Name(), "instance", id)
	return id, nil
}

// CreateSurface binds a surface to a native window through the instance and
// registers it. Window kinds with no creation path on the current platform
// or backend fail with a *SurfaceError matching ErrUnsupportedPlatform.
func (h *Hub) CreateSurface(instance InstanceID, window NativeWindow) (SurfaceID, error) {
	if err := h.checkOpen(); err != nil {
		return 0, err
	}
	if window == nil || !window.valid() {
		return 0, fmt.Errorf("%w: incomplete native window %T", ErrInvalidArgument, window)
	}
	if !supportedOn(window, h.opts.platform) {
		return 0, &SurfaceError{Window: window.Kind(), Platform: h.opts.platform, Backend: h.backend.Name()}
	}

	var id SurfaceID
	err := h.instances.Read(registry.Root(), instance, func(tok registry.Token, inst *instanceEntry) error {
		raw, err := inst.raw.CreateSurface(window)
		if err != nil {
			if errors.Is(err, ErrUnsupportedPlatform) {
				return &SurfaceError{Window: window.Kind(), Platform: h.opts.platform, Backend: h.backend.Name(), Err: err}
			}
			return fmt.Errorf("gpuhub: create %s surface: %w", window.Kind(), err)
		}
		id, err = register(h, tok, h.surfaces, surfaceEntry{raw: raw, instance: instance, window: window.Kind()},
			func(e surfaceEntry) { e.raw.Destroy() })
		return err
	})
	if err != nil {
		return 0, err
	}
	h.logger().Debug("gpuhub: surface created", "instance", instance, "surface", id, "window", window.Kind())
	return id, nil
}

// DropSurface destroys a surface and invalidates its handle.
func (h *Hub) DropSurface(id SurfaceID) error {
	s, err := h.surfaces.Unregister(registry.Root(), id)
	if err != nil {
		return err
	}
	s.raw.Destroy()
	return nil
}

// DropInstance destroys an instance. It fails with ErrInUse while adapters,
// devices or surfaces created from the instance are still registered. A
// device counts even after its adapter was dropped.
func (h *Hub) DropInstance(id InstanceID) error {
	// The check runs under the instance write lock. Adapters and surfaces
	// are only created under its read lock, and devices only from a live
	// adapter, so none can appear before removal.
	inst, err := h.instances.UnregisterFunc(registry.Root(), id, func(tok registry.Token, _ *instanceEntry) error {
		var adapters, devices, surfaces int
		h.adapters.Each(tok, func(_ AdapterID, a *adapterEntry) bool {
			if a.instance == id {
				adapters++
			}
			return true
		})
		h.devices.Each(tok, func(_ DeviceID, d *deviceEntry) bool {
			if d.instance == id {
				devices++
			}
			return true
		})
		h.surfaces.Each(tok, func(_ SurfaceID, s *surfaceEntry) bool {
			if s.instance == id {
				surfaces++
			}
			return true
		})
		if adapters > 0 || devices > 0 || surfaces > 0 {
			return fmt.Errorf("%w: instance %#x has %d adapters, %d devices and %d surfaces",
				ErrInUse, uint64(id), adapters, devices, surfaces)
		}
		return nil
	})
	if err != nil {
		return err
	}
	inst.raw.Destroy()
	return nil
}
