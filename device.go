// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpuhub

import (
	"fmt"

	"github.com/gogpu/gpuhub/internal/registry"
)

// Extensions are optional device features.
type Extensions struct {
	AnisotropicFiltering bool
}

// unsupported names the requested extensions missing from supported.
func (e Extensions) unsupported(supported Extensions) []string {
	var missing []string
	if e.AnisotropicFiltering && !supported.AnisotropicFiltering {
		missing = append(missing, "anisotropic filtering")
	}
	return missing
}

// DeviceDescriptor describes a device to open.
type DeviceDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Extensions are enabled on the device; each must be supported by the
	// adapter.
	Extensions Extensions
}

// QueueGroup is the set of queues a device was opened with.
type QueueGroup struct {
	Family QueueFamilyID
	Queues []NativeQueue
}

// DeviceInfo describes a registered device.
type DeviceInfo struct {
	Label string

	// Adapter is the adapter the device was opened from. It does not keep
	// the adapter registered.
	Adapter AdapterID

	QueueFamily QueueFamilyID
	QueueCount  int

	// Memory is the adapter's memory properties when the device was opened.
	Memory MemoryProperties

	Extensions Extensions
}

// generalFamily returns the first family with graphics, compute and
// transfer support and at least one queue.
func generalFamily(families []QueueFamily) (QueueFamily, bool) {
	for _, f := range families {
		if f.Capabilities.Supports(QueueGeneral) && f.Count > 0 {
			return f, true
		}
	}
	return QueueFamily{}, false
}

// CreateDevice opens a logical device on the adapter with one general queue
// and registers it. The adapter is locked exclusively for the duration, so
// concurrent opens on one adapter are serialized. A nil descriptor opens a
// device without extensions.
func (h *Hub) CreateDevice(adapter AdapterID, desc *DeviceDescriptor) (DeviceID, error) {
	if err := h.checkOpen(); err != nil {
		return 0, err
	}
	if desc == nil {
		desc = &DeviceDescriptor{}
	}

	var id DeviceID
	err := h.adapters.Write(registry.Root(), adapter, func(tok registry.Token, a *adapterEntry) error {
		if missing := desc.Extensions.unsupported(a.raw.Features()); len(missing) > 0 {
			return &ExtensionError{Adapter: a.info.Name, Extension: missing[0]}
		}

		families := a.raw.QueueFamilies()
		family, ok := generalFamily(families)
		if !ok {
			return &QueueFamilyError{Adapter: a.info.Name, Families: families}
		}

		opened, err := a.raw.Open([]QueueRequest{{Family: family.ID, Count: 1}}, desc.Extensions)
		if err != nil {
			return fmt.Errorf("gpuhub: open device on %q: %w", a.info.Name, err)
		}
		if len(opened.Queues) == 0 {
			opened.Device.Destroy()
			return fmt.Errorf("gpuhub: adapter %q opened a device without queues", a.info.Name)
		}

		entry := deviceEntry{
			raw:        opened.Device,
			label:      desc.Label,
			queues:     QueueGroup{Family: family.ID, Queues: opened.Queues},
			memory:     a.raw.MemoryProperties().clone(),
			extensions: desc.Extensions,
			adapter:    adapter,
			instance:   a.instance,
		}
		id, err = register(h, tok, h.devices, entry, func(e deviceEntry) { e.raw.Destroy() })
		if err != nil {
			return err
		}
		a.opened++

		h.logger().Info("gpuhub: device opened",
			"adapter", a.info.Name,
			"device", id,
			"label", desc.Label,
			"family", family.ID,
			"devices_on_adapter", a.opened)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// DeviceInfo describes a registered device.
func (h *Hub) DeviceInfo(id DeviceID) (DeviceInfo, error) {
	var info DeviceInfo
	err := h.devices.Read(registry.Root(), id, func(_ registry.Token, d *deviceEntry) error {
		info = DeviceInfo{
			Label:       d.label,
			Adapter:     d.adapter,
			QueueFamily: d.queues.Family,
			QueueCount:  len(d.queues.Queues),
			Memory:      d.memory.clone(),
			Extensions:  d.extensions,
		}
		return nil
	})
	return info, err
}

// DeviceAdapter resolves the adapter a device was opened from. If that
// adapter has been dropped the result is a *HandleError matching
// ErrHandleNotFound and ErrStaleHandle; the device itself is unaffected.
func (h *Hub) DeviceAdapter(id DeviceID) (AdapterInfo, error) {
	// Adapters rank below devices: read the back-reference, release the
	// device lock, then resolve.
	var adapter AdapterID
	err := h.devices.Read(registry.Root(), id, func(_ registry.Token, d *deviceEntry) error {
		adapter = d.adapter
		return nil
	})
	if err != nil {
		return AdapterInfo{}, err
	}
	return h.AdapterInfo(adapter)
}

// DropDevice destroys a device and invalidates its handle.
func (h *Hub) DropDevice(id DeviceID) error {
	d, err := h.devices.Unregister(registry.Root(), id)
	if err != nil {
		return err
	}
	d.raw.Destroy()
	return nil
}
