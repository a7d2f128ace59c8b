// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpuhub

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gpuhub/internal/registry"
)

// DeviceProvider exposes a registered device to gogpu ecosystem consumers
// such as gg canvases, which receive a device from the host instead of
// creating their own.
//
// The provider captures the device, its first queue and, if still
// registered, its adapter at call time. Device returns the backend's
// native device; the hub keeps ownership and releases it on DropDevice.
// When the adapter has been dropped, Adapter is nil and AdapterInfo
// reports AdapterTypeUnknown.
func (h *Hub) DeviceProvider(id DeviceID) (gpucontext.DeviceProvider, error) {
	p := &deviceProvider{
		format: gputypes.TextureFormatBGRA8Unorm,
		info:   gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown},
	}
	var adapter AdapterID
	err := h.devices.Read(registry.Root(), id, func(_ registry.Token, d *deviceEntry) error {
		p.device = d.raw
		p.queue = d.queues.Queues[0]
		adapter = d.adapter
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = h.adapters.Read(registry.Root(), adapter, func(_ registry.Token, a *adapterEntry) error {
		p.adapter = a.raw
		p.info = gpucontext.AdapterInfo{Name: a.info.Name, Type: adapterType(a.info.DeviceType)}
		return nil
	})
	if err != nil && !errors.Is(err, ErrHandleNotFound) {
		return nil, err
	}
	return p, nil
}

// adapterType maps a device type to the coarser classes gg selects render
// modes by.
func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

// deviceProvider implements gpucontext.DeviceProvider.
type deviceProvider struct {
	device  gpucontext.Device
	queue   gpucontext.Queue
	adapter gpucontext.Adapter
	info    gpucontext.AdapterInfo
	format  gputypes.TextureFormat
}

var _ gpucontext.DeviceProvider = (*deviceProvider)(nil)

func (p *deviceProvider) Device() gpucontext.Device             { return p.device }
func (p *deviceProvider) Queue() gpucontext.Queue               { return p.queue }
func (p *deviceProvider) Adapter() gpucontext.Adapter           { return p.adapter }
func (p *deviceProvider) AdapterInfo() gpucontext.AdapterInfo   { return p.info }
func (p *deviceProvider) SurfaceFormat() gputypes.TextureFormat { return p.format }
