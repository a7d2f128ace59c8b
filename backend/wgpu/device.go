package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gpuhub"
)

// GPUInfo contains information about an adapter.
type GPUInfo struct {
	// Name is the GPU name (e.g., "NVIDIA GeForce RTX 3080").
	Name string
	// Vendor is the GPU vendor.
	Vendor string
	// DeviceType is the type of GPU (discrete, integrated, etc.).
	DeviceType gputypes.DeviceType
	// Backend is the graphics API in use.
	Backend gputypes.Backend
	// Driver is the driver version string.
	Driver string
}

// NewGPUInfo summarizes adapter info reported by a hub.
func NewGPUInfo(info gpuhub.AdapterInfo) GPUInfo {
	return GPUInfo{
		Name:       info.Name,
		Vendor:     info.Vendor,
		DeviceType: info.DeviceType,
		Backend:    info.Backend,
		Driver:     info.Driver,
	}
}

// String returns a human-readable description of the GPU.
func (g GPUInfo) String() string {
	if g.Driver != "" {
		return fmt.Sprintf("%s (%v, %v, driver %s)", g.Name, g.DeviceType, g.Backend, g.Driver)
	}
	return fmt.Sprintf("%s (%v, %v)", g.Name, g.DeviceType, g.Backend)
}

// device wraps an open hal device.
type device struct {
	raw hal.Device
}

func (d *device) Destroy() { d.raw.Destroy() }

// Native returns the hal device.
func (d *device) Native() hal.Device { return d.raw }

// surface wraps a hal surface.
type surface struct {
	raw hal.Surface
}

func (s *surface) Destroy() { s.raw.Destroy() }

// Native returns the hal surface.
func (s *surface) Native() hal.Surface { return s.raw }
