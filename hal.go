// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpuhub

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Backend is the hardware abstraction layer the hub drives. It creates
// native instances; everything else hangs off the instance.
//
// backend/wgpu implements Backend on top of gogpu/wgpu/hal.
type Backend interface {
	// Name identifies the backend in logs and errors (e.g. "vulkan").
	Name() string

	// CreateInstance opens a connection to the native graphics API.
	CreateInstance(desc *InstanceDescriptor) (NativeInstance, error)
}

// InstanceDescriptor describes the application opening an instance.
type InstanceDescriptor struct {
	Application string
	Version     uint32
}

// NativeInstance is a backend instance.
type NativeInstance interface {
	// EnumerateAdapters returns every adapter the instance can see, in the
	// backend's enumeration order.
	EnumerateAdapters() []ExposedAdapter

	// CreateSurface binds a drawable to a native window. Backends without a
	// creation path for the window kind return ErrUnsupportedPlatform.
	CreateSurface(window NativeWindow) (NativeSurface, error)

	// Destroy releases the instance.
	Destroy()
}

// ExposedAdapter pairs an adapter with its description, as returned by
// enumeration.
type ExposedAdapter struct {
	Adapter NativeAdapter
	Info    AdapterInfo
}

// AdapterInfo describes a physical GPU.
type AdapterInfo struct {
	// Name is the GPU name (e.g., "NVIDIA GeForce RTX 3080").
	Name string
	// Vendor is the GPU vendor.
	Vendor string
	// Driver is the driver version string.
	Driver string
	// DeviceType is the type of GPU (discrete, integrated, etc.).
	DeviceType gputypes.DeviceType
	// Backend is the graphics API serving the adapter.
	Backend gputypes.Backend
}

// String returns a human-readable description of the adapter.
func (i AdapterInfo) String() string {
	return fmt.Sprintf("%s (%v, %v)", i.Name, i.DeviceType, i.Backend)
}

// NativeAdapter is a physical GPU exposed by a NativeInstance.
type NativeAdapter interface {
	// QueueFamilies reports the adapter's queue families.
	QueueFamilies() []QueueFamily

	// MemoryProperties reports the adapter's memory types and heaps.
	MemoryProperties() MemoryProperties

	// Features reports which optional extensions the adapter supports.
	Features() Extensions

	// Open creates a logical device with the requested queues and
	// extensions enabled.
	Open(queues []QueueRequest, extensions Extensions) (OpenDevice, error)
}

// QueueCapabilities is a bitmask of operations a queue family supports.
type QueueCapabilities uint8

const (
	// QueueGraphics supports draw commands.
	QueueGraphics QueueCapabilities = 1 << iota

	// QueueCompute supports dispatches.
	QueueCompute

	// QueueTransfer supports copies.
	QueueTransfer
)

// QueueGeneral is a family that supports graphics, compute and transfer.
const QueueGeneral = QueueGraphics | QueueCompute | QueueTransfer

// Supports reports whether every capability in want is present.
func (c QueueCapabilities) Supports(want QueueCapabilities) bool {
	return c&want == want
}

// String lists the capabilities, e.g. "graphics|compute".
func (c QueueCapabilities) String() string {
	if c == 0 {
		return "none"
	}
	var s string
	for _, n := range []struct {
		bit  QueueCapabilities
		name string
	}{
		{QueueGraphics, "graphics"},
		{QueueCompute, "compute"},
		{QueueTransfer, "transfer"},
	} {
		if c&n.bit == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += n.name
	}
	return s
}

// QueueFamilyID identifies a queue family within one adapter.
type QueueFamilyID uint32

// QueueFamily describes a group of queues with the same capabilities.
type QueueFamily struct {
	ID           QueueFamilyID
	Capabilities QueueCapabilities
	Count        uint32
}

// QueueRequest asks for Count queues from one family.
type QueueRequest struct {
	Family QueueFamilyID
	Count  uint32
}

// NativeDevice is a logical device returned by NativeAdapter.Open.
type NativeDevice interface {
	// Destroy releases the device.
	Destroy()
}

// NativeQueue is a command queue. The hub only stores queues.
type NativeQueue any

// OpenDevice is the result of opening an adapter.
type OpenDevice struct {
	Device NativeDevice
	Queues []NativeQueue
}

// NativeSurface is a platform drawable.
type NativeSurface interface {
	// Destroy releases the surface.
	Destroy()
}

// MemoryPropertyFlags describe a memory type.
type MemoryPropertyFlags uint32

const (
	// MemoryDeviceLocal is fastest for device access.
	MemoryDeviceLocal MemoryPropertyFlags = 1 << iota

	// MemoryHostVisible can be mapped for host access.
	MemoryHostVisible

	// MemoryHostCoherent needs no explicit flushes when mapped.
	MemoryHostCoherent

	// MemoryHostCached is cached on the host.
	MemoryHostCached
)

// MemoryType is one kind of allocatable memory.
type MemoryType struct {
	Properties MemoryPropertyFlags
	HeapIndex  int
}

// MemoryHeap is one pool of physical memory.
type MemoryHeap struct {
	Size        uint64
	DeviceLocal bool
}

// MemoryProperties lists an adapter's memory types and heaps.
type MemoryProperties struct {
	Types []MemoryType
	Heaps []MemoryHeap
}

// clone returns a deep copy so a snapshot cannot alias the adapter's slices.
func (m MemoryProperties) clone() MemoryProperties {
	return MemoryProperties{
		Types: append([]MemoryType(nil), m.Types...),
		Heaps: append([]MemoryHeap(nil), m.Heaps...),
	}
}

// DeviceLocalBytes sums the sizes of device-local heaps.
func (m MemoryProperties) DeviceLocalBytes() uint64 {
	var total uint64
	for _, h := range m.Heaps {
		if h.DeviceLocal {
			total += h.Size
		}
	}
	return total
}
