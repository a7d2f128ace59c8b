// Package gpuhub is a backend-agnostic GPU object model.
//
// # Overview
//
// gpuhub hands out opaque integer handles for instances, adapters, devices
// and surfaces, and keeps the objects themselves in a Hub. An application
// acquires a GPU device without knowing which native API (Vulkan, Metal,
// DirectX) serves it: the native work is done by a Backend, such as the one
// in backend/wgpu built on gogpu/wgpu.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/gpuhub"
//	    "github.com/gogpu/gpuhub/backend/wgpu"
//	    "github.com/gogpu/gputypes"
//	)
//
//	backend, err := wgpu.New(gputypes.BackendVulkan)
//	hub, err := gpuhub.New(backend)
//	defer hub.Close()
//
//	instance, err := hub.CreateInstance()
//	adapter, err := hub.GetAdapter(instance, &gpuhub.AdapterDescriptor{
//	    PowerPreference: gpuhub.PowerPreferenceLowPower,
//	})
//	device, err := hub.CreateDevice(adapter, &gpuhub.DeviceDescriptor{})
//
// # Adapter Selection
//
// GetAdapter sorts enumerated adapters into integrated, discrete and other.
// When several adapters share a type, the one enumerated last represents
// it. LowPower picks integrated, then discrete, then other; HighPerformance
// and Default pick discrete, then integrated, then other.
//
// # Handles and Lifetime
//
// A handle packs a slot index and a generation. Dropping an object makes
// every copy of its handle stale: lookups fail with ErrStaleHandle (which
// also matches ErrHandleNotFound) instead of reaching the object that later
// reuses the slot. A device remembers the adapter it was opened from by
// handle only, so dropping the adapter leaves the device usable.
//
// # Concurrency
//
// Each category has its own read/write lock. Operations spanning categories
// lock them in a fixed order (instance, adapter, device, surface), enforced
// by construction inside the package. Nothing in gpuhub starts goroutines.
//
// # Errors
//
// Every failure is returned as an error; nothing aborts the process. See
// StatusOf for the codes used across the C boundary in capi.
package gpuhub
