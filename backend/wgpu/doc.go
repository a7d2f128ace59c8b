// Package wgpu drives a gpuhub.Hub with the gogpu/wgpu hardware
// abstraction layer.
//
// The bridge adapts hal instances, adapters, devices and surfaces to the
// collaborator interfaces declared by gpuhub. Importing the package
// registers the noop backend everywhere and the Vulkan hal backend where
// its FFI layer builds: Windows, and cgo-disabled builds on Linux, FreeBSD
// and macOS for amd64 and arm64. Unix builds with cgo enabled get noop only.
//
// # Basic Usage
//
//	b, err := wgpu.New(gputypes.BackendVulkan)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	hub, err := gpuhub.New(b)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer hub.Close()
//
// For tests the noop hal backend needs no GPU:
//
//	b := wgpu.NewNoop()
//
// # Mapping
//
// WebGPU exposes one queue per device, so every adapter reports a single
// general queue family with one queue. hal does not expose memory heaps:
// adapters report one device-local heap sized by the default maximum
// buffer size, host-visible on integrated and software adapters.
// Anisotropic filtering is core WebGPU sampler state and is always
// supported.
//
// Native windows are lowered to the (display, window) handle pair taken by
// hal.Instance.CreateSurface.
//
// # Loader Check
//
// Backends created with New check that the platform's Vulkan loader can be
// opened before creating an instance. A missing loader fails CreateInstance
// with an error matching loader.ErrLoaderNotFound.
package wgpu
