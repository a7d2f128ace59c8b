package main

/*
#include <stdbool.h>
#include <stdint.h>
*/
import "C"

import (
	"unsafe"

	"github.com/gogpu/gpuhub"
)

func status(s gpuhub.Status) C.int32_t { return C.int32_t(s) }

func out64(p *C.uint64_t) *uint64 { return (*uint64)(unsafe.Pointer(p)) }

//export gpuhub_hub_new
func gpuhub_hub_new(out *C.uintptr_t) C.int32_t {
	return status(hubNew((*uintptr)(unsafe.Pointer(out))))
}

//export gpuhub_hub_free
func gpuhub_hub_free(hub C.uintptr_t) C.int32_t {
	return status(hubFree(uintptr(hub)))
}

//export gpuhub_create_instance
func gpuhub_create_instance(hub C.uintptr_t, out *C.uint64_t) C.int32_t {
	return status(createInstance(uintptr(hub), out64(out)))
}

//export gpuhub_instance_create_surface_from_window
func gpuhub_instance_create_surface_from_window(hub C.uintptr_t, instance C.uint64_t, display, window C.uintptr_t, out *C.uint64_t) C.int32_t {
	w := gpuhub.DisplayWindow{Display: uintptr(display), Window: uintptr(window)}
	return status(createSurface(uintptr(hub), uint64(instance), w, out64(out)))
}

//export gpuhub_instance_create_surface_from_xlib
func gpuhub_instance_create_surface_from_xlib(hub C.uintptr_t, instance C.uint64_t, display C.uintptr_t, window C.uint64_t, out *C.uint64_t) C.int32_t {
	w := gpuhub.XlibWindow{Display: uintptr(display), Window: uint64(window)}
	return status(createSurface(uintptr(hub), uint64(instance), w, out64(out)))
}

//export gpuhub_instance_create_surface_from_macos_layer
func gpuhub_instance_create_surface_from_macos_layer(hub C.uintptr_t, instance C.uint64_t, layer C.uintptr_t, out *C.uint64_t) C.int32_t {
	w := gpuhub.MetalLayer{Layer: uintptr(layer)}
	return status(createSurface(uintptr(hub), uint64(instance), w, out64(out)))
}

//export gpuhub_instance_create_surface_from_windows_hwnd
func gpuhub_instance_create_surface_from_windows_hwnd(hub C.uintptr_t, instance C.uint64_t, hinstance, hwnd C.uintptr_t, out *C.uint64_t) C.int32_t {
	w := gpuhub.WindowsHWND{HInstance: uintptr(hinstance), HWND: uintptr(hwnd)}
	return status(createSurface(uintptr(hub), uint64(instance), w, out64(out)))
}

//export gpuhub_instance_get_adapter
func gpuhub_instance_get_adapter(hub C.uintptr_t, instance C.uint64_t, power C.int32_t, out *C.uint64_t) C.int32_t {
	return status(getAdapter(uintptr(hub), uint64(instance), int32(power), out64(out)))
}

//export gpuhub_adapter_create_device
func gpuhub_adapter_create_device(hub C.uintptr_t, adapter C.uint64_t, anisotropic C.bool, out *C.uint64_t) C.int32_t {
	return status(createDevice(uintptr(hub), uint64(adapter), bool(anisotropic), out64(out)))
}

//export gpuhub_instance_drop
func gpuhub_instance_drop(hub C.uintptr_t, instance C.uint64_t) C.int32_t {
	return status(dropInstance(uintptr(hub), uint64(instance)))
}

//export gpuhub_adapter_drop
func gpuhub_adapter_drop(hub C.uintptr_t, adapter C.uint64_t) C.int32_t {
	return status(dropAdapter(uintptr(hub), uint64(adapter)))
}

//export gpuhub_device_drop
func gpuhub_device_drop(hub C.uintptr_t, device C.uint64_t) C.int32_t {
	return status(dropDevice(uintptr(hub), uint64(device)))
}

//export gpuhub_surface_drop
func gpuhub_surface_drop(hub C.uintptr_t, surface C.uint64_t) C.int32_t {
	return status(dropSurface(uintptr(hub), uint64(surface)))
}
