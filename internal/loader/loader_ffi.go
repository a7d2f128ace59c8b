//go:build windows || ((linux || freebsd || darwin) && (amd64 || arm64) && !cgo)

package loader

import "github.com/go-webgpu/goffi/ffi"

// open uses the same FFI layer as the hal Vulkan bindings and builds
// exactly where they do.
func open(name string) error {
	lib, err := ffi.LoadLibrary(name)
	if err != nil {
		return err
	}
	return ffi.FreeLibrary(lib)
}
