// Package loader checks that a backend's native loader library can be
// opened before an instance is created, so a missing driver stack fails
// with a readable error instead of deep inside instance creation.
package loader

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrLoaderNotFound is returned when none of a library's names can be opened.
var ErrLoaderNotFound = errors.New("gpuhub: loader library not found")

// errNoDynamicLoading is returned by open in builds without goffi.
var errNoDynamicLoading = errors.New("dynamic loading not available in this " + runtime.GOOS + " build")

// Library names a shared library in platform-neutral form.
type Library struct {
	// Name is the bare library name ("vulkan" for libvulkan.so).
	Name string

	// Version is the ABI version tried first; 0 means unversioned only.
	Version int

	// Fallbacks lists extra file names per GOOS, tried last.
	Fallbacks map[string][]string
}

// Vulkan is the Khronos Vulkan loader. On macOS MoltenVK may be installed
// without the loader.
var Vulkan = Library{
	Name:      "vulkan",
	Version:   1,
	Fallbacks: map[string][]string{"darwin": {"libMoltenVK.dylib"}},
}

// Names returns the file names to try on goos, most specific first.
func (l Library) Names(goos string) []string {
	var names []string
	if l.Version > 0 {
		names = append(names, formatLibraryName(l.Name, l.Version, goos))
	}
	names = append(names, formatLibraryName(l.Name, 0, goos))
	return append(names, l.Fallbacks[goos]...)
}

// formatLibraryName returns the platform file name of a shared library.
//
//   - linux:   formatLibraryName("vulkan", 1, "linux")   -> "libvulkan.so.1"
//   - darwin:  formatLibraryName("vulkan", 1, "darwin")  -> "libvulkan.1.dylib"
//   - windows: formatLibraryName("vulkan", 1, "windows") -> "vulkan-1.dll"
func formatLibraryName(name string, version int, goos string) string {
	switch goos {
	case "darwin", "ios":
		if version > 0 {
			return fmt.Sprintf("lib%s.%d.dylib", name, version)
		}
		return "lib" + name + ".dylib"
	case "windows":
		if version > 0 {
			return fmt.Sprintf("%s-%d.dll", name, version)
		}
		return name + ".dll"
	default:
		if version > 0 {
			return fmt.Sprintf("lib%s.so.%d", name, version)
		}
		return "lib" + name + ".so"
	}
}

// Locate opens and immediately closes the first loadable name of lib on the
// running platform and returns that name. On platforms without dynamic
// loading (cgo builds on unix) Locate reports success with an empty name.
func Locate(lib Library) (string, error) {
	names := lib.Names(runtime.GOOS)
	var errs []string
	for _, name := range names {
		err := open(name)
		if err == nil {
			return name, nil
		}
		if errors.Is(err, errNoDynamicLoading) {
			return "", nil
		}
		errs = append(errs, err.Error())
	}
	return "", fmt.Errorf("%w: %s (tried %s: %s)", ErrLoaderNotFound, lib.Name,
		strings.Join(names, ", "), strings.Join(errs, "; "))
}
