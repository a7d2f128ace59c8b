//go:build windows || ((linux || freebsd || darwin) && (amd64 || arm64) && !cgo)

package wgpu

import (
	"github.com/gogpu/gputypes"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/gpuhub"
	"github.com/gogpu/gpuhub/backend"
	"github.com/gogpu/gpuhub/internal/loader"
)

// The Vulkan bindings call through goffi, which refuses cgo builds on unix.
// Those builds (capi, examples/window) get the noop backend only.
func init() {
	backend.Register(backend.Vulkan, func() (gpuhub.Backend, error) {
		// Fail here rather than at the first instance so Default moves on.
		if _, err := loader.Locate(loader.Vulkan); err != nil {
			return nil, err
		}
		b, err := New(gputypes.BackendVulkan)
		if err != nil {
			return nil, err
		}
		return b, nil
	})
}
