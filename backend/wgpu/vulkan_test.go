//go:build windows || ((linux || freebsd || darwin) && (amd64 || arm64) && !cgo)

package wgpu

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gpuhub/backend"
)

func TestVulkanLinked(t *testing.T) {
	if _, ok := hal.GetBackend(gputypes.BackendVulkan); !ok {
		t.Fatal("hal/vulkan did not register")
	}
	if !backend.IsRegistered(backend.Vulkan) {
		t.Error("vulkan backend should be registered on import")
	}
}
