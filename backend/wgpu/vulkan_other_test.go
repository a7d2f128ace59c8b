//go:build !windows && !((linux || freebsd || darwin) && (amd64 || arm64) && !cgo)

package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gpuhub/backend"
)

func TestVulkanNotLinked(t *testing.T) {
	if backend.IsRegistered(backend.Vulkan) {
		t.Error("vulkan registered in a build without goffi")
	}
	if _, err := New(gputypes.BackendVulkan); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("New(Vulkan) error = %v, want ErrBackendUnavailable", err)
	}
	b, err := backend.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if b.Name() != backend.Noop {
		t.Errorf("Default() = %q, want noop", b.Name())
	}
}
