package wgpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/gpuhub"
	"github.com/gogpu/gpuhub/backend"
)

func init() {
	backend.Register(backend.Noop, func() (gpuhub.Backend, error) {
		return NewNoop(), nil
	})
}

// NewNoop returns a backend over the noop hal, which exposes one adapter
// and needs no GPU or driver. It builds in every configuration.
func NewNoop() *Backend {
	b := NewWithAPI(&noop.API{}, gputypes.BackendEmpty)
	b.name = backend.Noop
	return b
}
