package backend

import (
	"errors"

	"github.com/gogpu/gpuhub"
)

// ErrBackendNotAvailable is returned when a requested backend is not registered
// or cannot be created.
var ErrBackendNotAvailable = errors.New("backend: not available")

// Factory creates a backend for a new hub.
type Factory func() (gpuhub.Backend, error)
