package gpuhub

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpuhub/internal/registry"
)

// Package errors. Operations wrap these with detail; test with errors.Is.
var (
	// ErrHandleNotFound is returned when a handle does not resolve in its
	// category, either because it was never issued or its object is gone.
	ErrHandleNotFound = registry.ErrNotFound

	// ErrStaleHandle is returned, together with ErrHandleNotFound, for a
	// handle whose object was dropped.
	ErrStaleHandle = registry.ErrStale

	// ErrNoAdapterAvailable is returned when enumeration finds no adapters.
	ErrNoAdapterAvailable = errors.New("gpuhub: no adapter available")

	// ErrUnsupportedPlatform is returned when a surface cannot be created
	// for the window kind on this platform and backend.
	ErrUnsupportedPlatform = errors.New("gpuhub: unsupported platform")

	// ErrNoSuitableQueueFamily is returned when an adapter has no queue
	// family supporting graphics, compute and transfer.
	ErrNoSuitableQueueFamily = errors.New("gpuhub: no suitable queue family")

	// ErrUnsupportedExtension is returned when a device requests an
	// extension the adapter does not support.
	ErrUnsupportedExtension = errors.New("gpuhub: unsupported extension")

	// ErrInUse is returned when dropping an object that others still
	// depend on.
	ErrInUse = errors.New("gpuhub: resource in use")

	// ErrNoBackend is returned by New when no backend is given.
	ErrNoBackend = errors.New("gpuhub: no backend")

	// ErrClosed is returned by creation calls after Close.
	ErrClosed = errors.New("gpuhub: hub is closed")

	// ErrInvalidArgument is returned for malformed descriptors or windows.
	ErrInvalidArgument = errors.New("gpuhub: invalid argument")
)

// HandleError describes a handle that did not resolve. It matches
// ErrHandleNotFound, and ErrStaleHandle when Stale is set.
type HandleError = registry.LookupError

// SurfaceError reports a window kind with no surface creation path.
type SurfaceError struct {
	Window   string
	Platform string
	Backend  string
	Err      error
}

func (e *SurfaceError) Error() string {
	msg := fmt.Sprintf("gpuhub: cannot create %s surface on %s/%s", e.Window, e.Platform, e.Backend)
	if e.Err != nil && !errors.Is(e.Err, ErrUnsupportedPlatform) {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches ErrUnsupportedPlatform.
func (e *SurfaceError) Is(target error) bool { return target == ErrUnsupportedPlatform }

func (e *SurfaceError) Unwrap() error { return e.Err }

// QueueFamilyError reports an adapter without a general queue family.
type QueueFamilyError struct {
	Adapter  string
	Families []QueueFamily
}

func (e *QueueFamilyError) Error() string {
	return fmt.Sprintf("gpuhub: adapter %q has no %s queue family (%d families)",
		e.Adapter, QueueGeneral, len(e.Families))
}

// Is matches ErrNoSuitableQueueFamily.
func (e *QueueFamilyError) Is(target error) bool { return target == ErrNoSuitableQueueFamily }

// ExtensionError reports an extension the adapter cannot enable.
type ExtensionError struct {
	Adapter   string
	Extension string
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("gpuhub: adapter %q does not support %s", e.Adapter, e.Extension)
}

// Is matches ErrUnsupportedExtension.
func (e *ExtensionError) Is(target error) bool { return target == ErrUnsupportedExtension }

// Status is the result code reported across the C boundary.
type Status int32

// Status codes. Values are part of the C ABI and must not change.
const (
	StatusOK                    Status = 0
	StatusHandleNotFound        Status = 1
	StatusStaleHandle           Status = 2
	StatusNoAdapterAvailable    Status = 3
	StatusUnsupportedPlatform   Status = 4
	StatusNoSuitableQueueFamily Status = 5
	StatusUnsupportedExtension  Status = 6
	StatusInUse                 Status = 7
	StatusClosed                Status = 8
	StatusInvalidArgument       Status = 9
	StatusInternal              Status = -1
)

// StatusOf maps an error returned by the hub to its Status.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrStaleHandle):
		return StatusStaleHandle
	case errors.Is(err, ErrHandleNotFound):
		return StatusHandleNotFound
	case errors.Is(err, ErrNoAdapterAvailable):
		return StatusNoAdapterAvailable
	case errors.Is(err, ErrUnsupportedPlatform):
		return StatusUnsupportedPlatform
	case errors.Is(err, ErrNoSuitableQueueFamily):
		return StatusNoSuitableQueueFamily
	case errors.Is(err, ErrUnsupportedExtension):
		return StatusUnsupportedExtension
	case errors.Is(err, ErrInUse):
		return StatusInUse
	case errors.Is(err, ErrClosed):
		return StatusClosed
	case errors.Is(err, ErrInvalidArgument):
		return StatusInvalidArgument
	default:
		return StatusInternal
	}
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusHandleNotFound:
		return "handle not found"
	case StatusStaleHandle:
		return "stale handle"
	case StatusNoAdapterAvailable:
		return "no adapter available"
	case StatusUnsupportedPlatform:
		return "unsupported platform"
	case StatusNoSuitableQueueFamily:
		return "no suitable queue family"
	case StatusUnsupportedExtension:
		return "unsupported extension"
	case StatusInUse:
		return "in use"
	case StatusClosed:
		return "closed"
	case StatusInvalidArgument:
		return "invalid argument"
	default:
		return fmt.Sprintf("internal error (%d)", int32(s))
	}
}
