package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every failed lookup.
	ErrNotFound = errors.New("gpuhub: handle not found")

	// ErrStale matches lookups of a handle whose object was removed.
	ErrStale = errors.New("gpuhub: stale handle")
)

// LookupError describes a handle that did not resolve.
type LookupError struct {
	Category string
	ID       uint64

	// Stale is set when the handle was issued once and its object has
	// since been removed.
	Stale bool
}

func (e *LookupError) Error() string {
	if e.Stale {
		return fmt.Sprintf("gpuhub: stale %s handle %#x", e.Category, e.ID)
	}
	return fmt.Sprintf("gpuhub: %s handle %#x not found", e.Category, e.ID)
}

// Is reports ErrNotFound for every LookupError and ErrStale for stale ones.
func (e *LookupError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return true
	case ErrStale:
		return e.Stale
	}
	return false
}
