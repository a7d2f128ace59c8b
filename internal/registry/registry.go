// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package registry stores GPU objects behind typed integer handles.
//
// Each Registry is one resource category (instances, adapters, devices,
// surfaces) guarded by its own RWMutex. Handles pack a slot index with the
// slot's epoch, so a handle outliving its object is reported as stale rather
// than silently resolving to whatever reuses the slot.
//
// Registries that are locked together must be locked in ascending Rank.
// Every locking method takes a Token describing the highest rank the caller
// already holds. Tokens above Root are only handed out inside Read and Write
// callbacks, so nesting order is fixed by how the calls are written.
package registry

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// Rank orders registries for nested locking. Lower ranks are locked first.
type Rank uint8

// Token records the highest rank held by the caller.
type Token struct {
	held Rank
}

// Root returns a token for a caller holding no registry locks.
func Root() Token { return Token{} }

// Held returns the rank recorded by the token.
func (t Token) Held() Rank { return t.held }

const indexBits = 32

type slot[T any] struct {
	value    T
	epoch    uint32
	occupied bool
	retired  bool
}

// Registry maps handles of type I to values of type T.
//
// Registry is safe for concurrent use. Read callbacks on the same registry
// run concurrently; Write callbacks exclude every other caller of the
// registry for their duration.
type Registry[I ~uint64, T any] struct {
	category string
	rank     Rank

	mu    sync.RWMutex
	slots []slot[T]
	free  []uint32
	live  int

	registered atomic.Uint64
}

// New creates an empty registry for the named category at the given rank.
// Rank must be non-zero; zero is reserved for Root.
func New[I ~uint64, T any](category string, rank Rank) *Registry[I, T] {
	if rank == 0 {
		panic("registry: rank 0 is reserved for Root")
	}
	return &Registry[I, T]{category: category, rank: rank}
}

// Category returns the category name used in errors.
func (r *Registry[I, T]) Category() string { return r.category }

// Rank returns the registry's lock rank.
func (r *Registry[I, T]) Rank() Rank { return r.rank }

func (r *Registry[I, T]) check(tok Token) {
	if tok.held >= r.rank {
		panic(fmt.Sprintf("registry: lock order violation: %s (rank %d) acquired while holding rank %d",
			r.category, r.rank, tok.held))
	}
}

func makeID[I ~uint64](index, epoch uint32) I {
	return I(uint64(epoch)<<indexBits | uint64(index))
}

func splitID[I ~uint64](id I) (index, epoch uint32) {
	return uint32(uint64(id)), uint32(uint64(id) >> indexBits)
}

// Register stores v under a fresh handle and returns it. The registry owns
// v afterwards.
func (r *Registry[I, T]) Register(tok Token, v T) I {
	r.check(tok)
	r.mu.Lock()
	defer r.mu.Unlock()

	var index uint32
	if n := len(r.free); n > 0 {
		index = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		if uint64(len(r.slots)) >= math.MaxUint32 {
			panic("registry: " + r.category + " slot space exhausted")
		}
		index = uint32(len(r.slots))
		r.slots = append(r.slots, slot[T]{epoch: 1})
	}

	s := &r.slots[index]
	s.value = v
	s.occupied = true
	r.live++
	r.registered.Add(1)
	return makeID[I](index, s.epoch)
}

// lookup must be called with r.mu held.
func (r *Registry[I, T]) lookup(id I) (*slot[T], error) {
	index, epoch := splitID(id)
	if epoch == 0 || int(index) >= len(r.slots) {
		return nil, &LookupError{Category: r.category, ID: uint64(id)}
	}
	s := &r.slots[index]
	if s.occupied && s.epoch == epoch {
		return s, nil
	}
	stale := epoch < s.epoch || (s.retired && epoch == s.epoch)
	return nil, &LookupError{Category: r.category, ID: uint64(id), Stale: stale}
}

// Read runs fn with shared access to the value under id. The pointer is only
// valid during fn and must not be used to modify the value.
func (r *Registry[I, T]) Read(tok Token, id I, fn func(Token, *T) error) error {
	r.check(tok)
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, err := r.lookup(id)
	if err != nil {
		return err
	}
	return fn(Token{held: r.rank}, &s.value)
}

// Write runs fn with exclusive access to the value under id.
func (r *Registry[I, T]) Write(tok Token, id I, fn func(Token, *T) error) error {
	r.check(tok)
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.lookup(id)
	if err != nil {
		return err
	}
	return fn(Token{held: r.rank}, &s.value)
}

// Unregister removes the value under id and returns it. The handle and every
// copy of it become stale.
func (r *Registry[I, T]) Unregister(tok Token, id I) (T, error) {
	r.check(tok)
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	s, err := r.lookup(id)
	if err != nil {
		return zero, err
	}
	index, _ := splitID(id)
	v := r.release(index, s)
	return v, nil
}

// UnregisterFunc removes the value under id if check, run with exclusive
// access, returns nil. Otherwise the value stays and check's error is
// returned.
func (r *Registry[I, T]) UnregisterFunc(tok Token, id I, check func(Token, *T) error) (T, error) {
	r.check(tok)
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	s, err := r.lookup(id)
	if err != nil {
		return zero, err
	}
	if err := check(Token{held: r.rank}, &s.value); err != nil {
		return zero, err
	}
	index, _ := splitID(id)
	return r.release(index, s), nil
}

// release must be called with r.mu held for writing.
func (r *Registry[I, T]) release(index uint32, s *slot[T]) T {
	var zero T
	v := s.value
	s.value = zero
	s.occupied = false
	r.live--
	if s.epoch == math.MaxUint32 {
		// Out of epochs: retire the slot so its handles never alias.
		s.retired = true
		return v
	}
	s.epoch++
	r.free = append(r.free, index)
	return v
}

// Each calls fn for every live entry under a shared lock, in slot order,
// until fn returns false.
func (r *Registry[I, T]) Each(tok Token, fn func(I, *T) bool) {
	r.check(tok)
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.slots {
		s := &r.slots[i]
		if !s.occupied {
			continue
		}
		if !fn(makeID[I](uint32(i), s.epoch), &s.value) {
			return
		}
	}
}

// Drain removes every live entry and returns the values in slot order.
func (r *Registry[I, T]) Drain(tok Token) []T {
	r.check(tok)
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]T, 0, r.live)
	for i := range r.slots {
		s := &r.slots[i]
		if !s.occupied {
			continue
		}
		out = append(out, r.release(uint32(i), s))
	}
	return out
}

// Len returns the number of live entries.
func (r *Registry[I, T]) Len(tok Token) int {
	r.check(tok)
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.live
}

// Registered returns how many values were ever registered. It does not lock.
func (r *Registry[I, T]) Registered() uint64 {
	return r.registered.Load()
}
