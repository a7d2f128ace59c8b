// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpuhub

import (
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gpuhub/internal/registry"
)

// Handles. Each is unique within its category for the lifetime of the hub;
// a handle whose object was dropped reports ErrStaleHandle.
type (
	// InstanceID identifies a registered instance.
	InstanceID uint64

	// AdapterID identifies a registered adapter.
	AdapterID uint64

	// DeviceID identifies a registered logical device.
	DeviceID uint64

	// SurfaceID identifies a registered surface.
	SurfaceID uint64
)

// Lock ranks. Categories are always locked in this order.
const (
	rankInstance registry.Rank = iota + 1
	rankAdapter
	rankDevice
	rankSurface
)

type instanceEntry struct {
	raw NativeInstance
}

type adapterEntry struct {
	raw      NativeAdapter
	info     AdapterInfo
	instance InstanceID
	opened   int
}

type deviceEntry struct {
	raw        NativeDevice
	label      string
	queues     QueueGroup
	memory     MemoryProperties
	extensions Extensions

	// adapter does not keep the adapter alive; it may stop resolving.
	adapter AdapterID

	// instance outlives the adapter reference; DropInstance checks it.
	instance InstanceID
}

type surfaceEntry struct {
	raw      NativeSurface
	instance InstanceID
	window   string
}

// Hub owns every GPU object created through it and hands out handles.
//
// A Hub is an ordinary value: create as many as needed (one per GPU context,
// one per test). All methods are safe for concurrent use. Operations that
// touch several categories lock them in the fixed order instance, adapter,
// device, surface, so concurrent callers cannot deadlock.
type Hub struct {
	backend Backend
	opts    options
	closed  atomic.Bool

	instances *registry.Registry[InstanceID, instanceEntry]
	adapters  *registry.Registry[AdapterID, adapterEntry]
	devices   *registry.Registry[DeviceID, deviceEntry]
	surfaces  *registry.Registry[SurfaceID, surfaceEntry]
}

// New creates a hub driving the given backend.
func New(backend Backend, opts ...Option) (*Hub, error) {
	if backend == nil {
		return nil, ErrNoBackend
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Hub{
		backend:   backend,
		opts:      o,
		instances: registry.New[InstanceID, instanceEntry]("instance", rankInstance),
		adapters:  registry.New[AdapterID, adapterEntry]("adapter", rankAdapter),
		devices:   registry.New[DeviceID, deviceEntry]("device", rankDevice),
		surfaces:  registry.New[SurfaceID, surfaceEntry]("surface", rankSurface),
	}, nil
}

// Backend returns the backend the hub drives.
func (h *Hub) Backend() Backend { return h.backend }

func (h *Hub) logger() *slog.Logger {
	if h.opts.logger != nil {
		return h.opts.logger
	}
	return Logger()
}

func (h *Hub) checkOpen() error {
	if h.closed.Load() {
		return ErrClosed
	}
	return nil
}

// Close destroys every object still registered, surfaces first and
// instances last, and rejects further creation calls. Handles issued before
// Close report ErrStaleHandle. Close is idempotent.
func (h *Hub) Close() {
	if h.closed.Swap(true) {
		return
	}
	tok := registry.Root()

	surfaces := h.surfaces.Drain(tok)
	for _, s := range surfaces {
		s.raw.Destroy()
	}
	devices := h.devices.Drain(tok)
	for _, d := range devices {
		d.raw.Destroy()
	}
	adapters := h.adapters.Drain(tok)
	instances := h.instances.Drain(tok)
	for _, i := range instances {
		i.raw.Destroy()
	}

	if n := len(surfaces) + len(devices) + len(adapters); n > 0 {
		h.logger().Warn("gpuhub: close released undropped objects",
			"surfaces", len(surfaces),
			"devices", len(devices),
			"adapters", len(adapters))
	}
	h.logger().Info("gpuhub: closed",
		"backend", h.backend.Name(),
		"surfaces", len(surfaces),
		"devices", len(devices),
		"adapters", len(adapters),
		"instances", len(instances))
}

// CategoryStats counts the handles of one category.
type CategoryStats struct {
	// Live is the number of objects currently registered.
	Live int
	// Registered is the number of objects ever registered.
	Registered uint64
}

// Stats is a snapshot of registry occupancy. Categories are sampled one at
// a time, so concurrent creation may make them mutually inconsistent.
type Stats struct {
	Instances CategoryStats
	Adapters  CategoryStats
	Devices   CategoryStats
	Surfaces  CategoryStats
}

// Stats reports how many handles each category holds.
func (h *Hub) Stats() Stats {
	tok := registry.Root()
	return Stats{
		Instances: CategoryStats{Live: h.instances.Len(tok), Registered: h.instances.Registered()},
		Adapters:  CategoryStats{Live: h.adapters.Len(tok), Registered: h.adapters.Registered()},
		Devices:   CategoryStats{Live: h.devices.Len(tok), Registered: h.devices.Registered()},
		Surfaces:  CategoryStats{Live: h.surfaces.Len(tok), Registered: h.surfaces.Registered()},
	}
}

// register stores v and undoes the registration if the hub was closed
// concurrently, so Close never misses an object.
func register[I ~uint64, T any](h *Hub, tok registry.Token, r *registry.Registry[I, T], v T, destroy func(T)) (I, error) {
	id := r.Register(tok, v)
	if h.closed.Load() {
		// Close may already have drained and destroyed it.
		if v, err := r.Unregister(tok, id); err == nil && destroy != nil {
			destroy(v)
		}
		return 0, ErrClosed
	}
	return id, nil
}
