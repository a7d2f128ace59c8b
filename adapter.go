// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpuhub

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gpuhub/internal/registry"
)

// PowerPreference guides adapter selection. Values are part of the C ABI.
type PowerPreference int32

const (
	// PowerPreferenceDefault behaves like PowerPreferenceHighPerformance.
	PowerPreferenceDefault PowerPreference = 0

	// PowerPreferenceLowPower prefers integrated GPUs.
	PowerPreferenceLowPower PowerPreference = 1

	// PowerPreferenceHighPerformance prefers discrete GPUs.
	PowerPreferenceHighPerformance PowerPreference = 2
)

func (p PowerPreference) String() string {
	switch p {
	case PowerPreferenceDefault:
		return "default"
	case PowerPreferenceLowPower:
		return "low-power"
	case PowerPreferenceHighPerformance:
		return "high-performance"
	default:
		return fmt.Sprintf("PowerPreference(%d)", int32(p))
	}
}

// ParsePowerPreference accepts "default", "low", "low-power", "high" and
// "high-performance", case-insensitively.
func ParsePowerPreference(s string) (PowerPreference, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return PowerPreferenceDefault, nil
	case "low", "low-power", "lowpower":
		return PowerPreferenceLowPower, nil
	case "high", "high-performance", "highperformance":
		return PowerPreferenceHighPerformance, nil
	}
	return 0, fmt.Errorf("%w: unknown power preference %q", ErrInvalidArgument, s)
}

// AdapterDescriptor describes the adapter wanted from GetAdapter.
type AdapterDescriptor struct {
	PowerPreference PowerPreference
}

// adapterClass is the selection bucket of an adapter.
type adapterClass uint8

const (
	classLow   adapterClass = iota // integrated
	classHigh                      // discrete
	classOther                     // virtual, software, unknown
)

func classify(t gputypes.DeviceType) adapterClass {
	switch t {
	case gputypes.DeviceTypeIntegratedGPU:
		return classLow
	case gputypes.DeviceTypeDiscreteGPU:
		return classHigh
	default:
		return classOther
	}
}

// selectAdapter picks an adapter index for the preference, or -1 if
// adapters is empty.
//
// Adapters are sorted into three buckets by device type. Each bucket keeps
// the LAST adapter of its type in enumeration order. LowPower then picks
// integrated, else discrete, else other; HighPerformance and Default pick
// discrete, else integrated, else other.
func selectAdapter(adapters []ExposedAdapter, pref PowerPreference) int {
	buckets := [3]int{-1, -1, -1}
	for i := range adapters {
		buckets[classify(adapters[i].Info.DeviceType)] = i
	}

	order := [3]adapterClass{classHigh, classLow, classOther}
	if pref == PowerPreferenceLowPower {
		order = [3]adapterClass{classLow, classHigh, classOther}
	}
	for _, c := range order {
		if buckets[c] >= 0 {
			return buckets[c]
		}
	}
	return -1
}

// GetAdapter enumerates the instance's adapters, selects one for the power
// preference and registers it. A nil descriptor selects with
// PowerPreferenceDefault. Each call registers a new adapter handle.
func (h *Hub) GetAdapter(instance InstanceID, desc *AdapterDescriptor) (AdapterID, error) {
	if err := h.checkOpen(); err != nil {
		return 0, err
	}
	pref := PowerPreferenceDefault
	if desc != nil {
		pref = desc.PowerPreference
	}
	if pref < PowerPreferenceDefault || pref > PowerPreferenceHighPerformance {
		return 0, fmt.Errorf("%w: power preference %d", ErrInvalidArgument, int32(pref))
	}

	var id AdapterID
	err := h.instances.Read(registry.Root(), instance, func(tok registry.Token, inst *instanceEntry) error {
		exposed := inst.raw.EnumerateAdapters()
		h.logger().Debug("gpuhub: adapters enumerated", "instance", instance, "count", len(exposed))

		i := selectAdapter(exposed, pref)
		if i < 0 {
			return fmt.Errorf("%w: %s backend enumerated no adapters", ErrNoAdapterAvailable, h.backend.Name())
		}
		chosen := exposed[i]

		var err error
		id, err = register(h, tok, h.adapters, adapterEntry{
			raw:      chosen.Adapter,
			info:     chosen.Info,
			instance: instance,
		}, nil)
		if err != nil {
			return err
		}
		h.logger().Info("gpuhub: adapter selected",
			"adapter", chosen.Info.Name,
			"type", chosen.Info.DeviceType,
			"preference", pref,
			"handle", id)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// EnumerateAdapters describes every adapter the instance can see without
// registering any of them.
func (h *Hub) EnumerateAdapters(instance InstanceID) ([]AdapterInfo, error) {
	var infos []AdapterInfo
	err := h.instances.Read(registry.Root(), instance, func(_ registry.Token, inst *instanceEntry) error {
		exposed := inst.raw.EnumerateAdapters()
		infos = make([]AdapterInfo, len(exposed))
		for i := range exposed {
			infos[i] = exposed[i].Info
		}
		return nil
	})
	return infos, err
}

// AdapterInfo describes a registered adapter.
func (h *Hub) AdapterInfo(id AdapterID) (AdapterInfo, error) {
	var info AdapterInfo
	err := h.adapters.Read(registry.Root(), id, func(_ registry.Token, a *adapterEntry) error {
		info = a.info
		return nil
	})
	return info, err
}

// DropAdapter removes an adapter from the hub. Devices opened from it stay
// valid; their DeviceAdapter lookups start failing with ErrStaleHandle.
func (h *Hub) DropAdapter(id AdapterID) error {
	_, err := h.adapters.Unregister(registry.Root(), id)
	return err
}
