package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayNodes     OverlayID = "nodes"
	OverlayTargets   OverlayID = "targets"
	OverlayPerf      OverlayID = "perf"
	OverlayInspector OverlayID = "inspector"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32  // 0 = no key
	KeyLabel string // e.g. "N"
	Category string // "visual" or "debug"
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the default overlays. The
// inspector starts enabled so clicking a body shows its panel.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{enabled: make(map[OverlayID]bool)}
	reg.Register(OverlayDescriptor{ID: OverlayNodes, Name: "Mesh Nodes", Key: rl.KeyN, KeyLabel: "N", Category: "visual"})
	reg.Register(OverlayDescriptor{ID: OverlayTargets, Name: "Steering Targets", Key: rl.KeyT, KeyLabel: "T", Category: "visual"})
	reg.Register(OverlayDescriptor{ID: OverlayPerf, Name: "Perf", Key: rl.KeyP, KeyLabel: "P", Category: "debug"})
	reg.Register(OverlayDescriptor{ID: OverlayInspector, Name: "Inspector", Key: rl.KeyI, KeyLabel: "I", Category: "debug"})
	reg.enabled[OverlayInspector] = true
	return reg
}

// Register adds an overlay to the registry, disabled.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on or off and returns the new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	if _, ok := r.enabled[id]; ok {
		r.enabled[id] = enabled
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

// HelpText lists the overlay keys, e.g. "[N] Mesh Nodes  [T] ...".
func (r *OverlayRegistry) HelpText() string {
	var s string
	for i, desc := range r.descriptors {
		if desc.Key == 0 {
			continue
		}
		if i > 0 {
			s += "  "
		}
		s += "[" + desc.KeyLabel + "] " + desc.Name
	}
	return s
}
