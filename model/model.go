package model

import (
	"maps"
	"slices"
)

// Model is the surface a presentation adapter drives. State may only be
// observed between completed steps.
type Model interface {
	Step()
	StepCount() int
	IsRunning() bool
	SetRunning(running bool)
	Snapshot() *Snapshot
	Metrics() Metrics
}

// Metrics holds the named scalar values of one step
type Metrics map[string]float64

// Keys returns the metric names sorted
func (m Metrics) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

// for type check
func _() Model {
	return &VirusModel{}
}

func _() Model {
	return &WealthModel{}
}
