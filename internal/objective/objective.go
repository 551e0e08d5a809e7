// Package objective defines pluggable scoring strategies over stopwatch
// states. An Objective is a capability, not a base class: concrete
// strategies register themselves by type tag so the persistence layer can
// round-trip a configured objective by name alone.
package objective

import (
	"fmt"
	"sort"

	"chronolog/internal/model"
)

// Type tags a concrete strategy for serialization.
type Type string

const (
	TypeUnitAccumulation Type = "unit-accumulation"
	TypeTimeMinimization Type = "time-minimization"
	TypeSynchronicity    Type = "synchronicity"
)

// Objective scores and compares stopwatch states. Higher scores are better;
// Compare is positive when a beats b and zero on a tie.
type Objective interface {
	Type() Type
	Evaluate(state model.StopwatchState) float64
	Compare(a, b model.StopwatchState) float64
}

// Factory builds a strategy with its default dependencies.
type Factory func() Objective

var registry = map[Type]Factory{}

// Register binds a factory to a type tag, replacing any previous binding.
func Register(t Type, factory Factory) {
	registry[t] = factory
}

// New builds the strategy registered under the given tag.
func New(t Type) (Objective, error) {
	factory, ok := registry[t]
	if !ok {
		return nil, fmt.Errorf("unknown objective type %q", t)
	}
	return factory(), nil
}

// Types lists the registered tags in stable order.
func Types() []Type {
	types := make([]Type, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
