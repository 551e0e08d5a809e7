package objective

import (
	"time"

	"chronolog/internal/model"
	"chronolog/internal/stopwatch"
)

func init() {
	Register(TypeUnitAccumulation, func() Objective { return UnitAccumulation{} })
	Register(TypeTimeMinimization, func() Objective { return TimeMinimization{Clock: time.Now} })
	Register(TypeSynchronicity, func() Objective { return Synchronicity{} })
}

// UnitAccumulation rewards recorded unit values: the score is the sum of
// every event's unit value. More accumulated distance, reps or whatever the
// unit measures is better.
type UnitAccumulation struct{}

func (UnitAccumulation) Type() Type { return TypeUnitAccumulation }

func (UnitAccumulation) Evaluate(state model.StopwatchState) float64 {
	var total float64
	for _, event := range state.Sequence {
		if event.Unit != nil {
			total += event.Unit.Value
		}
	}
	return total
}

func (o UnitAccumulation) Compare(a, b model.StopwatchState) float64 {
	return o.Evaluate(a) - o.Evaluate(b)
}

// TimeMinimization rewards short active time: the score is the negated
// active duration in seconds, so the faster session wins a comparison.
type TimeMinimization struct {
	Clock stopwatch.Clock
}

func (TimeMinimization) Type() Type { return TypeTimeMinimization }

func (o TimeMinimization) Evaluate(state model.StopwatchState) float64 {
	controller := stopwatch.NewController(state)
	if o.Clock != nil {
		controller.SetClock(o.Clock)
	}
	elapsed := controller.ElapsedBetween("", "")
	if elapsed == stopwatch.DurationUnknown {
		return 0
	}
	return -elapsed.Seconds()
}

func (o TimeMinimization) Compare(a, b model.StopwatchState) float64 {
	return o.Evaluate(a) - o.Evaluate(b)
}

// Synchronicity rewards evenly spaced markers: the score is the negated
// spread between the longest and shortest gap separating consecutive marker
// events. A perfectly regular session scores zero; anything else is
// negative. Fewer than three markers score zero for lack of evidence.
type Synchronicity struct{}

func (Synchronicity) Type() Type { return TypeSynchronicity }

func (Synchronicity) Evaluate(state model.StopwatchState) float64 {
	var marks []time.Time
	for _, event := range state.Sequence {
		if event.Type.Marker() {
			marks = append(marks, event.Timestamp)
		}
	}
	if len(marks) < 3 {
		return 0
	}

	shortest := marks[1].Sub(marks[0])
	longest := shortest
	for i := 2; i < len(marks); i++ {
		gap := marks[i].Sub(marks[i-1])
		if gap < shortest {
			shortest = gap
		}
		if gap > longest {
			longest = gap
		}
	}
	return -(longest - shortest).Seconds()
}

func (o Synchronicity) Compare(a, b model.StopwatchState) float64 {
	return o.Evaluate(a) - o.Evaluate(b)
}
