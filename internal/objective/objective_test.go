package objective_test

import (
	"testing"
	"time"

	"chronolog/internal/model"
	"chronolog/internal/objective"
)

var base = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func event(id string, t model.EventType, at time.Time, unit *model.UnitValue) model.Event {
	return model.Event{ID: id, Type: t, Title: string(t), Timestamp: at, Unit: unit}
}

func stoppedSession(activeSeconds int) model.StopwatchState {
	return model.StopwatchState{Sequence: []model.Event{
		event("a", model.EventStart, base, nil),
		event("b", model.EventStop, base.Add(time.Duration(activeSeconds)*time.Second), nil),
	}}
}

func TestRegistryRoundTrip(t *testing.T) {
	for _, tag := range objective.Types() {
		strategy, err := objective.New(tag)
		if err != nil {
			t.Fatalf("new %q: %v", tag, err)
		}
		if strategy.Type() != tag {
			t.Fatalf("strategy %q reports type %q", tag, strategy.Type())
		}
	}

	if _, err := objective.New("no-such-objective"); err == nil {
		t.Fatal("expected error for unknown tag")
	}
}

func TestUnitAccumulation(t *testing.T) {
	state := model.StopwatchState{Sequence: []model.Event{
		event("a", model.EventStart, base, nil),
		event("b", model.EventLap, base.Add(time.Minute), &model.UnitValue{Value: 400, Unit: "m"}),
		event("c", model.EventLap, base.Add(2*time.Minute), &model.UnitValue{Value: 400, Unit: "m"}),
		event("d", model.EventStop, base.Add(3*time.Minute), nil),
	}}

	strategy := objective.UnitAccumulation{}
	if got := strategy.Evaluate(state); got != 800 {
		t.Fatalf("score = %v, want 800", got)
	}

	short := model.StopwatchState{Sequence: []model.Event{
		event("a", model.EventStart, base, nil),
		event("b", model.EventLap, base.Add(time.Minute), &model.UnitValue{Value: 400, Unit: "m"}),
	}}
	if got := strategy.Compare(state, short); got <= 0 {
		t.Fatalf("expected the longer session to win, compare = %v", got)
	}
}

func TestTimeMinimization(t *testing.T) {
	strategy := objective.TimeMinimization{Clock: func() time.Time { return base.Add(time.Hour) }}

	fast := stoppedSession(30)
	slow := stoppedSession(90)

	if got := strategy.Evaluate(fast); got != -30 {
		t.Fatalf("score = %v, want -30", got)
	}
	if got := strategy.Compare(fast, slow); got <= 0 {
		t.Fatalf("expected the faster session to win, compare = %v", got)
	}
	if got := strategy.Compare(fast, fast); got != 0 {
		t.Fatalf("expected tie, compare = %v", got)
	}
}

func TestSynchronicity(t *testing.T) {
	regular := model.StopwatchState{Sequence: []model.Event{
		event("a", model.EventStart, base, nil),
		event("b", model.EventSplit, base.Add(10*time.Second), nil),
		event("c", model.EventSplit, base.Add(20*time.Second), nil),
		event("d", model.EventSplit, base.Add(30*time.Second), nil),
	}}
	ragged := model.StopwatchState{Sequence: []model.Event{
		event("a", model.EventStart, base, nil),
		event("b", model.EventSplit, base.Add(5*time.Second), nil),
		event("c", model.EventSplit, base.Add(25*time.Second), nil),
		event("d", model.EventSplit, base.Add(30*time.Second), nil),
	}}

	strategy := objective.Synchronicity{}
	if got := strategy.Evaluate(regular); got != 0 {
		t.Fatalf("evenly spaced splits should score 0, got %v", got)
	}
	if got := strategy.Evaluate(ragged); got >= 0 {
		t.Fatalf("ragged splits should score negative, got %v", got)
	}
	if got := strategy.Compare(regular, ragged); got <= 0 {
		t.Fatalf("expected the regular session to win, compare = %v", got)
	}

	sparse := model.StopwatchState{Sequence: []model.Event{
		event("a", model.EventStart, base, nil),
		event("b", model.EventSplit, base.Add(10*time.Second), nil),
	}}
	if got := strategy.Evaluate(sparse); got != 0 {
		t.Fatalf("too few markers should score 0, got %v", got)
	}
}
