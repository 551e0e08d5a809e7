package stopwatch

import (
	"fmt"
	"testing"
	"time"

	"chronolog/internal/model"
)

var base = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestController(state model.StopwatchState, now time.Time) *Controller {
	controller := NewController(state)
	controller.SetClock(func() time.Time { return now })
	next := 0
	controller.SetIDGenerator(func() string {
		next++
		return fmt.Sprintf("evt-%d", next)
	})
	return controller
}

func mustStart(t *testing.T, c *Controller, at time.Time) {
	t.Helper()
	if _, err := c.Start(at); err != nil {
		t.Fatalf("start: %v", err)
	}
}

func mustStop(t *testing.T, c *Controller, at time.Time) {
	t.Helper()
	if _, err := c.Stop(at); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func mustResume(t *testing.T, c *Controller, at time.Time) {
	t.Helper()
	if _, err := c.Resume(at); err != nil {
		t.Fatalf("resume: %v", err)
	}
}

func TestStartStopResumeCycle(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base)

	if controller.IsRunning() {
		t.Fatal("empty controller should not be running")
	}
	if controller.IsActive() {
		t.Fatal("empty controller should not be active")
	}

	mustStart(t, controller, base)
	if !controller.IsRunning() || !controller.IsActive() {
		t.Fatal("expected running and active after start")
	}

	mustStop(t, controller, base.Add(10*time.Second))
	if controller.IsRunning() {
		t.Fatal("expected not running after stop")
	}
	if !controller.IsActive() {
		t.Fatal("expected active while paused")
	}

	mustResume(t, controller, base.Add(20*time.Second))
	if !controller.IsRunning() {
		t.Fatal("expected running after resume")
	}
}

func TestStartWhileRunning(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base)
	mustStart(t, controller, base)

	before := controller.State()
	if _, err := controller.Start(base.Add(time.Second)); err != ErrAlreadyRunning {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	if got := len(controller.State().Sequence); got != len(before.Sequence) {
		t.Fatalf("rejected start mutated sequence: %d events", got)
	}
}

func TestStopWhileNotRunning(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base)
	if _, err := controller.Stop(base); err != ErrNotRunning {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}

	mustStart(t, controller, base)
	mustStop(t, controller, base.Add(time.Second))
	if _, err := controller.Stop(base.Add(2 * time.Second)); err != ErrNotRunning {
		t.Fatalf("expected ErrNotRunning on second stop, got %v", err)
	}
}

func TestStartAgainAfterStop(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base)
	mustStart(t, controller, base)
	mustStop(t, controller, base.Add(time.Second))
	mustStart(t, controller, base.Add(2*time.Second))
	if !controller.IsRunning() {
		t.Fatal("expected running after second start")
	}
}

func TestResumeValidation(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base)

	if _, err := controller.Resume(base); err != ErrNeverStarted {
		t.Fatalf("resume on empty sequence: expected ErrNeverStarted, got %v", err)
	}

	controller.AddEvent(model.EventSplit, "Split", base, "", nil)
	if _, err := controller.Resume(base); err != ErrNeverStarted {
		t.Fatalf("resume with no start ever: expected ErrNeverStarted, got %v", err)
	}

	controller.Reset()
	mustStart(t, controller, base)
	if _, err := controller.Resume(base.Add(time.Second)); err != ErrAlreadyRunning {
		t.Fatalf("resume right after start: expected ErrAlreadyRunning, got %v", err)
	}

	controller.AddEvent(model.EventSplit, "Split", base.Add(2*time.Second), "", nil)
	if _, err := controller.Resume(base.Add(3 * time.Second)); err != ErrInvalidResumeSource {
		t.Fatalf("resume after trailing split: expected ErrInvalidResumeSource, got %v", err)
	}

	mustStop(t, controller, base.Add(4*time.Second))
	mustResume(t, controller, base.Add(5*time.Second))
}

func TestMarkersDoNotPause(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base)
	mustStart(t, controller, base)
	controller.AddEvent(model.EventSplit, "Split", base.Add(3*time.Second), "", nil)

	if !controller.IsRunning() {
		t.Fatal("trailing split must not pause the stopwatch")
	}
	// and stop still succeeds, gated on the last operational event
	mustStop(t, controller, base.Add(5*time.Second))
}

func TestResetClearsEverything(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base)
	mustStart(t, controller, base)
	controller.AddEvent(model.EventLap, "Lap 1", base.Add(time.Second), "", &model.UnitValue{Value: 400, Unit: "m"})
	mustStop(t, controller, base.Add(2*time.Second))

	controller.Reset()
	if got := len(controller.State().Sequence); got != 0 {
		t.Fatalf("expected empty sequence after reset, got %d events", got)
	}
	if controller.IsActive() {
		t.Fatal("expected inactive after reset")
	}

	// reset is idempotent
	controller.Reset()
	if got := len(controller.State().Sequence); got != 0 {
		t.Fatalf("expected empty sequence after second reset, got %d events", got)
	}
}

func TestAddEventAssignsIDAndMetadata(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base)
	event := controller.AddEvent(model.EventLap, "Lap 1", base.Add(time.Minute), "first lap", &model.UnitValue{Value: 400, Unit: "m"})

	if event.ID == "" {
		t.Fatal("expected generated id")
	}
	if event.Metadata.CreatedAt.IsZero() || event.Metadata.UpdatedAt.IsZero() {
		t.Fatal("expected creation metadata")
	}
	if event.Unit == nil || event.Unit.Value != 400 {
		t.Fatalf("unexpected unit: %+v", event.Unit)
	}
	if !event.Timestamp.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected timestamp: %v", event.Timestamp)
	}
}

func TestRemoveEventByID(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base)
	mustStart(t, controller, base)
	split := controller.AddEvent(model.EventSplit, "Split", base.Add(time.Second), "", nil)
	mustStop(t, controller, base.Add(2*time.Second))

	// a stale copy with the same id still identifies the event
	staleID := split.ID
	if !controller.RemoveEvent(staleID) {
		t.Fatal("expected removal by id")
	}
	if controller.RemoveEvent(staleID) {
		t.Fatal("second removal should report false")
	}
	if got := len(controller.State().Sequence); got != 2 {
		t.Fatalf("expected 2 events after removal, got %d", got)
	}
	if controller.RemoveEvent("no-such-id") {
		t.Fatal("unknown id should report false")
	}
}

func TestEventFilters(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base)
	mustStart(t, controller, base)
	controller.AddEvent(model.EventSplit, "Split 1", base.Add(time.Second), "", nil)
	controller.AddEvent(model.EventLap, "Lap 1", base.Add(2*time.Second), "", nil)
	controller.AddEvent(model.EventSplit, "Split 2", base.Add(3*time.Second), "", nil)

	splits := controller.Events(model.EventSplit)
	if len(splits) != 2 {
		t.Fatalf("expected 2 splits, got %d", len(splits))
	}

	last, ok := controller.LastEvent(model.EventSplit)
	if !ok || last.Title != "Split 2" {
		t.Fatalf("unexpected last split: %+v ok=%v", last, ok)
	}

	if _, ok := controller.LastEvent(model.EventStop); ok {
		t.Fatal("expected no stop event yet")
	}

	all := controller.Events()
	if len(all) != 4 {
		t.Fatalf("expected 4 events, got %d", len(all))
	}
}

func TestStateIsDefensiveCopy(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base)
	mustStart(t, controller, base)
	controller.AddEvent(model.EventLap, "Lap 1", base.Add(time.Second), "", &model.UnitValue{Value: 400, Unit: "m"})

	snapshot := controller.State()
	snapshot.Sequence[0].Title = "tampered"
	snapshot.Sequence[1].Unit.Value = -1
	snapshot.Sequence = snapshot.Sequence[:0]

	current := controller.State()
	if len(current.Sequence) != 2 {
		t.Fatalf("internal sequence changed: %d events", len(current.Sequence))
	}
	if current.Sequence[0].Title == "tampered" {
		t.Fatal("event title mutated through snapshot")
	}
	if current.Sequence[1].Unit.Value != 400 {
		t.Fatal("unit value mutated through snapshot")
	}
}

func TestConstructorCopiesInputState(t *testing.T) {
	seed := model.StopwatchState{
		Sequence: []model.Event{
			{ID: "a", Type: model.EventStart, Title: "Start", Timestamp: base},
		},
	}
	controller := newTestController(seed, base)

	seed.Sequence[0].Title = "tampered"
	if controller.State().Sequence[0].Title == "tampered" {
		t.Fatal("controller aliases caller-owned state")
	}
}
