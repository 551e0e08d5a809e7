package stopwatch

import (
	"math/rand"
	"testing"
	"time"

	"chronolog/internal/model"
)

func TestTotalDurationIncludesPauses(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base.Add(time.Hour))
	mustStart(t, controller, base)
	mustStop(t, controller, base.Add(10*time.Second))
	mustResume(t, controller, base.Add(20*time.Second))
	mustStop(t, controller, base.Add(30*time.Second))

	if got := controller.TotalDuration(); got != 30*time.Second {
		t.Fatalf("total duration = %v, want 30s", got)
	}
}

func TestTotalDurationWithoutStart(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base)
	if got := controller.TotalDuration(); got != 0 {
		t.Fatalf("total duration on empty sequence = %v, want 0", got)
	}

	controller.AddEvent(model.EventSplit, "Split", base, "", nil)
	if got := controller.TotalDuration(); got != 0 {
		t.Fatalf("total duration with no start = %v, want 0", got)
	}
}

func TestElapsedExcludesPauses(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base.Add(time.Hour))
	mustStart(t, controller, base)
	mustStop(t, controller, base.Add(10*time.Second))
	mustResume(t, controller, base.Add(20*time.Second))
	mustStop(t, controller, base.Add(30*time.Second))

	if got := controller.ElapsedBetween("", ""); got != 20*time.Second {
		t.Fatalf("active elapsed = %v, want 20s", got)
	}
	if got := controller.TotalDuration(); got != 30*time.Second {
		t.Fatalf("total = %v, want 30s", got)
	}
}

func TestElapsedResolvesNowWhileRunning(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base.Add(5*time.Second))
	mustStart(t, controller, base)

	if got := controller.ElapsedBetween("", ""); got != 5*time.Second {
		t.Fatalf("elapsed while running = %v, want 5s", got)
	}
}

func TestElapsedMissingEventSentinel(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base)
	mustStart(t, controller, base)

	if got := controller.ElapsedBetween("nonexistent-id", ""); got != DurationUnknown {
		t.Fatalf("missing start id: got %v, want sentinel", got)
	}
	if got := controller.ElapsedBetween("", "nonexistent-id"); got != DurationUnknown {
		t.Fatalf("missing end id: got %v, want sentinel", got)
	}
}

func TestElapsedInvertedRangeSentinel(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base)
	start, _ := controller.Start(base)
	split := controller.AddEvent(model.EventSplit, "Split", base.Add(time.Second), "", nil)

	if got := controller.ElapsedBetween(split.ID, start.ID); got != DurationUnknown {
		t.Fatalf("inverted range: got %v, want sentinel", got)
	}
}

func TestElapsedScenarioWithSplits(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base.Add(time.Hour))
	mustStart(t, controller, base)
	controller.AddEvent(model.EventSplit, "Split", base.Add(3*time.Second), "", nil)
	mustStop(t, controller, base.Add(5*time.Second))
	mustResume(t, controller, base.Add(8*time.Second))
	controller.AddEvent(model.EventSplit, "Split", base.Add(9*time.Second), "", nil)
	mustStop(t, controller, base.Add(12*time.Second))

	// active: (5-0) + (12-8) = 9s; wall total: 12s
	if got := controller.ElapsedBetween("", ""); got != 9*time.Second {
		t.Fatalf("active elapsed = %v, want 9s", got)
	}
	if got := controller.TotalDuration(); got != 12*time.Second {
		t.Fatalf("total = %v, want 12s", got)
	}
}

func TestElapsedBetweenNamedEvents(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base.Add(12*time.Second))
	mustStart(t, controller, base)
	first := controller.AddEvent(model.EventSplit, "Split 1", base.Add(2*time.Second), "", nil)
	mustStop(t, controller, base.Add(5*time.Second))
	mustResume(t, controller, base.Add(8*time.Second))
	second := controller.AddEvent(model.EventSplit, "Split 2", base.Add(9*time.Second), "", nil)

	// (5-2) while the first interval lasts, then (now-8) because the end
	// resolves to "now" when it names the last event of a running watch
	if got := controller.ElapsedBetween(first.ID, second.ID); got != 7*time.Second {
		t.Fatalf("elapsed between splits = %v, want 7s", got)
	}

	// once stopped, the named end resolves to its own timestamp
	mustStop(t, controller, base.Add(12*time.Second))
	if got := controller.ElapsedBetween(first.ID, second.ID); got != 4*time.Second {
		t.Fatalf("elapsed between splits after stop = %v, want 4s", got)
	}
}

func TestDurationBetweenIgnoresRunState(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base.Add(time.Hour))
	start, _ := controller.Start(base)
	mustStop(t, controller, base.Add(5*time.Second))
	resume, _ := controller.Resume(base.Add(8 * time.Second))

	if got := controller.DurationBetween(start.ID, resume.ID); got != 8*time.Second {
		t.Fatalf("raw duration = %v, want 8s", got)
	}
	if got := controller.DurationBetween(start.ID, "missing"); got != DurationUnknown {
		t.Fatalf("missing id: got %v, want sentinel", got)
	}
}

func TestRunningIntervals(t *testing.T) {
	controller := newTestController(model.StopwatchState{}, base.Add(time.Hour))
	mustStart(t, controller, base)                                               // 0
	controller.AddEvent(model.EventSplit, "Split", base.Add(time.Second), "", nil) // 1
	mustStop(t, controller, base.Add(2*time.Second))                             // 2
	mustResume(t, controller, base.Add(3*time.Second))                           // 3
	controller.AddEvent(model.EventLap, "Lap", base.Add(4*time.Second), "", nil) // 4

	intervals := controller.RunningIntervals()
	want := []RunningInterval{{Start: 0, End: 2}, {Start: 3, End: 4}}
	if len(intervals) != len(want) {
		t.Fatalf("got %d intervals, want %d", len(intervals), len(want))
	}
	for i := range want {
		if intervals[i] != want[i] {
			t.Fatalf("interval %d = %+v, want %+v", i, intervals[i], want[i])
		}
	}
}

// TestFastPathMatchesGeneralPath drives both calculations over randomly
// generated sequences and endpoint pairs. The fast path is an optimization
// only; any divergence from the interval-merge path is a bug.
func TestFastPathMatchesGeneralPath(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for run := 0; run < 200; run++ {
		now := base.Add(time.Duration(200+rng.Intn(400)) * time.Second)
		controller := newTestController(model.StopwatchState{}, now)

		at := base
		for step := 0; step < 3+rng.Intn(20); step++ {
			at = at.Add(time.Duration(1+rng.Intn(9)) * time.Second)
			switch rng.Intn(4) {
			case 0:
				if !controller.IsRunning() {
					mustStart(t, controller, at)
				}
			case 1:
				if controller.IsRunning() {
					mustStop(t, controller, at)
				}
			case 2:
				if _, err := controller.Resume(at); err != nil {
					// resume is only sometimes legal; skip quietly
					continue
				}
			default:
				markers := []model.EventType{model.EventSplit, model.EventLap, model.EventLatency}
				controller.AddEvent(markers[rng.Intn(len(markers))], "Marker", at, "", nil)
			}
		}

		events := controller.Events()
		if len(events) == 0 {
			continue
		}

		pickID := func() string {
			if rng.Intn(3) == 0 {
				return ""
			}
			return events[rng.Intn(len(events))].ID
		}

		for trial := 0; trial < 20; trial++ {
			startID := pickID()
			endID := pickID()
			fast := controller.elapsedBetween(startID, endID, true)
			general := controller.elapsedBetween(startID, endID, false)
			if fast != general {
				t.Fatalf("run %d: paths diverge for (%q, %q): fast=%v general=%v events=%+v",
					run, startID, endID, fast, general, events)
			}
		}
	}
}
