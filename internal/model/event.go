package model

import "time"

// EventType identifies the kind of a recorded stopwatch event. The set is
// closed: operational types drive the run/pause state machine, marker types
// record points of interest without changing run state, and the remaining
// groups are informational tags attached by external analysis.
type EventType string

const (
	EventStart  EventType = "start"
	EventStop   EventType = "stop"
	EventResume EventType = "resume"

	EventSplit     EventType = "split"
	EventLap       EventType = "lap"
	EventLatency   EventType = "latency"
	EventCapacity  EventType = "capacity"
	EventThreshold EventType = "threshold"

	EventDrift  EventType = "drift"
	EventJitter EventType = "jitter"

	EventMilestone EventType = "milestone"
	EventSetback   EventType = "setback"

	EventForecast EventType = "forecast"
	EventTrend    EventType = "trend"
)

// Operational reports whether the type participates in run/pause gating.
func (t EventType) Operational() bool {
	return t == EventStart || t == EventStop || t == EventResume
}

// Marker reports whether the type is a recorded point that leaves the run
// state untouched.
func (t EventType) Marker() bool {
	switch t {
	case EventSplit, EventLap, EventLatency, EventCapacity, EventThreshold:
		return true
	}
	return false
}

// Valid reports whether the type belongs to the closed set.
func (t EventType) Valid() bool {
	switch t {
	case EventStart, EventStop, EventResume,
		EventSplit, EventLap, EventLatency, EventCapacity, EventThreshold,
		EventDrift, EventJitter,
		EventMilestone, EventSetback,
		EventForecast, EventTrend:
		return true
	}
	return false
}

// UnitValue is an optional numeric measurement attached to an event, for
// example a lap distance.
type UnitValue struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Metadata carries the audit trail of an event. It is never consulted by
// elapsed-time math.
type Metadata struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Event is one atomic occurrence in a timing session. Events are ordered by
// insertion, not necessarily by wall-clock timestamp.
type Event struct {
	ID          string     `json:"id"`
	Type        EventType  `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
	Unit        *UnitValue `json:"unit,omitempty"`
	Metadata    Metadata   `json:"metadata"`
}

// Clone returns a deep copy of the event.
func (e Event) Clone() Event {
	clone := e
	if e.Unit != nil {
		unit := *e.Unit
		clone.Unit = &unit
	}
	return clone
}

// StopwatchState is the sole durable representation of a timing session:
// the append-only event sequence plus an optional lap unit configuration.
type StopwatchState struct {
	Sequence []Event    `json:"sequence"`
	Lap      *UnitValue `json:"lap,omitempty"`
}

// Clone returns a deep copy of the state.
func (s StopwatchState) Clone() StopwatchState {
	clone := StopwatchState{}
	if s.Lap != nil {
		lap := *s.Lap
		clone.Lap = &lap
	}
	if s.Sequence != nil {
		clone.Sequence = make([]Event, len(s.Sequence))
		for i, event := range s.Sequence {
			clone.Sequence[i] = event.Clone()
		}
	}
	return clone
}
