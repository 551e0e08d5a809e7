package stopwatch

import (
	"time"

	"github.com/google/uuid"

	"chronolog/internal/model"
)

// Clock supplies the current instant. Injected so that tests and replay
// tooling can pin "now".
type Clock func() time.Time

// IDGenerator supplies unique event ids.
type IDGenerator func() string

// Controller owns exactly one StopwatchState and enforces the
// start/stop/resume state machine over its append-only event sequence.
// It performs no I/O and holds no locks; concurrent callers must serialize
// access themselves.
type Controller struct {
	state model.StopwatchState
	clock Clock
	newID IDGenerator
}

// NewController wraps a previously persisted state. The state is deep-copied
// on the way in; the caller's copy stays untouched by later operations.
func NewController(state model.StopwatchState) *Controller {
	return &Controller{
		state: state.Clone(),
		clock: time.Now,
		newID: uuid.NewString,
	}
}

// SetClock injects a clock.
func (c *Controller) SetClock(clock Clock) {
	if clock != nil {
		c.clock = clock
	}
}

// SetIDGenerator injects an id generator.
func (c *Controller) SetIDGenerator(generator IDGenerator) {
	if generator != nil {
		c.newID = generator
	}
}

// Start appends a start event. Legal only when not running.
func (c *Controller) Start(at time.Time) (model.Event, error) {
	if c.IsRunning() {
		return model.Event{}, ErrAlreadyRunning
	}
	return c.append(model.EventStart, "Start", "", at, nil), nil
}

// Stop appends a stop event. Legal only when running.
func (c *Controller) Stop(at time.Time) (model.Event, error) {
	if !c.IsRunning() {
		return model.Event{}, ErrNotRunning
	}
	return c.append(model.EventStop, "Stop", "", at, nil), nil
}

// Resume appends a resume event. Legal only when the sequence is non-empty,
// a start has occurred, and the last event is exactly a stop. A sequence
// ending on a marker rejects with ErrInvalidResumeSource even though the
// stopwatch counts as running, so the caller learns which event is in the
// way rather than getting a generic running error.
func (c *Controller) Resume(at time.Time) (model.Event, error) {
	if len(c.state.Sequence) == 0 {
		return model.Event{}, ErrNeverStarted
	}
	last := c.state.Sequence[len(c.state.Sequence)-1]
	if last.Type == model.EventStart || last.Type == model.EventResume {
		return model.Event{}, ErrAlreadyRunning
	}
	if !c.IsActive() {
		return model.Event{}, ErrNeverStarted
	}
	if last.Type != model.EventStop {
		return model.Event{}, ErrInvalidResumeSource
	}
	return c.append(model.EventResume, "Resume", "", at, nil), nil
}

// Reset unconditionally clears the sequence.
func (c *Controller) Reset() {
	c.state.Sequence = []model.Event{}
}

// AddEvent appends an event of any type with a fresh id and creation
// metadata. Run-state legality is not checked here: only the operational
// transitions above are gated, and callers decide whether, say, a split
// while stopped makes sense.
func (c *Controller) AddEvent(eventType model.EventType, title string, at time.Time, description string, unit *model.UnitValue) model.Event {
	return c.append(eventType, title, description, at, unit)
}

// RemoveEvent removes the event with the given id. It reports whether an
// event was removed. Lookup is strictly by id equality, so callers holding
// stale copies of an event can still remove it.
func (c *Controller) RemoveEvent(id string) bool {
	index := c.indexOf(id)
	if index < 0 {
		return false
	}
	next := make([]model.Event, 0, len(c.state.Sequence)-1)
	next = append(next, c.state.Sequence[:index]...)
	next = append(next, c.state.Sequence[index+1:]...)
	c.state.Sequence = next
	return true
}

// IsRunning reports whether the stopwatch is currently counting: the most
// recent operational event is a start or resume. Trailing markers do not
// pause the stopwatch.
func (c *Controller) IsRunning() bool {
	for i := len(c.state.Sequence) - 1; i >= 0; i-- {
		if c.state.Sequence[i].Type.Operational() {
			return c.state.Sequence[i].Type != model.EventStop
		}
	}
	return false
}

// IsActive reports whether the stopwatch has ever been started. It stays
// true while paused; only Reset clears it.
func (c *Controller) IsActive() bool {
	for _, event := range c.state.Sequence {
		if event.Type == model.EventStart {
			return true
		}
	}
	return false
}

// Events returns copies of the recorded events, optionally filtered by type.
func (c *Controller) Events(types ...model.EventType) []model.Event {
	events := make([]model.Event, 0, len(c.state.Sequence))
	for _, event := range c.state.Sequence {
		if len(types) == 0 || containsType(types, event.Type) {
			events = append(events, event.Clone())
		}
	}
	return events
}

// LastEvent returns a copy of the most recent event, optionally restricted
// to the given types.
func (c *Controller) LastEvent(types ...model.EventType) (model.Event, bool) {
	for i := len(c.state.Sequence) - 1; i >= 0; i-- {
		event := c.state.Sequence[i]
		if len(types) == 0 || containsType(types, event.Type) {
			return event.Clone(), true
		}
	}
	return model.Event{}, false
}

// HasEvent reports whether an event with the given id exists.
func (c *Controller) HasEvent(id string) bool {
	return c.indexOf(id) >= 0
}

// State returns a deep copy of the current state. Mutating the returned
// value never affects the controller.
func (c *Controller) State() model.StopwatchState {
	return c.state.Clone()
}

func (c *Controller) append(eventType model.EventType, title, description string, at time.Time, unit *model.UnitValue) model.Event {
	now := c.clock().UTC()
	event := model.Event{
		ID:          c.newID(),
		Type:        eventType,
		Title:       title,
		Description: description,
		Timestamp:   at,
		Metadata:    model.Metadata{CreatedAt: now, UpdatedAt: now},
	}
	if unit != nil {
		value := *unit
		event.Unit = &value
	}

	// Replace rather than grow in place, so snapshots handed out earlier
	// never observe the mutation.
	next := make([]model.Event, 0, len(c.state.Sequence)+1)
	next = append(next, c.state.Sequence...)
	next = append(next, event)
	c.state.Sequence = next

	return event.Clone()
}

func (c *Controller) indexOf(id string) int {
	for i, event := range c.state.Sequence {
		if event.ID == id {
			return i
		}
	}
	return -1
}

func containsType(types []model.EventType, t model.EventType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
