package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "chronolog/internal/errors"
	"chronolog/internal/model"
	"chronolog/internal/objective"
	"chronolog/internal/repository"
	"chronolog/internal/stopwatch"
)

// StopwatchService orchestrates the stopwatch controller against storage.
// It loads a persisted sequence, rebuilds a controller around it, applies
// one command or query, then persists the resulting sequence. The
// controller itself never touches storage.
type StopwatchService struct {
	repo  *repository.StopwatchRepository
	clock stopwatch.Clock
}

func NewStopwatchService(repo *repository.StopwatchRepository) *StopwatchService {
	return &StopwatchService{repo: repo, clock: time.Now}
}

// SetClock pins "now" for deterministic tests.
func (s *StopwatchService) SetClock(clock stopwatch.Clock) {
	if clock != nil {
		s.clock = clock
	}
}

// StopwatchView is the state returned to callers after every operation.
type StopwatchView struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	Lap                  *model.UnitValue `json:"lap,omitempty"`
	Running              bool             `json:"running"`
	Active               bool             `json:"active"`
	Sequence             []model.Event    `json:"sequence"`
	TotalDurationMillis  int64            `json:"totalDurationMillis"`
	ActiveDurationMillis int64            `json:"activeDurationMillis"`
	CreatedAt            time.Time        `json:"createdAt"`
	UpdatedAt            time.Time        `json:"updatedAt"`
	ServerTime           time.Time        `json:"serverTime"`
}

type CreateStopwatchInput struct {
	Name string
	Lap  *model.UnitValue
}

type AddEventInput struct {
	Type        model.EventType
	Title       string
	Description string
	At          time.Time
	Unit        *model.UnitValue
}

func (s *StopwatchService) Create(ctx context.Context, userID string, input CreateStopwatchInput) (*StopwatchView, *apperrors.APIError) {
	if input.Name == "" {
		return nil, apperrors.BadRequest("invalid_name", "name is required")
	}

	now := s.clock().UTC()
	watch := model.Stopwatch{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      input.Name,
		Lap:       input.Lap,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, &watch); err != nil {
		return nil, apperrors.Internal("failed to create stopwatch")
	}

	view := s.toView(&watch, nil, now)
	return &view, nil
}

func (s *StopwatchService) Get(ctx context.Context, userID, id string) (*StopwatchView, *apperrors.APIError) {
	watch, events, apiErr := s.load(ctx, userID, id)
	if apiErr != nil {
		return nil, apiErr
	}
	view := s.toView(watch, events, s.clock().UTC())
	return &view, nil
}

func (s *StopwatchService) List(ctx context.Context, userID string) ([]StopwatchView, *apperrors.APIError) {
	watches, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to list stopwatches")
	}

	now := s.clock().UTC()
	views := make([]StopwatchView, 0, len(watches))
	for i := range watches {
		events, eventsErr := s.repo.ListEvents(ctx, watches[i].ID)
		if eventsErr != nil {
			return nil, apperrors.Internal("failed to load events")
		}
		views = append(views, s.toView(&watches[i], events, now))
	}
	return views, nil
}

func (s *StopwatchService) Delete(ctx context.Context, userID, id string) *apperrors.APIError {
	if _, _, apiErr := s.load(ctx, userID, id); apiErr != nil {
		return apiErr
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Internal("failed to delete stopwatch")
	}
	return nil
}

// Start, Stop, Resume and Reset apply one state-machine transition at the
// caller-supplied instant (zero means "now") and persist the new sequence.

func (s *StopwatchService) Start(ctx context.Context, userID, id string, at time.Time) (*StopwatchView, *apperrors.APIError) {
	return s.applyCommand(ctx, userID, id, func(controller *stopwatch.Controller, at time.Time) error {
		_, err := controller.Start(at)
		return err
	}, at)
}

func (s *StopwatchService) Stop(ctx context.Context, userID, id string, at time.Time) (*StopwatchView, *apperrors.APIError) {
	return s.applyCommand(ctx, userID, id, func(controller *stopwatch.Controller, at time.Time) error {
		_, err := controller.Stop(at)
		return err
	}, at)
}

func (s *StopwatchService) Resume(ctx context.Context, userID, id string, at time.Time) (*StopwatchView, *apperrors.APIError) {
	return s.applyCommand(ctx, userID, id, func(controller *stopwatch.Controller, at time.Time) error {
		_, err := controller.Resume(at)
		return err
	}, at)
}

func (s *StopwatchService) Reset(ctx context.Context, userID, id string) (*StopwatchView, *apperrors.APIError) {
	return s.applyCommand(ctx, userID, id, func(controller *stopwatch.Controller, at time.Time) error {
		controller.Reset()
		return nil
	}, time.Time{})
}

func (s *StopwatchService) AddEvent(ctx context.Context, userID, id string, input AddEventInput) (*StopwatchView, *apperrors.APIError) {
	if !input.Type.Valid() {
		return nil, apperrors.BadRequest("invalid_event_type", "unknown event type")
	}
	if input.Title == "" {
		input.Title = string(input.Type)
	}
	return s.applyCommand(ctx, userID, id, func(controller *stopwatch.Controller, at time.Time) error {
		controller.AddEvent(input.Type, input.Title, at, input.Description, input.Unit)
		return nil
	}, input.At)
}

func (s *StopwatchService) RemoveEvent(ctx context.Context, userID, id, eventID string) (*StopwatchView, *apperrors.APIError) {
	return s.applyCommand(ctx, userID, id, func(controller *stopwatch.Controller, at time.Time) error {
		if !controller.RemoveEvent(eventID) {
			return errEventMissing
		}
		return nil
	}, time.Time{})
}

// Elapsed is the active duration between two events, in milliseconds.
// Empty ids default to the ends of the sequence.
func (s *StopwatchService) Elapsed(ctx context.Context, userID, id, startEventID, endEventID string) (int64, *apperrors.APIError) {
	controller, apiErr := s.controllerFor(ctx, userID, id)
	if apiErr != nil {
		return 0, apiErr
	}

	if startEventID != "" && !controller.HasEvent(startEventID) {
		return 0, apperrors.NotFound("event_not_found", "start event not found")
	}
	if endEventID != "" && !controller.HasEvent(endEventID) {
		return 0, apperrors.NotFound("event_not_found", "end event not found")
	}

	elapsed := controller.ElapsedBetween(startEventID, endEventID)
	if elapsed == stopwatch.DurationUnknown {
		return 0, apperrors.BadRequest("invalid_range", "start event comes after end event")
	}
	return elapsed.Milliseconds(), nil
}

// Gap is the raw wall-clock difference between two named events, pauses
// included, in milliseconds.
func (s *StopwatchService) Gap(ctx context.Context, userID, id, firstEventID, secondEventID string) (int64, *apperrors.APIError) {
	controller, apiErr := s.controllerFor(ctx, userID, id)
	if apiErr != nil {
		return 0, apiErr
	}

	gap := controller.DurationBetween(firstEventID, secondEventID)
	if gap == stopwatch.DurationUnknown {
		return 0, apperrors.NotFound("event_not_found", "event not found")
	}
	return gap.Milliseconds(), nil
}

// Score evaluates the stopwatch under the named objective.
func (s *StopwatchService) Score(ctx context.Context, userID, id string, objectiveType objective.Type) (float64, *apperrors.APIError) {
	strategy, err := objective.New(objectiveType)
	if err != nil {
		return 0, apperrors.BadRequest("invalid_objective", "unknown objective type")
	}

	controller, apiErr := s.controllerFor(ctx, userID, id)
	if apiErr != nil {
		return 0, apiErr
	}
	return strategy.Evaluate(controller.State()), nil
}

var errEventMissing = errors.New("event missing")

type command func(controller *stopwatch.Controller, at time.Time) error

func (s *StopwatchService) applyCommand(ctx context.Context, userID, id string, apply command, at time.Time) (*StopwatchView, *apperrors.APIError) {
	now := s.clock().UTC()
	if at.IsZero() {
		at = now
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to start transaction")
	}
	defer tx.Rollback()

	watch, err := s.repo.GetTx(ctx, tx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("stopwatch_not_found", "stopwatch not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load stopwatch")
	}
	if watch.UserID != userID {
		return nil, apperrors.NotFound("stopwatch_not_found", "stopwatch not found")
	}

	events, err := s.repo.ListEventsTx(ctx, tx, id)
	if err != nil {
		return nil, apperrors.Internal("failed to load events")
	}

	controller := stopwatch.NewController(model.StopwatchState{Sequence: events, Lap: watch.Lap})
	controller.SetClock(s.clock)

	if err := apply(controller, at); err != nil {
		return nil, commandError(err)
	}

	state := controller.State()
	if err := s.repo.ReplaceEventsTx(ctx, tx, id, state.Sequence, now); err != nil {
		return nil, apperrors.Internal("failed to persist events")
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.Internal("failed to commit transaction")
	}

	watch.UpdatedAt = now
	view := s.toView(watch, state.Sequence, now)
	return &view, nil
}

func (s *StopwatchService) load(ctx context.Context, userID, id string) (*model.Stopwatch, []model.Event, *apperrors.APIError) {
	watch, err := s.repo.Get(ctx, id)
	if err == repository.ErrNotFound {
		return nil, nil, apperrors.NotFound("stopwatch_not_found", "stopwatch not found")
	}
	if err != nil {
		return nil, nil, apperrors.Internal("failed to load stopwatch")
	}
	if watch.UserID != userID {
		return nil, nil, apperrors.NotFound("stopwatch_not_found", "stopwatch not found")
	}

	events, err := s.repo.ListEvents(ctx, id)
	if err != nil {
		return nil, nil, apperrors.Internal("failed to load events")
	}
	return watch, events, nil
}

func (s *StopwatchService) controllerFor(ctx context.Context, userID, id string) (*stopwatch.Controller, *apperrors.APIError) {
	watch, events, apiErr := s.load(ctx, userID, id)
	if apiErr != nil {
		return nil, apiErr
	}
	controller := stopwatch.NewController(model.StopwatchState{Sequence: events, Lap: watch.Lap})
	controller.SetClock(s.clock)
	return controller, nil
}

func (s *StopwatchService) toView(watch *model.Stopwatch, events []model.Event, now time.Time) StopwatchView {
	controller := stopwatch.NewController(model.StopwatchState{Sequence: events, Lap: watch.Lap})
	controller.SetClock(func() time.Time { return now })

	active := controller.ElapsedBetween("", "")
	if active == stopwatch.DurationUnknown {
		active = 0
	}

	sequence := events
	if sequence == nil {
		sequence = []model.Event{}
	}

	return StopwatchView{
		ID:                   watch.ID,
		Name:                 watch.Name,
		Lap:                  watch.Lap,
		Running:              controller.IsRunning(),
		Active:               controller.IsActive(),
		Sequence:             sequence,
		TotalDurationMillis:  controller.TotalDuration().Milliseconds(),
		ActiveDurationMillis: active.Milliseconds(),
		CreatedAt:            watch.CreatedAt,
		UpdatedAt:            watch.UpdatedAt,
		ServerTime:           now,
	}
}

func commandError(err error) *apperrors.APIError {
	switch {
	case errors.Is(err, stopwatch.ErrAlreadyRunning):
		return apperrors.Conflict("already_running", "stopwatch is already running", nil)
	case errors.Is(err, stopwatch.ErrNotRunning):
		return apperrors.Conflict("not_running", "stopwatch is not running", nil)
	case errors.Is(err, stopwatch.ErrNeverStarted):
		return apperrors.Conflict("never_started", "stopwatch has never been started", nil)
	case errors.Is(err, stopwatch.ErrInvalidResumeSource):
		return apperrors.Conflict("invalid_resume_source", "last event is not a stop", nil)
	case errors.Is(err, errEventMissing):
		return apperrors.NotFound("event_not_found", "event not found")
	}
	return apperrors.Internal("")
}
