package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "chronolog/internal/errors"
	"chronolog/internal/model"
	"chronolog/internal/repository"
)

// GroupService manages stopwatch groups and their descriptive traits. The
// report it produces only restates each member's measurements next to the
// group's timing and evaluation tags; it never combines them — that is the
// consumer's job.
type GroupService struct {
	groupRepo        *repository.GroupRepository
	stopwatchService *StopwatchService
	clock            func() time.Time
}

func NewGroupService(groupRepo *repository.GroupRepository, stopwatchService *StopwatchService) *GroupService {
	return &GroupService{
		groupRepo:        groupRepo,
		stopwatchService: stopwatchService,
		clock:            time.Now,
	}
}

type CreateGroupInput struct {
	Name        string
	Timing      model.GroupTiming
	Evaluations []model.GroupEvaluation
	MemberIDs   []string
}

// GroupMemberReport is one member's measurements inside a group report.
type GroupMemberReport struct {
	StopwatchID          string `json:"stopwatchId"`
	Name                 string `json:"name"`
	Running              bool   `json:"running"`
	TotalDurationMillis  int64  `json:"totalDurationMillis"`
	ActiveDurationMillis int64  `json:"activeDurationMillis"`
}

type GroupReport struct {
	Group   model.Group         `json:"group"`
	Members []GroupMemberReport `json:"members"`
}

func (s *GroupService) Create(ctx context.Context, userID string, input CreateGroupInput) (*model.Group, *apperrors.APIError) {
	if input.Name == "" {
		return nil, apperrors.BadRequest("invalid_name", "name is required")
	}
	if !input.Timing.Valid() {
		return nil, apperrors.BadRequest("invalid_timing", "unknown timing behavior")
	}
	for _, evaluation := range input.Evaluations {
		if !evaluation.Valid() {
			return nil, apperrors.BadRequest("invalid_evaluation", "unknown evaluation behavior")
		}
	}

	for _, memberID := range input.MemberIDs {
		if _, apiErr := s.stopwatchService.Get(ctx, userID, memberID); apiErr != nil {
			return nil, apiErr
		}
	}

	now := s.clock().UTC()
	group := model.Group{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        input.Name,
		Timing:      input.Timing,
		Evaluations: input.Evaluations,
		MemberIDs:   input.MemberIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.groupRepo.Create(ctx, &group); err != nil {
		return nil, apperrors.Internal("failed to create group")
	}
	return &group, nil
}

func (s *GroupService) Get(ctx context.Context, userID, id string) (*model.Group, *apperrors.APIError) {
	group, err := s.groupRepo.Get(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("group_not_found", "group not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load group")
	}
	if group.UserID != userID {
		return nil, apperrors.NotFound("group_not_found", "group not found")
	}
	return group, nil
}

func (s *GroupService) List(ctx context.Context, userID string) ([]model.Group, *apperrors.APIError) {
	groups, err := s.groupRepo.List(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to list groups")
	}
	return groups, nil
}

func (s *GroupService) Delete(ctx context.Context, userID, id string) *apperrors.APIError {
	if _, apiErr := s.Get(ctx, userID, id); apiErr != nil {
		return apiErr
	}
	if err := s.groupRepo.Delete(ctx, id); err != nil {
		return apperrors.Internal("failed to delete group")
	}
	return nil
}

// Report collects each member's durations alongside the group's traits.
func (s *GroupService) Report(ctx context.Context, userID, id string) (*GroupReport, *apperrors.APIError) {
	group, apiErr := s.Get(ctx, userID, id)
	if apiErr != nil {
		return nil, apiErr
	}

	members := make([]GroupMemberReport, 0, len(group.MemberIDs))
	for _, memberID := range group.MemberIDs {
		view, memberErr := s.stopwatchService.Get(ctx, userID, memberID)
		if memberErr != nil {
			return nil, memberErr
		}
		members = append(members, GroupMemberReport{
			StopwatchID:          view.ID,
			Name:                 view.Name,
			Running:              view.Running,
			TotalDurationMillis:  view.TotalDurationMillis,
			ActiveDurationMillis: view.ActiveDurationMillis,
		})
	}

	return &GroupReport{Group: *group, Members: members}, nil
}
