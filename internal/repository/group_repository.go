package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"chronolog/internal/model"
)

type GroupRepository struct {
	db *sql.DB
}

func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Create(ctx context.Context, group *model.Group) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO groups (id, user_id, name, timing, evaluations, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		group.ID,
		group.UserID,
		group.Name,
		string(group.Timing),
		joinEvaluations(group.Evaluations),
		group.CreatedAt.UTC().Format(time.RFC3339Nano),
		group.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("create group: %w", err)
	}

	for position, memberID := range group.MemberIDs {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO group_members (group_id, stopwatch_id, position) VALUES (?, ?, ?)`,
			group.ID,
			memberID,
			position,
		)
		if err != nil {
			return fmt.Errorf("add group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit group: %w", err)
	}
	return nil
}

func (r *GroupRepository) Get(ctx context.Context, id string) (*model.Group, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, user_id, name, timing, evaluations, created_at, updated_at
		 FROM groups WHERE id = ?`,
		id,
	)
	group, err := scanGroup(row)
	if err != nil {
		return nil, err
	}

	members, err := r.listMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	group.MemberIDs = members
	return group, nil
}

func (r *GroupRepository) List(ctx context.Context, userID string) ([]model.Group, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, user_id, name, timing, evaluations, created_at, updated_at
		 FROM groups
		 WHERE user_id = ?
		 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	groups := make([]model.Group, 0)
	for rows.Next() {
		group, scanErr := scanGroup(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		groups = append(groups, *group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}

	for i := range groups {
		members, memberErr := r.listMembers(ctx, groups[i].ID)
		if memberErr != nil {
			return nil, memberErr
		}
		groups[i].MemberIDs = members
	}
	return groups, nil
}

func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM group_members WHERE group_id = ?`, id); err != nil {
		return fmt.Errorf("delete group members: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}

func (r *GroupRepository) listMembers(ctx context.Context, groupID string) ([]string, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT stopwatch_id FROM group_members WHERE group_id = ? ORDER BY position ASC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	defer rows.Close()

	members := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		members = append(members, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate group members: %w", err)
	}
	return members, nil
}

func scanGroup(s scanner) (*model.Group, error) {
	group := model.Group{}
	var timing string
	var evaluations string
	var createdAt string
	var updatedAt string
	err := s.Scan(
		&group.ID,
		&group.UserID,
		&group.Name,
		&timing,
		&evaluations,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan group: %w", err)
	}

	group.Timing = model.GroupTiming(timing)
	group.Evaluations = splitEvaluations(evaluations)

	parsedCreatedAt, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse group created_at: %w", err)
	}
	parsedUpdatedAt, err := parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse group updated_at: %w", err)
	}
	group.CreatedAt = parsedCreatedAt
	group.UpdatedAt = parsedUpdatedAt
	return &group, nil
}

func joinEvaluations(evaluations []model.GroupEvaluation) string {
	parts := make([]string, 0, len(evaluations))
	for _, evaluation := range evaluations {
		parts = append(parts, string(evaluation))
	}
	return strings.Join(parts, ",")
}

func splitEvaluations(raw string) []model.GroupEvaluation {
	evaluations := make([]model.GroupEvaluation, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			evaluations = append(evaluations, model.GroupEvaluation(trimmed))
		}
	}
	return evaluations
}
