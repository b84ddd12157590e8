// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/bug-tracker/models"
)

// ListMilestones returns all milestones with the number of bugs assigned to each.
func (s *Store) ListMilestones(ctx context.Context) ([]models.Milestone, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.milestone_id, m.milestone_name, m.milestone_description, COUNT(b.bug_id)
		FROM milestones m
		LEFT JOIN bugs b ON b.milestone_id = m.milestone_id
		GROUP BY m.milestone_id, m.milestone_name, m.milestone_description
		ORDER BY m.milestone_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query milestones: %w", err)
	}
	defer rows.Close()

	milestones := []models.Milestone{}
	for rows.Next() {
		var m models.Milestone
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.BugCount); err != nil {
			return nil, fmt.Errorf("scan milestone: %w", err)
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

func (s *Store) CreateMilestone(ctx context.Context, name, description string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO milestones (milestone_name, milestone_description)
		VALUES ($1, $2)
		RETURNING milestone_id
	`, name, description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert milestone: %w", err)
	}
	return id, nil
}

// GetMilestone returns one milestone; BugCount is left at zero.
func (s *Store) GetMilestone(ctx context.Context, id int64) (*models.Milestone, error) {
	var m models.Milestone
	err := s.db.QueryRowContext(ctx, `
		SELECT milestone_id, milestone_name, milestone_description
		FROM milestones WHERE milestone_id = $1
	`, id).Scan(&m.ID, &m.Name, &m.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get milestone %d: %w", id, err)
	}
	return &m, nil
}
