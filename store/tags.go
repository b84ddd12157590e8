// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ensureTag returns the id of tag, creating it if it does not exist yet.
func ensureTag(ctx context.Context, q querier, tag string) (int64, error) {
	_, err := q.ExecContext(ctx, `INSERT INTO tags (tag) VALUES ($1) ON CONFLICT (tag) DO NOTHING`, tag)
	if err != nil {
		return 0, fmt.Errorf("insert tag %q: %w", tag, err)
	}

	var id int64
	if err := q.QueryRowContext(ctx, `SELECT tag_id FROM tags WHERE tag = $1`, tag).Scan(&id); err != nil {
		return 0, fmt.Errorf("get tag %q: %w", tag, err)
	}
	return id, nil
}

// TagID looks up an existing tag.
func (s *Store) TagID(ctx context.Context, tag string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT tag_id FROM tags WHERE tag = $1`, tag).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get tag %q: %w", tag, err)
	}
	return id, nil
}

// Subscribe records that userID follows tagID. Repeating it is a no-op.
func (s *Store) Subscribe(ctx context.Context, userID, tagID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_tag_subscription (user_id, tag_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, tagID)
	if err != nil {
		return fmt.Errorf("subscribe user %d to tag %d: %w", userID, tagID, err)
	}
	return nil
}

// Subscriptions lists the tags userID follows in alphabetical order.
func (s *Store) Subscriptions(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.tag
		FROM user_tag_subscription s
		JOIN tags t ON t.tag_id = s.tag_id
		WHERE s.user_id = $1
		ORDER BY t.tag
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
