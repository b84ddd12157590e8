// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/bug-tracker/models"
)

func (s *Store) CreateSession(ctx context.Context, sess models.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, user_id, csrf_token, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, sess.ID, sess.UserID, sess.CSRFToken, sess.CreatedAt.UTC(), sess.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession returns a session that has not expired by now.
func (s *Store) GetSession(ctx context.Context, id string, now time.Time) (*models.Session, error) {
	var sess models.Session
	var userID sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT session_id, user_id, csrf_token, created_at, expires_at
		FROM sessions
		WHERE session_id = $1 AND expires_at > $2
	`, id, now.UTC()).Scan(&sess.ID, &userID, &sess.CSRFToken, &sess.CreatedAt, &sess.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if userID.Valid {
		uid := userID.Int64
		sess.UserID = &uid
	}
	return &sess, nil
}

// SetSessionUser logs a session in as userID, or out when userID is nil.
func (s *Store) SetSessionUser(ctx context.Context, id string, userID *int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE sessions SET user_id = $1 WHERE session_id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("update session user: %w", err)
	}
	return nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions that expired before now and returns how many.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
