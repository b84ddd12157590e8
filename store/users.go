// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/bug-tracker/models"
)

// MaxUpdateAttempts bounds the profile update retry loop.
const MaxUpdateAttempts = 5

const userColumns = `user_id, user_name, user_email, display_name, user_password`

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.DisplayName, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, err
}

// GetUserByName looks up a user by exact login name.
func (s *Store) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_name = $1`, name))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get user %q: %w", name, err)
	}
	return u, err
}

// UserNameTaken reports whether another user already holds name, ignoring case.
// Pass exceptID 0 when checking a new registration.
func (s *Store) UserNameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id FROM users WHERE lower(user_name) = lower($1) AND user_id <> $2`,
		name, exceptID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user name: %w", err)
	}
	return true, nil
}

// CreateUser inserts a user and returns its id. A name that collides
// case-insensitively with an existing one yields ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, u models.User) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (user_name, user_email, display_name, user_password)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id
	`, u.Name, u.Email, u.DisplayName, u.PasswordHash).Scan(&id)
	if isUniqueViolation(err) {
		return 0, ErrAlreadyExists
	}
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// UpdateUser rewrites a user's profile in a serializable transaction, retrying
// on conflicts up to MaxUpdateAttempts times. Non-conflict errors abort at once.
func (s *Store) UpdateUser(ctx context.Context, u models.User) error {
	for attempt := 1; attempt <= MaxUpdateAttempts; attempt++ {
		err := s.updateUserOnce(ctx, u)
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		slog.Warn("user update conflict, retrying",
			"user_id", u.ID,
			"attempt", attempt,
			"error", err,
		)
	}
	return ErrRetriesExhausted
}

func (s *Store) updateUserOnce(ctx context.Context, u models.User) error {
	return s.inTx(ctx, s.serializable(), func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE users
			SET user_name = $1, user_email = $2, display_name = $3, user_password = $4
			WHERE user_id = $5
		`, u.Name, u.Email, u.DisplayName, u.PasswordHash, u.ID)
		if err != nil {
			return fmt.Errorf("update user %d: %w", u.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update user %d: %w", u.ID, err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}
