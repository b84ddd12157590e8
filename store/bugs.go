// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/bug-tracker/models"
)

const bugColumns = `b.bug_id, b.bug_title, b.bug_body, b.bug_status, b.create_date, b.close_date, b.user_id, b.milestone_id`

const newestFirst = ` ORDER BY b.create_date DESC, b.bug_id DESC`

type scanner interface {
	Scan(dest ...any) error
}

func scanBug(sc scanner) (models.Bug, error) {
	var b models.Bug
	var closeDate sql.NullTime
	var milestoneID sql.NullInt64
	err := sc.Scan(&b.ID, &b.Title, &b.Body, &b.Status, &b.CreateDate, &closeDate, &b.UserID, &milestoneID)
	if err != nil {
		return b, err
	}
	if closeDate.Valid {
		t := closeDate.Time
		b.CloseDate = &t
	}
	if milestoneID.Valid {
		id := milestoneID.Int64
		b.MilestoneID = &id
	}
	return b, nil
}

// CreateBug inserts a bug owned by b.UserID together with its tags in one
// transaction and returns the new id. Unknown tags are created on the way.
func (s *Store) CreateBug(ctx context.Context, b models.Bug) (int64, error) {
	if b.CreateDate.IsZero() {
		b.CreateDate = time.Now()
	}

	var id int64
	err := s.inTx(ctx, nil, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO bugs (bug_title, bug_body, bug_status, create_date, close_date, user_id, milestone_id)
			VALUES ($1, $2, $3, $4, NULL, $5, NULL)
			RETURNING bug_id
		`, b.Title, b.Body, b.Status, b.CreateDate.UTC(), b.UserID).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert bug: %w", err)
		}

		for _, tag := range b.Tags {
			tagID, err := ensureTag(ctx, tx, tag)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO tag_bug_xref (tag_id, bug_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, tagID, id)
			if err != nil {
				return fmt.Errorf("link tag %q to bug %d: %w", tag, id, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetBug returns one bug with its tags.
func (s *Store) GetBug(ctx context.Context, id int64) (*models.Bug, error) {
	b, err := scanBug(s.db.QueryRowContext(ctx,
		`SELECT `+bugColumns+` FROM bugs b WHERE b.bug_id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get bug %d: %w", id, err)
	}

	bugs := []models.Bug{b}
	if err := s.attachTags(ctx, bugs); err != nil {
		return nil, err
	}
	return &bugs[0], nil
}

// ListBugs returns every bug, newest first.
func (s *Store) ListBugs(ctx context.Context) ([]models.Bug, error) {
	return s.queryBugs(ctx, `SELECT `+bugColumns+` FROM bugs b`+newestFirst)
}

// SearchBugs returns bugs whose title contains term (case-sensitive), newest
// first. An empty term matches every bug.
func (s *Store) SearchBugs(ctx context.Context, term string) ([]models.Bug, error) {
	if term == "" {
		return s.ListBugs(ctx)
	}
	match := `instr(b.bug_title, $1) > 0`
	if s.postgres() {
		match = `strpos(b.bug_title, $1) > 0`
	}
	return s.queryBugs(ctx, `SELECT `+bugColumns+` FROM bugs b WHERE `+match+newestFirst, term)
}

// ListUserBugs returns the bugs created by userID, newest first.
func (s *Store) ListUserBugs(ctx context.Context, userID int64) ([]models.Bug, error) {
	return s.queryBugs(ctx, `SELECT `+bugColumns+` FROM bugs b WHERE b.user_id = $1`+newestFirst, userID)
}

// ListSubscribedTagBugs returns each bug carrying at least one tag userID
// subscribes to, once, newest first.
func (s *Store) ListSubscribedTagBugs(ctx context.Context, userID int64) ([]models.Bug, error) {
	return s.queryBugs(ctx, `
		SELECT DISTINCT `+bugColumns+`
		FROM bugs b
		JOIN tag_bug_xref x ON x.bug_id = b.bug_id
		JOIN user_tag_subscription s ON s.tag_id = x.tag_id
		JOIN users u ON u.user_id = s.user_id
		WHERE u.user_id = $1`+newestFirst, userID)
}

// MilestoneBugs returns the bugs assigned to a milestone, newest first.
func (s *Store) MilestoneBugs(ctx context.Context, milestoneID int64) ([]models.Bug, error) {
	return s.queryBugs(ctx, `SELECT `+bugColumns+` FROM bugs b WHERE b.milestone_id = $1`+newestFirst, milestoneID)
}

// queryBugs runs a bug query and fills in tags. Rows are closed before the tag
// query so a single pooled connection is enough.
func (s *Store) queryBugs(ctx context.Context, query string, args ...any) ([]models.Bug, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bugs: %w", err)
	}

	bugs := []models.Bug{}
	for rows.Next() {
		b, err := scanBug(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan bug: %w", err)
		}
		bugs = append(bugs, b)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("iterate bugs: %w", err)
	}

	if err := s.attachTags(ctx, bugs); err != nil {
		return nil, err
	}
	return bugs, nil
}

// tagBatch keeps IN lists well under driver parameter limits.
const tagBatch = 500

func (s *Store) attachTags(ctx context.Context, bugs []models.Bug) error {
	index := make(map[int64]int, len(bugs))
	for i := range bugs {
		index[bugs[i].ID] = i
		bugs[i].Tags = []string{}
	}

	for start := 0; start < len(bugs); start += tagBatch {
		end := min(start+tagBatch, len(bugs))

		placeholders := make([]string, 0, end-start)
		args := make([]any, 0, end-start)
		for i, b := range bugs[start:end] {
			placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
			args = append(args, b.ID)
		}

		rows, err := s.db.QueryContext(ctx, `
			SELECT x.bug_id, t.tag
			FROM tag_bug_xref x
			JOIN tags t ON t.tag_id = x.tag_id
			WHERE x.bug_id IN (`+strings.Join(placeholders, ", ")+`)
			ORDER BY x.bug_id, t.tag
		`, args...)
		if err != nil {
			return fmt.Errorf("query bug tags: %w", err)
		}
		for rows.Next() {
			var bugID int64
			var tag string
			if err := rows.Scan(&bugID, &tag); err != nil {
				rows.Close()
				return fmt.Errorf("scan bug tag: %w", err)
			}
			i := index[bugID]
			bugs[i].Tags = append(bugs[i].Tags, tag)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return fmt.Errorf("iterate bug tags: %w", err)
		}
	}
	return nil
}
