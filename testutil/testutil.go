// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/bug-tracker/auth"
	"github.com/danielhkuo/bug-tracker/cliparse"
	"github.com/danielhkuo/bug-tracker/db"
	"github.com/danielhkuo/bug-tracker/models"
	"github.com/danielhkuo/bug-tracker/store"
)

// TestDBEnv names a postgres URL to run the suite against instead of SQLite.
// The database it points at is wiped by every test.
const TestDBEnv = "TEST_DATABASE_URL"

// TestPassword is the password of every user created by CreateTestUser
const TestPassword = "password123"

// SetupTestDB creates a fresh test database with the full schema and returns
// it with the matching config. SQLite lives in t.TempDir().
func SetupTestDB(t *testing.T) (*sql.DB, cliparse.Config) {
	t.Helper()

	cfg := GetTestConfig()
	if url := os.Getenv(TestDBEnv); url != "" {
		cfg.DatabaseType = cliparse.DatabasePostgres
		cfg.DatabaseURL = url
	} else {
		cfg.DatabaseURL = "file:" + filepath.Join(t.TempDir(), "test.db")
	}

	conn, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if cfg.DatabaseType == cliparse.DatabasePostgres {
		// Clean up tables before each test
		_, err = conn.Exec(`
			DROP TABLE IF EXISTS sessions CASCADE;
			DROP TABLE IF EXISTS user_tag_subscription CASCADE;
			DROP TABLE IF EXISTS tag_bug_xref CASCADE;
			DROP TABLE IF EXISTS tags CASCADE;
			DROP TABLE IF EXISTS bugs CASCADE;
			DROP TABLE IF EXISTS milestones CASCADE;
			DROP TABLE IF EXISTS users CASCADE;
		`)
		if err != nil {
			t.Fatalf("Failed to clean database: %v", err)
		}
	}

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn, cfg
}

// SetupTestStore is SetupTestDB wrapped in a store.Store
func SetupTestStore(t *testing.T) (*store.Store, *sql.DB, cliparse.Config) {
	t.Helper()
	conn, cfg := SetupTestDB(t)
	return store.New(conn, cfg.DatabaseType), conn, cfg
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseType: cliparse.DatabaseSQLite,
		LogLevel:     "error",
		LogFormat:    "text",
		SessionTTL:   time.Hour,
		EnforceCSRF:  true,
		BcryptCost:   bcrypt.MinCost,
		LoginRPS:     1000,
		LoginBurst:   1000,
	}
}

// CreateTestUser inserts a user whose password is TestPassword and returns its ID
func CreateTestUser(t *testing.T, conn *sql.DB, name string) int64 {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	var id int64
	err = conn.QueryRow(`
		INSERT INTO users (user_name, user_email, display_name, user_password)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id
	`, name, name+"@example.com", "Display "+name, hash).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return id
}

// CreateTestBug creates a bug owned by userID with the given tags and returns its ID.
// createdAt orders bugs in lists; pass the zero time for now.
func CreateTestBug(t *testing.T, conn *sql.DB, cfg cliparse.Config, userID int64, title string, createdAt time.Time, tags ...string) int64 {
	t.Helper()

	s := store.New(conn, cfg.DatabaseType)
	id, err := s.CreateBug(context.Background(), models.Bug{
		Title:      title,
		Body:       "Body of " + title,
		Status:     "open",
		CreateDate: createdAt,
		UserID:     userID,
		Tags:       tags,
	})
	if err != nil {
		t.Fatalf("Failed to create test bug: %v", err)
	}

	return id
}

// CreateTestMilestone creates a milestone and returns its ID
func CreateTestMilestone(t *testing.T, conn *sql.DB, name string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO milestones (milestone_name, milestone_description)
		VALUES ($1, $2)
		RETURNING milestone_id
	`, name, "Description of "+name).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test milestone: %v", err)
	}

	return id
}

// AssignMilestone puts a bug into a milestone
func AssignMilestone(t *testing.T, conn *sql.DB, bugID, milestoneID int64) {
	t.Helper()

	if _, err := conn.Exec(`UPDATE bugs SET milestone_id = $1 WHERE bug_id = $2`, milestoneID, bugID); err != nil {
		t.Fatalf("Failed to assign milestone: %v", err)
	}
}

// SubscribeTestUser subscribes a user to an existing tag
func SubscribeTestUser(t *testing.T, conn *sql.DB, userID int64, tag string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO user_tag_subscription (user_id, tag_id)
		SELECT $1, tag_id FROM tags WHERE tag = $2
	`, userID, tag)
	if err != nil {
		t.Fatalf("Failed to subscribe test user: %v", err)
	}
}

// CountRows returns the result of a SELECT COUNT(*) query
func CountRows(t *testing.T, conn *sql.DB, query string, args ...any) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}
