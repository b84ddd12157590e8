// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/bug-tracker/cliparse"
)

// sqlitePragmas are applied through the DSN so every pooled connection gets them.
var sqlitePragmas = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=journal_mode(wal)",
	"_pragma=busy_timeout(5000)",
}

// Open connects to the database named by the config and verifies the connection.
func Open(cfg cliparse.Config) (*sql.DB, error) {
	driver, dsn := cfg.DatabaseType, cfg.DatabaseURL
	if driver == cliparse.DatabaseSQLite {
		dsn = sqliteDSN(dsn)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if driver == cliparse.DatabaseSQLite {
		// One writer at a time; a few readers under WAL
		conn.SetMaxOpenConns(4)
		conn.SetMaxIdleConns(2)
	} else {
		conn.SetMaxOpenConns(20)
		conn.SetMaxIdleConns(5)
	}
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

func sqliteDSN(dsn string) string {
	var missing []string
	for _, p := range sqlitePragmas {
		name := p[:strings.Index(p, "(")]
		if !strings.Contains(dsn, name) {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(missing, "&")
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	var tables string
	switch dialect {
	case cliparse.DatabasePostgres:
		tables = postgresTables
	case cliparse.DatabaseSQLite:
		tables = sqliteTables
	default:
		return fmt.Errorf("unsupported database type %q", dialect)
	}

	if _, err := db.Exec(tables + indexes); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const postgresTables = `
CREATE TABLE IF NOT EXISTS users (
    user_id SERIAL PRIMARY KEY,
    user_name TEXT NOT NULL,
    user_email TEXT NOT NULL,
    display_name TEXT NOT NULL,
    user_password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS milestones (
    milestone_id SERIAL PRIMARY KEY,
    milestone_name TEXT NOT NULL,
    milestone_description TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bugs (
    bug_id SERIAL PRIMARY KEY,
    bug_title TEXT NOT NULL,
    bug_body TEXT NOT NULL,
    bug_status TEXT NOT NULL,
    create_date TIMESTAMP NOT NULL DEFAULT NOW(),
    close_date TIMESTAMP,
    user_id INTEGER NOT NULL REFERENCES users(user_id),
    milestone_id INTEGER REFERENCES milestones(milestone_id)
);

CREATE TABLE IF NOT EXISTS tags (
    tag_id SERIAL PRIMARY KEY,
    tag TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS tag_bug_xref (
    tag_id INTEGER NOT NULL REFERENCES tags(tag_id),
    bug_id INTEGER NOT NULL REFERENCES bugs(bug_id),
    PRIMARY KEY (tag_id, bug_id)
);

CREATE TABLE IF NOT EXISTS user_tag_subscription (
    user_id INTEGER NOT NULL REFERENCES users(user_id),
    tag_id INTEGER NOT NULL REFERENCES tags(tag_id),
    PRIMARY KEY (user_id, tag_id)
);

CREATE TABLE IF NOT EXISTS sessions (
    session_id TEXT PRIMARY KEY,
    user_id INTEGER REFERENCES users(user_id),
    csrf_token TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    expires_at TIMESTAMP NOT NULL
);
`

const sqliteTables = `
CREATE TABLE IF NOT EXISTS users (
    user_id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_name TEXT NOT NULL,
    user_email TEXT NOT NULL,
    display_name TEXT NOT NULL,
    user_password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS milestones (
    milestone_id INTEGER PRIMARY KEY AUTOINCREMENT,
    milestone_name TEXT NOT NULL,
    milestone_description TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bugs (
    bug_id INTEGER PRIMARY KEY AUTOINCREMENT,
    bug_title TEXT NOT NULL,
    bug_body TEXT NOT NULL,
    bug_status TEXT NOT NULL,
    create_date TIMESTAMP NOT NULL,
    close_date TIMESTAMP,
    user_id INTEGER NOT NULL REFERENCES users(user_id),
    milestone_id INTEGER REFERENCES milestones(milestone_id)
);

CREATE TABLE IF NOT EXISTS tags (
    tag_id INTEGER PRIMARY KEY AUTOINCREMENT,
    tag TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS tag_bug_xref (
    tag_id INTEGER NOT NULL REFERENCES tags(tag_id),
    bug_id INTEGER NOT NULL REFERENCES bugs(bug_id),
    PRIMARY KEY (tag_id, bug_id)
);

CREATE TABLE IF NOT EXISTS user_tag_subscription (
    user_id INTEGER NOT NULL REFERENCES users(user_id),
    tag_id INTEGER NOT NULL REFERENCES tags(tag_id),
    PRIMARY KEY (user_id, tag_id)
);

CREATE TABLE IF NOT EXISTS sessions (
    session_id TEXT PRIMARY KEY,
    user_id INTEGER REFERENCES users(user_id),
    csrf_token TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP NOT NULL
);
`

// Shared by both dialects
const indexes = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_lower_name ON users (lower(user_name));
CREATE INDEX IF NOT EXISTS idx_bugs_user_id ON bugs(user_id);
CREATE INDEX IF NOT EXISTS idx_bugs_milestone_id ON bugs(milestone_id);
CREATE INDEX IF NOT EXISTS idx_bugs_create_date ON bugs(create_date);
CREATE INDEX IF NOT EXISTS idx_tag_bug_xref_bug_id ON tag_bug_xref(bug_id);
CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
`
