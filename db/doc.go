// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connections

Open picks the driver from the config (lib/pq for postgres, modernc.org/sqlite
for sqlite) and sizes the pool:

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}

SQLite DSNs get foreign_keys, WAL journaling and a busy timeout appended
unless the caller already set them.

# Schema Creation

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
Only the id columns differ between dialects (SERIAL vs INTEGER PRIMARY KEY
AUTOINCREMENT).

# Tables

  - users: login name, email, display name, bcrypt hash
  - bugs: title, body, free-text status, create/close dates, owner, milestone
  - tags: unique labels, created on first use
  - tag_bug_xref: tags attached to a bug at creation
  - user_tag_subscription: tags a user follows
  - milestones: name and description; bug counts are derived
  - sessions: server-side sessions with CSRF token and expiry

# Relationships

	users 1──* bugs
	milestones 1──* bugs
	bugs *──* tags (via tag_bug_xref)
	users *──* tags (via user_tag_subscription)
	users 1──* sessions

# Indexes

  - users lower(user_name) (unique, so names are case-insensitively unique)
  - bugs.user_id, bugs.milestone_id, bugs.create_date
  - tag_bug_xref.bug_id
  - sessions.expires_at
*/
package db
