// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the SQL data access layer for users, bugs, tags, milestones
and sessions.

	s := store.New(conn, cfg.DatabaseType)
	bugs, err := s.ListBugs(ctx)

Queries use $N placeholders, which both lib/pq and modernc.org/sqlite accept.
The only dialect-specific SQL is the title search (strpos vs instr) and the
transaction isolation level.

# Errors

Lookups that match no row return ErrNotFound. CreateUser returns
ErrAlreadyExists when the name collides case-insensitively. UpdateUser
returns ErrRetriesExhausted after MaxUpdateAttempts conflicting attempts.
IsRetryable classifies driver errors:

  - postgres: SQLSTATE class 23, 40001, 40P01
  - sqlite: SQLITE_BUSY, SQLITE_LOCKED, SQLITE_CONSTRAINT

# Idempotent Inserts

Tag creation inside CreateBug and Subscribe use ON CONFLICT DO NOTHING, so repeating them has no
effect.

# Transactions

CreateBug inserts the bug, its new tags and the tag links in one transaction.
UpdateUser runs each attempt in its own SERIALIZABLE transaction on postgres.

# Tags On Bug Lists

Bug queries close their rows before a single follow-up query loads tags for
every returned bug.
*/
package store
