// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/bug-tracker/cliparse"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db      *sql.DB
	dialect string
}

func New(db *sql.DB, dialect string) *Store {
	return &Store{db: db, dialect: dialect}
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) postgres() bool {
	return s.dialect == cliparse.DatabasePostgres
}

// serializable returns the isolation used for read-modify-write transactions.
// SQLite transactions are already serialized by the database lock.
func (s *Store) serializable() *sql.TxOptions {
	if s.postgres() {
		return &sql.TxOptions{Isolation: sql.LevelSerializable}
	}
	return nil
}

// inTx runs fn in a transaction, committing on success and rolling back otherwise.
func (s *Store) inTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
