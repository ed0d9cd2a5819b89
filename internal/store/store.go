// Package store persists users, items, requests, ratings and notifications
// in SQLite.
//
// Getters return (nil, nil) when the row does not exist. Conditional
// updates report whether a row matched so callers can detect lost races.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store runs queries against the database or, inside Tx, against a
// transaction.
type Store struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
	now func() time.Time
}

// New returns a Store backed by db.
func New(db *sqlx.DB) *Store {
	return &Store{
		db:  db,
		ext: db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock returns a copy of s that timestamps rows using now.
func (s *Store) WithClock(now func() time.Time) *Store {
	c := *s
	c.now = now
	return &c
}

// DB returns the underlying database handle.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Tx runs fn inside a transaction. The transaction commits when fn returns
// nil and rolls back otherwise. Nested calls reuse the outer transaction.
func (s *Store) Tx(ctx context.Context, fn func(*Store) error) error {
	if _, ok := s.ext.(*sqlx.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Store{db: s.db, ext: tx, now: s.now}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// get scans a single row into dest and reports whether it existed.
func (s *Store) get(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	err := sqlx.GetContext(ctx, s.ext, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// affected runs an update and reports whether any row matched.
func (s *Store) affected(ctx context.Context, query string, args ...any) (bool, error) {
	result, err := s.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting affected rows: %w", err)
	}
	return n > 0, nil
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// scalar scans a query that always returns exactly one row, such as COUNT(*).
func (s *Store) scalar(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, s.ext, dest, query, args...)
}

func (s *Store) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, s.ext, dest, query, args...)
}
