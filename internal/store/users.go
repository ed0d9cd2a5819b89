package store

import (
	"context"
	"fmt"

	"github.com/erazemk/izposoja/internal/model"
)

const userColumns = `id, email, password_hash, first_name, last_name, bio, location, phone, created_at, updated_at`

// UserProfile holds the user-editable profile fields.
type UserProfile struct {
	FirstName string
	LastName  string
	Bio       string
	Location  string
	Phone     string
}

// CreateUser creates a new user.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string, p UserProfile) (*model.User, error) {
	id := newID()
	now := s.now()
	_, err := s.ext.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, bio, location, phone, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, email, passwordHash, p.FirstName, p.LastName, p.Bio, p.Location, p.Phone, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return s.GetUser(ctx, id)
}

// GetUser returns a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	u := &model.User{}
	ok, err := s.get(ctx, u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return u, nil
}

// GetUserByEmail returns a user by email, ignoring case.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	ok, err := s.get(ctx, u, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return u, nil
}

// UpdateUserProfile replaces a user's profile fields.
func (s *Store) UpdateUserProfile(ctx context.Context, id string, p UserProfile) error {
	_, err := s.ext.ExecContext(ctx,
		`UPDATE users SET first_name = ?, last_name = ?, bio = ?, location = ?, phone = ?, updated_at = ?
		 WHERE id = ?`,
		p.FirstName, p.LastName, p.Bio, p.Location, p.Phone, s.now(), id,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

// UpdateUserPassword updates a user's password hash.
func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	_, err := s.ext.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, s.now(), id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}
