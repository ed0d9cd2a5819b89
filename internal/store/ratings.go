package store

import (
	"context"
	"fmt"

	"github.com/erazemk/izposoja/internal/model"
)

// NewRating holds the fields of a rating to create.
type NewRating struct {
	RequestID  string
	FromUserID string
	ToUserID   string
	Rating     int
	Comment    string
}

// CreateRating inserts a rating. The unique index on (request_id,
// from_user_id) rejects a second rating from the same party.
func (s *Store) CreateRating(ctx context.Context, in NewRating) (*model.Rating, error) {
	r := &model.Rating{
		ID:         newID(),
		RequestID:  in.RequestID,
		FromUserID: in.FromUserID,
		ToUserID:   in.ToUserID,
		Rating:     in.Rating,
		Comment:    in.Comment,
		CreatedAt:  s.now(),
	}
	_, err := s.ext.ExecContext(ctx,
		`INSERT INTO ratings (id, request_id, from_user_id, to_user_id, rating, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.RequestID, r.FromUserID, r.ToUserID, r.Rating, r.Comment, r.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating rating: %w", err)
	}
	return r, nil
}

// HasRating reports whether a user has already rated a request.
func (s *Store) HasRating(ctx context.Context, requestID, fromUserID string) (bool, error) {
	var count int
	err := s.scalar(ctx, &count,
		`SELECT COUNT(*) FROM ratings WHERE request_id = ? AND from_user_id = ?`,
		requestID, fromUserID,
	)
	if err != nil {
		return false, fmt.Errorf("checking rating: %w", err)
	}
	return count > 0, nil
}

// ListRatingsForUser returns the ratings a user has received, newest first.
func (s *Store) ListRatingsForUser(ctx context.Context, userID string) ([]model.Rating, error) {
	ratings := []model.Rating{}
	err := s.selectAll(ctx, &ratings,
		`SELECT r.id, r.request_id, r.from_user_id, r.to_user_id, r.rating, r.comment, r.created_at,
		        u.first_name AS from_first_name, u.last_name AS from_last_name
		 FROM ratings r
		 JOIN users u ON u.id = r.from_user_id
		 WHERE r.to_user_id = ?
		 ORDER BY r.created_at DESC, r.id DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing ratings: %w", err)
	}
	return ratings, nil
}
