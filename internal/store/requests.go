package store

import (
	"context"
	"fmt"
	"time"

	"github.com/erazemk/izposoja/internal/model"
)

const requestSelect = `SELECT r.id, r.item_id, r.requester_id, r.status, r.message,
       r.start_date, r.end_date, r.created_at, r.updated_at, r.responded_at,
       i.title AS item_title, i.owner_id AS item_owner_id,
       u.first_name AS requester_first_name, u.last_name AS requester_last_name
FROM requests r
JOIN items i ON i.id = r.item_id
JOIN users u ON u.id = r.requester_id`

// NewRequest holds the caller-supplied fields of a borrow request.
type NewRequest struct {
	ItemID      string
	RequesterID string
	Message     string
	StartDate   *time.Time
	EndDate     *time.Time
}

// CreateRequest inserts a pending request.
func (s *Store) CreateRequest(ctx context.Context, in NewRequest) (*model.Request, error) {
	id := newID()
	now := s.now()
	_, err := s.ext.ExecContext(ctx,
		`INSERT INTO requests (id, item_id, requester_id, status, message, start_date, end_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.ItemID, in.RequesterID, model.RequestPending, in.Message, in.StartDate, in.EndDate, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	return s.GetRequest(ctx, id)
}

// GetRequest returns a request by ID, joined with its item and requester.
func (s *Store) GetRequest(ctx context.Context, id string) (*model.Request, error) {
	r := &model.Request{}
	ok, err := s.get(ctx, r, requestSelect+` WHERE r.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting request: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return r, nil
}

// TransitionRequest moves a request from one status to another and stamps
// responded_at. It reports false without writing when the request is not
// currently in from.
func (s *Store) TransitionRequest(ctx context.Context, id string, from, to model.RequestStatus) (bool, error) {
	now := s.now()
	ok, err := s.affected(ctx,
		`UPDATE requests SET status = ?, updated_at = ?, responded_at = ?
		 WHERE id = ? AND status = ?`,
		to, now, now, id, from,
	)
	if err != nil {
		return false, fmt.Errorf("updating request status: %w", err)
	}
	return ok, nil
}

// ListRequestsByRequester returns the requests a user has made, newest first.
func (s *Store) ListRequestsByRequester(ctx context.Context, userID string) ([]model.Request, error) {
	requests := []model.Request{}
	err := s.selectAll(ctx, &requests,
		requestSelect+` WHERE r.requester_id = ? ORDER BY r.created_at DESC, r.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing requests by requester: %w", err)
	}
	return requests, nil
}

// ListRequestsByOwner returns requests made against a user's items, newest first.
func (s *Store) ListRequestsByOwner(ctx context.Context, ownerID string) ([]model.Request, error) {
	requests := []model.Request{}
	err := s.selectAll(ctx, &requests,
		requestSelect+` WHERE i.owner_id = ? ORDER BY r.created_at DESC, r.id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing incoming requests: %w", err)
	}
	return requests, nil
}
