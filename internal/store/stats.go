package store

import (
	"context"
	"fmt"

	"github.com/erazemk/izposoja/internal/model"
)

// GetUserStats computes the activity summary shown on a user's profile.
// Borrowed and lent count approved and completed requests.
func (s *Store) GetUserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	stats := &model.UserStats{}
	err := s.scalar(ctx, stats,
		`SELECT
		    (SELECT COUNT(*) FROM items WHERE owner_id = ?1) AS items_listed,
		    (SELECT COUNT(*) FROM requests
		      WHERE requester_id = ?1 AND status IN ('approved', 'completed')) AS items_borrowed,
		    (SELECT COUNT(*) FROM requests r JOIN items i ON i.id = r.item_id
		      WHERE i.owner_id = ?1 AND r.status IN ('approved', 'completed')) AS items_lent,
		    (SELECT COALESCE(AVG(rating), 0.0) FROM ratings WHERE to_user_id = ?1) AS average_rating,
		    (SELECT COUNT(*) FROM ratings WHERE to_user_id = ?1) AS total_ratings,
		    (SELECT COUNT(*) FROM requests r JOIN items i ON i.id = r.item_id
		      WHERE (r.requester_id = ?1 OR i.owner_id = ?1) AND r.status = 'completed') AS successful_transactions,
		    (SELECT COUNT(*) FROM requests r JOIN items i ON i.id = r.item_id
		      WHERE i.owner_id = ?1 AND r.status = 'pending') AS pending_requests`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting user stats: %w", err)
	}
	return stats, nil
}
