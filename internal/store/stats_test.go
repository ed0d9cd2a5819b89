package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/izposoja/internal/model"
)

func TestGetUserStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := mustUser(t, s, "o@example.com", "Owner")
	borrower := mustUser(t, s, "b@example.com", "Borrower")
	laptop := mustItem(t, s, owner.ID, "Laptop")
	mustItem(t, s, owner.ID, "Monitor")
	audio := mustItem(t, s, owner.ID, "Headphones")

	done, err := s.CreateRequest(ctx, NewRequest{ItemID: laptop.ID, RequesterID: borrower.ID})
	require.NoError(t, err)
	_, err = s.TransitionRequest(ctx, done.ID, model.RequestPending, model.RequestApproved)
	require.NoError(t, err)
	_, err = s.TransitionRequest(ctx, done.ID, model.RequestApproved, model.RequestCompleted)
	require.NoError(t, err)

	_, err = s.CreateRequest(ctx, NewRequest{ItemID: audio.ID, RequesterID: borrower.ID})
	require.NoError(t, err)

	_, err = s.CreateRating(ctx, NewRating{RequestID: done.ID, FromUserID: borrower.ID, ToUserID: owner.ID, Rating: 4})
	require.NoError(t, err)
	_, err = s.CreateRating(ctx, NewRating{RequestID: done.ID, FromUserID: owner.ID, ToUserID: borrower.ID, Rating: 5})
	require.NoError(t, err)

	stats, err := s.GetUserStats(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.ItemsListed)
	assert.Equal(t, 0, stats.ItemsBorrowed)
	assert.Equal(t, 1, stats.ItemsLent)
	assert.Equal(t, 1, stats.TotalRatings)
	assert.InDelta(t, 4.0, stats.AverageRating, 0.001)
	assert.Equal(t, 1, stats.SuccessfulTransactions)
	assert.Equal(t, 1, stats.PendingRequests)

	stats, err = s.GetUserStats(ctx, borrower.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.ItemsListed)
	assert.Equal(t, 1, stats.ItemsBorrowed)
	assert.Equal(t, 1, stats.SuccessfulTransactions)
	assert.Equal(t, 0, stats.PendingRequests)
	assert.InDelta(t, 5.0, stats.AverageRating, 0.001)
}

func TestGetUserStatsEmpty(t *testing.T) {
	s := newTestStore(t)
	user := mustUser(t, s, "new@example.com", "New")

	stats, err := s.GetUserStats(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UserStats{}, *stats)
}
