package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRatingAndDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := mustUser(t, s, "o@example.com", "Owner")
	borrower := mustUser(t, s, "b@example.com", "Borrower")
	item := mustItem(t, s, owner.ID, "Monitor")
	req, err := s.CreateRequest(ctx, NewRequest{ItemID: item.ID, RequesterID: borrower.ID})
	require.NoError(t, err)

	has, err := s.HasRating(ctx, req.ID, borrower.ID)
	require.NoError(t, err)
	assert.False(t, has)

	rating, err := s.CreateRating(ctx, NewRating{
		RequestID: req.ID, FromUserID: borrower.ID, ToUserID: owner.ID, Rating: 5, Comment: "Great",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, rating.Rating)

	has, err = s.HasRating(ctx, req.ID, borrower.ID)
	require.NoError(t, err)
	assert.True(t, has)

	_, err = s.CreateRating(ctx, NewRating{
		RequestID: req.ID, FromUserID: borrower.ID, ToUserID: owner.ID, Rating: 1,
	})
	assert.Error(t, err, "unique index rejects a second rating from the same party")

	_, err = s.CreateRating(ctx, NewRating{
		RequestID: req.ID, FromUserID: owner.ID, ToUserID: borrower.ID, Rating: 4,
	})
	require.NoError(t, err, "the other party may still rate")

	received, err := s.ListRatingsForUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "Borrower", received[0].FromFirstName)
	assert.Equal(t, "Great", received[0].Comment)
}

func TestCreateRatingRejectsOutOfRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := mustUser(t, s, "o@example.com", "O")
	borrower := mustUser(t, s, "b@example.com", "B")
	item := mustItem(t, s, owner.ID, "Tablet")
	req, err := s.CreateRequest(ctx, NewRequest{ItemID: item.ID, RequesterID: borrower.ID})
	require.NoError(t, err)

	_, err = s.CreateRating(ctx, NewRating{
		RequestID: req.ID, FromUserID: borrower.ID, ToUserID: owner.ID, Rating: 6,
	})
	assert.Error(t, err)
}
