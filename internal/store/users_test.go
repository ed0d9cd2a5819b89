package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "ana@example.com", "hash123", UserProfile{
		FirstName: "Ana",
		LastName:  "Novak",
		Location:  "Ljubljana",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Ana", user.FirstName)
	assert.Equal(t, "Ljubljana", user.Location)

	got, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.Equal(t, "hash123", got.PasswordHash)

	missing, err := s.GetUser(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetUserByEmailIgnoresCase(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, "Alice@Example.com", "Alice")

	user, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Alice", user.FirstName)

	_, err = s.CreateUser(ctx, "ALICE@example.com", "hash", UserProfile{FirstName: "A", LastName: "B"})
	assert.Error(t, err, "email must be unique regardless of case")

	missing, err := s.GetUserByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateUserProfileAndPassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := mustUser(t, s, "u@example.com", "Old")

	require.NoError(t, s.UpdateUserProfile(ctx, user.ID, UserProfile{
		FirstName: "New",
		LastName:  "Name",
		Bio:       "Likes synths",
		Phone:     "+386 1 234 5678",
	}))
	require.NoError(t, s.UpdateUserPassword(ctx, user.ID, "newhash"))

	got, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.FirstName)
	assert.Equal(t, "Likes synths", got.Bio)
	assert.Equal(t, "newhash", got.PasswordHash)
}
