package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/izposoja/internal/apperr"
	"github.com/erazemk/izposoja/internal/db"
	"github.com/erazemk/izposoja/internal/model"
)

func TestCreateAndGetItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := mustUser(t, s, "owner@example.com", "Olga")

	item, err := s.CreateItem(ctx, owner.ID, ItemFields{
		Title:       "ThinkPad X220",
		Description: "Slightly scratched",
		Category:    model.CategoryLaptop,
		Condition:   model.ConditionFair,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ItemAvailable, item.Status)
	assert.Equal(t, "Olga", item.OwnerFirstName)

	missing, err := s.GetItem(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListItemsFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := mustUser(t, s, "a@example.com", "A")
	b := mustUser(t, s, "b@example.com", "B")

	mustItem(t, s, a.ID, "Laptop A")
	monitor, err := s.CreateItem(ctx, b.ID, ItemFields{
		Title: "Monitor B", Category: model.CategoryMonitor, Condition: model.ConditionNew,
	})
	require.NoError(t, err)
	_, err = s.TransitionItem(ctx, monitor.ID, model.ItemAvailable, model.ItemUnavailable)
	require.NoError(t, err)

	all, err := s.ListItems(ctx, model.ItemFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	available, err := s.ListItems(ctx, model.ItemFilter{Status: model.ItemAvailable})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Laptop A", available[0].Title)

	monitors, err := s.ListItems(ctx, model.ItemFilter{Category: model.CategoryMonitor})
	require.NoError(t, err)
	require.Len(t, monitors, 1)
	assert.Equal(t, monitor.ID, monitors[0].ID)

	byOwner, err := s.ListItems(ctx, model.ItemFilter{OwnerID: a.ID})
	require.NoError(t, err)
	require.Len(t, byOwner, 1)
	assert.Equal(t, a.ID, byOwner[0].OwnerID)

	none, err := s.ListItems(ctx, model.ItemFilter{OwnerID: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUpdateItemKeepsStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := mustUser(t, s, "o@example.com", "O")
	item := mustItem(t, s, owner.ID, "Old title")

	_, err := s.TransitionItem(ctx, item.ID, model.ItemAvailable, model.ItemRequested)
	require.NoError(t, err)

	require.NoError(t, s.UpdateItem(ctx, item.ID, ItemFields{
		Title: "New title", Category: model.CategoryAudio, Condition: model.ConditionLikeNew,
	}))

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "New title", got.Title)
	assert.Equal(t, model.CategoryAudio, got.Category)
	assert.Equal(t, model.ItemRequested, got.Status)
}

func TestTransitionItemIsConditional(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := mustUser(t, s, "o@example.com", "O")
	item := mustItem(t, s, owner.ID, "Headphones")

	ok, err := s.TransitionItem(ctx, item.ID, model.ItemAvailable, model.ItemRequested)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.TransitionItem(ctx, item.ID, model.ItemAvailable, model.ItemRequested)
	require.NoError(t, err)
	assert.False(t, ok, "item is no longer available")
}

func TestDeleteItemRefusedWhileRequested(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := mustUser(t, s, "o@example.com", "O")
	borrower := mustUser(t, s, "b@example.com", "B")
	item := mustItem(t, s, owner.ID, "Tablet")

	req, err := s.CreateRequest(ctx, NewRequest{ItemID: item.ID, RequesterID: borrower.ID})
	require.NoError(t, err)

	err = s.DeleteItem(ctx, item.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	ok, err := s.TransitionRequest(ctx, req.ID, model.RequestPending, model.RequestCancelled)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.DeleteItem(ctx, item.ID))

	gone, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	cascaded, err := s.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Nil(t, cascaded, "requests are deleted with their item")
}

func TestDeleteItemCascadesOnPooledConnections(t *testing.T) {
	database := db.NewFileTestDB(t)
	s := New(database)
	ctx := context.Background()
	owner := mustUser(t, s, "o@example.com", "O")
	borrower := mustUser(t, s, "b@example.com", "B")
	item := mustItem(t, s, owner.ID, "Monitor")

	req, err := s.CreateRequest(ctx, NewRequest{ItemID: item.ID, RequesterID: borrower.ID})
	require.NoError(t, err)
	ok, err := s.TransitionRequest(ctx, req.ID, model.RequestPending, model.RequestDeclined)
	require.NoError(t, err)
	require.True(t, ok)

	// Keep one connection busy so the delete runs on another.
	held, err := database.Connx(ctx)
	require.NoError(t, err)
	defer held.Close()

	require.NoError(t, s.DeleteItem(ctx, item.ID))

	var left int
	require.NoError(t, database.GetContext(ctx, &left, `SELECT COUNT(*) FROM requests WHERE item_id = ?`, item.ID))
	assert.Zero(t, left, "requests are deleted with their item")
}
