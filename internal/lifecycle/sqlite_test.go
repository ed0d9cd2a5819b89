package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erazemk/izposoja/internal/apperr"
	"github.com/erazemk/izposoja/internal/db"
	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/notify"
	"github.com/erazemk/izposoja/internal/store"
)

type brokenNotifications struct {
	*store.Store
}

func (brokenNotifications) CreateNotification(context.Context, model.Event) (*model.Notification, error) {
	return nil, errors.New("notifications table locked")
}

func seed(t *testing.T, s *store.Store, borrowers int) (owner *model.User, item *model.Item, users []*model.User) {
	t.Helper()
	ctx := context.Background()
	owner, err := s.CreateUser(ctx, "owner@example.com", "h", store.UserProfile{FirstName: "Una", LastName: "Owner"})
	require.NoError(t, err)
	item, err = s.CreateItem(ctx, owner.ID, store.ItemFields{
		Title: "Laptop", Category: model.CategoryLaptop, Condition: model.ConditionGood,
	})
	require.NoError(t, err)
	for i := range borrowers {
		u, err := s.CreateUser(ctx, fmt.Sprintf("b%d@example.com", i), "h", store.UserProfile{FirstName: "B", LastName: "B"})
		require.NoError(t, err)
		users = append(users, u)
	}
	return owner, item, users
}

func TestConcurrentRequestsReserveOnce(t *testing.T) {
	// A file database gives each goroutine its own pooled connection.
	database := db.NewFileTestDB(t)
	s := store.New(database)
	_, item, borrowers := seed(t, s, 8)
	engine := New(FromStore(s), notify.New(s, nil, zap.NewNop()), zap.NewNop())

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, lost int
	)
	for _, b := range borrowers {
		wg.Add(1)
		go func(callerID string) {
			defer wg.Done()
			_, err := engine.CreateRequest(context.Background(), callerID, RequestInput{ItemID: item.ID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, apperr.ErrInvalidTransition):
				lost++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(b.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, len(borrowers)-1, lost)

	got, err := s.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ItemRequested, got.Status)

	var requests int
	require.NoError(t, database.Get(&requests, `SELECT COUNT(*) FROM requests WHERE item_id = ?`, item.ID))
	assert.Equal(t, 1, requests)
}

func TestNotificationFailureKeepsTransition(t *testing.T) {
	s := store.New(db.NewTestDB(t))
	owner, item, borrowers := seed(t, s, 1)
	ctx := context.Background()

	good := New(FromStore(s), notify.New(s, nil, zap.NewNop()), zap.NewNop())
	req, err := good.CreateRequest(ctx, borrowers[0].ID, RequestInput{ItemID: item.ID})
	require.NoError(t, err)

	broken := New(FromStore(s), notify.New(brokenNotifications{s}, nil, zap.NewNop()), zap.NewNop())
	got, err := broken.UpdateStatus(ctx, owner.ID, req.ID, model.RequestApproved)
	require.NoError(t, err)
	assert.Equal(t, model.RequestApproved, got.Status)

	persisted, err := s.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestApproved, persisted.Status)
	assert.NotNil(t, persisted.RespondedAt)

	it, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ItemBorrowed, it.Status)

	count, err := s.UnreadCount(ctx, borrowers[0].ID)
	require.NoError(t, err)
	assert.Zero(t, count, "approval notification was dropped")
}

func TestSQLiteRollback(t *testing.T) {
	s := store.New(db.NewTestDB(t))
	owner, item, borrowers := seed(t, s, 1)
	ctx := context.Background()
	engine := New(FromStore(s), notify.New(s, nil, zap.NewNop()), zap.NewNop())

	req, err := engine.CreateRequest(ctx, borrowers[0].ID, RequestInput{ItemID: item.ID})
	require.NoError(t, err)

	// Break the item side of the transition so the request write must roll back.
	_, err = s.TransitionItem(ctx, item.ID, model.ItemRequested, model.ItemUnavailable)
	require.NoError(t, err)

	_, err = engine.UpdateStatus(ctx, owner.ID, req.ID, model.RequestApproved)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	persisted, err := s.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestPending, persisted.Status)
	assert.Nil(t, persisted.RespondedAt)
}

// cancelAfterCommit cancels the caller's context once a transaction ends,
// like a client that disconnects right after its write went through.
type cancelAfterCommit struct {
	Store
	cancel context.CancelFunc
}

func (c cancelAfterCommit) Tx(ctx context.Context, fn func(Store) error) error {
	defer c.cancel()
	return c.Store.Tx(ctx, fn)
}

func TestNotificationsSurviveCallerCancellation(t *testing.T) {
	s := store.New(db.NewTestDB(t))
	owner, item, borrowers := seed(t, s, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine := New(cancelAfterCommit{Store: FromStore(s), cancel: cancel}, notify.New(s, nil, zap.NewNop()), zap.NewNop())

	req, err := engine.CreateRequest(ctx, borrowers[0].ID, RequestInput{ItemID: item.ID})
	require.NoError(t, err)
	require.Error(t, ctx.Err())

	notes, err := s.ListNotifications(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotifyRequestReceived, notes[0].Type)
	assert.Equal(t, req.ID, notes[0].RelatedID)
}
