package lifecycle

import (
	"context"

	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/store"
)

// Store is the persistence the engine needs. Conditional transitions
// report false when the row was not in the expected status.
type Store interface {
	GetItem(ctx context.Context, id string) (*model.Item, error)
	GetRequest(ctx context.Context, id string) (*model.Request, error)
	CreateRequest(ctx context.Context, in store.NewRequest) (*model.Request, error)
	TransitionItem(ctx context.Context, id string, from, to model.ItemStatus) (bool, error)
	TransitionRequest(ctx context.Context, id string, from, to model.RequestStatus) (bool, error)
	CreateRating(ctx context.Context, in store.NewRating) (*model.Rating, error)
	HasRating(ctx context.Context, requestID, fromUserID string) (bool, error)
	// Tx runs fn atomically. Writes made through the Store passed to fn
	// are discarded when fn returns an error.
	Tx(ctx context.Context, fn func(Store) error) error
}

// Dispatcher receives the events produced by committed transitions.
type Dispatcher interface {
	Dispatch(ctx context.Context, evs ...model.Event)
}

// FromStore adapts the SQLite store to the engine.
func FromStore(s *store.Store) Store {
	return sqlStore{s}
}

type sqlStore struct {
	*store.Store
}

func (s sqlStore) Tx(ctx context.Context, fn func(Store) error) error {
	return s.Store.Tx(ctx, func(tx *store.Store) error {
		return fn(sqlStore{tx})
	})
}
