package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/store"
)

// memStore is an in-memory Store. Tx snapshots state and restores it
// when the callback fails.
type memStore struct {
	users    map[string]model.User
	items    map[string]model.Item
	requests map[string]model.Request
	ratings  []model.Rating
	seq      int

	// failItemWrites makes TransitionItem fail, to exercise rollback.
	failItemWrites bool
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]model.User{},
		items:    map[string]model.Item{},
		requests: map[string]model.Request{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) addUser(first string) string {
	id := m.nextID("user")
	m.users[id] = model.User{ID: id, FirstName: first, LastName: "Test"}
	return id
}

func (m *memStore) addItem(ownerID, title string, status model.ItemStatus) string {
	id := m.nextID("item")
	m.items[id] = model.Item{ID: id, Title: title, OwnerID: ownerID, Status: status}
	return id
}

func (m *memStore) GetItem(_ context.Context, id string) (*model.Item, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (m *memStore) GetRequest(_ context.Context, id string) (*model.Request, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (m *memStore) CreateRequest(_ context.Context, in store.NewRequest) (*model.Request, error) {
	u := m.users[in.RequesterID]
	req := model.Request{
		ID:                 m.nextID("req"),
		ItemID:             in.ItemID,
		RequesterID:        in.RequesterID,
		Status:             model.RequestPending,
		Message:            in.Message,
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		ItemTitle:          m.items[in.ItemID].Title,
		ItemOwnerID:        m.items[in.ItemID].OwnerID,
		RequesterFirstName: u.FirstName,
		RequesterLastName:  u.LastName,
	}
	m.requests[req.ID] = req
	return &req, nil
}

func (m *memStore) TransitionItem(_ context.Context, id string, from, to model.ItemStatus) (bool, error) {
	if m.failItemWrites {
		return false, errors.New("item write failed")
	}
	item, ok := m.items[id]
	if !ok || item.Status != from {
		return false, nil
	}
	item.Status = to
	m.items[id] = item
	return true, nil
}

func (m *memStore) TransitionRequest(_ context.Context, id string, from, to model.RequestStatus) (bool, error) {
	req, ok := m.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	m.requests[id] = req
	return true, nil
}

func (m *memStore) CreateRating(_ context.Context, in store.NewRating) (*model.Rating, error) {
	r := model.Rating{
		ID:         m.nextID("rating"),
		RequestID:  in.RequestID,
		FromUserID: in.FromUserID,
		ToUserID:   in.ToUserID,
		Rating:     in.Rating,
		Comment:    in.Comment,
	}
	m.ratings = append(m.ratings, r)
	return &r, nil
}

func (m *memStore) HasRating(_ context.Context, requestID, fromUserID string) (bool, error) {
	return slices.ContainsFunc(m.ratings, func(r model.Rating) bool {
		return r.RequestID == requestID && r.FromUserID == fromUserID
	}), nil
}

func (m *memStore) Tx(_ context.Context, fn func(Store) error) error {
	items := maps.Clone(m.items)
	requests := maps.Clone(m.requests)
	ratings := slices.Clone(m.ratings)

	if err := fn(m); err != nil {
		m.items, m.requests, m.ratings = items, requests, ratings
		return err
	}
	return nil
}

// recorder is a Dispatcher that keeps every event.
type recorder struct {
	events []model.Event
}

func (r *recorder) Dispatch(_ context.Context, evs ...model.Event) {
	r.events = append(r.events, evs...)
}

func (r *recorder) reset() { r.events = nil }
