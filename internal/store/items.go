package store

import (
	"context"
	"fmt"

	"github.com/erazemk/izposoja/internal/apperr"
	"github.com/erazemk/izposoja/internal/model"
)

const itemSelect = `SELECT i.id, i.title, i.description, i.category, i.condition, i.owner_id,
       i.status, i.created_at, i.updated_at,
       u.first_name AS owner_first_name, u.last_name AS owner_last_name
FROM items i
JOIN users u ON u.id = i.owner_id`

// ItemFields holds the owner-editable fields of an item.
type ItemFields struct {
	Title       string
	Description string
	Category    string
	Condition   string
}

// CreateItem lists a new item as available.
func (s *Store) CreateItem(ctx context.Context, ownerID string, f ItemFields) (*model.Item, error) {
	id := newID()
	now := s.now()
	_, err := s.ext.ExecContext(ctx,
		`INSERT INTO items (id, title, description, category, condition, owner_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, f.Title, f.Description, f.Category, f.Condition, ownerID, model.ItemAvailable, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return s.GetItem(ctx, id)
}

// GetItem returns an item by ID.
func (s *Store) GetItem(ctx context.Context, id string) (*model.Item, error) {
	item := &model.Item{}
	ok, err := s.get(ctx, item, itemSelect+` WHERE i.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return item, nil
}

// ListItems returns items matching filter, newest first.
func (s *Store) ListItems(ctx context.Context, filter model.ItemFilter) ([]model.Item, error) {
	query := itemSelect + ` WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND i.status = ?`
		args = append(args, filter.Status)
	}
	if filter.Category != "" {
		query += ` AND i.category = ?`
		args = append(args, filter.Category)
	}
	if filter.OwnerID != "" {
		query += ` AND i.owner_id = ?`
		args = append(args, filter.OwnerID)
	}

	query += ` ORDER BY i.created_at DESC, i.id DESC`

	items := []model.Item{}
	if err := s.selectAll(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return items, nil
}

// UpdateItem updates an item's descriptive fields. Status is untouched.
func (s *Store) UpdateItem(ctx context.Context, id string, f ItemFields) error {
	_, err := s.ext.ExecContext(ctx,
		`UPDATE items SET title = ?, description = ?, category = ?, condition = ?, updated_at = ?
		 WHERE id = ?`,
		f.Title, f.Description, f.Category, f.Condition, s.now(), id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem removes an item and, by cascade, its requests. It fails with
// a conflict while a pending or approved request references the item.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	return s.Tx(ctx, func(tx *Store) error {
		var active int
		err := tx.scalar(ctx, &active,
			`SELECT COUNT(*) FROM requests WHERE item_id = ? AND status IN (?, ?)`,
			id, model.RequestPending, model.RequestApproved,
		)
		if err != nil {
			return fmt.Errorf("checking active requests: %w", err)
		}
		if active > 0 {
			return apperr.Conflict("item has an active request")
		}

		if _, err := tx.ext.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting item: %w", err)
		}
		return nil
	})
}

// TransitionItem moves an item from one status to another. It reports
// false without writing when the item is not currently in from.
func (s *Store) TransitionItem(ctx context.Context, id string, from, to model.ItemStatus) (bool, error) {
	ok, err := s.affected(ctx,
		`UPDATE items SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to, s.now(), id, from,
	)
	if err != nil {
		return false, fmt.Errorf("updating item status: %w", err)
	}
	return ok, nil
}
