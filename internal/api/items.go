package api

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/erazemk/izposoja/internal/apperr"
	"github.com/erazemk/izposoja/internal/lifecycle"
	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/policy"
	"github.com/erazemk/izposoja/internal/store"
)

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	Store  *store.Store
	Engine *lifecycle.Engine
	Logger *zap.Logger
}

type itemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Condition   string `json:"condition"`
}

func (req itemRequest) fields() (store.ItemFields, error) {
	f := store.ItemFields{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Condition:   req.Condition,
	}
	if f.Title == "" {
		return f, apperr.Validation("title is required")
	}
	if !model.ValidCategory(f.Category) {
		return f, apperr.Validation("unknown category %q", f.Category)
	}
	if !model.ValidCondition(f.Condition) {
		return f, apperr.Validation("unknown condition %q", f.Condition)
	}
	return f, nil
}

// List handles GET /api/items. Supports status, category and owner_id filters.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ItemFilter{
		Status:   model.ItemStatus(q.Get("status")),
		Category: q.Get("category"),
		OwnerID:  q.Get("owner_id"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		badRequest(w, "unknown status")
		return
	}

	items, err := h.Store.ListItems(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Mine handles GET /api/my-items.
func (h *ItemsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListItems(r.Context(), model.ItemFilter{OwnerID: callerID(r)})
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Store.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if item == nil {
		writeError(w, r, h.Logger, apperr.NotFound("item not found"))
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	f, err := req.fields()
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	item, err := h.Store.CreateItem(r.Context(), callerID(r), f)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	h.Logger.Info("item created", zap.String("item_id", item.ID), zap.String("owner_id", item.OwnerID))
	jsonResponse(w, http.StatusCreated, item)
}

// Update handles PUT /api/items/{id}. Only the owner may edit, and the
// item's status is never changed here.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	item, ok := h.owned(w, r, policy.CanEditItem)
	if !ok {
		return
	}

	f, err := req.fields()
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	if err := h.Store.UpdateItem(r.Context(), item.ID, f); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	item, err = h.Store.GetItem(r.Context(), item.ID)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item, ok := h.owned(w, r, policy.CanDeleteItem)
	if !ok {
		return
	}

	if err := h.Store.DeleteItem(r.Context(), item.ID); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	h.Logger.Info("item deleted", zap.String("item_id", item.ID))
	w.WriteHeader(http.StatusNoContent)
}

type availabilityRequest struct {
	Available *bool `json:"available"`
}

// SetAvailability handles PUT /api/items/{id}/availability.
func (h *ItemsHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := decodeJSON(r, &req); err != nil || req.Available == nil {
		badRequest(w, "available is required")
		return
	}

	item, err := h.Engine.SetAvailability(r.Context(), callerID(r), r.PathValue("id"), *req.Available)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// owned loads the path item and checks allow for the caller. It writes the
// error response itself and reports false on failure.
func (h *ItemsHandler) owned(w http.ResponseWriter, r *http.Request, allow func(string, *model.Item) bool) (*model.Item, bool) {
	item, err := h.Store.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return nil, false
	}
	if item == nil {
		writeError(w, r, h.Logger, apperr.NotFound("item not found"))
		return nil, false
	}
	if !allow(callerID(r), item) {
		writeError(w, r, h.Logger, apperr.Unauthorized("only the owner can modify this item"))
		return nil, false
	}
	return item, true
}
