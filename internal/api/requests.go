package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/erazemk/izposoja/internal/apperr"
	"github.com/erazemk/izposoja/internal/lifecycle"
	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/policy"
	"github.com/erazemk/izposoja/internal/store"
)

// RequestsHandler handles borrow request endpoints.
type RequestsHandler struct {
	Store  *store.Store
	Engine *lifecycle.Engine
	Logger *zap.Logger
}

type createRequestRequest struct {
	ItemID    string     `json:"item_id"`
	Message   string     `json:"message"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// Create handles POST /api/requests.
func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	created, err := h.Engine.CreateRequest(r.Context(), callerID(r), lifecycle.RequestInput{
		ItemID:    req.ItemID,
		Message:   req.Message,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	jsonResponse(w, http.StatusCreated, created)
}

// Get handles GET /api/requests/{id}. Only the two parties may see a request.
func (h *RequestsHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, err := h.Store.GetRequest(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if req == nil {
		writeError(w, r, h.Logger, apperr.NotFound("request not found"))
		return
	}

	item, err := h.Store.GetItem(r.Context(), req.ItemID)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if item == nil || !policy.CanViewRequest(callerID(r), req, item) {
		writeError(w, r, h.Logger, apperr.Unauthorized("not a party to this request"))
		return
	}
	jsonResponse(w, http.StatusOK, req)
}

type statusRequest struct {
	Status model.RequestStatus `json:"status"`
}

// UpdateStatus handles PUT /api/requests/{id}/status.
func (h *RequestsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	updated, err := h.Engine.UpdateStatus(r.Context(), callerID(r), r.PathValue("id"), req.Status)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Mine handles GET /api/my-requests: requests the caller has made.
func (h *RequestsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Store.ListRequestsByRequester(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	jsonResponse(w, http.StatusOK, reqs)
}

// Incoming handles GET /api/incoming-requests: requests on the caller's items.
func (h *RequestsHandler) Incoming(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Store.ListRequestsByOwner(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	jsonResponse(w, http.StatusOK, reqs)
}
