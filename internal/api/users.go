package api

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/erazemk/izposoja/internal/apperr"
	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/store"
)

// UsersHandler handles profile endpoints.
type UsersHandler struct {
	Store  *store.Store
	Logger *zap.Logger
}

// profile is the public view of a user. Contact details stay private.
type profile struct {
	ID        string           `json:"id"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Bio       string           `json:"bio,omitempty"`
	Location  string           `json:"location,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	Stats     *model.UserStats `json:"stats"`
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	stats, err := h.Store.GetUserStats(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	jsonResponse(w, http.StatusOK, profile{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Bio:       user.Bio,
		Location:  user.Location,
		CreatedAt: user.CreatedAt,
		Stats:     stats,
	})
}

// Ratings handles GET /api/users/{id}/ratings.
func (h *UsersHandler) Ratings(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	ratings, err := h.Store.ListRatingsForUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	jsonResponse(w, http.StatusOK, ratings)
}

type updateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Location  string `json:"location"`
	Phone     string `json:"phone"`
}

// UpdateMe handles PUT /api/users/me.
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	p := store.UserProfile{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Bio:       strings.TrimSpace(req.Bio),
		Location:  strings.TrimSpace(req.Location),
		Phone:     strings.TrimSpace(req.Phone),
	}
	if p.FirstName == "" || p.LastName == "" {
		badRequest(w, "first_name and last_name are required")
		return
	}

	id := callerID(r)
	if err := h.Store.UpdateUserProfile(r.Context(), id, p); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	user, err := h.Store.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

func (h *UsersHandler) user(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user, err := h.Store.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return nil, false
	}
	if user == nil {
		writeError(w, r, h.Logger, apperr.NotFound("user not found"))
		return nil, false
	}
	return user, true
}
