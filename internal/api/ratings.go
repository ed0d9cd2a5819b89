package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/izposoja/internal/lifecycle"
)

// RatingsHandler handles rating submission.
type RatingsHandler struct {
	Engine *lifecycle.Engine
	Logger *zap.Logger
}

type createRatingRequest struct {
	RequestID string `json:"request_id"`
	ToUserID  string `json:"to_user_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// Create handles POST /api/ratings.
func (h *RatingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRatingRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	rating, err := h.Engine.CreateRating(r.Context(), callerID(r), lifecycle.RatingInput{
		RequestID: req.RequestID,
		ToUserID:  req.ToUserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	jsonResponse(w, http.StatusCreated, rating)
}
