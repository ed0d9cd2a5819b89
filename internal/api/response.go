package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/izposoja/internal/apperr"
)

// Error codes that have no apperr kind.
const (
	codeInternal        = "internal_error"
	codeUnauthenticated = "unauthenticated"
	codeRateLimited     = "rate_limited"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			zap.L().Warn("encoding response", zap.Error(err))
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, code, message string) {
	jsonResponse(w, status, errorBody{Error: code, Message: message})
}

// badRequest writes a validation error.
func badRequest(w http.ResponseWriter, message string) {
	jsonError(w, http.StatusBadRequest, string(apperr.KindValidation), message)
}

// writeError maps err to a response. Expected failures carry their kind
// and message. Anything else is logged and reported as an opaque 500.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	if e, ok := apperr.As(err); ok {
		jsonError(w, e.HTTPStatus(), string(e.Kind), e.Error())
		return
	}

	logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestID(r.Context())),
		zap.Error(err),
	)
	jsonError(w, http.StatusInternalServerError, codeInternal, "")
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(target)
}
