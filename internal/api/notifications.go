package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/izposoja/internal/notify"
)

// NotificationsHandler serves the caller's notification inbox.
type NotificationsHandler struct {
	Notifications *notify.Dispatcher
	Logger        *zap.Logger
}

// List handles GET /api/notifications.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Notifications.List(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	jsonResponse(w, http.StatusOK, list)
}

// UnreadCount handles GET /api/notifications/unread-count.
func (h *NotificationsHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.Notifications.UnreadCount(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]int{"count": n})
}

// MarkRead handles PUT /api/notifications/{id}/read.
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Notifications.MarkRead(r.Context(), callerID(r), r.PathValue("id")); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles PUT /api/notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Notifications.MarkAllRead(r.Context(), callerID(r)); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
