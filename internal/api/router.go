package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/erazemk/izposoja/internal/lifecycle"
	"github.com/erazemk/izposoja/internal/notify"
	"github.com/erazemk/izposoja/internal/ratelimit"
	"github.com/erazemk/izposoja/internal/store"
)

// Deps are the collaborators the API is built from.
type Deps struct {
	Store         *store.Store
	Engine        *lifecycle.Engine
	Notifications *notify.Dispatcher
	JWTSecret     string
	JWTExpiry     time.Duration
	Logger        *zap.Logger

	// WriteLimiter throttles state-changing requests per client address.
	// LoginLimiter throttles register and login. Nil disables either.
	WriteLimiter ratelimit.Limiter
	LoginLimiter ratelimit.Limiter
}

// NewRouter creates the API router with all endpoints registered, wrapped
// in request ID and access log middleware.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if d.JWTExpiry <= 0 {
		d.JWTExpiry = 7 * 24 * time.Hour
	}

	mux := http.NewServeMux()

	authHandler := &AuthHandler{Store: d.Store, JWTSecret: d.JWTSecret, JWTExpiry: d.JWTExpiry, Logger: logger}
	usersHandler := &UsersHandler{Store: d.Store, Logger: logger}
	itemsHandler := &ItemsHandler{Store: d.Store, Engine: d.Engine, Logger: logger}
	requestsHandler := &RequestsHandler{Store: d.Store, Engine: d.Engine, Logger: logger}
	ratingsHandler := &RatingsHandler{Engine: d.Engine, Logger: logger}
	notificationsHandler := &NotificationsHandler{Notifications: d.Notifications, Logger: logger}

	authMW := AuthMiddleware(d.JWTSecret, d.Store, logger)
	loginLimit := limit(d.LoginLimiter, logger)
	writeLimit := limit(d.WriteLimiter, logger)

	authed := func(h http.HandlerFunc) http.Handler { return authMW(h) }
	write := func(h http.HandlerFunc) http.Handler { return writeLimit(authMW(h)) }

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.DB().PingContext(r.Context()); err != nil {
			writeError(w, r, logger, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]bool{"ok": true})
	})

	// Public: account creation and login.
	mux.Handle("POST /api/auth/register", loginLimit(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/auth/login", loginLimit(http.HandlerFunc(authHandler.Login)))

	mux.Handle("POST /api/auth/logout", authed(authHandler.Logout))
	mux.Handle("GET /api/auth/me", authed(authHandler.Me))
	mux.Handle("PUT /api/auth/password", write(authHandler.ChangePassword))

	// Items: browsing is public, writes are owner-only.
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.Handle("POST /api/items", write(itemsHandler.Create))
	mux.Handle("PUT /api/items/{id}", write(itemsHandler.Update))
	mux.Handle("DELETE /api/items/{id}", write(itemsHandler.Delete))
	mux.Handle("PUT /api/items/{id}/availability", write(itemsHandler.SetAvailability))
	mux.Handle("GET /api/my-items", authed(itemsHandler.Mine))

	// Requests.
	mux.Handle("POST /api/requests", write(requestsHandler.Create))
	mux.Handle("GET /api/requests/{id}", authed(requestsHandler.Get))
	mux.Handle("PUT /api/requests/{id}/status", write(requestsHandler.UpdateStatus))
	mux.Handle("GET /api/my-requests", authed(requestsHandler.Mine))
	mux.Handle("GET /api/incoming-requests", authed(requestsHandler.Incoming))

	// Ratings and profiles.
	mux.Handle("POST /api/ratings", write(ratingsHandler.Create))
	mux.HandleFunc("GET /api/users/{id}", usersHandler.Get)
	mux.HandleFunc("GET /api/users/{id}/ratings", usersHandler.Ratings)
	mux.Handle("PUT /api/users/me", write(usersHandler.UpdateMe))

	// Notifications.
	mux.Handle("GET /api/notifications", authed(notificationsHandler.List))
	mux.Handle("GET /api/notifications/unread-count", authed(notificationsHandler.UnreadCount))
	mux.Handle("PUT /api/notifications/{id}/read", authed(notificationsHandler.MarkRead))
	mux.Handle("PUT /api/notifications/read-all", authed(notificationsHandler.MarkAllRead))

	return RequestIDMiddleware(LoggingMiddleware(logger)(mux))
}

func limit(l ratelimit.Limiter, logger *zap.Logger) func(http.Handler) http.Handler {
	if l == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return RateLimit(l, logger)
}
