package api

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/erazemk/izposoja/internal/apperr"
	"github.com/erazemk/izposoja/internal/auth"
	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/store"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	Store     *store.Store
	JWTSecret string
	JWTExpiry time.Duration
	Logger    *zap.Logger
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Location  string `json:"location"`
	Phone     string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if !strings.Contains(req.Email, "@") {
		badRequest(w, "a valid email is required")
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		badRequest(w, "first_name and last_name are required")
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		badRequest(w, err.Error())
		return
	}

	existing, err := h.Store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if existing != nil {
		writeError(w, r, h.Logger, apperr.Conflict("email is already registered"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	user, err := h.Store.CreateUser(r.Context(), req.Email, hash, store.UserProfile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Location:  strings.TrimSpace(req.Location),
		Phone:     strings.TrimSpace(req.Phone),
	})
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	h.Logger.Info("user registered", zap.String("user_id", user.ID))
	h.issue(w, r, http.StatusCreated, user)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		badRequest(w, "email and password are required")
		return
	}

	user, err := h.Store.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.Logger.Warn("failed login", zap.String("remote", clientIP(r)))
		jsonError(w, http.StatusUnauthorized, codeUnauthenticated, "invalid credentials")
		return
	}

	h.issue(w, r, http.StatusOK, user)
}

func (h *AuthHandler) issue(w http.ResponseWriter, r *http.Request, status int, user *model.User) {
	token, err := auth.GenerateToken(h.JWTSecret, user.ID, user.Email, h.JWTExpiry)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	jsonResponse(w, status, tokenResponse{Token: token, User: user})
}

// Logout handles POST /api/auth/logout. The presented token stops working
// immediately.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	expiresAt := time.Now().Add(h.JWTExpiry)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := h.Store.RevokeToken(r.Context(), claims.ID, expiresAt); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Store.GetUser(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if user == nil {
		jsonError(w, http.StatusUnauthorized, codeUnauthenticated, "user no longer exists")
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		badRequest(w, "current_password and new_password are required")
		return
	}
	if err := model.ValidatePassword(req.NewPassword); err != nil {
		badRequest(w, err.Error())
		return
	}

	user, err := h.Store.GetUser(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if user == nil {
		jsonError(w, http.StatusUnauthorized, codeUnauthenticated, "user no longer exists")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		jsonError(w, http.StatusUnauthorized, codeUnauthenticated, "current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	if err := h.Store.UpdateUserPassword(r.Context(), user.ID, hash); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	h.Logger.Info("password changed", zap.String("user_id", user.ID))
	jsonResponse(w, http.StatusOK, map[string]string{"status": "password changed"})
}
