package handler

import (
	"context"
	"net/http"

	"github.com/iho/creditbook/internal/adapter/http/dto"
	"github.com/iho/creditbook/internal/usecase"
)

// AuthService verifies operator credentials.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*usecase.LoginResult, error)
}

// LoginObserver counts login attempts.
type LoginObserver interface {
	RecordLogin(success bool)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUC   AuthService
	observer LoginObserver
}

// NewAuthHandler creates a new auth handler. observer may be nil.
func NewAuthHandler(authUC AuthService, observer LoginObserver) *AuthHandler {
	return &AuthHandler{
		authUC:   authUC,
		observer: observer,
	}
}

// Login exchanges a username and password for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.authUC.Login(r.Context(), req.Username, req.Password)
	if h.observer != nil {
		h.observer.RecordLogin(err == nil)
	}
	if err != nil {
		respondError(w, err, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginFromResult(result))
}

// Me returns the operator bound to the request.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	op := operator(r)
	if op == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":       op.ID,
		"username": op.Username,
		"role":     string(op.Role),
	})
}
