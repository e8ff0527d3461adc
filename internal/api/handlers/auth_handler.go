package handlers

import (
	"net/http"
	"time"

	"github.com/dashspec/engine/internal/api/middleware"
	"github.com/dashspec/engine/internal/api/types"
	"github.com/dashspec/engine/internal/models"
	"github.com/dashspec/engine/internal/services"
)

type AuthHandler struct {
	auth     services.AuthService
	tokenTTL time.Duration
}

func NewAuthHandler(auth services.AuthService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, tokenTTL: tokenTTL}
}

func userResponse(u *models.User) types.UserResponse {
	return types.UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

// Register godoc
// @Summary Register a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body types.RegisterRequest true "credentials"
// @Success 201 {object} types.APIResponse
// @Failure 400 {object} types.APIResponse
// @Failure 409 {object} types.APIResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, userResponse(u))
}

// Login godoc
// @Summary Exchange credentials for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body types.LoginRequest true "credentials"
// @Success 200 {object} types.APIResponse{data=types.TokenResponse}
// @Failure 401 {object} types.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	token, u, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, types.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.tokenTTL.Seconds()),
		User:        userResponse(u),
	})
}

// Logout godoc
// @Summary Revoke the presented bearer token
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} types.APIResponse
// @Failure 401 {object} types.APIResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, types.APIResponse{Error: &types.APIError{Code: "unauthorized", Message: "missing bearer token"}})
		return
	}
	if err := h.auth.Logout(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true})
}
