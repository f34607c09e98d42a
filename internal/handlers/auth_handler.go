package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/flowguide/internal/models"
	"github.com/vikasavnish/flowguide/internal/services"
)

// AuthHandler handles demo login and the persisted demo session
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes adds the session routes. Login is public and registered
// by the router itself.
func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/session", h.GetSession).Methods("GET")
	router.HandleFunc("/session", h.Logout).Methods("DELETE")
}

// Login checks the demo passcode, records the session and returns a JWT
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.authService.Authenticate(strings.TrimSpace(req.UserID), req.Passcode)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		respondError(w, err)
		return
	}
	if _, err := h.authService.SaveSession(user); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	session, err := h.authService.LoadSession()
	if err != nil {
		respondError(w, err)
		return
	}
	if session == nil {
		respondError(w, services.ErrNotFound)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// Logout clears the persisted session. The bearer token stays valid until
// it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	respondNoContent(w, h.authService.ClearSession())
}
