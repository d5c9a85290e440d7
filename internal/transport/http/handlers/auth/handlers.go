package authhandler

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kitaguard/internal/domain/auth"
	"kitaguard/internal/transport/http/api"
	"kitaguard/internal/transport/http/middleware"
)

const tokenTTL = 8 * time.Hour

type Handler struct {
	Service *auth.Service
	Secret  string
}

func NewHandler(svc *auth.Service, secret string) *Handler {
	return &Handler{Service: svc, Secret: secret}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RateLimit(10, time.Minute)).Post("/auth/login", h.handleLogin)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Email == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "email and password are required", middleware.GetRequestID(r.Context()))
		return
	}

	user, err := h.Service.Authenticate(r.Context(), payload.Email, payload.Password, clientIP(r))
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "login_failed", "login failed", middleware.GetRequestID(r.Context()))
		return
	}

	institutionID := ""
	if user.InstitutionID != nil {
		institutionID = *user.InstitutionID
	}
	token, err := auth.GenerateToken(h.Secret, auth.Claims{UserID: user.ID, Role: user.Role, InstitutionID: institutionID}, tokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{
		"token": token,
		"user": map[string]string{
			"id":            user.ID,
			"name":          user.Name,
			"role":          user.Role,
			"institutionId": institutionID,
		},
	}, middleware.GetRequestID(r.Context()))
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
