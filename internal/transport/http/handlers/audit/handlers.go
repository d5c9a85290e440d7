package audithandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kitaguard/internal/domain/audit"
	"kitaguard/internal/domain/auth"
	"kitaguard/internal/transport/http/api"
	"kitaguard/internal/transport/http/middleware"
)

type Handler struct {
	Service      *audit.Service
	DefaultLimit int
}

func NewHandler(service *audit.Service, defaultLimit int) *Handler {
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	return &Handler{Service: service, DefaultLimit: defaultLimit}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/audit-logs", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := h.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			api.Fail(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer", middleware.GetRequestID(r.Context()))
			return
		}
		limit = parsed
	}
	if limit > 1000 {
		limit = 1000
	}
	gdprOnly := r.URL.Query().Get("gdprOnly") == "true"

	entries, err := h.Service.List(r.Context(), limit, gdprOnly)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit entries", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}
