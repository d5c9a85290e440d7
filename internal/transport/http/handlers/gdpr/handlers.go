package gdprhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kitaguard/internal/domain/auth"
	"kitaguard/internal/domain/compliance"
	"kitaguard/internal/domain/integrity"
	"kitaguard/internal/domain/lifecycle"
	"kitaguard/internal/domain/retention"
	"kitaguard/internal/platform/jobs"
	"kitaguard/internal/transport/http/api"
	"kitaguard/internal/transport/http/middleware"
	"kitaguard/internal/transport/http/shared"
)

// RunLister is the slice of the retention store the handler needs for
// run history.
type RunLister interface {
	ListPurgeRuns(ctx context.Context, limit int) ([]retention.PurgeRun, error)
}

type Handler struct {
	Lifecycle  *lifecycle.Service
	Engine     *retention.Engine
	Jobs       *jobs.Service
	Compliance *compliance.Service
	Integrity  *integrity.Service
	Runs       RunLister
}

func NewHandler(lc *lifecycle.Service, engine *retention.Engine, jobsSvc *jobs.Service, comp *compliance.Service, integ *integrity.Service, runs RunLister) *Handler {
	return &Handler{Lifecycle: lc, Engine: engine, Jobs: jobsSvc, Compliance: comp, Integrity: integ, Runs: runs}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/gdpr", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/entities/{entityType}/{entityID}/soft-delete", h.handleSoftDelete)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/pending-deletions", h.handlePendingDeletions)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/retention-policies", h.handleRetentionPolicies)
		r.With(middleware.RequireRole()).Post("/purge/run", h.handleRunPurge)
		r.With(middleware.RequireRole()).Get("/purge/runs", h.handleListPurgeRuns)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/compliance-report", h.handleComplianceReport)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/compliance-report/pdf", h.handleComplianceReportPDF)
		r.With(middleware.RequireRole()).Post("/integrity/verify", h.handleVerifyIntegrity)
	})
}

func (h *Handler) handleSoftDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	kind, err := lifecycle.ParseKind(chi.URLParam(r, "entityType"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "unknown_entity_type", "unknown entity type", middleware.GetRequestID(r.Context()))
		return
	}
	entityID := chi.URLParam(r, "entityID")

	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Lifecycle.SoftDelete(r.Context(), kind, entityID, actor.UserID, payload.Reason)
	switch {
	case errors.Is(err, lifecycle.ErrUnknownKind):
		api.Fail(w, http.StatusBadRequest, "unknown_entity_type", "entity type cannot be soft-deleted", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, lifecycle.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "entity not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, lifecycle.ErrAlreadyDeleted):
		api.Fail(w, http.StatusConflict, "already_deleted", "entity is already soft-deleted", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "soft_delete_failed", "soft delete failed", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{
		"id":        record.ID,
		"type":      record.Kind,
		"deletedAt": record.DeletedAt,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePendingDeletions(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	scope := actor.InstitutionID
	if actor.Role == auth.RoleSuperAdmin {
		scope = r.URL.Query().Get("institutionId")
	}

	pending, err := h.Engine.PendingDeletions(r.Context(), actor.Role, scope)
	switch {
	case errors.Is(err, retention.ErrScopeRequired):
		api.Fail(w, http.StatusBadRequest, "scope_required", "institution scope required", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "pending_list_failed", "failed to list pending deletions", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, pending, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRetentionPolicies(w http.ResponseWriter, r *http.Request) {
	policies := h.Engine.Policies()
	out := make([]map[string]any, 0)
	for _, kind := range policies.Kinds() {
		days, err := policies.Lookup(kind)
		if err != nil {
			continue
		}
		out = append(out, map[string]any{"entityType": kind, "retentionDays": days})
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRunPurge(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		RetentionMonths int `json:"retentionMonths"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.RetentionMonths < 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "retentionMonths must not be negative", middleware.GetRequestID(r.Context()))
		return
	}

	result, err := h.Jobs.RunNow(r.Context(), payload.RetentionMonths)
	switch {
	case errors.Is(err, jobs.ErrRunInProgress):
		api.Fail(w, http.StatusConflict, "run_in_progress", "a purge run is already executing", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "purge_failed", "purge run failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPurgeRuns(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	runs, err := h.Runs.ListPurgeRuns(r.Context(), page.Limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "purge_runs_failed", "failed to list purge runs", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, runs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) reportScope(r *http.Request, actor auth.ActorContext) string {
	if actor.Role == auth.RoleSuperAdmin {
		return r.URL.Query().Get("institutionId")
	}
	return actor.InstitutionID
}

func (h *Handler) handleComplianceReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	report, err := h.generateReport(r, actor)
	switch {
	case errors.Is(err, compliance.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "invalid_range", "range must be week, month or quarter", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to generate compliance report", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleComplianceReportPDF(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	report, err := h.generateReport(r, actor)
	switch {
	case errors.Is(err, compliance.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "invalid_range", "range must be week, month or quarter", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to generate compliance report", middleware.GetRequestID(r.Context()))
		return
	}

	pdfBytes, err := compliance.RenderPDF(report)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render compliance report", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=compliance-report-%s.pdf", time.Now().UTC().Format(time.DateOnly)))
	_, _ = w.Write(pdfBytes)
}

func (h *Handler) generateReport(r *http.Request, actor auth.ActorContext) (compliance.Report, error) {
	rng := compliance.Range(r.URL.Query().Get("range"))
	if rng == "" {
		rng = compliance.RangeMonth
	}
	return h.Compliance.GenerateReport(r.Context(), actor.UserID, h.reportScope(r, actor), rng)
}

func (h *Handler) handleVerifyIntegrity(w http.ResponseWriter, r *http.Request) {
	result := h.Integrity.Verify(r.Context())
	status := http.StatusOK
	if !result.Healthy {
		status = http.StatusServiceUnavailable
	}
	api.WriteJSON(w, status, api.Envelope{Success: result.Healthy, Data: result, RequestID: middleware.GetRequestID(r.Context())})
}
