package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"nachweis/internal/compliance"
	dErrors "nachweis/pkg/domainerrors"
	"nachweis/pkg/platform/httputil"
)

// Service defines the interface for compliance aggregate reads.
type Service interface {
	Status(ctx context.Context, subID uuid.UUID) (compliance.Summary, error)
	Recompute(ctx context.Context, subID uuid.UUID) (compliance.Summary, error)
	ValidateForProjectAssignment(ctx context.Context, subID uuid.UUID) (compliance.AssignmentValidation, error)
}

// Handler wires compliance endpoints to the aggregator.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a compliance handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts compliance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/subcontractors/{subcontractorID}/compliance", h.HandleStatus)
	r.Post("/subcontractors/{subcontractorID}/compliance/recompute", h.HandleRecompute)
	r.Get("/subcontractors/{subcontractorID}/assignment-validation", h.HandleAssignmentValidation)
}

// HandleStatus handles GET /subcontractors/{id}/compliance. Dashboard read,
// served from cache when warm.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.subcontractorID(w, r)
	if !ok {
		return
	}
	sum, err := h.service.Status(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSummary(sum))
}

// HandleRecompute handles POST /subcontractors/{id}/compliance/recompute.
// Bypasses the cache and returns the fresh aggregate.
func (h *Handler) HandleRecompute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.subcontractorID(w, r)
	if !ok {
		return
	}
	sum, err := h.service.Recompute(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSummary(sum))
}

// HandleAssignmentValidation handles GET
// /subcontractors/{id}/assignment-validation. This is the decision-bearing
// check other systems call before assigning a subcontractor to a project; it
// always recomputes.
func (h *Handler) HandleAssignmentValidation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.subcontractorID(w, r)
	if !ok {
		return
	}
	v, err := h.service.ValidateForProjectAssignment(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "assignment validation failed",
			"subcontractor_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromValidation(v))
}

func (h *Handler) subcontractorID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "subcontractorID")
	id, err := uuid.Parse(raw)
	if err != nil {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeValidation, "invalid subcontractor id %q", raw))
		return uuid.Nil, false
	}
	return id, true
}
