package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"nachweis/internal/catalog"
	"nachweis/internal/requirement"
	dErrors "nachweis/pkg/domainerrors"
	"nachweis/pkg/platform/httputil"
	"nachweis/pkg/requestcontext"
)

// Service defines the interface for requirement lifecycle operations.
type Service interface {
	Submit(ctx context.Context, subID uuid.UUID, typeID catalog.TypeID, assignmentID *uuid.UUID, artifactRef, actor string) (*requirement.Requirement, error)
	StartReview(ctx context.Context, subID uuid.UUID, typeID catalog.TypeID, assignmentID *uuid.UUID, actor string) (*requirement.Requirement, error)
	Review(ctx context.Context, subID uuid.UUID, typeID catalog.TypeID, assignmentID *uuid.UUID, decision requirement.ReviewDecision) (*requirement.Requirement, error)
	Rerequest(ctx context.Context, subID uuid.UUID, typeID catalog.TypeID, assignmentID *uuid.UUID, actor string) (*requirement.Requirement, error)
	Get(ctx context.Context, id uuid.UUID) (*requirement.Requirement, error)
	List(ctx context.Context, subID uuid.UUID, assignmentID *uuid.UUID) ([]*requirement.Requirement, error)
	WarnWindow() time.Duration
}

// Handler wires document lifecycle endpoints to the requirement service.
type Handler struct {
	service Service
	logger  *slog.Logger
	now     func() time.Time
}

// New constructs a requirement handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger, now: time.Now}
}

// Register mounts document lifecycle endpoints on the router. Upload and
// review are keyed by document type; an optional assignment query parameter
// scopes them to a project assignment.
func (h *Handler) Register(r chi.Router) {
	r.Post("/subcontractors/{subcontractorID}/documents/{documentType}/upload", h.HandleUpload)
	r.Post("/subcontractors/{subcontractorID}/documents/{documentType}/review-start", h.HandleReviewStart)
	r.Post("/subcontractors/{subcontractorID}/documents/{documentType}/review", h.HandleReview)
	r.Post("/subcontractors/{subcontractorID}/documents/{documentType}/rerequest", h.HandleRerequest)
	r.Get("/subcontractors/{subcontractorID}/requirements", h.HandleList)
	r.Get("/requirements/{requirementID}", h.HandleGet)
}

// HandleUpload handles POST /subcontractors/{id}/documents/{type}/upload.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	key, ok := h.requirementKey(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UploadRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Submit(ctx, key.subID, key.typeID, key.assignmentID, req.ArtifactRef, h.actor(ctx, req.Actor))
	if err != nil {
		h.logger.WarnContext(ctx, "document upload refused",
			"request_id", requestID,
			"subcontractor_id", key.subID,
			"document_type", key.typeID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "document submitted",
		"request_id", requestID,
		"subcontractor_id", key.subID,
		"document_type", key.typeID,
	)
	h.writeRequirement(w, result)
}

// HandleReviewStart handles POST /subcontractors/{id}/documents/{type}/review-start.
func (h *Handler) HandleReviewStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	key, ok := h.requirementKey(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ActorRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.StartReview(ctx, key.subID, key.typeID, key.assignmentID, h.actor(ctx, req.Actor))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.writeRequirement(w, result)
}

// HandleReview handles POST /subcontractors/{id}/documents/{type}/review.
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	key, ok := h.requirementKey(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ReviewRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Review(ctx, key.subID, key.typeID, key.assignmentID, requirement.ReviewDecision{
		Accept:       req.Accepted(),
		ValidUntil:   req.ValidUntil,
		NeverExpires: req.NeverExpires,
		Reason:       req.Reason,
		Reviewer:     h.actor(ctx, req.Reviewer),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "review refused",
			"request_id", requestID,
			"subcontractor_id", key.subID,
			"document_type", key.typeID,
			"decision", req.Decision,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "document reviewed",
		"request_id", requestID,
		"subcontractor_id", key.subID,
		"document_type", key.typeID,
		"decision", req.Decision,
	)
	h.writeRequirement(w, result)
}

// HandleRerequest handles POST /subcontractors/{id}/documents/{type}/rerequest.
func (h *Handler) HandleRerequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	key, ok := h.requirementKey(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ActorRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Rerequest(ctx, key.subID, key.typeID, key.assignmentID, h.actor(ctx, req.Actor))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.writeRequirement(w, result)
}

// HandleList handles GET /subcontractors/{id}/requirements. An assignment
// query parameter narrows the result to one project assignment plus the
// unscoped requirements.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subID, ok := h.parseUUID(w, r, "subcontractorID")
	if !ok {
		return
	}
	assignmentID, ok := h.assignmentFilter(w, r)
	if !ok {
		return
	}

	results, err := h.service.List(ctx, subID, assignmentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	now := h.now()
	warn := h.service.WarnWindow()
	resp := ListResponse{Requirements: make([]RequirementResponse, 0, len(results))}
	for _, result := range results {
		resp.Requirements = append(resp.Requirements, FromRequirement(result, now, warn))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /requirements/{requirementID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.parseUUID(w, r, "requirementID")
	if !ok {
		return
	}
	result, err := h.service.Get(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.writeRequirement(w, result)
}

type requirementKey struct {
	subID        uuid.UUID
	typeID       catalog.TypeID
	assignmentID *uuid.UUID
}

func (h *Handler) requirementKey(w http.ResponseWriter, r *http.Request) (requirementKey, bool) {
	subID, ok := h.parseUUID(w, r, "subcontractorID")
	if !ok {
		return requirementKey{}, false
	}
	typeID := catalog.TypeID(chi.URLParam(r, "documentType"))
	if typeID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "document type is required"))
		return requirementKey{}, false
	}
	assignmentID, ok := h.assignmentFilter(w, r)
	if !ok {
		return requirementKey{}, false
	}
	return requirementKey{subID: subID, typeID: typeID, assignmentID: assignmentID}, true
}

func (h *Handler) assignmentFilter(w http.ResponseWriter, r *http.Request) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get("assignment")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeValidation, "invalid assignment id %q", raw))
		return nil, false
	}
	return &id, true
}

func (h *Handler) parseUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeValidation, "invalid %s %q", param, raw))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeRequirement(w http.ResponseWriter, r *requirement.Requirement) {
	httputil.WriteJSON(w, http.StatusOK, FromRequirement(r, h.now(), h.service.WarnWindow()))
}

func (h *Handler) actor(ctx context.Context, bodyActor string) string {
	if bodyActor != "" {
		return bodyActor
	}
	return requestcontext.Actor(ctx)
}
