package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"nachweis/internal/catalog"
	"nachweis/internal/profile"
	"nachweis/internal/subcontractor"
	dErrors "nachweis/pkg/domainerrors"
	"nachweis/pkg/platform/httputil"
	"nachweis/pkg/requestcontext"
)

// Service defines the interface for subcontractor account operations.
type Service interface {
	Create(ctx context.Context, name string, p profile.Profile) (*subcontractor.Subcontractor, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, p profile.Profile) (*subcontractor.Subcontractor, error)
	Activate(ctx context.Context, id uuid.UUID) (*subcontractor.Subcontractor, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*subcontractor.Subcontractor, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddCustomDocument(ctx context.Context, id uuid.UUID, docType catalog.DocumentType) error
	Get(ctx context.Context, id uuid.UUID) (*subcontractor.Subcontractor, error)
	List(ctx context.Context) ([]*subcontractor.Subcontractor, error)
}

// Handler wires subcontractor endpoints to the account service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a subcontractor handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts subcontractor endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/subcontractors", h.HandleCreate)
	r.Get("/subcontractors", h.HandleList)
	r.Get("/subcontractors/{subcontractorID}", h.HandleGet)
	r.Put("/subcontractors/{subcontractorID}/profile", h.HandleUpdateProfile)
	r.Post("/subcontractors/{subcontractorID}/activate", h.HandleActivate)
	r.Post("/subcontractors/{subcontractorID}/deactivate", h.HandleDeactivate)
	r.Delete("/subcontractors/{subcontractorID}", h.HandleDelete)
	r.Post("/subcontractors/{subcontractorID}/documents", h.HandleAddDocument)
}

// HandleCreate handles POST /subcontractors requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sub, err := h.service.Create(ctx, req.Name, req.ParsedProfile())
	if err != nil {
		h.logger.ErrorContext(ctx, "create subcontractor failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "subcontractor created",
		"request_id", requestID,
		"subcontractor_id", sub.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromSubcontractor(sub))
}

// HandleList handles GET /subcontractors requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subs, err := h.service.List(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := ListResponse{Subcontractors: make([]SubcontractorResponse, 0, len(subs))}
	for _, s := range subs {
		resp.Subcontractors = append(resp.Subcontractors, FromSubcontractor(s))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /subcontractors/{subcontractorID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.subcontractorID(w, r)
	if !ok {
		return
	}
	sub, err := h.service.Get(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSubcontractor(sub))
}

// HandleUpdateProfile handles PUT /subcontractors/{subcontractorID}/profile
// requests. The profile is replaced wholesale and requirements are re-derived
// before the response is written.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, ok := h.subcontractorID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateProfileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sub, err := h.service.UpdateProfile(ctx, id, req.ParsedProfile())
	if err != nil {
		h.logger.ErrorContext(ctx, "profile update failed",
			"request_id", requestID,
			"subcontractor_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "profile updated",
		"request_id", requestID,
		"subcontractor_id", id,
	)
	httputil.WriteJSON(w, http.StatusOK, FromSubcontractor(sub))
}

// HandleActivate handles POST /subcontractors/{subcontractorID}/activate.
func (h *Handler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.subcontractorID(w, r)
	if !ok {
		return
	}
	sub, err := h.service.Activate(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSubcontractor(sub))
}

// HandleDeactivate handles POST /subcontractors/{subcontractorID}/deactivate.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.subcontractorID(w, r)
	if !ok {
		return
	}
	sub, err := h.service.Deactivate(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSubcontractor(sub))
}

// HandleDelete handles DELETE /subcontractors/{subcontractorID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.subcontractorID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddDocument handles POST /subcontractors/{subcontractorID}/documents.
func (h *Handler) HandleAddDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, ok := h.subcontractorID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddDocumentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.AddCustomDocument(ctx, id, req.ParsedType()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
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
