package handler

import (
	"strings"
	"time"

	dErrors "nachweis/pkg/domainerrors"
)

// UploadRequest is the HTTP request body for POST
// /subcontractors/{id}/documents/{type}/upload.
type UploadRequest struct {
	// ArtifactRef points at the uploaded file in blob storage. The engine
	// never stores file contents, only the reference.
	ArtifactRef string `json:"artifact_ref"`
	Actor       string `json:"actor"`
}

// Validate validates the request.
func (r *UploadRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}
	r.ArtifactRef = strings.TrimSpace(r.ArtifactRef)
	if r.ArtifactRef == "" {
		return dErrors.New(dErrors.CodeValidation, "artifact_ref is required")
	}
	return nil
}

// ReviewRequest is the HTTP request body for POST
// /subcontractors/{id}/documents/{type}/review.
type ReviewRequest struct {
	Decision string `json:"decision"`
	// ValidUntil carries the expiry printed on the document, RFC 3339.
	// Meaningful on accept only.
	ValidUntil   *time.Time `json:"valid_until,omitempty"`
	NeverExpires bool       `json:"never_expires,omitempty"`
	// Reason is mandatory on reject and shown to the subcontractor.
	Reason   string `json:"reason,omitempty"`
	Reviewer string `json:"reviewer"`

	accept bool
}

// Validate validates and parses the request. Reason length rules live in the
// state machine, not here.
func (r *ReviewRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}
	switch strings.ToLower(strings.TrimSpace(r.Decision)) {
	case "accept":
		r.accept = true
	case "reject":
		r.accept = false
	default:
		return dErrors.Newf(dErrors.CodeValidation, "decision must be accept or reject, got %q", r.Decision)
	}
	if r.accept && r.ValidUntil != nil && r.NeverExpires {
		return dErrors.New(dErrors.CodeValidation, "valid_until and never_expires are mutually exclusive")
	}
	return nil
}

// Accepted reports whether the parsed decision is an accept.
func (r *ReviewRequest) Accepted() bool {
	return r.accept
}

// ActorRequest is the HTTP request body for transitions that only need to
// know who triggered them.
type ActorRequest struct {
	Actor string `json:"actor"`
}

func (r *ActorRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}
	return nil
}
