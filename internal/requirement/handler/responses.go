package handler

import (
	"time"

	"nachweis/internal/requirement"
)

// RequirementResponse is the wire form of one compliance requirement. Status
// is the effective status, with expiry applied at response time.
type RequirementResponse struct {
	ID              string     `json:"id"`
	SubcontractorID string     `json:"subcontractor_id"`
	AssignmentID    *string    `json:"assignment_id,omitempty"`
	DocumentType    string     `json:"document_type"`
	Level           string     `json:"level"`
	Status          string     `json:"status"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	ValidUntil      *time.Time `json:"valid_until,omitempty"`
	ValiditySource  string     `json:"validity_source"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ArtifactRef     string     `json:"artifact_ref,omitempty"`

	History []HistoryEntryResponse `json:"history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HistoryEntryResponse is one append-only history record.
type HistoryEntryResponse struct {
	ID     string    `json:"id"`
	At     time.Time `json:"at"`
	Action string    `json:"action"`
	Actor  string    `json:"actor,omitempty"`
	Note   string    `json:"note,omitempty"`
}

// FromRequirement converts the domain model to its wire form, deriving the
// effective status at now.
func FromRequirement(r *requirement.Requirement, now time.Time, warnWindow time.Duration) RequirementResponse {
	resp := RequirementResponse{
		ID:              r.ID.String(),
		SubcontractorID: r.SubcontractorID.String(),
		DocumentType:    string(r.TypeID),
		Level:           r.Level.String(),
		Status:          r.EffectiveStatus(now, warnWindow).String(),
		DueDate:         r.DueDate,
		ValidUntil:      r.ValidUntil,
		ValiditySource:  r.ValiditySource.String(),
		RejectionReason: r.RejectionReason,
		ArtifactRef:     r.ArtifactRef,
		History:         make([]HistoryEntryResponse, 0, len(r.History)),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.AssignmentID != nil {
		s := r.AssignmentID.String()
		resp.AssignmentID = &s
	}
	for _, e := range r.History {
		resp.History = append(resp.History, HistoryEntryResponse{
			ID:     e.ID,
			At:     e.At,
			Action: string(e.Action),
			Actor:  e.Actor,
			Note:   e.Note,
		})
	}
	return resp
}

// ListResponse wraps the requirement collection.
type ListResponse struct {
	Requirements []RequirementResponse `json:"requirements"`
}
