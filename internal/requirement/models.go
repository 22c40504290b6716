package requirement

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"nachweis/internal/catalog"
)

// Status is the stored lifecycle state of one requirement. Expiring and
// Expired are time-driven views over Accepted, derived lazily whenever the
// status is read (see EffectiveStatus); they are never written to the store.
type Status int

const (
	StatusMissing Status = iota
	StatusSubmitted
	StatusInReview
	StatusAccepted
	StatusRejected

	// Derived-only values. Stored status stays StatusAccepted.
	StatusExpiring
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusMissing:
		return "missing"
	case StatusSubmitted:
		return "submitted"
	case StatusInReview:
		return "in_review"
	case StatusAccepted:
		return "accepted"
	case StatusRejected:
		return "rejected"
	case StatusExpiring:
		return "expiring"
	case StatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// ParseStatus converts a stored label back into a Status. Only stored states
// round-trip; derived states are recomputed, not parsed.
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "missing":
		return StatusMissing, true
	case "submitted":
		return StatusSubmitted, true
	case "in_review":
		return StatusInReview, true
	case "accepted":
		return StatusAccepted, true
	case "rejected":
		return StatusRejected, true
	default:
		return StatusMissing, false
	}
}

// ValiditySource records who decided the validity window.
type ValiditySource int

const (
	// SourceSystem: computed from the document type's validity policy.
	SourceSystem ValiditySource = iota
	// SourceAdminOverride: the reviewer supplied an explicit date.
	SourceAdminOverride
	// SourceUserDeclared: the reviewer marked the document never-expiring
	// or of unknown validity. Distinct from an Unknown conditional answer,
	// which is a requirement-level concept, not a validity one.
	SourceUserDeclared
)

func (v ValiditySource) String() string {
	switch v {
	case SourceAdminOverride:
		return "admin_override"
	case SourceUserDeclared:
		return "user_declared"
	default:
		return "system"
	}
}

// ParseValiditySource converts a stored label back into a ValiditySource.
func ParseValiditySource(s string) ValiditySource {
	switch s {
	case "admin_override":
		return SourceAdminOverride
	case "user_declared":
		return SourceUserDeclared
	default:
		return SourceSystem
	}
}

// Action names one audited lifecycle step.
type Action string

const (
	ActionRequested     Action = "requested"
	ActionSubmitted     Action = "submitted"
	ActionReviewStarted Action = "review_started"
	ActionAccepted      Action = "accepted"
	ActionRejected      Action = "rejected"
	ActionRerequested   Action = "rerequested"
)

// Entry is one history record. History is the audit trail: append-only,
// never reordered, never pruned. Entry IDs are ULIDs so the sequence sorts
// by creation time even across processes.
type Entry struct {
	ID     string
	At     time.Time
	Action Action
	Actor  string
	Note   string
}

// Requirement tracks one subcontractor's obligation to provide one document
// type, optionally scoped to a project assignment.
type Requirement struct {
	ID              uuid.UUID
	SubcontractorID uuid.UUID
	AssignmentID    *uuid.UUID
	TypeID          catalog.TypeID

	Level  catalog.RequirementLevel
	Status Status

	DueDate         *time.Time
	ValidUntil      *time.Time
	ValiditySource  ValiditySource
	RejectionReason string
	ArtifactRef     string

	History []Entry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveStatus folds the time-driven transitions into the stored status.
// An accepted document is Expiring when now is within warn of validUntil and
// Expired once validUntil has passed. validUntil == nil never expires.
func (r *Requirement) EffectiveStatus(now time.Time, warn time.Duration) Status {
	if r.Status != StatusAccepted || r.ValidUntil == nil {
		return r.Status
	}
	until := *r.ValidUntil
	if !now.Before(until) {
		return StatusExpired
	}
	if !now.Add(warn).Before(until) {
		return StatusExpiring
	}
	return StatusAccepted
}

// appendHistory records one transition. All status writes go through the
// transition methods, which call this exactly once each.
func (r *Requirement) appendHistory(action Action, actor, note string, now time.Time) {
	r.History = append(r.History, Entry{
		ID:     ulid.Make().String(),
		At:     now,
		Action: action,
		Actor:  actor,
		Note:   note,
	})
	r.UpdatedAt = now
}
