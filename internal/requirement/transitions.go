package requirement

import (
	"fmt"
	"strings"
	"time"

	"nachweis/internal/catalog"
	dErrors "nachweis/pkg/domainerrors"
)

// minRejectionReason is the shortest rejection reason reviewers may record.
// Subcontractors see the reason verbatim; "bad scan" helps nobody.
const minRejectionReason = 10

func invalidTransition(from Status, action Action) error {
	return dErrors.Newf(dErrors.CodeInvalidTransition, "cannot %s a %s document", action, from)
}

// Submit records an uploaded artifact. Allowed from Missing, Rejected, and
// Expired; clears any prior rejection reason and leaves validUntil alone
// (it only means anything once the replacement is accepted).
func (r *Requirement) Submit(artifactRef, actor string, now time.Time, warn time.Duration) error {
	if artifactRef == "" {
		return dErrors.New(dErrors.CodeValidation, "upload without artifact reference")
	}
	switch r.EffectiveStatus(now, warn) {
	case StatusMissing, StatusRejected, StatusExpired:
	default:
		return invalidTransition(r.EffectiveStatus(now, warn), ActionSubmitted)
	}

	r.Status = StatusSubmitted
	r.RejectionReason = ""
	r.ArtifactRef = artifactRef
	r.appendHistory(ActionSubmitted, actor, fmt.Sprintf("artifact %s", artifactRef), now)
	return nil
}

// StartReview is an optional administrative acknowledgement. Reviewers may
// skip it and go straight to Accept or Reject.
func (r *Requirement) StartReview(actor string, now time.Time) error {
	if r.Status != StatusSubmitted {
		return invalidTransition(r.Status, ActionReviewStarted)
	}
	r.Status = StatusInReview
	r.appendHistory(ActionReviewStarted, actor, "", now)
	return nil
}

// AcceptParams carries the reviewer's validity decision.
type AcceptParams struct {
	// ValidUntil, when set, overrides any policy-derived date.
	ValidUntil *time.Time
	// NeverExpires marks the document as never-expiring or of unknown
	// validity. Only user-declared validity policies allow it; on any
	// other policy the accept is refused.
	NeverExpires bool
	Actor        string
}

// Accept moves a submitted or in-review document to Accepted and resolves
// its validity window:
//
//	explicit date        -> that date, source admin_override
//	fixed-months policy  -> acceptance date + n months, source system
//	user-declared policy -> no expiry, source user_declared
//	calendar-date policy -> explicit date is mandatory
func (r *Requirement) Accept(docType catalog.DocumentType, p AcceptParams, now time.Time) error {
	if r.Status != StatusSubmitted && r.Status != StatusInReview {
		return invalidTransition(r.Status, ActionAccepted)
	}

	validUntil, source, err := resolveValidity(docType, p, now)
	if err != nil {
		return err
	}

	r.Status = StatusAccepted
	r.ValidUntil = validUntil
	r.ValiditySource = source
	note := "no expiry"
	if validUntil != nil {
		note = fmt.Sprintf("valid until %s", validUntil.Format("2006-01-02"))
	}
	r.appendHistory(ActionAccepted, p.Actor, note, now)
	return nil
}

func resolveValidity(docType catalog.DocumentType, p AcceptParams, now time.Time) (*time.Time, ValiditySource, error) {
	if p.NeverExpires {
		if p.ValidUntil != nil {
			return nil, SourceSystem, dErrors.New(dErrors.CodeValidation,
				"valid_until and never_expires are mutually exclusive")
		}
		if docType.Validity != catalog.ValidityUserDeclared {
			return nil, SourceSystem, dErrors.Newf(dErrors.CodeValidation,
				"document type %q cannot be marked never-expiring", docType.ID)
		}
		// Never-expiring or unknown validity is a legitimate terminal
		// state for these types, not a defect.
		return nil, SourceUserDeclared, nil
	}

	if p.ValidUntil != nil {
		until := *p.ValidUntil
		return &until, SourceAdminOverride, nil
	}

	switch docType.Validity {
	case catalog.ValidityFixedMonths:
		until := now.AddDate(0, docType.Months, 0)
		return &until, SourceSystem, nil
	case catalog.ValidityCalendarDate:
		return nil, SourceSystem, dErrors.Newf(dErrors.CodeValidation,
			"document type %q carries a printed expiry date, supply it on accept", docType.ID)
	case catalog.ValidityUserDeclared:
		return nil, SourceSystem, dErrors.Newf(dErrors.CodeValidation,
			"document type %q needs an expiry date or a never-expiring mark", docType.ID)
	default:
		return nil, SourceSystem, nil
	}
}

// Reject refuses a submitted or in-review document. The reason is mandatory
// and must carry at least ten characters; otherwise the transition is
// refused and nothing is persisted.
func (r *Requirement) Reject(reason, actor string, now time.Time) error {
	if r.Status != StatusSubmitted && r.Status != StatusInReview {
		return invalidTransition(r.Status, ActionRejected)
	}
	if len(strings.TrimSpace(reason)) < minRejectionReason {
		return dErrors.Newf(dErrors.CodeValidation,
			"rejection reason must be at least %d characters", minRejectionReason)
	}

	r.Status = StatusRejected
	r.RejectionReason = reason
	r.appendHistory(ActionRejected, actor, reason, now)
	return nil
}

// Rerequest puts a rejected document back to Missing so the subcontractor
// is asked for a fresh upload.
func (r *Requirement) Rerequest(actor string, now time.Time) error {
	if r.Status != StatusRejected {
		return invalidTransition(r.Status, ActionRerequested)
	}
	r.Status = StatusMissing
	r.RejectionReason = ""
	r.ArtifactRef = ""
	r.appendHistory(ActionRerequested, actor, "", now)
	return nil
}
