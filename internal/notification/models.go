package notification

import (
	"time"

	"github.com/google/uuid"

	"nachweis/internal/catalog"
)

// Kind labels why a notification goes out so the delivery layer can pick
// templates and urgency.
type Kind string

const (
	KindReminderMissing Kind = "reminder_missing"
	KindEscalation      Kind = "escalation"
	KindStatusChanged   Kind = "status_changed"
)

// Request is emitted from domain logic towards the external notification
// collaborator. Keep it transport-agnostic so sinks can fan out.
type Request struct {
	Kind            Kind             `json:"kind"`
	SubcontractorID uuid.UUID        `json:"subcontractor_id"`
	DocumentTypeIDs []catalog.TypeID `json:"document_type_ids"`
	Timestamp       time.Time        `json:"timestamp"`
}
