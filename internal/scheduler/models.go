package scheduler

import (
	"time"

	"github.com/google/uuid"

	"nachweis/internal/catalog"
)

// State is the reminder job lifecycle. Sent is a transient claim marker: a
// tick owns the job between Claim and Release, and no second tick may send
// for the same attempts value while the claim lease holds.
type State int

const (
	StateScheduled State = iota
	StateSent
	StateEscalated
	StateDone
)

func (s State) String() string {
	switch s {
	case StateSent:
		return "sent"
	case StateEscalated:
		return "escalated"
	case StateDone:
		return "done"
	default:
		return "scheduled"
	}
}

// ParseState converts a stored label back into a State.
func ParseState(s string) State {
	switch s {
	case "sent":
		return StateSent
	case "escalated":
		return StateEscalated
	case "done":
		return StateDone
	default:
		return StateScheduled
	}
}

// Job is the follow-up record for one requirement stuck in Missing or
// Rejected. At most one non-Done job exists per requirement.
type Job struct {
	ID              uuid.UUID
	RequirementID   uuid.UUID
	SubcontractorID uuid.UUID
	TypeID          catalog.TypeID

	State       State
	NextRunAt   time.Time
	Attempts    int
	MaxAttempts int
	Escalated   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active reports whether the job still drives reminders.
func (j *Job) Active() bool {
	return j.State != StateDone
}
