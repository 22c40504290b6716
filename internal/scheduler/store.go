package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// claimLease is how long a claimed job stays invisible to other ticks.
// A process that dies between Claim and Release leaves the job in Sent;
// once the lease lapses ListDue surfaces it again and the next tick
// re-claims it with its attempts counter untouched.
const claimLease = 5 * time.Minute

// Store persists reminder jobs. Claim is the concurrency-critical method:
// it atomically leases a due job by moving it to Sent and pushing nextRunAt
// past the lease window, keyed on the stored attempts counter, so two
// overlapping ticks cannot both send for the same attempts value. Release
// is the other half of the handshake: the write-back only lands while the
// job is still Sent, so a retire that raced the in-flight send wins and the
// job stays Done. Both return sentinel.ErrConflict when they lose.
type Store interface {
	Save(ctx context.Context, j *Job) error
	Find(ctx context.Context, id uuid.UUID) (*Job, error)
	// FindActiveByRequirement returns the one non-Done job for a
	// requirement, or sentinel.ErrNotFound.
	FindActiveByRequirement(ctx context.Context, requirementID uuid.UUID) (*Job, error)
	// ListDue returns jobs with nextRunAt <= now: Scheduled ones plus
	// Sent ones whose claim lease has lapsed.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*Job, error)
	// Claim leases a due job, conditional on attempts and due-ness.
	Claim(ctx context.Context, id uuid.UUID, expectedAttempts int, now time.Time) (*Job, error)
	// Release writes a claimed job back, conditional on it still being
	// Sent.
	Release(ctx context.Context, j *Job) error
	// RetireByRequirement marks the requirement's active job Done.
	RetireByRequirement(ctx context.Context, requirementID uuid.UUID) error
	// RetireBySubcontractor marks all of a subcontractor's jobs Done.
	// Deactivation calls this synchronously; the very next tick must not
	// see these jobs.
	RetireBySubcontractor(ctx context.Context, subID uuid.UUID) error
}
