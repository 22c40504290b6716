// Package compliance folds a subcontractor's requirement instances into one
// authoritative status. The fold is worst-case, never majority or average: a
// single missing mandatory document makes the whole account non-compliant,
// because a false "compliant" reading is the one failure mode this system
// must never produce.
package compliance

import (
	"time"

	"nachweis/internal/catalog"
	"nachweis/internal/requirement"
)

// Status is the aggregate compliance reading.
type Status int

const (
	NonCompliant Status = iota
	ExpiringSoon
	Compliant
)

func (s Status) String() string {
	switch s {
	case Compliant:
		return "compliant"
	case ExpiringSoon:
		return "expiring_soon"
	default:
		return "non_compliant"
	}
}

// Summary is the aggregate plus the breakdown the UI and export layers show.
type Summary struct {
	Status Status

	// Missing lists Required types with status Missing, Rejected, or
	// Expired, plus Submitted/InReview ones. Uploaded but not yet
	// accepted does not satisfy a legal obligation.
	Missing []catalog.TypeID

	// Expiring lists Required accepted types inside the warning window.
	Expiring []catalog.TypeID

	// OptionalOpen counts optional-level instances not yet accepted. They
	// never affect Status.
	OptionalOpen int

	ComputedAt time.Time
}

// Aggregate computes the summary for one subcontractor's requirements.
// Pure: same inputs, same output, no I/O.
//
// Dominance order: NonCompliant beats ExpiringSoon beats Compliant.
func Aggregate(reqs []*requirement.Requirement, now time.Time, warn time.Duration) Summary {
	sum := Summary{Status: Compliant, ComputedAt: now}

	for _, r := range reqs {
		effective := r.EffectiveStatus(now, warn)

		if r.Level != catalog.LevelRequired {
			if r.Level == catalog.LevelOptional && effective != requirement.StatusAccepted && effective != requirement.StatusExpiring {
				sum.OptionalOpen++
			}
			continue
		}

		switch effective {
		case requirement.StatusMissing, requirement.StatusRejected, requirement.StatusExpired,
			requirement.StatusSubmitted, requirement.StatusInReview:
			sum.Status = NonCompliant
			sum.Missing = append(sum.Missing, r.TypeID)
		case requirement.StatusExpiring:
			if sum.Status != NonCompliant {
				sum.Status = ExpiringSoon
			}
			sum.Expiring = append(sum.Expiring, r.TypeID)
		}
	}
	return sum
}
