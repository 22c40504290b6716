package catalog

import (
	"nachweis/internal/profile"
)

// TypeID identifies a document type. Catalog entries use stable slugs so
// requirement rows survive catalog renames.
type TypeID string

// ValidityPolicy describes how long an accepted document stays current.
type ValidityPolicy int

const (
	// ValidityNone: the document never expires once accepted.
	ValidityNone ValidityPolicy = iota
	// ValidityFixedMonths: validUntil is acceptance date plus Months.
	ValidityFixedMonths
	// ValidityCalendarDate: the reviewer must supply the printed expiry
	// date; the system never guesses it.
	ValidityCalendarDate
	// ValidityUserDeclared: the reviewer may mark the document as
	// never-expiring or of unknown validity. That is a legitimate terminal
	// validity state, not a defect.
	ValidityUserDeclared
)

func (v ValidityPolicy) String() string {
	switch v {
	case ValidityFixedMonths:
		return "fixed_months"
	case ValidityCalendarDate:
		return "calendar_date"
	case ValidityUserDeclared:
		return "user_declared"
	default:
		return "none"
	}
}

// RequirementLevel is what the rule engine assigns per document type.
type RequirementLevel int

const (
	LevelHidden RequirementLevel = iota
	LevelOptional
	LevelRequired
)

func (l RequirementLevel) String() string {
	switch l {
	case LevelRequired:
		return "required"
	case LevelOptional:
		return "optional"
	default:
		return "hidden"
	}
}

// DocumentType is an immutable catalog entry. Entries are seeded at startup
// and never mutated at runtime; ad hoc per-subcontractor types are created
// with Custom set and bypass rule evaluation entirely.
type DocumentType struct {
	ID                TypeID
	Name              string
	RequiredByDefault bool
	Validity          ValidityPolicy
	// Months is only meaningful when Validity is ValidityFixedMonths.
	Months int

	// ConditionKey gates the type on one profile question. Empty means the
	// type is unconditional and the catalog default decides the level.
	ConditionKey profile.ConditionKey

	// OptionalForSoleProprietor downgrades a Required result to Optional
	// for sole proprietors, regardless of other flags.
	OptionalForSoleProprietor bool

	// Custom marks an ad hoc type added for a single subcontractor. Its
	// level is fixed at creation time and the rule engine leaves it alone.
	Custom      bool
	CustomLevel RequirementLevel
}
