// Package rules derives, from a subcontractor's organizational profile, which
// document types are required, optional, or hidden. The derivation is pure
// domain logic - no I/O, no side effects - so the write path can call it on
// every profile change and tests can cover the full rule matrix.
package rules

import (
	"nachweis/internal/catalog"
	"nachweis/internal/profile"
)

// Derive maps each document type to a requirement level.
//
// Rule priority (first match per document type wins):
//  1. Custom types bypass evaluation and keep their creation-time level.
//  2. Gating: a dependent question is only consulted when its prerequisite
//     is Yes; otherwise the prerequisite's own answer decides.
//  3. An Unknown answer forces Optional - never Hidden, never Required. The
//     engine must not drop a document a user was unsure about, and must not
//     block on uncertainty either.
//  4. Yes makes the type Required, No hides it.
//  5. Sole-proprietor downgrade: a flagged type drops from Required to
//     Optional when the company is a sole proprietorship.
//  6. Catalog default as the fallback, never the override.
//
// Same input always yields the same output; callers may re-run it freely.
func Derive(p profile.Profile, types []catalog.DocumentType) map[catalog.TypeID]catalog.RequirementLevel {
	out := make(map[catalog.TypeID]catalog.RequirementLevel, len(types))
	for _, t := range types {
		out[t.ID] = deriveOne(p, t)
	}
	return out
}

func deriveOne(p profile.Profile, t catalog.DocumentType) catalog.RequirementLevel {
	if t.Custom {
		return t.CustomLevel
	}

	level := baseLevel(p, t)

	if level == catalog.LevelRequired && t.OptionalForSoleProprietor && p.CompanyType == profile.SoleProprietor {
		return catalog.LevelOptional
	}
	return level
}

func baseLevel(p profile.Profile, t catalog.DocumentType) catalog.RequirementLevel {
	if t.ConditionKey == "" {
		return defaultLevel(t)
	}

	switch effectiveAnswer(p, t.ConditionKey) {
	case profile.AnswerUnknown:
		return catalog.LevelOptional
	case profile.AnswerYes:
		return catalog.LevelRequired
	default:
		return catalog.LevelHidden
	}
}

// effectiveAnswer walks the prerequisite chain. When a prerequisite is not
// answered Yes, the dependent question is never consulted: the prerequisite's
// own answer resolves the document type instead.
func effectiveAnswer(p profile.Profile, key profile.ConditionKey) profile.Answer {
	if prereq, gated := profile.Prerequisite(key); gated {
		if a := effectiveAnswer(p, prereq); a != profile.AnswerYes {
			return a
		}
	}
	return p.Answer(key)
}

func defaultLevel(t catalog.DocumentType) catalog.RequirementLevel {
	if t.RequiredByDefault {
		return catalog.LevelRequired
	}
	return catalog.LevelOptional
}
