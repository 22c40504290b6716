package catalog

import (
	"context"

	"github.com/google/uuid"

	"nachweis/internal/profile"
	dErrors "nachweis/pkg/domainerrors"
)

// Store keeps catalog entries plus ad hoc custom types. Interface-driven so
// the in-memory implementation can later be swapped for a config-backed one
// without rewiring business code.
type Store interface {
	All(ctx context.Context) ([]DocumentType, error)
	Find(ctx context.Context, id TypeID) (DocumentType, error)
	// ForSubcontractor returns the seeded catalog plus the subcontractor's
	// custom types.
	ForSubcontractor(ctx context.Context, subID uuid.UUID) ([]DocumentType, error)
	AddCustom(ctx context.Context, subID uuid.UUID, t DocumentType) error
	RemoveCustom(ctx context.Context, subID uuid.UUID, id TypeID) error
}

// Validate fails fast on catalog inconsistencies so a bad deployment dies at
// startup instead of misderiving requirements at request time.
func Validate(types []DocumentType) error {
	seen := make(map[TypeID]struct{}, len(types))
	for _, t := range types {
		if t.ID == "" {
			return dErrors.New(dErrors.CodeConfiguration, "document type with empty id")
		}
		if _, dup := seen[t.ID]; dup {
			return dErrors.Newf(dErrors.CodeConfiguration, "duplicate document type %q", t.ID)
		}
		seen[t.ID] = struct{}{}

		if t.ConditionKey != "" && !profile.Known(t.ConditionKey) {
			return dErrors.Newf(dErrors.CodeConfiguration, "document type %q references unknown condition %q", t.ID, t.ConditionKey)
		}
		if t.Validity == ValidityFixedMonths && t.Months <= 0 {
			return dErrors.Newf(dErrors.CodeConfiguration, "document type %q has fixed-months validity without months", t.ID)
		}
		if t.Custom && t.CustomLevel == LevelHidden {
			return dErrors.Newf(dErrors.CodeConfiguration, "custom document type %q must carry a visible level", t.ID)
		}
	}
	return nil
}
