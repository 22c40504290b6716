package requirement

import (
	"context"

	"github.com/google/uuid"

	"nachweis/internal/catalog"
)

// Store persists requirements. Interface-driven so the in-memory and
// Postgres implementations stay swappable under the same service.
type Store interface {
	// Save upserts the requirement and its full history.
	Save(ctx context.Context, r *Requirement) error
	Find(ctx context.Context, id uuid.UUID) (*Requirement, error)
	// FindByType locates the instance for one (subcontractor, type,
	// assignment) key. assignmentID nil means the unscoped instance.
	FindByType(ctx context.Context, subID uuid.UUID, typeID catalog.TypeID, assignmentID *uuid.UUID) (*Requirement, error)
	ListBySubcontractor(ctx context.Context, subID uuid.UUID) ([]*Requirement, error)
	// DeleteBySubcontractor cascades on subcontractor deletion.
	DeleteBySubcontractor(ctx context.Context, subID uuid.UUID) error
}
