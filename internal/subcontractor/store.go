package subcontractor

import (
	"context"

	"github.com/google/uuid"
)

// Store persists subcontractor accounts.
type Store interface {
	Save(ctx context.Context, s *Subcontractor) error
	Find(ctx context.Context, id uuid.UUID) (*Subcontractor, error)
	List(ctx context.Context) ([]*Subcontractor, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
