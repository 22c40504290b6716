package subcontractor

import (
	"time"

	"github.com/google/uuid"

	"nachweis/internal/profile"
)

// Subcontractor is one account providing documents. Active is a human
// decision, not a derived fact: the aggregate becoming Compliant makes
// activation possible, never automatic.
type Subcontractor struct {
	ID        uuid.UUID
	Name      string
	Profile   profile.Profile
	Active    bool
	CreatedAt time.Time
}
