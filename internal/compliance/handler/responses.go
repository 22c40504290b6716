package handler

import (
	"time"

	"nachweis/internal/catalog"
	"nachweis/internal/compliance"
)

// SummaryResponse is the wire form of the compliance aggregate.
type SummaryResponse struct {
	Status       string    `json:"status"`
	Missing      []string  `json:"missing"`
	Expiring     []string  `json:"expiring"`
	OptionalOpen int       `json:"optional_open"`
	ComputedAt   time.Time `json:"computed_at"`
}

// FromSummary converts the domain summary to its wire form.
func FromSummary(s compliance.Summary) SummaryResponse {
	return SummaryResponse{
		Status:       s.Status.String(),
		Missing:      typeIDs(s.Missing),
		Expiring:     typeIDs(s.Expiring),
		OptionalOpen: s.OptionalOpen,
		ComputedAt:   s.ComputedAt,
	}
}

// ValidationResponse is the wire form of an assignment validation verdict.
type ValidationResponse struct {
	Valid            bool     `json:"valid"`
	MissingDocuments []string `json:"missing_documents"`
}

// FromValidation converts the domain verdict to its wire form.
func FromValidation(v compliance.AssignmentValidation) ValidationResponse {
	return ValidationResponse{
		Valid:            v.Valid,
		MissingDocuments: typeIDs(v.MissingDocuments),
	}
}

func typeIDs(ids []catalog.TypeID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}
