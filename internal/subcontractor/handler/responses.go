package handler

import (
	"time"

	"nachweis/internal/subcontractor"
)

// SubcontractorResponse is the wire form of one account.
type SubcontractorResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Active    bool           `json:"active"`
	Profile   ProfilePayload `json:"profile"`
	CreatedAt time.Time      `json:"created_at"`
}

// FromSubcontractor converts the domain model to its wire form.
func FromSubcontractor(s *subcontractor.Subcontractor) SubcontractorResponse {
	return SubcontractorResponse{
		ID:     s.ID.String(),
		Name:   s.Name,
		Active: s.Active,
		Profile: ProfilePayload{
			CompanyType:           s.Profile.CompanyType.String(),
			HasEmployees:          s.Profile.HasEmployees,
			DoesConstructionWork:  s.Profile.DoesConstructionWork,
			SokaBauSubject:        s.Profile.SokaBauSubject,
			SendsWorkersAbroad:    s.Profile.SendsWorkersAbroad,
			ProcessesPersonalData: s.Profile.ProcessesPersonalData,
			HRRegistered:          s.Profile.HRRegistered,
			NonEUWorkers:          s.Profile.NonEUWorkers,
			WorkersOutsideGermany: s.Profile.WorkersOutsideGermany,
		},
		CreatedAt: s.CreatedAt,
	}
}

// ListResponse wraps the account collection.
type ListResponse struct {
	Subcontractors []SubcontractorResponse `json:"subcontractors"`
}
