package handler

import (
	"strings"

	"nachweis/internal/catalog"
	"nachweis/internal/profile"
	dErrors "nachweis/pkg/domainerrors"
)

// ProfilePayload is the wire form of the organizational profile. Absent
// answers decode to "unknown", never to "no".
type ProfilePayload struct {
	CompanyType           string         `json:"company_type"`
	HasEmployees          profile.Answer `json:"has_employees"`
	DoesConstructionWork  profile.Answer `json:"does_construction_work"`
	SokaBauSubject        profile.Answer `json:"soka_bau_subject"`
	SendsWorkersAbroad    profile.Answer `json:"sends_workers_abroad"`
	ProcessesPersonalData profile.Answer `json:"processes_personal_data"`
	HRRegistered          profile.Answer `json:"hr_registered"`
	NonEUWorkers          profile.Answer `json:"non_eu_workers"`
	WorkersOutsideGermany profile.Answer `json:"workers_outside_germany"`
}

func (p ProfilePayload) parse() (profile.Profile, error) {
	var ct profile.CompanyType
	if p.CompanyType == "" {
		return profile.Profile{}, dErrors.New(dErrors.CodeValidation, "company_type is required")
	}
	if err := ct.UnmarshalText([]byte(p.CompanyType)); err != nil {
		return profile.Profile{}, dErrors.Newf(dErrors.CodeValidation, "invalid company_type %q", p.CompanyType)
	}
	return profile.Profile{
		CompanyType:           ct,
		HasEmployees:          p.HasEmployees,
		DoesConstructionWork:  p.DoesConstructionWork,
		SokaBauSubject:        p.SokaBauSubject,
		SendsWorkersAbroad:    p.SendsWorkersAbroad,
		ProcessesPersonalData: p.ProcessesPersonalData,
		HRRegistered:          p.HRRegistered,
		NonEUWorkers:          p.NonEUWorkers,
		WorkersOutsideGermany: p.WorkersOutsideGermany,
	}, nil
}

// CreateRequest is the HTTP request body for POST /subcontractors.
type CreateRequest struct {
	Name    string         `json:"name"`
	Profile ProfilePayload `json:"profile"`

	parsedProfile profile.Profile
}

// Validate validates and parses the request.
func (r *CreateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(r.Name) > 200 {
		return dErrors.New(dErrors.CodeValidation, "name must be at most 200 characters")
	}
	p, err := r.Profile.parse()
	if err != nil {
		return err
	}
	r.parsedProfile = p
	return nil
}

// ParsedProfile returns the validated profile.
func (r *CreateRequest) ParsedProfile() profile.Profile {
	return r.parsedProfile
}

// UpdateProfileRequest is the HTTP request body for PUT /subcontractors/{id}/profile.
type UpdateProfileRequest struct {
	Profile ProfilePayload `json:"profile"`

	parsedProfile profile.Profile
}

func (r *UpdateProfileRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}
	p, err := r.Profile.parse()
	if err != nil {
		return err
	}
	r.parsedProfile = p
	return nil
}

func (r *UpdateProfileRequest) ParsedProfile() profile.Profile {
	return r.parsedProfile
}

// AddDocumentRequest is the HTTP request body for POST
// /subcontractors/{id}/documents. It registers an account-specific document
// type outside the seeded catalog.
type AddDocumentRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Required bool   `json:"required"`

	parsedType catalog.DocumentType
}

func (r *AddDocumentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}
	r.ID = strings.TrimSpace(r.ID)
	r.Name = strings.TrimSpace(r.Name)
	if r.ID == "" {
		return dErrors.New(dErrors.CodeValidation, "id is required")
	}
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	level := catalog.LevelOptional
	if r.Required {
		level = catalog.LevelRequired
	}
	r.parsedType = catalog.DocumentType{
		ID:          catalog.TypeID(r.ID),
		Name:        r.Name,
		Validity:    catalog.ValidityUserDeclared,
		Custom:      true,
		CustomLevel: level,
	}
	return nil
}

func (r *AddDocumentRequest) ParsedType() catalog.DocumentType {
	return r.parsedType
}
