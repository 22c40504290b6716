package profile

// LegacyFlags is the old intake shape: two parallel flag sets that earlier
// screens kept in sync with effects. A nil pointer means the question was
// shown but never answered.
type LegacyFlags struct {
	CompanyType           string
	HasEmployees          *bool
	DoesConstructionWork  *bool
	SokaBauSubject        *bool
	SendsWorkersAbroad    *bool
	ProcessesPersonalData *bool
	HRRegistered          *bool
	NonEUWorkers          *bool
	WorkersOutsideGermany *bool
}

// FromLegacyFlags converts the legacy representation into the canonical
// profile exactly once, at the system boundary. Unanswered questions become
// AnswerUnknown rather than defaulting to No.
func FromLegacyFlags(f LegacyFlags) Profile {
	return Profile{
		CompanyType:           companyTypeFromLegacy(f.CompanyType),
		HasEmployees:          answerFromPtr(f.HasEmployees),
		DoesConstructionWork:  answerFromPtr(f.DoesConstructionWork),
		SokaBauSubject:        answerFromPtr(f.SokaBauSubject),
		SendsWorkersAbroad:    answerFromPtr(f.SendsWorkersAbroad),
		ProcessesPersonalData: answerFromPtr(f.ProcessesPersonalData),
		HRRegistered:          answerFromPtr(f.HRRegistered),
		NonEUWorkers:          answerFromPtr(f.NonEUWorkers),
		WorkersOutsideGermany: answerFromPtr(f.WorkersOutsideGermany),
	}
}

func answerFromPtr(b *bool) Answer {
	if b == nil {
		return AnswerUnknown
	}
	return AnswerFromBool(*b)
}

func companyTypeFromLegacy(s string) CompanyType {
	switch s {
	case "einzelunternehmer", "sole_proprietor":
		return SoleProprietor
	case "gbr", "partnership_gbr":
		return PartnershipGbR
	default:
		return ConstructionFirm
	}
}
