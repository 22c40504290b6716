package profile

// Answer is the tri-state reply to a conditional question. Unknown is a
// legitimate answer and never silently collapses to No: the rule engine maps
// it to an optional requirement so the document stays visible.
type Answer int

const (
	AnswerUnknown Answer = iota
	AnswerNo
	AnswerYes
)

func (a Answer) String() string {
	switch a {
	case AnswerYes:
		return "yes"
	case AnswerNo:
		return "no"
	default:
		return "unknown"
	}
}

// AnswerFromBool converts a plain boolean field into a definite answer.
func AnswerFromBool(b bool) Answer {
	if b {
		return AnswerYes
	}
	return AnswerNo
}

// CompanyType is the legal form of a subcontractor. It is exhaustive; the
// rule engine switches over it and the compiler keeps consumers honest.
type CompanyType int

const (
	SoleProprietor CompanyType = iota
	PartnershipGbR
	ConstructionFirm
)

func (c CompanyType) String() string {
	switch c {
	case SoleProprietor:
		return "sole_proprietor"
	case PartnershipGbR:
		return "partnership_gbr"
	default:
		return "construction_firm"
	}
}

// ConditionKey identifies one conditional question on the profile. Catalog
// entries reference these keys to gate document types.
type ConditionKey string

const (
	CondHasEmployees           ConditionKey = "has_employees"
	CondDoesConstructionWork   ConditionKey = "does_construction_work"
	CondSokaBauSubject         ConditionKey = "soka_bau_subject"
	CondSendsWorkersAbroad     ConditionKey = "sends_workers_abroad"
	CondProcessesPersonalData  ConditionKey = "processes_personal_data"
	CondHRRegistered           ConditionKey = "hr_registered"
	CondNonEUWorkers           ConditionKey = "non_eu_workers"
	CondWorkersOutsideGermany  ConditionKey = "workers_not_employed_in_germany"
)

// prerequisites maps a dependent question to the question that must be
// answered Yes before the dependent is even evaluated. SOKA-Bau liability
// only makes sense for firms that perform construction work at all.
var prerequisites = map[ConditionKey]ConditionKey{
	CondSokaBauSubject: CondDoesConstructionWork,
}

// Prerequisite returns the gating question for key, if any.
func Prerequisite(key ConditionKey) (ConditionKey, bool) {
	p, ok := prerequisites[key]
	return p, ok
}

// Known reports whether key names a real profile question. The catalog
// validator uses this to fail fast on typoed condition keys.
func Known(key ConditionKey) bool {
	switch key {
	case CondHasEmployees, CondDoesConstructionWork, CondSokaBauSubject,
		CondSendsWorkersAbroad, CondProcessesPersonalData, CondHRRegistered,
		CondNonEUWorkers, CondWorkersOutsideGermany:
		return true
	}
	return false
}

// Profile is the canonical organizational profile of one subcontractor.
// Every boolean-like fact is stored as a tri-state Answer; legacy dual-flag
// inputs are converted once at the boundary (see FromLegacyFlags) and never
// carried through the engine.
type Profile struct {
	CompanyType CompanyType

	HasEmployees          Answer
	DoesConstructionWork  Answer
	SokaBauSubject        Answer
	SendsWorkersAbroad    Answer
	ProcessesPersonalData Answer
	HRRegistered          Answer
	NonEUWorkers          Answer
	WorkersOutsideGermany Answer
}

// Answer resolves the reply to one conditional question.
func (p Profile) Answer(key ConditionKey) Answer {
	switch key {
	case CondHasEmployees:
		return p.HasEmployees
	case CondDoesConstructionWork:
		return p.DoesConstructionWork
	case CondSokaBauSubject:
		return p.SokaBauSubject
	case CondSendsWorkersAbroad:
		return p.SendsWorkersAbroad
	case CondProcessesPersonalData:
		return p.ProcessesPersonalData
	case CondHRRegistered:
		return p.HRRegistered
	case CondNonEUWorkers:
		return p.NonEUWorkers
	case CondWorkersOutsideGermany:
		return p.WorkersOutsideGermany
	default:
		return AnswerUnknown
	}
}
