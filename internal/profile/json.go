package profile

import "fmt"

// Text marshalling keeps the stored JSONB shape and the HTTP payloads on the
// string forms instead of raw ints.

func (a Answer) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Answer) UnmarshalText(b []byte) error {
	switch string(b) {
	case "yes":
		*a = AnswerYes
	case "no":
		*a = AnswerNo
	case "unknown", "":
		*a = AnswerUnknown
	default:
		return fmt.Errorf("unknown answer %q", b)
	}
	return nil
}

func (c CompanyType) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *CompanyType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "sole_proprietor":
		*c = SoleProprietor
	case "partnership_gbr":
		*c = PartnershipGbR
	case "construction_firm":
		*c = ConstructionFirm
	default:
		return fmt.Errorf("unknown company type %q", b)
	}
	return nil
}
