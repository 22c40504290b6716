package catalog

import "nachweis/internal/profile"

// Default returns the seeded catalog of legally relevant document types for
// German subcontractor onboarding. Seeded at deployment time, never mutated
// at runtime.
func Default() []DocumentType {
	return []DocumentType{
		{
			ID:                "freistellungsbescheinigung",
			Name:              "Freistellungsbescheinigung §48b EStG",
			RequiredByDefault: true,
			Validity:          ValidityCalendarDate,
		},
		{
			ID:                "gewerbeanmeldung",
			Name:              "Gewerbeanmeldung",
			RequiredByDefault: true,
			Validity:          ValidityNone,
		},
		{
			ID:                "handelsregisterauszug",
			Name:              "Handelsregisterauszug",
			RequiredByDefault: false,
			Validity:          ValidityFixedMonths,
			Months:            12,
			ConditionKey:      profile.CondHRRegistered,
		},
		{
			ID:                "betriebshaftpflicht",
			Name:              "Betriebshaftpflichtversicherung",
			RequiredByDefault: true,
			Validity:          ValidityCalendarDate,
		},
		{
			ID:                        "bg-mitgliedschaft",
			Name:                      "BG-Mitgliedschaft (Berufsgenossenschaft)",
			RequiredByDefault:         true,
			Validity:                  ValidityFixedMonths,
			Months:                    12,
			ConditionKey:              profile.CondHasEmployees,
			OptionalForSoleProprietor: true,
		},
		{
			ID:                "krankenkasse-unbedenklichkeit",
			Name:              "Unbedenklichkeitsbescheinigung Krankenkasse",
			RequiredByDefault: true,
			Validity:          ValidityFixedMonths,
			Months:            3,
			ConditionKey:      profile.CondHasEmployees,
		},
		{
			ID:                "soka-bau",
			Name:              "SOKA-Bau Unbedenklichkeitsbescheinigung",
			RequiredByDefault: true,
			Validity:          ValidityFixedMonths,
			Months:            6,
			ConditionKey:      profile.CondSokaBauSubject,
		},
		{
			ID:                "a1-bescheinigung",
			Name:              "A1-Bescheinigung entsandte Mitarbeiter",
			RequiredByDefault: true,
			Validity:          ValidityCalendarDate,
			ConditionKey:      profile.CondSendsWorkersAbroad,
		},
		{
			ID:                "avv",
			Name:              "Auftragsverarbeitungsvertrag (DSGVO)",
			RequiredByDefault: true,
			Validity:          ValidityNone,
			ConditionKey:      profile.CondProcessesPersonalData,
		},
		{
			ID:                "arbeitserlaubnis",
			Name:              "Aufenthalts- und Arbeitserlaubnis",
			RequiredByDefault: true,
			Validity:          ValidityCalendarDate,
			ConditionKey:      profile.CondNonEUWorkers,
		},
		{
			ID:                "entsendebescheinigung",
			Name:              "Entsendebescheinigung für nicht in Deutschland beschäftigte Mitarbeiter",
			RequiredByDefault: true,
			Validity:          ValidityCalendarDate,
			ConditionKey:      profile.CondWorkersOutsideGermany,
		},
		{
			ID:                "mitarbeiterliste",
			Name:              "Mitarbeiterliste",
			RequiredByDefault: false,
			Validity:          ValidityUserDeclared,
			ConditionKey:      profile.CondHasEmployees,
		},
	}
}
