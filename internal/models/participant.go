package models

import "time"

type AgeInterval string

const (
	Age17OrLess AgeInterval = "17 ans ou moins"
	Age18To20   AgeInterval = "18-20"
	Age21To29   AgeInterval = "21-29"
	Age30To39   AgeInterval = "30-39"
	Age40To49   AgeInterval = "40-49"
	Age50To59   AgeInterval = "50-59"
	Age60OrMore AgeInterval = "60 ans ou plus"
)

var ValidAgeIntervals = map[AgeInterval]bool{
	Age17OrLess: true,
	Age18To20:   true,
	Age21To29:   true,
	Age30To39:   true,
	Age40To49:   true,
	Age50To59:   true,
	Age60OrMore: true,
}

type EducationLevel string

const (
	EducationUnderSecondary EducationLevel = "Inférieur au diplôme d'études secondaires"
	EducationSecondary      EducationLevel = "Diplôme d'études secondaires ou équivalent"
	EducationNoDegree       EducationLevel = " A fait des études supérieures, mais pas de diplôme"
	EducationTechnical      EducationLevel = "DUT/BTS"
	EducationGraduate       EducationLevel = "Licence"
	EducationPostgraduate   EducationLevel = "Diplôme d’études supérieures (master, doctorat...)"
)

var ValidEducationLevels = map[EducationLevel]bool{
	EducationUnderSecondary: true,
	EducationSecondary:      true,
	EducationNoDegree:       true,
	EducationTechnical:      true,
	EducationGraduate:       true,
	EducationPostgraduate:   true,
}

type HugoStyleFamiliarity string

const (
	FamiliarityVeryLow  HugoStyleFamiliarity = "Très peu familier"
	FamiliarityLow      HugoStyleFamiliarity = "Peu familier"
	FamiliarityNeutral  HugoStyleFamiliarity = "Neutre"
	FamiliarityHigh     HugoStyleFamiliarity = "Un peu familier"
	FamiliarityVeryHigh HugoStyleFamiliarity = "Très familier"
)

var ValidFamiliarities = map[HugoStyleFamiliarity]bool{
	FamiliarityVeryLow:  true,
	FamiliarityLow:      true,
	FamiliarityNeutral:  true,
	FamiliarityHigh:     true,
	FamiliarityVeryHigh: true,
}

type Participant struct {
	ID                      int64                `json:"id"`
	Age                     AgeInterval          `json:"age"`
	Education               EducationLevel       `json:"education"`
	StudiedFrenchLiterature bool                 `json:"studied_french_literature"`
	HugoStyleFamiliarity    HugoStyleFamiliarity `json:"hugo_style_familiarity"`
	CreatedAt               time.Time            `json:"created_at"`
}

type CreateParticipantRequest struct {
	Age                     AgeInterval          `json:"age"`
	Education               EducationLevel       `json:"education"`
	StudiedFrenchLiterature bool                 `json:"studied_french_literature"`
	HugoStyleFamiliarity    HugoStyleFamiliarity `json:"hugo_style_familiarity"`
}
