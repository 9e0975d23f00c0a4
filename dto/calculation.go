package dto

import "time"

type CalculationResult struct {
	NetBenefit     float64     `json:"net_benefit"`
	K              float64     `json:"k"`
	VAEBANet       float64     `json:"vaeba_net"`
	VAEBAGross     float64     `json:"vaeba_gross"`
	Partial        bool        `json:"partial"`
	MissingFactors []FieldName `json:"missing_factors,omitempty"`

	// Display strings, pt-BR formatted.
	NetBenefitText string `json:"net_benefit_text"`
	KText          string `json:"k_text"`
	VAEBANetText   string `json:"vaeba_net_text"`
	VAEBAGrossText string `json:"vaeba_gross_text"`
	Status         string `json:"status"`
	Note           string `json:"note"`

	Audit        string    `json:"audit"`
	CalculatedAt time.Time `json:"calculated_at"`
	// Stale is set once any field changes after the calculation.
	Stale bool `json:"stale"`
}
