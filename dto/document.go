package dto

import "fmt"

type DocumentKind string

const (
	DocPayslip               DocumentKind = "payslip"
	DocContributionStatement DocumentKind = "contribution_statement"
	DocActuarialSheet        DocumentKind = "actuarial_sheet"
	DocTaxFiling             DocumentKind = "tax_filing"
)

// AllDocumentKinds lists the kinds in the order their summaries appear in the audit.
var AllDocumentKinds = []DocumentKind{
	DocPayslip,
	DocContributionStatement,
	DocActuarialSheet,
	DocTaxFiling,
}

// ParseDocumentKind maps a path or form value to a known kind
func ParseDocumentKind(s string) (DocumentKind, error) {
	for _, k := range AllDocumentKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDocumentKind, s)
}

// Label is the Portuguese name used in summaries and the audit transcript.
func (k DocumentKind) Label() string {
	switch k {
	case DocPayslip:
		return "Contracheque"
	case DocContributionStatement:
		return "Extrato de contribuições"
	case DocActuarialSheet:
		return "Cálculo de concessão"
	case DocTaxFiling:
		return "Declaração de IR"
	}
	return string(k)
}

type ExtractionStatus string

const (
	StatusPending            ExtractionStatus = "pending"
	StatusOK                 ExtractionStatus = "ok"
	StatusNoText             ExtractionStatus = "no_text"
	StatusParseError         ExtractionStatus = "parse_error"
	StatusLibraryUnavailable ExtractionStatus = "library_unavailable"
)

// DocumentInfo is what the PDF structure reader reports about an upload.
type DocumentInfo struct {
	Pages     int  `json:"pages"`
	Encrypted bool `json:"encrypted"`
}

type PayslipData struct {
	Name               string  `json:"name,omitempty"`
	GrossBenefit       float64 `json:"gross_benefit"`
	GrossFound         bool    `json:"gross_found"`
	NetBenefit         float64 `json:"net_benefit"`
	NetFound           bool    `json:"net_found"`
	Contributions      float64 `json:"contributions"`
	ContributionsFound bool    `json:"contributions_found"`
	// UsedDeductionTotal is set when no itemized contribution line qualified
	// and the "total deductions" line was summed instead.
	UsedDeductionTotal bool `json:"used_deduction_total"`
	ContributionLines  int  `json:"contribution_lines"`
	CurrencyTokens     int  `json:"currency_tokens"`
}

type StatementData struct {
	MultiCurrency bool    `json:"multi_currency"`
	Sum           float64 `json:"sum"`
	Found         bool    `json:"found"`
	Count         int     `json:"count"`
	LegacyCount   int     `json:"legacy_count"`
	AnyCurrency   bool    `json:"any_currency"`
}

type ActuarialData struct {
	AnnuityFactor      string `json:"annuity_factor,omitempty"`
	FCB                string `json:"fcb,omitempty"`
	FATCOR             string `json:"fatcor,omitempty"`
	AnnuityFactorFound bool   `json:"annuity_factor_found"`
	FCBFound           bool   `json:"fcb_found"`
	FATCORFound        bool   `json:"fatcor_found"`
}

type TaxFilingData struct {
	Name  string `json:"name,omitempty"`
	Found bool   `json:"found"`
}
