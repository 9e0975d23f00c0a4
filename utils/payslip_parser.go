package utils

import (
	"regexp"

	"github.com/Aashish23092/vaeba-calculator/dto"
)

// FundIdentifier is the pension fund name that marks the fund's own lines on a payslip.
const FundIdentifier = "PETROS"

var payslipNameRule = PatternRule{
	Label: "Nome",
	Patterns: []*regexp.Regexp{
		// "Nome: FULANO DE TAL   Matrícula", possibly with the name on the next line
		regexp.MustCompile(`(?i)Nome\s*[:\-]?\s*([A-ZÁÂÃÀÉÊÍÓÔÕÚÜÇ0-9\s.]+?)\s+Matr[íi]cula`),
		regexp.MustCompile(`(?i)Nome\s*[:\-]?[ \t]*\n[ \t]*([^\n]+?)\s+Matr[íi]cula`),
	},
}

var (
	grossBenefitRule = LineRule{AllOf: []string{"TOTAL", "PROVENTOS", FundIdentifier}}
	netBenefitRule   = LineRule{AllOf: []string{FundIdentifier}, AnyOf: []string{"LÍQUIDO", "LIQUIDO"}}

	// Only these deduction lines count as fund contributions. Health plan,
	// association fees, loans and income tax are left out.
	contributionRule = LineRule{
		AnyOf: []string{
			"CONTRIBUIÇÃO PETROS",
			"CONTRIBUICAO PETROS",
			"CONTRIB. EXTRAORD",
			"EXTRAORDINARIA PPSP",
			"EXTRAORDINÁRIA PPSP",
			"PARCELAMENTO DEBITO",
			"PARCELAMENTO DÉBITO",
			"PARC. DEBITO",
			"PARC. DÉBITO",
			"PED PPSP",
			"PPSP 2015",
			"PPSP 2018",
			"PPSP NR 2022",
			"PECULIO",
			"PECÚLIO",
		},
		NoneOf: []string{"TOTAL"},
	}
	deductionTotalRule = LineRule{AnyOf: []string{"TOTAL DOS DESCONTOS PETROS", "TOTAL DESCONTOS PETROS"}}
)

// ParsePayslip extracts the participant name, the gross and net fund benefit
// and the sum of fund contributions from payslip text.
func ParsePayslip(text string) dto.PayslipData {
	var data dto.PayslipData
	lines := SplitLines(text)

	if name, ok := payslipNameRule.Find(text); ok {
		data.Name = CleanName(name)
	}

	if v, ok := grossBenefitRule.FirstValue(lines); ok {
		data.GrossBenefit, data.GrossFound = v, true
		data.CurrencyTokens++
	}
	if v, ok := netBenefitRule.FirstValue(lines); ok {
		data.NetBenefit, data.NetFound = v, true
		data.CurrencyTokens++
	}

	sum := contributionRule.Sum(lines)
	if sum.Lines > 0 {
		data.Contributions = sum.Total
		data.ContributionLines = sum.Lines
		data.ContributionsFound = true
		data.CurrencyTokens += sum.Lines
	} else if v, ok := deductionTotalRule.FirstValue(lines); ok {
		data.Contributions = v
		data.UsedDeductionTotal = true
		data.ContributionsFound = true
		data.CurrencyTokens++
	}

	return data
}
