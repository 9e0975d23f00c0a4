package utils

import (
	"regexp"

	"github.com/Aashish23092/vaeba-calculator/dto"
)

var taxFilingNameRule = PatternRule{
	Label: "NOME",
	Patterns: []*regexp.Regexp{
		regexp.MustCompile(`NOME:[ \t]*([A-ZÁÂÃÀÉÊÍÓÔÕÚÜÇ0-9 \t.]+)`),
		regexp.MustCompile(`CPF[:\s]*\d{3}\.\d{3}\.\d{3}-\d{2}\s+Nome[:\s]+([A-ZÁÂÃÀÉÊÍÓÔÕÚÜÇ \t]+)`),
		regexp.MustCompile(`(?i)Nome:[ \t]*([A-ZÁÂÃÀÉÊÍÓÔÕÚÜÇ0-9 \t.]+)`),
	},
}

// ParseTaxFiling finds the taxpayer name on an income-tax filing.
func ParseTaxFiling(text string) dto.TaxFilingData {
	var data dto.TaxFilingData
	for _, re := range taxFilingNameRule.Patterns {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		if name := CleanName(m[1]); name != "" {
			data.Name = name
			data.Found = true
			break
		}
	}
	return data
}
