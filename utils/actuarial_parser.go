package utils

import (
	"regexp"
	"strings"

	"github.com/Aashish23092/vaeba-calculator/dto"
)

var (
	annuityFactorRule = PatternRule{
		Label: "äx(12)",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)[aä]x\(12\)\s*[:=]?\s*(\d[\d.,]*)`),
			regexp.MustCompile(`(?i)[aä][¨^]?\s*[xₓ]\s*\(\s*12\s*\)\s*[:=]?\s*(\d[\d.,]*)`),
		},
	}
	fcbRule = PatternRule{
		Label: "FCB",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bFCB\b\s*[:=]?\s*(\d[\d.,]*)`),
		},
	}
	fatcorRule = PatternRule{
		Label: "FATCOR",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bFATCOR\b\s*(?:\([^)]*\))?\s*[:=]?\s*(\d[\d.,]*)`),
			regexp.MustCompile(`(?i)\bFATOR\s*\(?INPC\)?\s*[:=]?\s*(\d[\d.,]*)`),
		},
	}
)

// ParseActuarialSheet reads the annuity factor, FCB and FATCOR from a
// benefit-grant calculation sheet. Values keep the document's spelling so
// they land in the form exactly as printed.
func ParseActuarialSheet(text string) dto.ActuarialData {
	var data dto.ActuarialData
	data.AnnuityFactor, data.AnnuityFactorFound = findFactor(annuityFactorRule, text)
	data.FCB, data.FCBFound = findFactor(fcbRule, text)
	data.FATCOR, data.FATCORFound = findFactor(fatcorRule, text)
	return data
}

func findFactor(rule PatternRule, text string) (string, bool) {
	v, ok := rule.Find(text)
	if !ok {
		return "", false
	}
	// sentence punctuation right after the number
	v = strings.TrimRight(v, ".,")
	if _, ok := ParseBRFloat(v); !ok {
		return "", false
	}
	return v, true
}
