package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder shown for values that could not be computed.
const Placeholder = "–"

// currencyPattern matches amounts such as 1.234,56 (thousands dot, two decimals).
const currencyPattern = `\d{1,3}(?:\.\d{3})*,\d{2}`

var (
	currencyRe    = regexp.MustCompile(currencyPattern)
	nonNumericRe  = regexp.MustCompile(`[^\d,.\-]`)
	brazilianLang = language.BrazilianPortuguese
)

// ParseBRFloat parses a pt-BR formatted decimal ("1.234,56", "R$ 15,74683").
// Every character other than digits, comma, period and minus is dropped, the
// periods are removed and the remaining comma becomes the decimal point.
// ok is false for empty or unparseable input; that is "not a number", not zero.
func ParseBRFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = nonNumericRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatBRNumber formats v with exactly decimals fraction digits, pt-BR style.
func FormatBRNumber(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	v = roundHalfAway(v, decimals)
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	p := message.NewPrinter(brazilianLang)
	return p.Sprint(number.Decimal(v, number.Scale(decimals)))
}

// roundHalfAway rounds v to decimals fraction digits, ties away from zero,
// working on the shortest decimal form of v so 1.005 rounds to 1.01.
func roundHalfAway(v float64, decimals int) float64 {
	if decimals < 0 {
		return v
	}
	s := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	if len(frac) <= decimals {
		return v
	}

	digits := []byte(intPart + frac[:decimals])
	if frac[decimals] >= '5' {
		i := len(digits) - 1
		for ; i >= 0; i-- {
			if digits[i] == '9' {
				digits[i] = '0'
				continue
			}
			digits[i]++
			break
		}
		if i < 0 {
			digits = append([]byte{'1'}, digits...)
		}
	}

	n := len(digits) - decimals
	out := string(digits[:n])
	if decimals > 0 {
		out += "." + string(digits[n:])
	}
	r, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return v
	}
	if v < 0 {
		r = -r
	}
	return r
}

// FormatBRAmount formats a money value without the currency symbol: 1.234,50
func FormatBRAmount(v float64) string {
	return FormatBRNumber(v, 2)
}

// FormatBRL formats a money value as R$ 1.234,50 (or -R$ 1.234,50).
func FormatBRL(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	if v < 0 && FormatBRAmount(-v) != FormatBRAmount(0) {
		return "-R$ " + FormatBRAmount(-v)
	}
	return "R$ " + FormatBRAmount(math.Abs(v))
}

// FormatPresetNumber renders a preset value the way a user would type it: 15,74683
func FormatPresetNumber(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
}

// CurrencyTokens returns every currency-formatted amount in s, in order.
func CurrencyTokens(s string) []string {
	return currencyRe.FindAllString(s, -1)
}

// LastCurrencyInLine parses the last currency amount on a line. Summary lines
// usually list subtotals before the grand total.
func LastCurrencyInLine(line string) (float64, bool) {
	tokens := CurrencyTokens(line)
	if len(tokens) == 0 {
		return 0, false
	}
	return ParseBRFloat(tokens[len(tokens)-1])
}
