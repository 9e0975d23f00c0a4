package utils

import (
	"regexp"

	"github.com/Aashish23092/vaeba-calculator/dto"
)

var (
	multiCurrencyHeaderRe = regexp.MustCompile(`(?i)HIST[ÓO]RICO\s+DE\s+ALTERA[ÇC][ÕO]ES\s+DE\s+MOEDAS`)
	// Longer symbols come first so CR$ and NCz$ are never read as R$.
	markedAmountRe = regexp.MustCompile(`(NCz\$|Cz\$|Cr\$|CR\$|URV|R\$)\s*(` + currencyPattern + `)`)
)

const realSymbol = "R$"

// ParseContributionStatement sums a contribution statement. A statement with a
// currency-history header only counts amounts explicitly marked R$ and
// reports how many legacy-currency amounts were ignored; any other statement
// sums every currency amount in the text.
func ParseContributionStatement(text string) dto.StatementData {
	var data dto.StatementData

	if multiCurrencyHeaderRe.MatchString(text) {
		data.MultiCurrency = true
		for _, m := range markedAmountRe.FindAllStringSubmatch(text, -1) {
			if m[1] != realSymbol {
				data.LegacyCount++
				continue
			}
			if v, ok := ParseBRFloat(m[2]); ok {
				data.Sum += v
				data.Count++
			}
		}
		data.Found = data.Count > 0
		data.AnyCurrency = data.Count > 0 || data.LegacyCount > 0
		return data
	}

	for _, tok := range CurrencyTokens(text) {
		if v, ok := ParseBRFloat(tok); ok {
			data.Sum += v
			data.Count++
		}
	}
	data.Found = data.Count > 0
	data.AnyCurrency = data.Found
	return data
}
