package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	trailingColumnRe = regexp.MustCompile(`\s{2,}.+$`)
	letterRe         = regexp.MustCompile(`\pL`)
)

// Portuguese name particles carry no identity when cross-checking names.
var nameParticles = map[string]bool{
	"de": true, "da": true, "do": true, "das": true, "dos": true, "e": true,
}

// CleanName trims a captured name, dropping anything after a run of two or
// more spaces (the next column on the same line) and collapsing whitespace.
// An empty string is returned when nothing letter-like remains.
func CleanName(s string) string {
	s = strings.TrimSpace(s)
	s = trailingColumnRe.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	if !letterRe.MatchString(s) {
		return ""
	}
	return s
}

// NormalizeString normalizes string for comparison (lowercase, no accents, no spaces or dots)
func NormalizeString(s string) string {
	s = foldAccents(strings.ToLower(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	return s
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func nameWords(s string) []string {
	var words []string
	for _, w := range strings.Fields(foldAccents(strings.ToLower(s))) {
		w = strings.Trim(w, ".")
		if w == "" || nameParticles[w] {
			continue
		}
		words = append(words, w)
	}
	return words
}

// CompareNames reports whether two spellings plausibly name the same person.
func CompareNames(name1, name2 string) bool {
	if strings.TrimSpace(name1) == "" || strings.TrimSpace(name2) == "" {
		return false
	}

	norm1 := NormalizeString(name1)
	norm2 := NormalizeString(name2)
	if norm1 == norm2 {
		return true
	}
	if strings.Contains(norm1, norm2) || strings.Contains(norm2, norm1) {
		return true
	}

	words1 := nameWords(name1)
	words2 := nameWords(name2)
	if len(words1) == 0 || len(words2) == 0 {
		return false
	}
	if len(words1) > len(words2) {
		words1, words2 = words2, words1
	}

	matchCount := 0
	for _, w1 := range words1 {
		for _, w2 := range words2 {
			if w1 == w2 || (len(w1) > 3 && levenshteinDistance(w1, w2) <= 1) {
				matchCount++
				break
			}
		}
	}

	// Every word of the shorter name must appear in the longer one
	return matchCount == len(words1)
}

// NameSimilarity scores two names between 0.0 and 1.0 using Levenshtein distance
func NameSimilarity(name1, name2 string) float64 {
	s1 := NormalizeString(name1)
	s2 := NormalizeString(name2)

	if s1 == "" && s2 == "" {
		return 1.0
	}
	if s1 == "" || s2 == "" {
		return 0.0
	}

	dist := levenshteinDistance(s1, s2)
	maxLen := max(len([]rune(s1)), len([]rune(s2)))
	return 1.0 - float64(dist)/float64(maxLen)
}

func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	n, m := len(r1), len(r2)

	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}

	matrix := make([][]int, n+1)
	for i := range matrix {
		matrix[i] = make([]int, m+1)
		matrix[i][0] = i
	}
	for j := 0; j <= m; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[n][m]
}
