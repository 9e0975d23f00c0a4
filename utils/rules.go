package utils

import (
	"regexp"
	"strings"
)

// LineRule selects lines by the tokens their upper-cased content contains.
type LineRule struct {
	AllOf  []string
	AnyOf  []string
	NoneOf []string
}

func (r LineRule) Matches(line string) bool {
	up := strings.ToUpper(line)
	for _, t := range r.AllOf {
		if !strings.Contains(up, t) {
			return false
		}
	}
	for _, t := range r.NoneOf {
		if strings.Contains(up, t) {
			return false
		}
	}
	if len(r.AnyOf) == 0 {
		return true
	}
	for _, t := range r.AnyOf {
		if strings.Contains(up, t) {
			return true
		}
	}
	return false
}

// FirstValue returns the last currency amount of the first matching line that has one.
func (r LineRule) FirstValue(lines []string) (float64, bool) {
	for _, l := range lines {
		if !r.Matches(l) {
			continue
		}
		if v, ok := LastCurrencyInLine(l); ok {
			return v, true
		}
	}
	return 0, false
}

// LineSum is the result of adding the last amount of every matching line.
type LineSum struct {
	Total float64
	Lines int
}

func (r LineRule) Sum(lines []string) LineSum {
	var s LineSum
	for _, l := range lines {
		if !r.Matches(l) {
			continue
		}
		if v, ok := LastCurrencyInLine(l); ok {
			s.Total += v
			s.Lines++
		}
	}
	return s
}

// PatternRule tries each pattern, in order, against the whole text.
// The first capture group of the first pattern that matches is the value.
type PatternRule struct {
	Label    string
	Patterns []*regexp.Regexp
}

func (r PatternRule) Find(text string) (string, bool) {
	for _, re := range r.Patterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			v := strings.TrimSpace(m[1])
			if v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// SplitLines cleans text into trimmed, non-empty lines
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r", "")
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}
