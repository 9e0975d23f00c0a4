package dto

import "strings"

// FieldWrite is a value an extractor wants to put into the form. Whether it
// lands is decided when it is applied, against the field's value at that moment.
type FieldWrite struct {
	Field FieldName `json:"field"`
	Value string    `json:"value"`
	// OnlyIfEmpty skips the write when the field already holds any value.
	OnlyIfEmpty bool `json:"only_if_empty,omitempty"`
	// YieldTo skips the write when the field was last written by one of these sources.
	YieldTo []Source `json:"yield_to,omitempty"`
}

// Blocked reports whether the write must give way to the current value.
func (w FieldWrite) Blocked(current FieldValue) bool {
	if w.OnlyIfEmpty && strings.TrimSpace(current.Value) != "" {
		return true
	}
	if current.Value == "" {
		return false
	}
	for _, s := range w.YieldTo {
		if current.Source == s {
			return true
		}
	}
	return false
}

// SummaryLine is one bullet of a document narrative. When Field is set and the
// write for that field was skipped, SkippedBy[source of the kept value] or,
// failing that, SkippedText replaces Text.
type SummaryLine struct {
	Text        string            `json:"text"`
	Field       FieldName         `json:"field,omitempty"`
	SkippedText string            `json:"skipped_text,omitempty"`
	SkippedBy   map[Source]string `json:"skipped_by,omitempty"`
}

func (l SummaryLine) render(skipped map[FieldName]Source) string {
	if l.Field == "" {
		return l.Text
	}
	kept, ok := skipped[l.Field]
	if !ok {
		return l.Text
	}
	if t, ok := l.SkippedBy[kept]; ok {
		return t
	}
	if l.SkippedText != "" {
		return l.SkippedText
	}
	return l.Text
}

// Extraction is the outcome of reading one document.
type Extraction struct {
	Kind   DocumentKind     `json:"kind"`
	Status ExtractionStatus `json:"status"`
	Header string           `json:"header"`
	Lines  []SummaryLine    `json:"lines,omitempty"`
	Writes []FieldWrite     `json:"writes,omitempty"`
	// StatementTotal carries the R$ sum found in a contribution statement,
	// echoed at the end of the audit even when the field write yielded.
	StatementTotal *float64      `json:"statement_total,omitempty"`
	Info           *DocumentInfo `json:"info,omitempty"`
	OCR            bool          `json:"ocr,omitempty"`
	Err            string        `json:"error,omitempty"`
}

// Summary renders the narrative. skipped maps each field whose write gave way
// to the source of the value that was kept.
func (e Extraction) Summary(skipped map[FieldName]Source) string {
	var b strings.Builder
	b.WriteString(e.Header)
	for _, l := range e.Lines {
		text := l.render(skipped)
		if text == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(text)
	}
	return b.String()
}
