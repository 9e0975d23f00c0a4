package dto

import "fmt"

type FieldName string

const (
	FieldPlan               FieldName = "plan"
	FieldParticipantName    FieldName = "name"
	FieldBaseDate           FieldName = "base_date"
	FieldAge                FieldName = "age"
	FieldSex                FieldName = "sex"
	FieldGrossBenefit       FieldName = "gross_benefit"
	FieldTotalContributions FieldName = "total_contributions"
	FieldNSUA               FieldName = "nsua"
	FieldAnnuityFactor      FieldName = "annuity_factor"
	FieldFCB                FieldName = "fcb"
	FieldFATCOR             FieldName = "fatcor"
	FieldRealInterestRate   FieldName = "real_interest_rate"
	FieldMortalityTable     FieldName = "mortality_table"
	FieldIndexer            FieldName = "indexer"
)

// AllFields is the form order, used for exports and validation of manual edits.
var AllFields = []FieldName{
	FieldPlan,
	FieldParticipantName,
	FieldBaseDate,
	FieldAge,
	FieldSex,
	FieldGrossBenefit,
	FieldTotalContributions,
	FieldNSUA,
	FieldAnnuityFactor,
	FieldFCB,
	FieldFATCOR,
	FieldRealInterestRate,
	FieldMortalityTable,
	FieldIndexer,
}

func ParseFieldName(s string) (FieldName, error) {
	for _, f := range AllFields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Label is the caption the form and the audit use for the field.
func (f FieldName) Label() string {
	switch f {
	case FieldPlan:
		return "Plano"
	case FieldParticipantName:
		return "Nome do participante"
	case FieldBaseDate:
		return "Data-base do cálculo"
	case FieldAge:
		return "Idade x"
	case FieldSex:
		return "Sexo"
	case FieldGrossBenefit:
		return "Benefício Petros bruto"
	case FieldTotalContributions:
		return "Total de contribuições"
	case FieldNSUA:
		return "NSUA"
	case FieldAnnuityFactor:
		return "äₓ(12)"
	case FieldFCB:
		return "FCB"
	case FieldFATCOR:
		return "FATCOR"
	case FieldRealInterestRate:
		return "Taxa de juros real"
	case FieldMortalityTable:
		return "Tábua biométrica"
	case FieldIndexer:
		return "Indexador econômico"
	}
	return string(f)
}

// Source records who wrote a field last: a plan default, the user, or the
// extractor of a document kind.
type Source string

const (
	SourceDefault Source = "default"
	SourceManual  Source = "manual"
)

func SourceOf(kind DocumentKind) Source {
	return Source(kind)
}

// Provenance collapses a source into default, manual or extracted.
func (s Source) Provenance() string {
	switch s {
	case SourceDefault, SourceManual:
		return string(s)
	case "":
		return ""
	}
	return "extracted"
}

type FieldValue struct {
	Value  string `json:"value"`
	Source Source `json:"source,omitempty"`
}

// FieldSet holds the form values. Last write wins; no field is locked.
type FieldSet map[FieldName]FieldValue

func (fs FieldSet) Get(name FieldName) string {
	return fs[name].Value
}

func (fs FieldSet) Set(name FieldName, value string, src Source) {
	fs[name] = FieldValue{Value: value, Source: src}
}

func (fs FieldSet) Clone() FieldSet {
	out := make(FieldSet, len(fs))
	for k, v := range fs {
		out[k] = v
	}
	return out
}
