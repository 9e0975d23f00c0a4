package dto

import (
	"errors"
	"fmt"
	"time"
)

// Custom errors
var (
	ErrNoExtractableText   = errors.New("document has no extractable text")
	ErrLibraryUnavailable  = errors.New("pdf library unavailable")
	ErrOCRUnavailable      = errors.New("ocr engine unavailable")
	ErrSessionNotFound     = errors.New("session not found")
	ErrUnknownPlan         = errors.New("unknown plan")
	ErrUnknownDocumentKind = errors.New("unknown document kind")
	ErrUnknownField        = errors.New("unknown field")
	ErrNoCalculation       = errors.New("no calculation has been run")
)

// ValidationError blocks a calculation; Field names the offending input.
type ValidationError struct {
	Field   FieldName
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string    `json:"error"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Field   FieldName `json:"field,omitempty"`
}

type SessionResponse struct {
	ID             string                            `json:"id"`
	Plan           string                            `json:"plan"`
	Fields         FieldSet                          `json:"fields"`
	Summaries      map[DocumentKind]string           `json:"summaries"`
	Statuses       map[DocumentKind]ExtractionStatus `json:"statuses"`
	StatementTotal *float64                          `json:"statement_total,omitempty"`
	LastResult     *CalculationResult                `json:"last_result,omitempty"`
	UpdatedAt      time.Time                         `json:"updated_at"`
}

type UploadResponse struct {
	SessionID string           `json:"session_id"`
	Kind      DocumentKind     `json:"kind"`
	Status    ExtractionStatus `json:"status"`
	Summary   string           `json:"summary"`
	Applied   []FieldWrite     `json:"applied"`
	Skipped   []FieldWrite     `json:"skipped,omitempty"`
	OCR       bool             `json:"ocr,omitempty"`
	Info      *DocumentInfo    `json:"info,omitempty"`
	Fields    FieldSet         `json:"fields"`
}

type PlanPreset struct {
	ID               string  `json:"id"`
	NSUA             float64 `json:"nsua"`
	AnnuityFactor    float64 `json:"ax12"`
	FCB              float64 `json:"fcb"`
	FATCOR           float64 `json:"fatcor"`
	RealInterestRate float64 `json:"taxa_juros_real"`
	MortalityTable   string  `json:"tabua"`
	Indexer          string  `json:"indexador"`
}
