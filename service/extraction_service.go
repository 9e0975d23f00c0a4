package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/Aashish23092/vaeba-calculator/dto"
)

// OCREngine reads text from page images.
type OCREngine interface {
	Check() error
	ExtractTextFromImage(img image.Image) (string, float64, error)
}

const ocrNote = "• Texto obtido por OCR (PDF sem camada de texto)."

// ExtractionService acquires the text of an uploaded document and runs the
// extractor of its kind over it.
type ExtractionService struct {
	pdfProcessor PDFProcessor
	ocr          OCREngine
	ocrErr       error
	logger       *slog.Logger
}

// NewExtractionService wires acquisition. A nil pdfProcessor leaves every
// upload library-unavailable. ocr may be nil (OCR disabled); an engine that
// fails its check is reported here once and never used.
func NewExtractionService(pdfProcessor PDFProcessor, ocr OCREngine, logger *slog.Logger) *ExtractionService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ExtractionService{pdfProcessor: pdfProcessor, logger: logger}
	if pdfProcessor == nil {
		logger.Error("pdf.unavailable", "error", dto.ErrLibraryUnavailable)
	}
	if ocr != nil {
		if err := ocr.Check(); err != nil {
			s.ocrErr = fmt.Errorf("%w: %w", dto.ErrOCRUnavailable, err)
			logger.Warn("ocr.unavailable", "error", s.ocrErr)
		} else {
			s.ocr = ocr
		}
	}
	return s
}

// OCREnabled reports whether the OCR fallback is active.
func (s *ExtractionService) OCREnabled() bool {
	return s.ocr != nil
}

// OCRError is the startup check failure of a configured OCR engine, wrapping
// dto.ErrOCRUnavailable, or nil.
func (s *ExtractionService) OCRError() error {
	return s.ocrErr
}

// Extract never fails: acquisition faults become degraded outcomes.
func (s *ExtractionService) Extract(ctx context.Context, kind dto.DocumentKind, data []byte, password string) dto.Extraction {
	start := time.Now()
	log := s.logger.With("kind", string(kind), "bytes", len(data))

	extract, err := ExtractorFor(kind)
	if err != nil {
		return DegradedExtraction(kind, dto.StatusParseError, err)
	}
	if s.pdfProcessor == nil {
		log.Warn("extraction.library_unavailable")
		return DegradedExtraction(kind, dto.StatusLibraryUnavailable, dto.ErrLibraryUnavailable)
	}

	info, err := s.pdfProcessor.Inspect(data, password)
	if err != nil {
		log.Debug("extraction.inspect_failed", "error", err)
	}

	usedOCR := false
	text, err := s.pdfProcessor.ExtractText(data, password)
	if errors.Is(err, dto.ErrNoExtractableText) && s.ocr != nil {
		ocrText, ocrErr := s.ocrText(ctx, data, password)
		if ocrErr == nil {
			text, err, usedOCR = ocrText, nil, true
		} else {
			log.Info("extraction.ocr_failed", "error", ocrErr)
		}
	}

	var e dto.Extraction
	switch {
	case errors.Is(err, dto.ErrNoExtractableText):
		if s.ocrErr != nil {
			log.Info("extraction.no_text", "ocr_error", s.ocrErr)
		} else {
			log.Info("extraction.no_text")
		}
		e = DegradedExtraction(kind, dto.StatusNoText, err)
	case err != nil:
		log.Warn("extraction.parse_error", "error", err)
		e = DegradedExtraction(kind, dto.StatusParseError, err)
	default:
		e = extract(text)
		if usedOCR {
			e.OCR = true
			e.Lines = append([]dto.SummaryLine{{Text: ocrNote}}, e.Lines...)
		}
		log.Info("extraction.ok",
			"writes", len(e.Writes),
			"ocr", usedOCR,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
	e.Info = info
	return e
}

// ocrText OCRs every embedded page image and applies the same threshold as
// the text layer.
func (s *ExtractionService) ocrText(ctx context.Context, data []byte, password string) (string, error) {
	images, err := s.pdfProcessor.ExtractImages(data, password)
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", dto.ErrNoExtractableText
	}

	var combined strings.Builder
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		pageText, conf, err := s.ocr.ExtractTextFromImage(img)
		if err != nil {
			s.logger.Debug("ocr.page_failed", "page", i+1, "error", err)
			continue
		}
		s.logger.Debug("ocr.page", "page", i+1, "confidence", conf)
		combined.WriteString(pageText)
		combined.WriteString("\n")
	}
	return AcceptText(combined.String())
}
