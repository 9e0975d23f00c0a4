package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/vaeba-calculator/dto"
)

const (
	sheetFields = "Campos"
	sheetResult = "Resultado"
	sheetAudit  = "Auditoria"
)

// ExportService renders a session and its last calculation as an XLSX workbook.
type ExportService struct {
	logger *slog.Logger
}

func NewExportService(logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{logger: logger}
}

func (s *ExportService) AuditXLSX(snap dto.SessionResponse, res *dto.CalculationResult) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes "Campos"
	if err := f.SetSheetName("Sheet1", sheetFields); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{sheetResult, sheetAudit} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	write := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	for i, h := range []string{"Campo", "Valor", "Origem"} {
		write(sheetFields, i+1, 1, h)
	}
	for i, name := range dto.AllFields {
		v := snap.Fields[name]
		write(sheetFields, 1, i+2, name.Label())
		write(sheetFields, 2, i+2, v.Value)
		write(sheetFields, 3, i+2, v.Source.Provenance())
	}

	rows := [][]any{
		{"Status", res.Status},
		{"Observação", res.Note},
		{"SUP líquida", res.NetBenefit},
		{"K", res.K},
		{"VAEBA líquida", res.VAEBANet},
		{"VAEBA bruta", res.VAEBAGross},
		{"Calculado em", res.CalculatedAt.Format(time.RFC3339)},
		{"Desatualizado", res.Stale},
	}
	for i, r := range rows {
		write(sheetResult, 1, i+1, r[0])
		write(sheetResult, 2, i+1, r[1])
	}

	for i, l := range strings.Split(strings.TrimRight(res.Audit, "\n"), "\n") {
		write(sheetAudit, 1, i+1, l)
	}

	_ = f.SetColWidth(sheetFields, "A", "A", 26)
	_ = f.SetColWidth(sheetFields, "B", "B", 44)
	_ = f.SetColWidth(sheetFields, "C", "C", 12)
	_ = f.SetColWidth(sheetResult, "A", "A", 18)
	_ = f.SetColWidth(sheetResult, "B", "B", 60)
	_ = f.SetColWidth(sheetAudit, "A", "A", 110)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"session_id", snap.ID,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
