package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/vaeba-calculator/dto"
)

var t0 = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func defaultPreset(t *testing.T) dto.PlanPreset {
	t.Helper()
	p, err := DefaultPlanCatalog().Get(DefaultPlanID)
	require.NoError(t, err)
	return p
}

func TestSession_NamePrecedence(t *testing.T) {
	// payslip first, then tax filing
	s := newSession("a", t0)
	s.ApplyExtraction(ExtractPayslip(payslipText), t0)
	res := s.ApplyExtraction(ExtractTaxFiling(taxFilingText), t0)

	assert.Equal(t, "MARIA SILVA", s.fields.Get(dto.FieldParticipantName))
	require.Len(t, res.Skipped, 1)
	assert.Contains(t, res.Summary, "(não sobrescreveu o nome do contracheque)")
	assert.Contains(t, res.Summary, "ATENÇÃO: nome diverge do já informado (MARIA SILVA), semelhança de 60%; confira os documentos.")

	// tax filing first, then payslip
	s = newSession("b", t0)
	res = s.ApplyExtraction(ExtractTaxFiling(taxFilingText), t0)
	assert.Equal(t, "MARIA OUTRA", s.fields.Get(dto.FieldParticipantName))
	assert.Contains(t, res.Summary, "(usado por ausência de nome no contracheque)")

	s.ApplyExtraction(ExtractPayslip(payslipText), t0)
	assert.Equal(t, "MARIA SILVA", s.fields.Get(dto.FieldParticipantName))
	assert.Equal(t, dto.SourceOf(dto.DocPayslip), s.fields[dto.FieldParticipantName].Source)
}

func TestSession_TaxFilingKeepsManualName(t *testing.T) {
	s := newSession("a", t0)
	s.SetManual(map[dto.FieldName]string{dto.FieldParticipantName: "Maria Silva"}, t0)
	res := s.ApplyExtraction(ExtractTaxFiling(taxFilingText), t0)

	assert.Equal(t, "Maria Silva", s.fields.Get(dto.FieldParticipantName))
	require.Len(t, res.Skipped, 1)
	assert.Contains(t, res.Summary, "(não sobrescreveu o nome informado manualmente)")
	assert.NotContains(t, res.Summary, "contracheque)")
}

func TestSession_ApplyPlanOverwritesEveryPresetField(t *testing.T) {
	s := newSession("a", t0)
	s.ApplyPlan(defaultPreset(t), t0)
	require.Equal(t, "0,9818", s.fields.Get(dto.FieldFCB))

	s.ApplyPlan(dto.PlanPreset{ID: "PP-2", NSUA: 1, AnnuityFactor: 10}, t0)

	assert.Equal(t, "PP-2", s.Plan())
	for _, f := range []dto.FieldName{dto.FieldFCB, dto.FieldFATCOR, dto.FieldRealInterestRate, dto.FieldMortalityTable, dto.FieldIndexer} {
		assert.Empty(t, s.fields.Get(f), f)
		assert.Equal(t, dto.SourceDefault, s.fields[f].Source, f)
	}
	assert.Equal(t, "10", s.fields.Get(dto.FieldAnnuityFactor))
}

func TestSession_StatementYieldsToPayslipAndManual(t *testing.T) {
	statement := ExtractContributionStatement("Competência 01/2024 100,00\nCompetência 02/2024 200,00\n")

	s := newSession("a", t0)
	s.ApplyExtraction(ExtractPayslip(payslipText), t0)
	res := s.ApplyExtraction(statement, t0)
	assert.Equal(t, "1.200,00", s.fields.Get(dto.FieldTotalContributions))
	assert.Len(t, res.Skipped, 1)
	assert.Contains(t, res.Summary, "Total de contribuições mantido (já informado pelo contracheque).")
	require.NotNil(t, s.statementTotal)
	assert.InDelta(t, 300.0, *s.statementTotal, 1e-9)

	s = newSession("b", t0)
	s.SetManual(map[dto.FieldName]string{dto.FieldTotalContributions: "50,00"}, t0)
	res = s.ApplyExtraction(statement, t0)
	assert.Equal(t, "50,00", s.fields.Get(dto.FieldTotalContributions))
	assert.Contains(t, res.Summary, "Total de contribuições mantido (informado manualmente).")

	s = newSession("c", t0)
	res = s.ApplyExtraction(statement, t0)
	assert.Equal(t, "300,00", s.fields.Get(dto.FieldTotalContributions))
	assert.Contains(t, res.Summary, "Total de contribuições preenchido com a soma do extrato.")
}

func TestSession_DegradedKeepsFields(t *testing.T) {
	s := newSession("a", t0)
	s.ApplyPlan(defaultPreset(t), t0)
	s.ApplyExtraction(ExtractActuarialSheet("äx(12) 14,00000 FCB 0,9000"), t0)

	res := s.ApplyExtraction(DegradedExtraction(dto.DocActuarialSheet, dto.StatusNoText, dto.ErrNoExtractableText), t0)

	assert.Empty(t, res.Applied)
	assert.Equal(t, "14,00000", s.fields.Get(dto.FieldAnnuityFactor))
	assert.Equal(t, "1,0037", s.fields.Get(dto.FieldFATCOR))
	snap := s.Snapshot()
	assert.Equal(t, dto.StatusNoText, snap.Statuses[dto.DocActuarialSheet])
	assert.Equal(t, dto.StatusPending, snap.Statuses[dto.DocPayslip])
	assert.Equal(t, "Concessão: PDF sem texto (imagem – necessário OCR).", snap.Summaries[dto.DocActuarialSheet])
}

func TestSession_SummarySlotReplacedOnReupload(t *testing.T) {
	s := newSession("a", t0)
	s.ApplyExtraction(ExtractPayslip(payslipText), t0)
	s.ApplyExtraction(ExtractPayslip("nada aqui para extrair, apenas texto comum"), t0)

	snap := s.Snapshot()
	assert.NotContains(t, snap.Summaries[dto.DocPayslip], "MARIA SILVA")
	// fields the second read did not find keep the first read's values
	assert.Equal(t, "MARIA SILVA", snap.Fields.Get(dto.FieldParticipantName))
}

func TestSession_FailedCalculationKeepsLastResult(t *testing.T) {
	calc := NewCalculator(quietLogger())
	s := newSession("a", t0)
	s.ApplyPlan(defaultPreset(t), t0)
	s.ApplyExtraction(ExtractPayslip(payslipText), t0)

	first, err := s.Calculate(calc, t0)
	require.NoError(t, err)

	s.SetManual(map[dto.FieldName]string{dto.FieldGrossBenefit: ""}, t0)
	_, err = s.Calculate(calc, t0)
	var verr *dto.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, dto.FieldGrossBenefit, verr.Field)

	last, err := s.LastResult()
	require.NoError(t, err)
	assert.Equal(t, first.VAEBANetText, last.VAEBANetText)
	assert.True(t, last.Stale)
}

func TestSession_Reset(t *testing.T) {
	preset := defaultPreset(t)
	s := newSession("a", t0)
	s.ApplyPlan(preset, t0)
	s.ApplyExtraction(ExtractPayslip(payslipText), t0)
	s.ApplyExtraction(ExtractContributionStatement("100,00 200,00 300,00 em contribuições"), t0)
	_, err := s.Calculate(NewCalculator(quietLogger()), t0)
	require.NoError(t, err)

	s.Reset(preset, t0)

	snap := s.Snapshot()
	assert.Empty(t, snap.Summaries)
	assert.Nil(t, snap.StatementTotal)
	assert.Nil(t, snap.LastResult)
	assert.Empty(t, snap.Fields.Get(dto.FieldParticipantName))
	assert.Equal(t, "13", snap.Fields.Get(dto.FieldNSUA))
	assert.Equal(t, "15,74683", snap.Fields.Get(dto.FieldAnnuityFactor))
	assert.Equal(t, dto.SourceDefault, snap.Fields[dto.FieldNSUA].Source)
	_, err = s.LastResult()
	assert.ErrorIs(t, err, dto.ErrNoCalculation)
}

func newTestService(pdf PDFProcessor) *SessionService {
	logger := quietLogger()
	return NewSessionService(
		NewSessionStore(time.Hour),
		DefaultPlanCatalog(),
		NewExtractionService(pdf, nil, logger),
		NewCalculator(logger),
		NewExportService(logger),
		"",
		logger,
	)
}

func TestSessionService_EndToEnd(t *testing.T) {
	pdf := &fakePDF{text: payslipText, info: &dto.DocumentInfo{Pages: 1}}
	svc := newTestService(pdf)

	snap, err := svc.CreateSession("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPlanID, snap.Plan)

	up, err := svc.ProcessDocument(context.Background(), snap.ID, dto.DocPayslip, []byte("%PDF"), "")
	require.NoError(t, err)
	assert.Equal(t, dto.StatusOK, up.Status)
	assert.Equal(t, 1, up.Info.Pages)
	assert.Equal(t, "5.000,00", up.Fields.Get(dto.FieldGrossBenefit))

	res, err := svc.Calculate(snap.ID)
	require.NoError(t, err)
	assert.False(t, res.Partial)

	audit, err := svc.Audit(snap.ID)
	require.NoError(t, err)
	assert.Contains(t, audit, "Contracheque lido com sucesso.")

	xlsx, err := svc.AuditXLSX(snap.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, xlsx)

	_, err = svc.Reset(snap.ID)
	require.NoError(t, err)
	_, err = svc.Audit(snap.ID)
	assert.ErrorIs(t, err, dto.ErrNoCalculation)

	require.NoError(t, svc.DeleteSession(snap.ID))
	_, err = svc.GetSession(snap.ID)
	assert.ErrorIs(t, err, dto.ErrSessionNotFound)
}

func TestSessionService_UnknownPlan(t *testing.T) {
	svc := newTestService(&fakePDF{})
	_, err := svc.CreateSession("PLANO-X")
	assert.ErrorIs(t, err, dto.ErrUnknownPlan)

	snap, err := svc.CreateSession(DefaultPlanID)
	require.NoError(t, err)
	_, err = svc.ApplyPlan(snap.ID, "PLANO-X")
	assert.ErrorIs(t, err, dto.ErrUnknownPlan)
}
