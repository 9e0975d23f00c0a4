package service

import (
	"fmt"

	"github.com/Aashish23092/vaeba-calculator/dto"
	"github.com/Aashish23092/vaeba-calculator/utils"
)

// Extractor turns acquired text into field writes and a narrative. It never
// looks at the current form; precedence is decided when the writes are applied.
type Extractor func(text string) dto.Extraction

var extractors = map[dto.DocumentKind]Extractor{
	dto.DocPayslip:               ExtractPayslip,
	dto.DocContributionStatement: ExtractContributionStatement,
	dto.DocActuarialSheet:        ExtractActuarialSheet,
	dto.DocTaxFiling:             ExtractTaxFiling,
}

// ExtractorFor returns the extractor of a document kind.
func ExtractorFor(kind dto.DocumentKind) (Extractor, error) {
	ex, ok := extractors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dto.ErrUnknownDocumentKind, kind)
	}
	return ex, nil
}

func bullet(format string, args ...any) string {
	return "• " + fmt.Sprintf(format, args...)
}

func ExtractPayslip(text string) dto.Extraction {
	data := utils.ParsePayslip(text)
	e := dto.Extraction{
		Kind:   dto.DocPayslip,
		Status: dto.StatusOK,
		Header: "Contracheque lido com sucesso.",
	}

	if data.Name != "" {
		e.Writes = append(e.Writes, dto.FieldWrite{Field: dto.FieldParticipantName, Value: data.Name})
		e.Lines = append(e.Lines, dto.SummaryLine{Text: bullet("Nome identificado (contracheque): %s.", data.Name)})
	} else {
		e.Lines = append(e.Lines, dto.SummaryLine{Text: bullet("Não foi possível identificar o nome no contracheque.")})
	}

	if data.GrossFound {
		e.Writes = append(e.Writes, dto.FieldWrite{Field: dto.FieldGrossBenefit, Value: utils.FormatBRAmount(data.GrossBenefit)})
		e.Lines = append(e.Lines, dto.SummaryLine{Text: bullet("Benefício bruto em “TOTAL DOS PROVENTOS PETROS”: %s.", utils.FormatBRL(data.GrossBenefit))})
	} else {
		e.Lines = append(e.Lines, dto.SummaryLine{Text: bullet("Não foi possível identificar o benefício bruto em “TOTAL DOS PROVENTOS PETROS”.")})
	}

	switch {
	case data.ContributionsFound && data.UsedDeductionTotal:
		e.Writes = append(e.Writes, dto.FieldWrite{Field: dto.FieldTotalContributions, Value: utils.FormatBRAmount(data.Contributions)})
		e.Lines = append(e.Lines, dto.SummaryLine{Text: bullet("Contribuições PETROS pelo “TOTAL DOS DESCONTOS PETROS”: %s.", utils.FormatBRL(data.Contributions))})
	case data.ContributionsFound:
		e.Writes = append(e.Writes, dto.FieldWrite{Field: dto.FieldTotalContributions, Value: utils.FormatBRAmount(data.Contributions)})
		e.Lines = append(e.Lines, dto.SummaryLine{Text: bullet("Contribuições PETROS somadas (normal + extraordinárias + PED + pecúlio): %s.", utils.FormatBRL(data.Contributions))})
	default:
		e.Lines = append(e.Lines, dto.SummaryLine{Text: bullet("Não foi possível identificar automaticamente as contribuições PETROS.")})
	}

	if data.ContributionLines > 0 {
		e.Lines = append(e.Lines, dto.SummaryLine{Text: bullet("Lançamentos de contribuição somados: %d.", data.ContributionLines)})
	}

	if data.NetFound {
		e.Lines = append(e.Lines, dto.SummaryLine{Text: bullet("Benefício líquido PETROS (para conferência): %s.", utils.FormatBRL(data.NetBenefit))})
	}

	if data.CurrencyTokens > 0 {
		e.Lines = append(e.Lines, dto.SummaryLine{Text: bullet("Valores monetários aproveitados do contracheque: %d.", data.CurrencyTokens)})
	} else {
		e.Lines = append(e.Lines, dto.SummaryLine{Text: bullet("Nenhum valor monetário aproveitado do contracheque.")})
	}

	return e
}

// statementYieldsTo lists the sources a statement total never overwrites.
var statementYieldsTo = []dto.Source{dto.SourceOf(dto.DocPayslip), dto.SourceManual}

func ExtractContributionStatement(text string) dto.Extraction {
	data := utils.ParseContributionStatement(text)
	e := dto.Extraction{
		Kind:   dto.DocContributionStatement,
		Status: dto.StatusOK,
		Header: "Extrato lido com sucesso.",
	}

	totalLine := dto.SummaryLine{
		Field:       dto.FieldTotalContributions,
		Text:        bullet("Total de contribuições preenchido com a soma do extrato."),
		SkippedText: bullet("Total de contribuições mantido (já informado pelo contracheque ou manualmente)."),
		SkippedBy: map[dto.Source]string{
			dto.SourceOf(dto.DocPayslip): bullet("Total de contribuições mantido (já informado pelo contracheque)."),
			dto.SourceManual:             bullet("Total de contribuições mantido (informado manualmente)."),
		},
	}

	switch {
	case data.MultiCurrency && data.Found:
		e.Lines = append(e.Lines,
			dto.SummaryLine{Text: bullet("Detectado “Histórico de alterações de moedas”.")},
			dto.SummaryLine{Text: bullet("Somados apenas valores explicitamente em R$ (período pós-Real): %d lançamento(s).", data.Count)},
			dto.SummaryLine{Text: bullet("Soma total em R$: %s.", utils.FormatBRL(data.Sum))},
			totalLine,
			legacyWarning(data.LegacyCount),
		)
	case data.MultiCurrency:
		e.Lines = append(e.Lines,
			dto.SummaryLine{Text: bullet("Detectado “Histórico de alterações de moedas” (Cr$, Cz$, NCz$, CR$, URV, R$).")},
			dto.SummaryLine{Text: bullet("Nenhum valor em R$ foi identificado para soma segura.")},
			dto.SummaryLine{Text: "\nPor segurança, a calculadora não fará soma automática deste extrato."},
		)
		return e
	case data.Found:
		e.Lines = append(e.Lines,
			dto.SummaryLine{Text: bullet("Valores monetários identificados e somados (presumidos em R$): %d lançamento(s).", data.Count)},
			dto.SummaryLine{Text: bullet("Soma total das contribuições: %s.", utils.FormatBRL(data.Sum))},
			totalLine,
		)
	default:
		e.Header = "Extrato: texto lido, sem valores monetários detectados."
		return e
	}

	sum := data.Sum
	e.StatementTotal = &sum
	e.Writes = append(e.Writes, dto.FieldWrite{
		Field:   dto.FieldTotalContributions,
		Value:   utils.FormatBRAmount(sum),
		YieldTo: statementYieldsTo,
	})
	return e
}

func legacyWarning(legacy int) dto.SummaryLine {
	if legacy == 0 {
		return dto.SummaryLine{Text: "\nATENÇÃO: valores em Cr$, Cz$, NCz$, CR$ ou URV não foram convertidos automaticamente; converta-os à parte e informe manualmente se necessário."}
	}
	return dto.SummaryLine{Text: fmt.Sprintf("\nATENÇÃO: %d valor(es) em Cr$, Cz$, NCz$, CR$ ou URV ficaram fora da soma e não foram convertidos automaticamente; converta-os à parte e informe manualmente se necessário.", legacy)}
}

func ExtractActuarialSheet(text string) dto.Extraction {
	data := utils.ParseActuarialSheet(text)
	e := dto.Extraction{
		Kind:   dto.DocActuarialSheet,
		Status: dto.StatusOK,
		Header: "Cálculo de concessão lido com sucesso.",
	}

	if !data.AnnuityFactorFound && !data.FCBFound && !data.FATCORFound {
		e.Lines = append(e.Lines, dto.SummaryLine{Text: bullet("Não foi possível localizar äₓ(12), FCB ou FATCOR automaticamente.")})
		return e
	}

	factor := func(found bool, field dto.FieldName, value, label string) {
		if !found {
			e.Lines = append(e.Lines, dto.SummaryLine{Text: bullet("%s não localizado.", label)})
			return
		}
		e.Writes = append(e.Writes, dto.FieldWrite{Field: field, Value: value})
		e.Lines = append(e.Lines, dto.SummaryLine{Text: bullet("%s identificado: %s.", label, value)})
	}
	factor(data.AnnuityFactorFound, dto.FieldAnnuityFactor, data.AnnuityFactor, "äₓ(12)")
	factor(data.FCBFound, dto.FieldFCB, data.FCB, "FCB")
	factor(data.FATCORFound, dto.FieldFATCOR, data.FATCOR, "FATCOR (Fator INPC)")

	return e
}

func ExtractTaxFiling(text string) dto.Extraction {
	data := utils.ParseTaxFiling(text)
	e := dto.Extraction{
		Kind:   dto.DocTaxFiling,
		Status: dto.StatusOK,
		Header: "Declaração de IR lida com sucesso.",
	}

	if !data.Found {
		e.Lines = append(e.Lines, dto.SummaryLine{Text: bullet("Não foi possível identificar o nome automaticamente (campo NOME/Nome).")})
		return e
	}

	// Only fills an empty name; the payslip overwrites it later if uploaded.
	e.Writes = append(e.Writes, dto.FieldWrite{Field: dto.FieldParticipantName, Value: data.Name, OnlyIfEmpty: true})
	e.Lines = append(e.Lines, dto.SummaryLine{
		Field:       dto.FieldParticipantName,
		Text:        bullet("Nome identificado (IR): %s (usado por ausência de nome no contracheque).", data.Name),
		SkippedText: bullet("Nome identificado (IR): %s (não sobrescreveu o nome já informado).", data.Name),
		SkippedBy: map[dto.Source]string{
			dto.SourceOf(dto.DocPayslip): bullet("Nome identificado (IR): %s (não sobrescreveu o nome do contracheque).", data.Name),
			dto.SourceManual:             bullet("Nome identificado (IR): %s (não sobrescreveu o nome informado manualmente).", data.Name),
		},
	})
	return e
}

// shortLabels are the prefixes the degraded narratives use per kind.
var shortLabels = map[dto.DocumentKind]string{
	dto.DocPayslip:               "Contracheque",
	dto.DocContributionStatement: "Extrato",
	dto.DocActuarialSheet:        "Concessão",
	dto.DocTaxFiling:             "IR",
}

var parseFaultLabels = map[dto.DocumentKind]string{
	dto.DocPayslip:               "do contracheque",
	dto.DocContributionStatement: "do extrato",
	dto.DocActuarialSheet:        "do cálculo de concessão",
	dto.DocTaxFiling:             "da declaração de IR",
}

// DegradedExtraction is the outcome of a document whose text could not be
// acquired. It carries no writes, so every field keeps its prior value.
func DegradedExtraction(kind dto.DocumentKind, status dto.ExtractionStatus, err error) dto.Extraction {
	e := dto.Extraction{Kind: kind, Status: status}
	if err != nil {
		e.Err = err.Error()
	}
	switch status {
	case dto.StatusNoText:
		e.Header = shortLabels[kind] + ": PDF sem texto (imagem – necessário OCR)."
	case dto.StatusLibraryUnavailable:
		e.Header = shortLabels[kind] + ": leitor de PDF indisponível; extração automática desativada."
	default:
		e.Header = "Erro na leitura " + parseFaultLabels[kind] + "."
		if err != nil {
			e.Header = "Erro na leitura " + parseFaultLabels[kind] + ": " + err.Error()
		}
	}
	return e
}
