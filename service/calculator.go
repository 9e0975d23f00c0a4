package service

import (
	"log/slog"
	"strings"
	"time"

	"github.com/Aashish23092/vaeba-calculator/dto"
	"github.com/Aashish23092/vaeba-calculator/utils"
)

const notAvailable = "N/A"

// CalculationInput is everything the formula and the audit read. The
// evaluator sees fields and finished summaries only, never document text.
type CalculationInput struct {
	Fields         dto.FieldSet
	Summaries      map[dto.DocumentKind]string
	StatementTotal *float64
}

type Calculator struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewCalculator(logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{logger: logger, now: time.Now}
}

// Calculate validates the inputs and evaluates
//
//	K = NSUA × äx(12) × FCB × FATCOR
//	VAEBA líquida = K × (bruto − contribuições)
//	VAEBA bruta   = K × bruto
//
// A missing or unparseable FCB or FATCOR counts as 1 and marks the result partial.
func (c *Calculator) Calculate(in CalculationInput) (*dto.CalculationResult, error) {
	f := in.Fields

	gross, ok := utils.ParseBRFloat(f.Get(dto.FieldGrossBenefit))
	if !ok {
		return nil, &dto.ValidationError{Field: dto.FieldGrossBenefit, Message: "Informe um valor numérico válido para o benefício Petros bruto."}
	}
	contributions, ok := utils.ParseBRFloat(f.Get(dto.FieldTotalContributions))
	if !ok {
		return nil, &dto.ValidationError{Field: dto.FieldTotalContributions, Message: "Informe um valor numérico válido para o total de contribuições."}
	}
	nsua, ok := utils.ParseBRFloat(f.Get(dto.FieldNSUA))
	if !ok || nsua <= 0 {
		return nil, &dto.ValidationError{Field: dto.FieldNSUA, Message: "Informe um NSUA válido."}
	}
	ax12, ok := utils.ParseBRFloat(f.Get(dto.FieldAnnuityFactor))
	if !ok || ax12 <= 0 {
		return nil, &dto.ValidationError{Field: dto.FieldAnnuityFactor, Message: "Informe um valor válido para äₓ(12)."}
	}

	var missing []dto.FieldName
	fcb, ok := utils.ParseBRFloat(f.Get(dto.FieldFCB))
	if !ok {
		fcb = 1
		missing = append(missing, dto.FieldFCB)
	}
	fatcor, ok := utils.ParseBRFloat(f.Get(dto.FieldFATCOR))
	if !ok {
		fatcor = 1
		missing = append(missing, dto.FieldFATCOR)
	}

	net := gross - contributions
	k := nsua * ax12 * fcb * fatcor

	res := &dto.CalculationResult{
		NetBenefit:     net,
		K:              k,
		VAEBANet:       k * net,
		VAEBAGross:     k * gross,
		Partial:        len(missing) > 0,
		MissingFactors: missing,
		CalculatedAt:   c.now(),
	}
	res.NetBenefitText = utils.FormatBRL(res.NetBenefit)
	res.KText = utils.FormatBRNumber(res.K, 5)
	res.VAEBANetText = utils.FormatBRL(res.VAEBANet)
	res.VAEBAGrossText = utils.FormatBRL(res.VAEBAGross)

	plan := orNA(f.Get(dto.FieldPlan))
	if res.Partial {
		names := missingNames(missing)
		res.Status = "Resultado parcial (faltando " + names + ")"
		res.Note = "Foi adotado o valor 1,00 para o(s) fator(es) faltante(s) (" + names +
			") apenas para pré-visualização. Preencha FCB e FATCOR para o resultado final."
		c.logger.Info("calculation.partial", "plan", plan, "missing", names)
	} else {
		res.Status = "Resultado completo (plano " + plan + ")"
		res.Note = "Cálculo realizado com todos os fatores atuariais preenchidos."
		c.logger.Info("calculation.complete", "plan", plan)
	}

	res.Audit = BuildAudit(in, res)
	return res, nil
}

func missingNames(missing []dto.FieldName) string {
	names := make([]string, len(missing))
	for i, m := range missing {
		names[i] = m.Label()
	}
	return strings.Join(names, " e ")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

// formatDateBR turns an ISO date into DD/MM/YYYY; other input is echoed.
func formatDateBR(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}

// placeholders for document kinds that produced no summary
var notProcessed = map[dto.DocumentKind]string{
	dto.DocPayslip:               "Contracheque: não enviado ou não processado.",
	dto.DocContributionStatement: "Extrato de contribuições: não enviado ou não processado.",
	dto.DocActuarialSheet:        "Cálculo de concessão: não enviado ou não processado.",
	dto.DocTaxFiling:             "Declaração de IR: não enviada ou não processada.",
}

// BuildAudit regenerates the full transcript: every echoed input, the
// computed values and each document summary verbatim.
func BuildAudit(in CalculationInput, res *dto.CalculationResult) string {
	f := in.Fields
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\n")
	}

	obs := "Nenhuma."
	if res.Partial {
		obs = "Resultado parcial. Fatores assumidos como 1,00: " + missingNames(res.MissingFactors) + "."
	}

	b.WriteString("=== DADOS GERAIS ===\n")
	line("Plano", orNA(f.Get(dto.FieldPlan)))
	line("Nome do participante", orNA(f.Get(dto.FieldParticipantName)))
	line("Data-base do cálculo", formatDateBR(f.Get(dto.FieldBaseDate)))
	line("Idade x", orNA(f.Get(dto.FieldAge))+" anos")
	line("Sexo", orNA(f.Get(dto.FieldSex)))
	b.WriteString("\n")

	b.WriteString("=== BENEFÍCIO E CONTRIBUIÇÕES (MÊS BASE) ===\n")
	line("Benefício Petros bruto", orNA(f.Get(dto.FieldGrossBenefit)))
	line("Total de contribuições", orNA(f.Get(dto.FieldTotalContributions)))
	line("SUP líquida (bruto – contribuições)", res.NetBenefitText)
	b.WriteString("\n")

	b.WriteString("=== PARÂMETROS ATUARIAIS USADOS ===\n")
	for _, name := range []dto.FieldName{
		dto.FieldNSUA,
		dto.FieldAnnuityFactor,
		dto.FieldFCB,
		dto.FieldFATCOR,
		dto.FieldRealInterestRate,
		dto.FieldMortalityTable,
		dto.FieldIndexer,
	} {
		line(name.Label(), orNA(f.Get(name)))
	}
	b.WriteString("\n")

	b.WriteString("=== FATOR GLOBAL K ===\n")
	line("K (numérico)", res.KText)
	b.WriteString("\n")

	b.WriteString("=== RESULTADOS DA VAEBA ===\n")
	line("VAEBA líquida", res.VAEBANetText)
	line("VAEBA bruta", res.VAEBAGrossText)
	line("Observação sobre completude", obs)
	b.WriteString("\n")

	b.WriteString("=== INFORMAÇÕES EXTRAÍDAS DOS PDFs ===\n")
	for i, kind := range dto.AllDocumentKinds {
		summary := in.Summaries[kind]
		if summary == "" {
			summary = notProcessed[kind]
		}
		b.WriteString(summary)
		if i < len(dto.AllDocumentKinds)-1 {
			b.WriteString("\n\n")
		} else {
			b.WriteString("\n")
		}
	}

	if in.StatementTotal != nil {
		b.WriteString("\nSoma total de contribuições em R$ detectada no extrato: ")
		b.WriteString(utils.FormatBRL(*in.StatementTotal))
		b.WriteString(".\n")
	}

	return b.String()
}
