package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/Aashish23092/vaeba-calculator/dto"
	"github.com/Aashish23092/vaeba-calculator/utils"
)

// Session is one calculator form: the field set, one summary slot per
// document kind and the last calculation. All access goes through its lock,
// so concurrent uploads apply their writes one at a time.
type Session struct {
	mu sync.RWMutex

	id             string
	plan           string
	fields         dto.FieldSet
	summaries      map[dto.DocumentKind]string
	statuses       map[dto.DocumentKind]dto.ExtractionStatus
	statementTotal *float64
	lastResult     *dto.CalculationResult
	updatedAt      time.Time
	lastSeen       time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		id:        id,
		fields:    dto.FieldSet{},
		summaries: map[dto.DocumentKind]string{},
		statuses:  map[dto.DocumentKind]dto.ExtractionStatus{},
		updatedAt: now,
		lastSeen:  now,
	}
}

func (s *Session) ID() string { return s.id }

// ApplyResult reports which writes of an extraction landed.
type ApplyResult struct {
	Applied []dto.FieldWrite
	Skipped []dto.FieldWrite
	Summary string
}

// ApplyExtraction is the single coordinating step for document outcomes.
// Each write is judged against the field's value at this moment; blocked
// writes are dropped, fields the extraction did not find are left alone and
// the kind's summary slot is replaced with the rendered narrative.
func (s *Session) ApplyExtraction(e dto.Extraction, now time.Time) ApplyResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := ApplyResult{Applied: []dto.FieldWrite{}}
	skipped := map[dto.FieldName]dto.Source{}
	src := dto.SourceOf(e.Kind)

	for _, w := range e.Writes {
		current := s.fields[w.Field]
		if w.Blocked(current) {
			res.Skipped = append(res.Skipped, w)
			skipped[w.Field] = current.Source
			if w.Field == dto.FieldParticipantName {
				e.Lines = append(e.Lines, nameCrossCheck(current.Value, w.Value))
			}
			continue
		}
		s.fields.Set(w.Field, w.Value, src)
		res.Applied = append(res.Applied, w)
	}

	res.Summary = e.Summary(skipped)
	s.summaries[e.Kind] = res.Summary
	s.statuses[e.Kind] = e.Status
	if e.Kind == dto.DocContributionStatement {
		s.statementTotal = e.StatementTotal
	}
	if len(res.Applied) > 0 {
		s.markStale()
	}
	s.touch(now)
	return res
}

func nameCrossCheck(kept, found string) dto.SummaryLine {
	if utils.CompareNames(kept, found) {
		return dto.SummaryLine{Text: "• Nome confere com o já informado (" + kept + ")."}
	}
	similarity := utils.NameSimilarity(kept, found) * 100
	return dto.SummaryLine{Text: fmt.Sprintf("• ATENÇÃO: nome diverge do já informado (%s), semelhança de %.0f%%; confira os documentos.", kept, similarity)}
}

// SetManual records user edits. Every edit wins over whatever was there.
func (s *Session) SetManual(values map[dto.FieldName]string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, v := range values {
		s.fields.Set(name, v, dto.SourceManual)
		if name == dto.FieldPlan {
			s.plan = v
		}
	}
	s.markStale()
	s.touch(now)
}

// ApplyPlan writes a preset's defaults over the current values.
func (s *Session) ApplyPlan(p dto.PlanPreset, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyPlanLocked(p)
	s.markStale()
	s.touch(now)
}

func (s *Session) applyPlanLocked(p dto.PlanPreset) {
	s.plan = p.ID
	for name, v := range PresetValues(p) {
		s.fields.Set(name, v, dto.SourceDefault)
	}
}

// Reset empties the form and re-applies the given preset's defaults.
func (s *Session) Reset(p dto.PlanPreset, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = dto.FieldSet{}
	s.summaries = map[dto.DocumentKind]string{}
	s.statuses = map[dto.DocumentKind]dto.ExtractionStatus{}
	s.statementTotal = nil
	s.lastResult = nil
	s.applyPlanLocked(p)
	s.touch(now)
}

// Plan is the id of the preset last applied or typed.
func (s *Session) Plan() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan
}

// Calculate runs the evaluator over the current fields. A validation failure
// leaves the previous result as it was.
func (s *Session) Calculate(c *Calculator, now time.Time) (*dto.CalculationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(now)

	in := CalculationInput{
		Fields:         s.fields.Clone(),
		Summaries:      make(map[dto.DocumentKind]string, len(s.summaries)),
		StatementTotal: s.statementTotal,
	}
	for k, v := range s.summaries {
		in.Summaries[k] = v
	}

	res, err := c.Calculate(in)
	if err != nil {
		return nil, err
	}
	s.lastResult = res
	out := *res
	return &out, nil
}

// LastResult returns a copy of the last calculation or dto.ErrNoCalculation.
func (s *Session) LastResult() (*dto.CalculationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastResult == nil {
		return nil, dto.ErrNoCalculation
	}
	out := *s.lastResult
	return &out, nil
}

// Snapshot copies the session state out of the lock.
func (s *Session) Snapshot() dto.SessionResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := dto.SessionResponse{
		ID:        s.id,
		Plan:      s.plan,
		Fields:    s.fields.Clone(),
		Summaries: make(map[dto.DocumentKind]string, len(s.summaries)),
		Statuses:  make(map[dto.DocumentKind]dto.ExtractionStatus, len(dto.AllDocumentKinds)),
		UpdatedAt: s.updatedAt,
	}
	for k, v := range s.summaries {
		resp.Summaries[k] = v
	}
	for _, k := range dto.AllDocumentKinds {
		status, ok := s.statuses[k]
		if !ok {
			status = dto.StatusPending
		}
		resp.Statuses[k] = status
	}
	if s.statementTotal != nil {
		total := *s.statementTotal
		resp.StatementTotal = &total
	}
	if s.lastResult != nil {
		r := *s.lastResult
		resp.LastResult = &r
	}
	return resp
}

func (s *Session) markStale() {
	if s.lastResult != nil {
		s.lastResult.Stale = true
	}
}

func (s *Session) touch(now time.Time) {
	s.updatedAt = now
	s.lastSeen = now
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}
