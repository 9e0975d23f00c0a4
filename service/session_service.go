package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Aashish23092/vaeba-calculator/dto"
)

// SessionService is the façade the handlers talk to.
type SessionService struct {
	store      *SessionStore
	plans      *PlanCatalog
	extraction *ExtractionService
	calculator *Calculator
	export     *ExportService
	defaultID  string
	logger     *slog.Logger
	now        func() time.Time
}

func NewSessionService(
	store *SessionStore,
	plans *PlanCatalog,
	extraction *ExtractionService,
	calculator *Calculator,
	export *ExportService,
	defaultPlan string,
	logger *slog.Logger,
) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultPlan == "" {
		defaultPlan = DefaultPlanID
	}
	return &SessionService{
		store:      store,
		plans:      plans,
		extraction: extraction,
		calculator: calculator,
		export:     export,
		defaultID:  defaultPlan,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *SessionService) Plans() []dto.PlanPreset {
	return s.plans.List()
}

// CreateSession opens a form with the defaults of the given plan, or of the
// default plan when none is given.
func (s *SessionService) CreateSession(plan string) (dto.SessionResponse, error) {
	if plan == "" {
		plan = s.defaultID
	}
	preset, err := s.plans.Get(plan)
	if err != nil {
		return dto.SessionResponse{}, err
	}
	sess := s.store.Create()
	sess.Reset(preset, s.now())
	s.logger.Info("session.created", "session_id", sess.ID(), "plan", plan)
	return sess.Snapshot(), nil
}

func (s *SessionService) GetSession(id string) (dto.SessionResponse, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return dto.SessionResponse{}, err
	}
	return sess.Snapshot(), nil
}

func (s *SessionService) DeleteSession(id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.logger.Info("session.deleted", "session_id", id)
	return nil
}

func (s *SessionService) ApplyPlan(id, plan string) (dto.SessionResponse, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return dto.SessionResponse{}, err
	}
	preset, err := s.plans.Get(plan)
	if err != nil {
		return dto.SessionResponse{}, err
	}
	sess.ApplyPlan(preset, s.now())
	return sess.Snapshot(), nil
}

func (s *SessionService) UpdateFields(id string, values map[dto.FieldName]string) (dto.SessionResponse, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return dto.SessionResponse{}, err
	}
	sess.SetManual(values, s.now())
	return sess.Snapshot(), nil
}

// UploadDocument reads the uploaded file and runs it through ProcessDocument.
func (s *SessionService) UploadDocument(ctx context.Context, id string, req *dto.DocumentUploadRequest) (*dto.UploadResponse, error) {
	f, err := req.File.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return s.ProcessDocument(ctx, id, req.Kind, data, req.Password)
}

// ProcessDocument acquires, extracts and applies one document. Degraded
// outcomes are not errors; they come back with their status and summary.
func (s *SessionService) ProcessDocument(ctx context.Context, id string, kind dto.DocumentKind, data []byte, password string) (*dto.UploadResponse, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	e := s.extraction.Extract(ctx, kind, data, password)
	applied := sess.ApplyExtraction(e, s.now())

	s.logger.Info("document.applied",
		"session_id", id,
		"kind", string(kind),
		"status", string(e.Status),
		"applied", len(applied.Applied),
		"skipped", len(applied.Skipped),
	)

	return &dto.UploadResponse{
		SessionID: id,
		Kind:      kind,
		Status:    e.Status,
		Summary:   applied.Summary,
		Applied:   applied.Applied,
		Skipped:   applied.Skipped,
		OCR:       e.OCR,
		Info:      e.Info,
		Fields:    sess.Snapshot().Fields,
	}, nil
}

func (s *SessionService) Calculate(id string) (*dto.CalculationResult, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	res, err := sess.Calculate(s.calculator, s.now())
	if err != nil {
		var verr *dto.ValidationError
		if errors.As(err, &verr) {
			s.logger.Info("calculation.rejected", "session_id", id, "field", string(verr.Field))
		}
		return nil, err
	}
	return res, nil
}

func (s *SessionService) Audit(id string) (string, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return "", err
	}
	res, err := sess.LastResult()
	if err != nil {
		return "", err
	}
	return res.Audit, nil
}

func (s *SessionService) AuditXLSX(id string) ([]byte, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	res, err := sess.LastResult()
	if err != nil {
		return nil, err
	}
	return s.export.AuditXLSX(sess.Snapshot(), res)
}

// Reset clears the form and re-applies the current plan's defaults, falling
// back to the default plan when the current one is not in the catalog.
func (s *SessionService) Reset(id string) (dto.SessionResponse, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return dto.SessionResponse{}, err
	}
	preset, err := s.plans.Get(sess.Plan())
	if err != nil {
		preset, err = s.plans.Get(s.defaultID)
		if err != nil {
			return dto.SessionResponse{}, err
		}
	}
	sess.Reset(preset, s.now())
	s.logger.Info("session.reset", "session_id", id, "plan", preset.ID)
	return sess.Snapshot(), nil
}
