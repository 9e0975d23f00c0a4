package handler

import (
	"bytes"
	"encoding/json"
	"image"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/vaeba-calculator/dto"
	"github.com/Aashish23092/vaeba-calculator/service"
)

const payslipText = `
Nome: JOSE PEREIRA   Matrícula 112233
TOTAL DOS PROVENTOS PETROS 5.000,00
CONTRIBUIÇÃO PETROS 1.200,00
LÍQUIDO PETROS 3.500,00
`

// stubPDF returns the same text for every upload.
type stubPDF struct {
	text string
}

func (s *stubPDF) ExtractText(_ []byte, _ string) (string, error) {
	return service.AcceptText(s.text)
}

func (s *stubPDF) ExtractImages(_ []byte, _ string) ([]image.Image, error) {
	return nil, nil
}

func (s *stubPDF) Inspect(_ []byte, _ string) (*dto.DocumentInfo, error) {
	return &dto.DocumentInfo{Pages: 1}, nil
}

func newTestRouter(t *testing.T, text string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := service.NewSessionService(
		service.NewSessionStore(0),
		service.DefaultPlanCatalog(),
		service.NewExtractionService(&stubPDF{text: text}, nil, logger),
		service.NewCalculator(logger),
		service.NewExportService(logger),
		"",
		logger,
	)
	return NewRouter(sessions, 1<<20, logger)
}

func do(t *testing.T, r *gin.Engine, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, r *gin.Engine) dto.SessionResponse {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/v1/sessions", nil, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var snap dto.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

func upload(t *testing.T, r *gin.Engine, id, kind, filename string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 stub"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return do(t, r, http.MethodPost, "/api/v1/sessions/"+id+"/documents/"+kind, &buf, mw.FormDataContentType())
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, "")
	w := do(t, r, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestListPlans(t *testing.T) {
	r := newTestRouter(t, "")
	w := do(t, r, http.MethodGet, "/api/v1/plans", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Plans []dto.PlanPreset `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Plans)
	assert.Equal(t, service.DefaultPlanID, resp.Plans[0].ID)
}

func TestCreateSession(t *testing.T) {
	r := newTestRouter(t, "")

	snap := createSession(t, r)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, service.DefaultPlanID, snap.Plan)
	assert.Equal(t, "13", snap.Fields.Get(dto.FieldNSUA))

	w := do(t, r, http.MethodPost, "/api/v1/sessions", strings.NewReader(`{"plan":"NOPE"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNKNOWN_PLAN", decodeError(t, w).Error)

	w = do(t, r, http.MethodPost, "/api/v1/sessions", strings.NewReader(`{"plan":`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAndDeleteSession(t *testing.T) {
	r := newTestRouter(t, "")
	snap := createSession(t, r)

	w := do(t, r, http.MethodGet, "/api/v1/sessions/"+snap.ID, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodDelete, "/api/v1/sessions/"+snap.ID, nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/sessions/"+snap.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SESSION_NOT_FOUND", decodeError(t, w).Error)

	w = do(t, r, http.MethodGet, "/api/v1/sessions/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateFields(t *testing.T) {
	r := newTestRouter(t, "")
	snap := createSession(t, r)
	path := "/api/v1/sessions/" + snap.ID + "/fields"

	w := do(t, r, http.MethodPatch, path, strings.NewReader(`{"fields":{"gross_benefit":"4.000,00"}}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated dto.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "4.000,00", updated.Fields.Get(dto.FieldGrossBenefit))
	assert.Equal(t, dto.SourceManual, updated.Fields[dto.FieldGrossBenefit].Source)

	w = do(t, r, http.MethodPatch, path, strings.NewReader(`{"fields":{"salary":"1"}}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNKNOWN_FIELD", decodeError(t, w).Error)
}

func TestUploadDocument(t *testing.T) {
	r := newTestRouter(t, payslipText)
	snap := createSession(t, r)

	w := upload(t, r, snap.ID, "payslip", "contracheque.pdf")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.StatusOK, resp.Status)
	assert.Equal(t, "JOSE PEREIRA", resp.Fields.Get(dto.FieldParticipantName))
	assert.Equal(t, "5.000,00", resp.Fields.Get(dto.FieldGrossBenefit))
	assert.NotEmpty(t, resp.Summary)
}

func TestUploadDocument_Rejected(t *testing.T) {
	r := newTestRouter(t, payslipText)
	snap := createSession(t, r)

	w := upload(t, r, snap.ID, "passport", "a.pdf")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "UNKNOWN_DOCUMENT_KIND", decodeError(t, w).Error)

	w = upload(t, r, snap.ID, "payslip", "a.png")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/sessions/"+snap.ID+"/documents/payslip", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadDocument_NoTextStillOK(t *testing.T) {
	r := newTestRouter(t, "")
	snap := createSession(t, r)

	w := upload(t, r, snap.ID, "payslip", "scan.pdf")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.StatusNoText, resp.Status)
	assert.Empty(t, resp.Applied)
}

func TestCalculateAndAudit(t *testing.T) {
	r := newTestRouter(t, payslipText)
	snap := createSession(t, r)
	base := "/api/v1/sessions/" + snap.ID

	w := do(t, r, http.MethodGet, base+"/audit", nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, base+"/calculate", nil, "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errResp := decodeError(t, w)
	assert.Equal(t, "VALIDATION_FAILED", errResp.Error)
	assert.Equal(t, dto.FieldGrossBenefit, errResp.Field)

	require.Equal(t, http.StatusOK, upload(t, r, snap.ID, "payslip", "cc.pdf").Code)

	w = do(t, r, http.MethodPost, base+"/calculate", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res dto.CalculationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.InDelta(t, 3800.0, res.NetBenefit, 1e-9)
	assert.NotEmpty(t, res.VAEBAGrossText)

	w = do(t, r, http.MethodGet, base+"/audit", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, w.Body.String(), "JOSE PEREIRA")

	w = do(t, r, http.MethodGet, base+"/audit.xlsx", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestApplyPlanAndReset(t *testing.T) {
	r := newTestRouter(t, "")
	snap := createSession(t, r)
	base := "/api/v1/sessions/" + snap.ID

	w := do(t, r, http.MethodPut, base+"/plan", strings.NewReader(`{"plan":"PPSP-NR"}`), "application/json")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPut, base+"/plan", strings.NewReader(`{}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPatch, base+"/fields", strings.NewReader(`{"fields":{"nsua":"20"}}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, base+"/reset", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var reset dto.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reset))
	assert.Equal(t, "13", reset.Fields.Get(dto.FieldNSUA))
	assert.Equal(t, dto.SourceDefault, reset.Fields[dto.FieldNSUA].Source)
}
