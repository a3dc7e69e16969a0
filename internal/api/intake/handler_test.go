package intake

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/pkg/formatter"
	"github.com/futig/resource-assistant/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsecase struct {
	respondErr   error
	lastQuestion string
	lastAnswer   entity.Answer
	report       *entity.ResourceReport
	reportErr    error
}

func (s *stubUsecase) Start(context.Context) (*entity.StartChatResponse, error) {
	return &entity.StartChatResponse{
		SessionID:    "s-1",
		Message:      "hello",
		NextQuestion: &entity.Question{Type: entity.IntakeStepEmergency, Text: "emergency?"},
	}, nil
}

func (s *stubUsecase) Respond(_ context.Context, _, questionType string, answer entity.Answer) (*entity.RespondResponse, error) {
	s.lastQuestion = questionType
	s.lastAnswer = answer
	if s.respondErr != nil {
		return nil, s.respondErr
	}
	return &entity.RespondResponse{Message: "bye"}, nil
}

func (s *stubUsecase) GetResources(context.Context, string) (*entity.ResourceReport, error) {
	return s.report, s.reportErr
}

func newTestRouter(uc IntakeUsecase) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc, validator.New(), formatter.NewFactory()))
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStartHandler(t *testing.T) {
	rec := do(t, newTestRouter(&stubUsecase{}), http.MethodPost, "/chat/start", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "s-1", body["sessionId"])
	assert.Equal(t, "hello", body["message"])
	assert.NotNil(t, body["nextQuestion"])
}

func TestRespondHandler(t *testing.T) {
	uc := &stubUsecase{}
	rec := do(t, newTestRouter(uc), http.MethodPost, "/chat/respond",
		`{"sessionId":"s-1","questionType":"needs","answer":["Food","Housing"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "needs", uc.lastQuestion)
	assert.Equal(t, []string{"Food", "Housing"}, uc.lastAnswer.Values)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bye", body["message"])
	assert.Contains(t, body, "nextQuestion")
	assert.Nil(t, body["nextQuestion"])
}

func TestRespondHandlerErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "bad json", body: `{`, status: http.StatusBadRequest},
		{name: "missing session", body: `{"answer":"yes"}`, status: http.StatusBadRequest},
		{name: "missing answer", body: `{"sessionId":"s-1"}`, status: http.StatusBadRequest},
		{name: "invalid session", body: `{"sessionId":"x","answer":"yes"}`, err: entity.ErrInvalidSession, status: http.StatusBadRequest},
		{name: "completed", body: `{"sessionId":"x","answer":"yes"}`, err: entity.ErrSessionCompleted, status: http.StatusConflict},
		{name: "wrong question", body: `{"sessionId":"x","answer":"yes"}`, err: entity.ErrUnexpectedQuestion, status: http.StatusBadRequest},
		{name: "internal", body: `{"sessionId":"x","answer":"yes"}`, err: assert.AnError, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestRouter(&stubUsecase{respondErr: tt.err}), http.MethodPost, "/chat/respond", tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var body entity.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, http.StatusText(tt.status), body.Error)
		})
	}
}

func TestExportResources(t *testing.T) {
	uc := &stubUsecase{report: &entity.ResourceReport{
		Title: "Family Support Resources",
		Sections: []entity.ReportSection{{
			Priority:  entity.PriorityPrimary,
			Title:     "Recommended Resources",
			Resources: []entity.Resource{{Name: "SNAP", URL: "https://snap.example"}},
		}},
	}}
	router := newTestRouter(uc)

	rec := do(t, router, http.MethodGet, "/chat/s-1/resources", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = do(t, router, http.MethodGet, "/chat/s-1/resources?format=markdown", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "resources.md")
	assert.Contains(t, rec.Body.String(), "### SNAP")

	rec = do(t, router, http.MethodGet, "/chat/s-1/resources?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, newTestRouter(&stubUsecase{reportErr: entity.ErrInvalidSession}), http.MethodGet, "/chat/s-1/resources", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
