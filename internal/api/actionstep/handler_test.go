package actionstep

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/futig/resource-assistant/internal/api/middleware"
	"github.com/futig/resource-assistant/internal/config"
	"github.com/futig/resource-assistant/internal/entity"
	pkgRetry "github.com/futig/resource-assistant/internal/pkg/retry"
	"github.com/futig/resource-assistant/internal/pkg/validator"
	"github.com/futig/resource-assistant/internal/repository"
	actionstepUC "github.com/futig/resource-assistant/internal/usecase/actionstep"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := repository.OpenSQLite(context.Background(), config.SQLiteConfig{
		Path:         filepath.Join(t.TempDir(), "api.db"),
		MaxOpenConns: 1,
		BusyTimeout:  time.Second,
		Retry:        pkgRetry.RetryConfig{Attempts: 3, Delay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	uc := actionstepUC.NewUsecase(repository.NewActionStepSQLite(db), zap.NewNop())

	r := chi.NewRouter()
	r.Use(middleware.Identity("default"))
	RegisterRoutes(r, NewHandler(uc, validator.New()))
	return r
}

func do(t *testing.T, h http.Handler, method, target, userID, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestCreateAndListActionSteps(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/action-steps", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/action-steps", "alice", `{"description":"Visit the library"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[entity.ActionStep](t, rec)
	assert.Equal(t, "alice", created.UserID)
	assert.Equal(t, 999, created.Order)
	assert.Equal(t, "medium", created.Difficulty)

	rec = do(t, router, http.MethodGet, "/api/action-steps", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	steps := decode[[]entity.ActionStep](t, rec)
	require.Len(t, steps, 1)
	assert.Equal(t, "Visit the library", steps[0].Description)

	rec = do(t, router, http.MethodGet, "/api/action-steps?simplified=true", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	summaries := decode[[]map[string]any](t, rec)
	require.Len(t, summaries, 1)
	assert.ElementsMatch(t, []string{"id", "description", "completed"}, keys(summaries[0]))

	rec = do(t, router, http.MethodGet, "/api/action-steps", "bob", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestCreateActionStepValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/action-steps", "alice", `{"description":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/action-steps", "alice", `{"description":"x","difficulty":"extreme"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/action-steps", "alice", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateActionStep(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/action-steps", "alice", `{"description":"Call the clinic"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[entity.ActionStep](t, rec)
	target := "/api/action-steps/" + strconv.FormatInt(created.ID, 10)

	rec = do(t, router, http.MethodPut, target, "alice", `{"completed":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[entity.ActionStep](t, rec)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Call the clinic", updated.Description)

	rec = do(t, router, http.MethodPut, target, "bob", `{"completed":true}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/action-steps/abc", "alice", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateActionStepFocusArea(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/action-steps", "alice", `{"description":"Tour the school","focus_area":"schools"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[entity.ActionStep](t, rec)
	require.Equal(t, "schools", created.FocusArea)
	target := "/api/action-steps/" + strconv.FormatInt(created.ID, 10)

	rec = do(t, router, http.MethodPut, target, "alice", `{"focus_area":"community"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "community", decode[entity.ActionStep](t, rec).FocusArea)

	rec = do(t, router, http.MethodGet, "/api/action-steps", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	steps := decode[[]entity.ActionStep](t, rec)
	require.Len(t, steps, 1)
	assert.Equal(t, "community", steps[0].FocusArea)
	assert.Equal(t, "Tour the school", steps[0].Description)
}

func TestReorderActionSteps(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/action-steps", "alice", `{"description":"first","order":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	first := decode[entity.ActionStep](t, rec)

	body := `{"steps":[{"id":` + strconv.FormatInt(first.ID, 10) + `,"order":5},{"id":999999,"order":1}]}`
	rec = do(t, router, http.MethodPost, "/api/action-steps/reorder", "alice", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":1}`, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/action-steps/reorder", "alice", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateActionSteps(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/action-steps/generate", "alice", `{"focus_area":"Schools"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[entity.ActionStepsResponse](t, rec)
	require.NotEmpty(t, resp.Steps)
	assert.Equal(t, "schools", resp.Steps[0].FocusArea)
	assert.Equal(t, 1, resp.Steps[0].Order)

	rec = do(t, router, http.MethodPost, "/api/action-steps/generate", "alice", `{"focus_area":"space"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/action-steps/generate", "alice", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
