package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/futig/resource-assistant/internal/entity"
	"github.com/futig/resource-assistant/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecommender struct {
	resources []entity.Resource
	err       error
	got       *entity.RecommendRequest
}

func (s *stubRecommender) Recommend(_ context.Context, req *entity.RecommendRequest) ([]entity.Resource, error) {
	s.got = req
	return s.resources, s.err
}

func post(t *testing.T, rec Recommender, body string) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(rec, validator.New()))

	req := httptest.NewRequest(http.MethodPost, "/recommend", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const validBody = `{"zipCode":"94110","incomeRange":"$25,000-$50,000","educationLevel":"High school","numKids":2}`

func TestRecommendSuccess(t *testing.T) {
	stub := &stubRecommender{resources: []entity.Resource{{Name: "WIC", URL: "https://wic.example"}}}

	w := post(t, stub, validBody)
	require.Equal(t, http.StatusOK, w.Code)

	var resp entity.RecommendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Resources, 1)
	assert.Equal(t, "WIC", resp.Resources[0].Name)

	require.NotNil(t, stub.got)
	assert.Equal(t, entity.FlexString("2"), stub.got.NumKids)
}

func TestRecommendEmptyResult(t *testing.T) {
	w := post(t, &stubRecommender{}, validBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"resources":[]}`, w.Body.String())
}

func TestRecommendErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		msg    string
	}{
		{name: "bad json", body: `{`, status: http.StatusBadRequest},
		{name: "missing zip", body: `{"incomeRange":"low","educationLevel":"none"}`, status: http.StatusBadRequest},
		{
			name:   "malformed output",
			body:   validBody,
			err:    fmt.Errorf("%w: no array", entity.ErrMalformedResponse),
			status: http.StatusInternalServerError,
			msg:    "Failed to decode JSON from API response.",
		},
		{
			name:   "upstream",
			body:   validBody,
			err:    fmt.Errorf("%w: timeout", entity.ErrUpstreamFailure),
			status: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, &stubRecommender{err: tt.err}, tt.body)
			assert.Equal(t, tt.status, w.Code)

			var resp entity.RecommendErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, resp.Error)
			}
		})
	}
}
