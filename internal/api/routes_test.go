package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genai-maturity/backend/internal/store"
)

func newTestRouter(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	server, err := NewServer(Config{
		DBDriver:    "sqlite",
		DBDSN:       filepath.Join(t.TempDir(), "api.db"),
		SilentDB:    true,
		SeedOnStart: true,
		DisableAI:   true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Close() })
	router, err := server.Router()
	require.NoError(t, err)
	return server, router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func createAssessment(t *testing.T, router http.Handler) map[string]any {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/assessments", map[string]any{
		"gcc_name":                       "Acme GCC",
		"contact_email":                  "lead@acme.example",
		"annual_productivity_upliftment": 12.5,
		"attrition_rate":                 "8.25",
		"genai_use_cases_developed":      3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[map[string]any](t, rec)
}

func questionIDs(t *testing.T, router http.Handler) map[string][]uint {
	t.Helper()
	rec := doJSON(t, router, http.MethodGet, "/api/questions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	questions := decode[[]QuestionDTO](t, rec)
	out := make(map[string][]uint)
	for _, q := range questions {
		out[q.Dimension] = append(out[q.Dimension], q.ID)
	}
	return out
}

func TestHealthAndRequestID(t *testing.T) {
	_, router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])

	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	echo := httptest.NewRecorder()
	router.ServeHTTP(echo, req)
	assert.Equal(t, "abc-123", echo.Header().Get(requestIDHeader))
}

func TestConfigEndpoint(t *testing.T) {
	_, router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.EqualValues(t, 21, body["questions"])
	assert.EqualValues(t, 6, body["resources"])
	assert.Equal(t, false, body["ai_summary_enabled"])
}

func TestConfigEndpointReportsCatalogError(t *testing.T) {
	server, router := newTestRouter(t)
	require.NoError(t, server.db.GORM().Migrator().DropTable(&store.Resource{}))

	rec := doJSON(t, router, http.MethodGet, "/api/config", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "count resources")
}

func TestQuestionsOrdered(t *testing.T) {
	_, router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/questions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	questions := decode[[]QuestionDTO](t, rec)
	require.Len(t, questions, 21)
	assert.Equal(t, "strategy", questions[0].Dimension)
	assert.Equal(t, "ai_trust", questions[len(questions)-1].Dimension)
}

func TestCreateAssessmentValidation(t *testing.T) {
	_, router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/assessments", map[string]any{
		"gcc_name":      "Acme",
		"contact_email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "ContactEmail")

	rec = doJSON(t, router, http.MethodPost, "/api/assessments", map[string]any{
		"gcc_name":                       "Acme",
		"contact_email":                  "a@acme.example",
		"annual_productivity_upliftment": 10,
		"attrition_rate":                 -1,
		"genai_use_cases_developed":      0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "attrition_rate")
}

func TestCreateAssessmentRequiresIntakeFields(t *testing.T) {
	_, router := newTestRouter(t)
	complete := func() map[string]any {
		return map[string]any{
			"gcc_name":                       "Acme",
			"contact_email":                  "a@acme.example",
			"annual_productivity_upliftment": 0,
			"attrition_rate":                 0,
			"genai_use_cases_developed":      0,
		}
	}

	tests := []struct {
		missing string
		field   string
	}{
		{missing: "annual_productivity_upliftment", field: "AnnualProductivityUpliftment"},
		{missing: "attrition_rate", field: "AttritionRate"},
		{missing: "genai_use_cases_developed", field: "GenAIUseCasesDeveloped"},
		{missing: "gcc_name", field: "GCCName"},
	}
	for _, tt := range tests {
		t.Run(tt.missing, func(t *testing.T) {
			body := complete()
			delete(body, tt.missing)
			rec := doJSON(t, router, http.MethodPost, "/api/assessments", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Contains(t, decode[map[string]string](t, rec)["error"], tt.field)
		})
	}

	// explicit zeros are valid values, not missing ones
	rec := doJSON(t, router, http.MethodPost, "/api/assessments", complete())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"annual_productivity_upliftment":0.00`)
	assert.Contains(t, rec.Body.String(), `"genai_use_cases_developed":0`)
}

func TestAssessmentLifecycle(t *testing.T) {
	_, router := newTestRouter(t)
	created := createAssessment(t, router)
	assert.Nil(t, created["overall_maturity_score"])
	assert.Nil(t, created["archetype"])
	id := uint(created["id"].(float64))

	ids := questionIDs(t, router)
	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/assessments/%d/responses", id), map[string]any{
		"responses": []map[string]any{
			{"question_id": ids["strategy"][0], "response_value": 5},
			{"question_id": ids["strategy"][1], "response_value": 3},
			{"question_id": ids["talent"][0], "response_value": 4},
			{"question_id": ids["technology"][0], "response_value": 2},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"overall_maturity_score":3.50`)
	assert.Contains(t, rec.Body.String(), `"strategy_score":4.00`)
	assert.Contains(t, rec.Body.String(), `"data_score":null`)
	assert.Contains(t, rec.Body.String(), `"archetype":"progressors"`)
	assert.Contains(t, rec.Body.String(), `"attrition_rate":8.25`)

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/assessments/%d/recommendations", id), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	recs := decode[[]RecommendationDTO](t, rec)
	require.NotEmpty(t, recs)
	var governance int
	for _, r := range recs {
		if r.Category == "impact_measurement_governance" {
			governance++
		}
	}
	assert.Equal(t, 1, governance)

	rec = doJSON(t, router, http.MethodPost, "/api/business-queries", map[string]any{
		"assessment_id":   id,
		"query_text":      "Where should procurement start with GenAI?",
		"target_function": "procurement",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/assessments/%d/results", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decode[ResultsResponse](t, rec)
	assert.Len(t, results.Responses, 4)
	assert.Len(t, results.Recommendations, len(recs))
	assert.Len(t, results.BusinessQueries, 1)
	require.NotNil(t, results.Assessment.Archetype)
	assert.Equal(t, "progressors", *results.Assessment.Archetype)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/assessments/%d/summary", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[SummaryResponse](t, rec)
	assert.Equal(t, "template", summary.Source)
	assert.True(t, strings.HasPrefix(summary.Narrative, "Acme GCC is classified as progressors"))
}

func TestErrorMapping(t *testing.T) {
	_, router := newTestRouter(t)
	created := createAssessment(t, router)
	id := uint(created["id"].(float64))
	ids := questionIDs(t, router)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{name: "bad id", method: http.MethodGet, path: "/api/assessments/abc", status: http.StatusBadRequest},
		{name: "zero id", method: http.MethodGet, path: "/api/assessments/0", status: http.StatusBadRequest},
		{name: "missing assessment", method: http.MethodGet, path: "/api/assessments/999", status: http.StatusNotFound},
		{name: "missing results", method: http.MethodGet, path: "/api/assessments/999/results", status: http.StatusNotFound},
		{name: "missing summary", method: http.MethodGet, path: "/api/assessments/999/summary", status: http.StatusNotFound},
		{name: "recommendations missing assessment", method: http.MethodPost, path: "/api/assessments/999/recommendations", status: http.StatusNotFound},
		{
			name: "responses missing assessment", method: http.MethodPost, path: "/api/assessments/999/responses",
			body:   map[string]any{"responses": []map[string]any{{"question_id": ids["data"][0], "response_value": 3}}},
			status: http.StatusNotFound,
		},
		{
			name: "responses missing question", method: http.MethodPost, path: fmt.Sprintf("/api/assessments/%d/responses", id),
			body:   map[string]any{"responses": []map[string]any{{"question_id": 5000, "response_value": 3}}},
			status: http.StatusNotFound,
		},
		{
			name: "response out of range", method: http.MethodPost, path: fmt.Sprintf("/api/assessments/%d/responses", id),
			body:   map[string]any{"responses": []map[string]any{{"question_id": ids["data"][0], "response_value": 0}}},
			status: http.StatusBadRequest,
		},
		{
			name: "empty responses", method: http.MethodPost, path: fmt.Sprintf("/api/assessments/%d/responses", id),
			body:   map[string]any{"responses": []map[string]any{}},
			status: http.StatusBadRequest,
		},
		{
			name: "unknown business function", method: http.MethodPost, path: "/api/business-queries",
			body:   map[string]any{"assessment_id": id, "query_text": "q", "target_function": "legal"},
			status: http.StatusBadRequest,
		},
		{
			name: "business query missing assessment", method: http.MethodPost, path: "/api/business-queries",
			body:   map[string]any{"assessment_id": 999, "query_text": "q", "target_function": "hr"},
			status: http.StatusNotFound,
		},
		{name: "unknown archetype filter", method: http.MethodGet, path: "/api/resources?archetype=champions", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
		})
	}

	rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/assessments/%d/results", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[ResultsResponse](t, rec).Responses)
}

func TestResourcesFilter(t *testing.T) {
	_, router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/resources", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ResourceDTO](t, rec), 6)

	rec = doJSON(t, router, http.MethodGet, "/api/resources?archetype=emergents&dimension=ai_trust", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]ResourceDTO](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, "GenAI ROI Measurement Framework", rows[0].Title)
}

func TestMetricsEndpoint(t *testing.T) {
	_, router := newTestRouter(t)
	createAssessment(t, router)

	rec := doJSON(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "maturity_assessments_created_total")
}
