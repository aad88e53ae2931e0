package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DateSpark-App/internal/domain/model"
)

// stubPlanUseCase returns canned responses for handler tests.
type stubPlanUseCase struct {
	response *model.PlanResponse
	err      error
	lastReq  *model.PlanRequest
}

func (s *stubPlanUseCase) GeneratePlan(ctx context.Context, req *model.PlanRequest) (*model.PlanResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func (s *stubPlanUseCase) ListMoods() ([]string, []string) {
	return model.SupportedMoods(), model.SupportedTimesOfDay()
}

func setupRouter(stub *stubPlanUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPlanHandler(stub)
	router := gin.New()
	router.POST("/plans/generate", h.PostGeneratePlan)
	router.GET("/plans/moods", h.GetMoods)
	return router
}

func postPlan(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/plans/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

const validBody = `{
	"origin_lat": 37.3352,
	"origin_lng": -121.8811,
	"moods": ["cozy"],
	"time_of_day": "evening",
	"max_distance_meters": 2000
}`

func TestPostGeneratePlanOK(t *testing.T) {
	cursor := "10"
	stub := &stubPlanUseCase{response: &model.PlanResponse{
		Themes:           []*model.GeneratedTheme{{ID: "p1", Title: "Date Quest: Tea Alley"}},
		NextCursor:       &cursor,
		RelaxationLevel:  1,
		RadiusUsedMeters: 2000,
	}}
	router := setupRouter(stub)

	w := postPlan(router, validBody)
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.PlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Themes, 1)
	assert.Equal(t, "p1", resp.Themes[0].ID)
	require.NotNil(t, resp.NextCursor)
	assert.Equal(t, "10", *resp.NextCursor)
	assert.Equal(t, 1, resp.RelaxationLevel)

	require.NotNil(t, stub.lastReq)
	assert.Equal(t, []string{"cozy"}, stub.lastReq.NormalizedMoods())
}

func TestPostGeneratePlanInvalidJSON(t *testing.T) {
	router := setupRouter(&stubPlanUseCase{})

	w := postPlan(router, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_request")
}

func TestPostGeneratePlanValidation(t *testing.T) {
	cases := []struct {
		label string
		body  string
	}{
		{label: "latitude out of range", body: `{"origin_lat": 95, "origin_lng": 0, "moods": ["cozy"], "max_distance_meters": 2000}`},
		{label: "longitude out of range", body: `{"origin_lat": 0, "origin_lng": -200, "moods": ["cozy"], "max_distance_meters": 2000}`},
		{label: "no moods", body: `{"origin_lat": 37.3, "origin_lng": -121.8, "moods": [" "], "max_distance_meters": 2000}`},
		{label: "no radius", body: `{"origin_lat": 37.3, "origin_lng": -121.8, "moods": ["cozy"]}`},
		{label: "negative page size", body: `{"origin_lat": 37.3, "origin_lng": -121.8, "moods": ["cozy"], "max_distance_meters": 2000, "page_size": -1}`},
		{label: "bad time of day", body: `{"origin_lat": 37.3, "origin_lng": -121.8, "moods": ["cozy"], "max_distance_meters": 2000, "time_of_day": "brunch"}`},
	}
	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			router := setupRouter(&stubPlanUseCase{})
			w := postPlan(router, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "validation_error")
		})
	}
}

func TestPostGeneratePlanUseCaseError(t *testing.T) {
	router := setupRouter(&stubPlanUseCase{err: errors.New("store exploded")})

	w := postPlan(router, validBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}

func TestGetMoods(t *testing.T) {
	router := setupRouter(&stubPlanUseCase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/plans/moods", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Moods      []string `json:"moods"`
		TimesOfDay []string `json:"times_of_day"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Moods, "cozy")
	assert.Contains(t, resp.TimesOfDay, "any")
}
