package calendar

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schoolofsharks/trainingcal/internal/shared/httpx"
)

func TestGetMonthHandler(t *testing.T) {
	activities, workouts := julyFixture()
	svc, _ := newTestService(activities, workouts)
	router := NewRouter(svc)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/7/2025/07", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Month   struct {
			Range struct {
				From string `json:"from"`
				To   string `json:"to"`
			} `json:"range"`
			Days map[string]struct {
				Activities []struct {
					Icon  string `json:"icon"`
					Color string `json:"color"`
				} `json:"activities"`
				Workouts []struct {
					StatusColor string `json:"status_color"`
				} `json:"workouts"`
			} `json:"days"`
		} `json:"month"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "2025-07-01", resp.Month.Range.From)
	require.Equal(t, "2025-07-31", resp.Month.Range.To)
	require.Equal(t, "run", resp.Month.Days["2025-07-29"].Activities[0].Icon)
	require.Equal(t, "cyan", resp.Month.Days["2025-07-26"].Workouts[0].StatusColor)
}

func TestGetPlanHandler(t *testing.T) {
	activities, workouts := julyFixture()
	svc, _ := newTestService(activities, workouts)

	rr := httptest.NewRecorder()
	NewRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/7/2025/7/plan", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp PlanResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, 2025, resp.Plan.Year)
	require.Equal(t, 7, resp.Plan.Month)
	require.Len(t, resp.Plan.Workouts, 3)
}

func TestCalendarHandlerErrors(t *testing.T) {
	activities, workouts := julyFixture()
	activities.err = errors.New("connection refused")
	svc, _ := newTestService(activities, workouts)
	router := NewRouter(svc)

	cases := map[string]struct {
		status int
		kind   string
	}{
		"/0/2025/7":      {http.StatusBadRequest, "validation_failed"},
		"/abc/2025/7":    {http.StatusBadRequest, "validation_failed"},
		"/7/2025/13":     {http.StatusBadRequest, "validation_failed"},
		"/7/year/7":      {http.StatusBadRequest, "validation_failed"},
		"/7/2025/7":      {http.StatusBadGateway, "schedule_load_failed"},
		"/7/2025/7/plan": {http.StatusOK, ""},
	}
	for target, want := range cases {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, want.status, rr.Code, target)
		if want.kind == "" {
			continue
		}
		var resp httpx.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.False(t, resp.Success)
		require.Equal(t, want.kind, resp.Type, target)
	}
}
