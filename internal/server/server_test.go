package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/schoolofsharks/trainingcal/internal/shared/config"
)

type fakeRow struct {
	value int
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int) = r.value
	return nil
}

type fakeDB struct{ row fakeRow }

func (f fakeDB) QueryRow(context.Context, string, ...any) pgx.Row { return f.row }

func stubRouter(name string) chi.Router {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(name))
	})
	return r
}

func testParams(db rowQuerier) params {
	return params{
		Config:           &config.Config{Environment: "test"},
		Logger:           zerolog.Nop(),
		HealthHandler:    NewHealthHandler(&HealthSrvc{db: db}),
		ActivityRouter:   stubRouter("activities"),
		AssignmentRouter: stubRouter("assignments"),
		WorkoutRouter:    stubRouter("library"),
		CalendarRouter:   stubRouter("calendar"),
	}
}

func TestRoutesAreMounted(t *testing.T) {
	router := newRouter(testParams(fakeDB{row: fakeRow{value: 1}}))

	for path, body := range map[string]string{
		"/activities/":          "activities",
		"/workout-assignments/": "assignments",
		"/workout-library/":     "library",
		"/calendar/":            "calendar",
	} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rr.Code, path)
		require.Equal(t, body, rr.Body.String())
		require.NotEmpty(t, rr.Header().Get("Request-Id"))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newRouter(testParams(fakeDB{row: fakeRow{value: 1}}))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestHealth(t *testing.T) {
	cases := []struct {
		row    fakeRow
		status int
		ok     bool
	}{
		{fakeRow{value: 1}, http.StatusOK, true},
		{fakeRow{err: errors.New("connection refused")}, http.StatusServiceUnavailable, false},
	}
	for _, c := range cases {
		router := newRouter(testParams(fakeDB{row: c.row}))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, c.status, rr.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Equal(t, c.ok, resp.Database)
	}
}
