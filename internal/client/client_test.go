package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/schoolofsharks/trainingcal/internal/components/activity"
	"github.com/schoolofsharks/trainingcal/internal/components/assignment"
	"github.com/schoolofsharks/trainingcal/internal/components/calendar"
	"github.com/schoolofsharks/trainingcal/internal/shared/apperr"
	"github.com/schoolofsharks/trainingcal/internal/shared/config"
	"github.com/schoolofsharks/trainingcal/internal/shared/httpx"
)

// fakeBackend serves the REST contract from memory.
type fakeBackend struct {
	activities   []activity.Activity
	workouts     []assignment.CalendarWorkout
	activityHits atomic.Int32
	failActivity bool
	created      []assignment.CreateAssignmentIn
}

func (f *fakeBackend) handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/activities", func(w http.ResponseWriter, req *http.Request) {
		f.activityHits.Add(1)
		if f.failActivity {
			httpx.WriteError(w, req, errInternal{})
			return
		}
		q := req.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		start := (page - 1) * limit
		if start > len(f.activities) {
			start = len(f.activities)
		}
		end := start + limit
		if end > len(f.activities) {
			end = len(f.activities)
		}
		httpx.WriteJSON(w, req, http.StatusOK, activity.GetActivitiesResponse{
			Success:    true,
			Activities: f.activities[start:end],
			Total:      len(f.activities),
			Page:       page,
			Limit:      limit,
		})
	})
	r.Get("/workout-assignments", func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteJSON(w, req, http.StatusOK, assignment.ListAssignmentsResponse{Success: true, Assignments: f.workouts})
	})
	r.Post("/workout-assignments", func(w http.ResponseWriter, req *http.Request) {
		var in assignment.CreateAssignmentIn
		if err := httpx.DecodeJSON(req, &in); err != nil {
			httpx.WriteError(w, req, err)
			return
		}
		if in.WorkoutLibraryID == 0 {
			httpx.WriteError(w, req, apperr.Validation("workout_library_id must be positive, got 0"))
			return
		}
		f.created = append(f.created, in)
		d, _ := civil.ParseDate(in.ScheduledDate)
		httpx.WriteJSON(w, req, http.StatusCreated, assignment.AssignmentResponse{Success: true, Assignment: assignment.Assignment{
			ID:               int64(len(f.created)),
			WorkoutLibraryID: in.WorkoutLibraryID,
			AssignedToUserID: in.AssignedToUserID,
			ScheduledDate:    d,
			Status:           assignment.StatusAssigned,
		}})
	})
	r.Delete("/workout-assignments/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
		if id != 1 {
			httpx.WriteError(w, req, apperr.NotFound("assignment", id))
			return
		}
		httpx.WriteJSON(w, req, http.StatusOK, assignment.DeleteResponse{Success: true})
	})
	r.Patch("/workout-assignments/{id}/status", func(w http.ResponseWriter, req *http.Request) {
		var in assignment.UpdateStatusIn
		_ = json.NewDecoder(req.Body).Decode(&in)
		httpx.WriteJSON(w, req, http.StatusOK, assignment.AssignmentResponse{Success: true, Assignment: assignment.Assignment{ID: 1, Status: in.Status}})
	})
	return r
}

type errInternal struct{}

func (errInternal) Error() string { return "database unavailable" }

func newTestClient(t *testing.T, backend *fakeBackend) *Client {
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", time.Second, zerolog.Nop())
}

var (
	julyFirst = civil.Date{Year: 2025, Month: 7, Day: 1}
	julyLast  = civil.Date{Year: 2025, Month: 7, Day: 31}
)

func TestActivitiesBetweenPages(t *testing.T) {
	backend := &fakeBackend{}
	for i := 0; i < pageLimit+5; i++ {
		backend.activities = append(backend.activities, activity.Activity{ID: int64(i + 1), UserID: 7, StartDateLocal: "2025-07-02T08:00:00Z"})
	}
	c := newTestClient(t, backend)

	got, err := c.ActivitiesBetween(context.Background(), 7, julyFirst, julyLast)
	require.NoError(t, err)
	require.Len(t, got, pageLimit+5)
	require.Equal(t, int32(2), backend.activityHits.Load())
}

func TestServerErrorsAreNotTaxonomyErrors(t *testing.T) {
	c := newTestClient(t, &fakeBackend{failActivity: true})

	_, err := c.ActivitiesBetween(context.Background(), 7, julyFirst, julyLast)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 500")
	require.NotErrorIs(t, err, apperr.ErrNotFound)
	require.NotErrorIs(t, err, apperr.ErrValidation)
}

func TestAssignmentCalls(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestClient(t, backend)
	ctx := context.Background()

	created, err := c.CreateAssignment(ctx, assignment.CreateAssignmentIn{
		WorkoutLibraryID: 3,
		AssignedToUserID: 7,
		AssignedByUserID: 2,
		ScheduledDate:    "2025-07-26",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
	require.Equal(t, "2025-07-26", created.ScheduledDate.String())

	_, err = c.CreateAssignment(ctx, assignment.CreateAssignmentIn{ScheduledDate: "2025-07-26"})
	require.ErrorIs(t, err, apperr.ErrValidation)
	require.Equal(t, "validation failed: workout_library_id must be positive, got 0", err.Error())

	require.NoError(t, c.DeleteAssignment(ctx, 1))
	require.ErrorIs(t, c.DeleteAssignment(ctx, 2), apperr.ErrNotFound)

	updated, err := c.UpdateStatus(ctx, 1, assignment.StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, assignment.StatusCompleted, updated.Status)
}

func TestUnknownRouteIsNotNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	c := New(srv.URL, time.Second, zerolog.Nop())

	_, err := c.WorkoutsBetween(context.Background(), 7, julyFirst, julyLast)
	require.Error(t, err)
	require.NotErrorIs(t, err, apperr.ErrNotFound)
}

func TestClientFeedsCalendarService(t *testing.T) {
	backend := &fakeBackend{
		activities: []activity.Activity{
			{ID: 1, UserID: 7, Type: activity.TypeRide, StartDateLocal: "2025-07-29T14:00:00+07:00"},
		},
		workouts: []assignment.CalendarWorkout{
			{Assignment: assignment.Assignment{ID: 5, AssignedToUserID: 7, ScheduledDate: civil.Date{Year: 2025, Month: 7, Day: 29}, Status: assignment.StatusAssigned}},
		},
	}
	c := newTestClient(t, backend)
	svc := calendar.NewService(c, c, calendar.NewCache(zerolog.Nop()), &config.Config{CalendarFetchTimeout: time.Second}, zerolog.Nop())

	m, err := svc.Month(context.Background(), 7, 2025, 7)
	require.NoError(t, err)
	day := m.Days["2025-07-29"]
	require.Equal(t, 1, day.Totals.Activities)
	require.Equal(t, 1, day.Totals.Workouts)
}
