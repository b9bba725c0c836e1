package assignment

import (
	"net/http"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"

	"github.com/schoolofsharks/trainingcal/internal/shared/apperr"
	"github.com/schoolofsharks/trainingcal/internal/shared/httpx"
)

type (
	Router struct {
		service *Service
	}
)

func NewRouter(service *Service) chi.Router {
	router := &Router{service: service}
	return router.Routes()
}

func (r *Router) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.ListAssignments)
	router.Post("/", r.CreateAssignment)
	router.Delete("/{id}", r.DeleteAssignment)
	router.Patch("/{id}/status", r.UpdateStatus)
	return router
}

// ListAssignments serves GET /workout-assignments?assigned_to_user_id=&scheduled_from=&scheduled_to=
func (r *Router) ListAssignments(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	userID, err := strconv.ParseInt(q.Get("assigned_to_user_id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, req, apperr.Validation("assigned_to_user_id must be a numeric id, got %q", q.Get("assigned_to_user_id")))
		return
	}
	query := ListAssignmentsQuery{AssignedToUserID: userID}

	if query.ScheduledFrom, err = optionalDate(q.Get("scheduled_from")); err != nil {
		httpx.WriteError(w, req, apperr.Validation("scheduled_from must be YYYY-MM-DD, got %q", q.Get("scheduled_from")))
		return
	}
	if query.ScheduledTo, err = optionalDate(q.Get("scheduled_to")); err != nil {
		httpx.WriteError(w, req, apperr.Validation("scheduled_to must be YYYY-MM-DD, got %q", q.Get("scheduled_to")))
		return
	}

	workouts, err := r.service.List(req.Context(), query)
	if err != nil {
		httpx.WriteError(w, req, err)
		return
	}
	httpx.WriteJSON(w, req, http.StatusOK, ListAssignmentsResponse{Success: true, Assignments: workouts})
}

func (r *Router) CreateAssignment(w http.ResponseWriter, req *http.Request) {
	var in CreateAssignmentIn
	if err := httpx.DecodeJSON(req, &in); err != nil {
		httpx.WriteError(w, req, err)
		return
	}

	created, err := r.service.Create(req.Context(), in)
	if err != nil {
		httpx.WriteError(w, req, err)
		return
	}
	httpx.WriteJSON(w, req, http.StatusCreated, AssignmentResponse{Success: true, Assignment: *created})
}

func (r *Router) DeleteAssignment(w http.ResponseWriter, req *http.Request) {
	id, err := assignmentID(req)
	if err != nil {
		httpx.WriteError(w, req, err)
		return
	}

	if err := r.service.Delete(req.Context(), id); err != nil {
		httpx.WriteError(w, req, err)
		return
	}
	httpx.WriteJSON(w, req, http.StatusOK, DeleteResponse{Success: true})
}

func (r *Router) UpdateStatus(w http.ResponseWriter, req *http.Request) {
	id, err := assignmentID(req)
	if err != nil {
		httpx.WriteError(w, req, err)
		return
	}

	var in UpdateStatusIn
	if err := httpx.DecodeJSON(req, &in); err != nil {
		httpx.WriteError(w, req, err)
		return
	}

	updated, err := r.service.UpdateStatus(req.Context(), id, in)
	if err != nil {
		httpx.WriteError(w, req, err)
		return
	}
	httpx.WriteJSON(w, req, http.StatusOK, AssignmentResponse{Success: true, Assignment: *updated})
}

func assignmentID(req *http.Request) (int64, error) {
	idStr := chi.URLParam(req, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid assignment id %q", idStr)
	}
	return id, nil
}

func optionalDate(s string) (*civil.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
