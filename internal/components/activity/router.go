package activity

import (
	"net/http"
	"strconv"

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
	router.Get("/", r.GetActivities)
	return router
}

// GetActivities serves GET /activities?user=&start_date_from=&start_date_to=&limit=&page=
func (r *Router) GetActivities(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	userID, err := strconv.ParseInt(q.Get("user"), 10, 64)
	if err != nil {
		httpx.WriteError(w, req, apperr.Validation("user must be a numeric id, got %q", q.Get("user")))
		return
	}

	query := GetActivitiesQuery{
		UserID:        userID,
		StartDateFrom: q.Get("start_date_from"),
		StartDateTo:   q.Get("start_date_to"),
	}
	if p := q.Get("page"); p != "" {
		if query.Page, err = strconv.Atoi(p); err != nil {
			httpx.WriteError(w, req, apperr.Validation("page must be numeric, got %q", p))
			return
		}
	}
	if l := q.Get("limit"); l != "" {
		if query.Limit, err = strconv.Atoi(l); err != nil {
			httpx.WriteError(w, req, apperr.Validation("limit must be numeric, got %q", l))
			return
		}
	}

	resp, err := r.service.GetActivities(req.Context(), query)
	if err != nil {
		httpx.WriteError(w, req, err)
		return
	}
	httpx.WriteJSON(w, req, http.StatusOK, resp)
}
