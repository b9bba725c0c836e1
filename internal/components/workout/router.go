package workout

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
	router.Get("/", r.ListTemplates)
	router.Get("/{id}", r.GetTemplate)
	return router
}

func (r *Router) ListTemplates(w http.ResponseWriter, req *http.Request) {
	resp, err := r.service.ListTemplates(req.Context(), ListTemplatesQuery{WorkoutType: req.URL.Query().Get("workout_type")})
	if err != nil {
		httpx.WriteError(w, req, err)
		return
	}
	httpx.WriteJSON(w, req, http.StatusOK, resp)
}

func (r *Router) GetTemplate(w http.ResponseWriter, req *http.Request) {
	idStr := chi.URLParam(req, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		httpx.WriteError(w, req, apperr.Validation("invalid workout template id %q", idStr))
		return
	}

	resp, err := r.service.GetTemplate(req.Context(), id)
	if err != nil {
		httpx.WriteError(w, req, err)
		return
	}
	httpx.WriteJSON(w, req, http.StatusOK, resp)
}
