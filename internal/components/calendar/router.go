package calendar

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
	router.Get("/{userID}/{year}/{month}", r.GetMonth)
	router.Get("/{userID}/{year}/{month}/plan", r.GetPlan)
	return router
}

func (r *Router) GetMonth(w http.ResponseWriter, req *http.Request) {
	userID, year, month, err := monthParams(req)
	if err != nil {
		httpx.WriteError(w, req, err)
		return
	}

	m, err := r.service.Month(req.Context(), userID, year, month)
	if err != nil {
		httpx.WriteError(w, req, err)
		return
	}
	httpx.WriteJSON(w, req, http.StatusOK, MonthResponse{Success: true, Month: m})
}

func (r *Router) GetPlan(w http.ResponseWriter, req *http.Request) {
	userID, year, month, err := monthParams(req)
	if err != nil {
		httpx.WriteError(w, req, err)
		return
	}

	plan, err := r.service.MonthlyPlan(req.Context(), userID, year, month)
	if err != nil {
		httpx.WriteError(w, req, err)
		return
	}
	httpx.WriteJSON(w, req, http.StatusOK, PlanResponse{Success: true, Plan: plan})
}

func monthParams(req *http.Request) (int64, int, int, error) {
	userStr := chi.URLParam(req, "userID")
	userID, err := strconv.ParseInt(userStr, 10, 64)
	if err != nil || userID <= 0 {
		return 0, 0, 0, apperr.Validation("invalid user id %q", userStr)
	}
	year, month, err := ParseYearMonth(chi.URLParam(req, "year"), chi.URLParam(req, "month"))
	if err != nil {
		return 0, 0, 0, err
	}
	return userID, year, month, nil
}
