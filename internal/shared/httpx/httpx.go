// Package httpx contains the JSON response helpers used by every router.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/schoolofsharks/trainingcal/internal/shared/apperr"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Type    string `json:"type"`
	Error   string `json:"error"`
}

// WriteJSON encodes payload with the given status code.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to encode response")
	}
}

// WriteError maps err onto the error taxonomy and writes it. Unexpected errors are logged and
// reported without their detail.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := Classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("Request failed")
		msg = "internal server error"
	} else {
		hlog.FromRequest(r).Warn().Err(err).Int("status", status).Msg("Request rejected")
	}
	WriteJSON(w, r, status, ErrorResponse{Success: false, Type: kind, Error: msg})
}

// Classify returns the HTTP status and error type for err.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperr.ErrUpstream):
		return http.StatusBadGateway, "schedule_load_failed"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("unable to parse body: %v", err)
	}
	return nil
}
