package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/splitdeck/splitdeck/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps service errors to HTTP responses. Unknown
// errors become a generic 500 so internals never leak to clients.
func respondDomainError(w http.ResponseWriter, err error) {
	var transitionErr *domain.InvalidTransitionError
	var goLiveErr *domain.GoLiveValidationError
	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "experiment not found")
	case errors.Is(err, domain.ErrForbidden):
		respondError(w, http.StatusForbidden, "not the experiment owner")
	case errors.Is(err, domain.ErrLocked):
		respondError(w, http.StatusConflict, "experiment can only be edited while in draft")
	case errors.As(err, &transitionErr):
		respondError(w, http.StatusBadRequest, transitionErr.Error())
	case errors.As(err, &goLiveErr):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":            "Experiment cannot go live",
			"validationErrors": goLiveErr.Errors,
		})
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":            "Validation failed",
			"validationErrors": validationErr.Errors,
		})
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
