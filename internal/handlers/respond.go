package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"nexusinvest/internal/services"
)

func respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// respondWithServiceError maps the service error taxonomy to HTTP statuses.
// Storage failures are reported without internal detail.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		respondWithError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, services.ErrConflict):
		respondWithError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, services.ErrInsufficientFunds):
		respondWithError(w, http.StatusBadRequest, "insufficient_funds", "Insufficient funds")
	default:
		respondWithError(w, http.StatusInternalServerError, "storage_failure", "An internal error occurred")
	}
}
