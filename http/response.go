package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sagarc03/settlersdb"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes appropriate error response based on error type
func HandleError(w http.ResponseWriter, err error) {
	slog.Error("request error", "error", err)

	if errors.Is(err, settlersdb.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "not_found", "Not found")
		return
	}

	if errors.Is(err, settlersdb.ErrValidation) {
		WriteError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	if errors.Is(err, settlersdb.ErrNotConnected) || settlersdb.IsConnectivity(err) {
		WriteError(w, http.StatusServiceUnavailable, "unavailable", "Database unavailable")
		return
	}

	// Default internal error
	WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
