package http_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sagarc03/settlersdb"
	settlershttp "github.com/sagarc03/settlersdb/http"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"not found", settlersdb.ErrNotFound, http.StatusNotFound, "not_found"},
		{"validation", fmt.Errorf("nickname: %w", settlersdb.ErrValidation), http.StatusBadRequest, "invalid_input"},
		{"not connected", settlersdb.ErrNotConnected, http.StatusServiceUnavailable, "unavailable"},
		{"connect failed", fmt.Errorf("ping: %w", settlersdb.ErrConnect), http.StatusServiceUnavailable, "unavailable"},
		{"driver unavailable", settlersdb.ErrDriverUnavailable, http.StatusServiceUnavailable, "unavailable"},
		{"query failed", settlersdb.ErrQuery, http.StatusInternalServerError, "internal_error"},
		{"unexpected", errors.New("some unexpected error"), http.StatusInternalServerError, "internal_error"},
		{"joined not found", errors.Join(errors.New("context"), settlersdb.ErrNotFound), http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			settlershttp.HandleError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestWriteError_Success(t *testing.T) {
	rec := httptest.NewRecorder()

	settlershttp.WriteError(rec, http.StatusBadRequest, "bad_request", "Invalid request")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"error":"bad_request"`)
	assert.Contains(t, rec.Body.String(), `"message":"Invalid request"`)
}

func TestWriteJSON_Success(t *testing.T) {
	rec := httptest.NewRecorder()

	data := map[string]string{"key": "value"}
	err := settlershttp.WriteJSON(rec, http.StatusOK, data)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"key":"value"`)
}

func TestWriteJSON_EncodingError(t *testing.T) {
	rec := httptest.NewRecorder()

	// Channels cannot be JSON encoded
	data := make(chan int)
	err := settlershttp.WriteJSON(rec, http.StatusOK, data)

	assert.Error(t, err)
}
