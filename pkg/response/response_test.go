package response

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()

	Success(rec, http.StatusCreated, "Patient created successfully", map[string]string{"name": "Huda"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Patient created successfully", body["message"])
	assert.NotContains(t, body, "error")
}

func TestValidationErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()

	ValidationError(rec, map[string]string{"phone": "phone is required"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Validation failed","error":{"phone":"phone is required"}}`, rec.Body.String())
}

func TestServerError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"wrapped deadline", fmt.Errorf("find appointments: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"other", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			ServerError(rec, tt.err, "Failed to get queue")

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
