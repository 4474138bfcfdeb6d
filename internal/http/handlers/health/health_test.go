package health

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name           string
		check          ReadinessChecker
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "база данных готова",
			check:          func() error { return nil },
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"ok"`,
		},
		{
			name:           "база данных недоступна",
			check:          func() error { return errors.New("connection refused") },
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "database is not ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := New(newNoopLogger(), tt.check)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}
