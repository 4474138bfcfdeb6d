package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/online-shop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/online-shop/internal/lib/jwt"
)

// AuthServiceMock реализует интерфейс middlewarectx.Service
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(*jwt.CustomClaims)
	return claims, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		mockClaims     *jwt.CustomClaims
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "token validation error",
			authHeader:     "Bearer token",
			mockErr:        errors.New("token is expired"),
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:       "valid token",
			authHeader: "Bearer validtoken",
			mockClaims: &jwt.CustomClaims{
				Username: "testuser",
				Role:     "user",
				UserUID:  "uid-1",
			},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			if tt.mockClaims != nil || tt.mockErr != nil {
				authMock.On("ValidateToken", mock.Anything, mock.Anything).Return(tt.mockClaims, tt.mockErr)
			}

			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				assert.Equal(t, "testuser", r.Context().Value(middlewarectx.User))
				assert.Equal(t, "user", r.Context().Value(middlewarectx.Role))
				assert.Equal(t, "uid-1", r.Context().Value(middlewarectx.UserUID))
				w.WriteHeader(http.StatusOK)
			})

			mw := middlewarectx.JWTMiddleware(authMock, newNoopLogger())(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			mw.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}
