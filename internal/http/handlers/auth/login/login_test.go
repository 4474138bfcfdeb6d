package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/online-shop/internal/models"
	authservice "github.com/magabrotheeeer/online-shop/internal/services/auth"
)

// Мок сервиса с методом Login
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, username, rawPassword string) (string, string, error) {
	args := m.Called(ctx, username, rawPassword)
	return args.String(0), args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, authMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockToken      string
		mockRole       string
		mockErr        error
		wantStatusCode int
		wantData       map[string]any
		wantError      string
		wantStatus     string
	}{
		{
			name: "valid login",
			requestBody: models.DummyLoginRequest{
				Username: "user1",
				Password: "password123",
			},
			mockToken:      "jwt.token.value",
			mockRole:       models.RoleUser,
			wantStatusCode: http.StatusOK,
			wantData: map[string]any{
				"token":    "jwt.token.value",
				"role":     "user",
				"username": "user1",
			},
			wantStatus: "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name: "validation error - missing password",
			requestBody: models.DummyLoginRequest{
				Username: "user1",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is a required field",
			wantStatus:     "Error",
		},
		{
			name: "wrong credentials",
			requestBody: models.DummyLoginRequest{
				Username: "user1",
				Password: "wrongpassword",
			},
			mockErr:        authservice.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "invalid credentials",
			wantStatus:     "Error",
		},
		{
			name: "storage error",
			requestBody: models.DummyLoginRequest{
				Username: "user1",
				Password: "password123",
			},
			mockErr:        errors.New("db error"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal server error",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			switch tt.name {
			case "valid login", "wrong credentials", "storage error":
				authMock.On("Login", mock.Anything,
					mock.Anything,
					mock.Anything,
				).Return(tt.mockToken, tt.mockRole, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				assert.Nil(t, got["error"])
			}

			if tt.wantData != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				for k, v := range tt.wantData {
					assert.Equal(t, v, data[k])
				}
			}

			authMock.AssertExpectations(t)
		})
	}
}
