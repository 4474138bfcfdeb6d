package register

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
)

// Мок сервиса с методом Register
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	args := m.Called(ctx, email, username, rawPassword)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, authMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockUID        string
		mockErr        error
		wantStatusCode int
		wantData       map[string]any
		wantError      string
		wantStatus     string
	}{
		{
			name: "valid registration",
			requestBody: models.DummyRegisterRequest{
				Username: "user1",
				Password: "password123",
				Email:    "user1@example.com",
			},
			mockUID:        "b7f9c1de-0000-0000-0000-000000000001",
			mockErr:        nil,
			wantStatusCode: http.StatusOK,
			wantData: map[string]any{
				"user_uid": "b7f9c1de-0000-0000-0000-000000000001",
				"username": "user1",
			},
			wantError:  "",
			wantStatus: "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantData:       nil,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name: "validation error - missing password",
			requestBody: models.DummyRegisterRequest{
				Username: "user1",
				Email:    "user1@example.com",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantData:       nil,
			wantError:      "field Password is a required field",
			wantStatus:     "Error",
		},
		{
			name: "registration storage error",
			requestBody: models.DummyRegisterRequest{
				Username: "user1",
				Password: "password123",
				Email:    "user1@example.com",
			},
			mockErr:        errors.New("db error"),
			wantStatusCode: http.StatusInternalServerError,
			wantData:       nil,
			wantError:      "failed to register user",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			if tt.name == "valid registration" || tt.name == "registration storage error" {
				authMock.On("Register", mock.Anything,
					mock.Anything,
					mock.Anything,
					mock.Anything,
				).Return(tt.mockUID, tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(bodyBytes))
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
			} else {
				assert.Nil(t, got["data"])
			}

			authMock.AssertExpectations(t)
		})
	}
}
