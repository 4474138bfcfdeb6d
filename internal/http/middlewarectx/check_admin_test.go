package middlewarectx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/online-shop/internal/http/middlewarectx"
)

func TestAdminOnlyMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		role           any
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "админ проходит",
			role:           "admin",
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "обычный пользователь получает 403",
			role:           "user",
			wantStatusCode: http.StatusForbidden,
			wantCalled:     false,
		},
		{
			name:           "роль отсутствует в контексте",
			role:           nil,
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			mw := middlewarectx.AdminOnlyMiddleware(newNoopLogger())(nextHandler)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/products", nil)
			if tt.role != nil {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Role, tt.role))
			}
			w := httptest.NewRecorder()

			mw.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}
