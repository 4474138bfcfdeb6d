package updatestatus

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/online-shop/internal/models"
	"github.com/magabrotheeeer/online-shop/internal/storage/repository"
)

// MockService реализует интерфейс updatestatus.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateStatus(ctx context.Context, id int, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestUpdateStatusHandler(t *testing.T) {
	logger := newNoopLogger()

	tests := []struct {
		name           string
		id             string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная оплата заказа",
			id:   "5",
			body: `{"status":"paid"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, 5, models.OrderStatusPaid).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name: "успешная отмена заказа",
			id:   "5",
			body: `{"status":"cancelled"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, 5, models.OrderStatusCancelled).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:           "некорректный id в URL",
			id:             "abc",
			body:           `{"status":"paid"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid order id"`,
		},
		{
			name:           "недопустимый статус",
			id:             "5",
			body:           `{"status":"shipped"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error"`,
		},
		{
			name: "заказ уже обработан",
			id:   "5",
			body: `{"status":"cancelled"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, 5, models.OrderStatusCancelled).
					Return(repository.ErrOrderNotPending)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error":"order is not pending"`,
		},
		{
			name: "ошибка сервиса",
			id:   "5",
			body: `{"status":"paid"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, 5, models.OrderStatusPaid).
					Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not update order status"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPut, "/orders/"+tt.id+"/status",
				strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
