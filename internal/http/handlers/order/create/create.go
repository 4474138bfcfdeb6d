// Package create реализует HTTP-обработчик оформления заказа.
//
// Handler принимает JSON-запрос с позициями заказа, валидирует его, извлекает
// имя пользователя из контекста и вызывает бизнес-логику заказов. Итоговая
// сумма считается на сервере по ценам каталога.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/online-shop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/online-shop/internal/http/response"
	"github.com/magabrotheeeer/online-shop/internal/lib/sl"
	"github.com/magabrotheeeer/online-shop/internal/models"
	"github.com/magabrotheeeer/online-shop/internal/storage/repository"
)

// Handler управляет HTTP-запросами на оформление заказов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики оформления заказа.
type Service interface {
	Create(ctx context.Context, username string, req models.DummyOrder) (*models.Order, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оформить заказ
// @Description Создает новый заказ для текущего пользователя. Возвращает созданный заказ с итоговой суммой.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Param request body models.DummyOrder true "Позиции нового заказа"
// @Success 200 {object} map[string]any "Успешное оформление заказа"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или недоступный товар"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при оформлении заказа"
// @Router /orders [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyOrder
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	order, err := h.service.Create(r.Context(), username, req)
	if err != nil {
		if errors.Is(err, repository.ErrProductUnavailable) || errors.Is(err, repository.ErrInsufficientStock) {
			log.Error("order rejected", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("product unavailable or out of stock"))
			return
		}
		log.Error("failed to create order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create order"))
		return
	}

	log.Info("success to create order", slog.Int("id", order.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order": order,
	}))
}
