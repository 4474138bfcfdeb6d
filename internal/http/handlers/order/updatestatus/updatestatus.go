// Package updatestatus реализует HTTP-обработчик смены статуса заказа.
//
// Доступен только администратору. Заказ можно перевести из pending
// в paid или cancelled, при отмене остатки товаров возвращаются на склад.
package updatestatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/online-shop/internal/http/response"
	"github.com/magabrotheeeer/online-shop/internal/lib/sl"
	"github.com/magabrotheeeer/online-shop/internal/models"
	"github.com/magabrotheeeer/online-shop/internal/storage/repository"
)

// Handler управляет HTTP-запросами на смену статуса заказа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики смены статуса заказа.
type Service interface {
	UpdateStatus(ctx context.Context, id int, status string) error
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
// @Summary Сменить статус заказа
// @Description Переводит заказ из pending в paid или cancelled. Доступно только администратору.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Param id path int true "ID заказа"
// @Param request body models.DummyOrderStatus true "Новый статус заказа"
// @Success 200 {object} response.Response "Статус обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или заказ уже обработан"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при смене статуса"
// @Router /orders/{id}/status [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.updatestatus"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		log.Error("invalid order id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid order id"))
		return
	}

	var req models.DummyOrderStatus
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, repository.ErrOrderNotPending) {
			log.Error("order already processed", slog.Int("id", id))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("order is not pending"))
			return
		}
		log.Error("failed to update order status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update order status"))
		return
	}

	log.Info("success to update order status", slog.Int("id", id), slog.String("status", req.Status))
	render.JSON(w, r, response.OK())
}
