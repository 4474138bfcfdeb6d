// Package list реализует HTTP-обработчик списка заказов пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/online-shop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/online-shop/internal/http/response"
	"github.com/magabrotheeeer/online-shop/internal/lib/sl"
	"github.com/magabrotheeeer/online-shop/internal/models"
)

// Handler управляет HTTP-запросами на получение списка заказов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка заказов.
type Service interface {
	List(ctx context.Context, username string, limit, offset int) ([]*models.Order, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	orders, err := h.service.List(r.Context(), username, limit, offset)
	if err != nil {
		log.Error("failed to list orders", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list orders"))
		return
	}

	log.Info("success to list orders", slog.Int("count", len(orders)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":  len(orders),
		"orders": orders,
	}))
}
