package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/online-shop/internal/http/response"
	"github.com/magabrotheeeer/online-shop/internal/lib/sl"
)

// ReadinessChecker проверяет готовность зависимостей сервиса.
type ReadinessChecker func() error

type Handler struct {
	log   *slog.Logger
	check ReadinessChecker
}

func New(log *slog.Logger, check ReadinessChecker) *Handler {
	return &Handler{
		log:   log,
		check: check,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if err := h.check(); err != nil {
		h.log.Error("health check failed", slog.String("op", op), sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database is not ready"))
		return
	}

	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
