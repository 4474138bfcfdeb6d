// Package onlineshop предоставляет маршруты для основного приложения.
package onlineshop

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/online-shop/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/online-shop/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/online-shop/internal/http/handlers/health"
	ordercreate "github.com/magabrotheeeer/online-shop/internal/http/handlers/order/create"
	orderlist "github.com/magabrotheeeer/online-shop/internal/http/handlers/order/list"
	orderread "github.com/magabrotheeeer/online-shop/internal/http/handlers/order/read"
	orderstatus "github.com/magabrotheeeer/online-shop/internal/http/handlers/order/updatestatus"
	"github.com/magabrotheeeer/online-shop/internal/http/handlers/product/create"
	"github.com/magabrotheeeer/online-shop/internal/http/handlers/product/list"
	"github.com/magabrotheeeer/online-shop/internal/http/handlers/product/read"
	"github.com/magabrotheeeer/online-shop/internal/http/handlers/product/remove"
	"github.com/magabrotheeeer/online-shop/internal/http/handlers/product/update"
	"github.com/magabrotheeeer/online-shop/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/online-shop/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/online-shop/internal/services/catalog"
	orderservice "github.com/magabrotheeeer/online-shop/internal/services/order"
	"github.com/magabrotheeeer/online-shop/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage, authService *authservice.AuthService, catalogService *catalogservice.CatalogService, orderService *orderservice.OrderService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/products", list.New(logger, catalogService).ServeHTTP)
			r.Get("/products/{id}", read.New(logger, catalogService).ServeHTTP)
			r.Post("/orders", ordercreate.New(logger, orderService).ServeHTTP)
			r.Get("/orders", orderlist.New(logger, orderService).ServeHTTP)
			r.Get("/orders/{id}", orderread.New(logger, orderService).ServeHTTP)

			// Управление каталогом доступно только администраторам
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Post("/products", create.New(logger, catalogService).ServeHTTP)
				r.Put("/products/{id}", update.New(logger, catalogService).ServeHTTP)
				r.Delete("/products/{id}", remove.New(logger, catalogService).ServeHTTP)
				r.Put("/orders/{id}/status", orderstatus.New(logger, orderService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, func() error {
		return repository.CheckDatabaseReady(db)
	}).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
