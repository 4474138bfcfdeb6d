// Package onlineshop собирает и запускает HTTP-приложение интернет-магазина.
package onlineshop

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/online-shop/internal/cache"
	"github.com/magabrotheeeer/online-shop/internal/config"
	jwtlib "github.com/magabrotheeeer/online-shop/internal/lib/jwt"
	"github.com/magabrotheeeer/online-shop/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/online-shop/internal/migrations"
	authservice "github.com/magabrotheeeer/online-shop/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/online-shop/internal/services/catalog"
	orderservice "github.com/magabrotheeeer/online-shop/internal/services/order"
	"github.com/magabrotheeeer/online-shop/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New инициализирует хранилище, кеш, брокер сообщений и все сервисы приложения.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetOrderQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}
	orderPublisher := rabbitmq.NewOrderPublisher(ch)

	jwtMaker := jwtlib.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker)
	catalogService := catalogservice.NewCatalogService(db, cacheRedis, logger)
	orderService := orderservice.NewOrderService(db, cacheRedis, orderPublisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, authService, catalogService, orderService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
