// Package notifier собирает и запускает воркер отправки писем о заказах.
package notifier

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/online-shop/internal/config"
	"github.com/magabrotheeeer/online-shop/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/online-shop/internal/lib/smtp"
	notifierservice "github.com/magabrotheeeer/online-shop/internal/services/notifier"
)

type App struct {
	conn            *amqp.Connection
	ch              *amqp.Channel
	notifierService *notifierservice.NotifierService
	logger          *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetOrderQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg, logger)
	notifierService := notifierservice.NewNotifierService(newTransport, logger)

	return &App{
		conn:            conn,
		ch:              ch,
		notifierService: notifierService,
		logger:          logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, "order.notifications", a.notifierService.SendOrderConfirmation)
	if err != nil {
		a.logger.Error("failed to start order.notifications consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("Notifier service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
