// Package rabbitmq содержит вспомогательные функции для работы с RabbitMQ:
// подключение с повторными попытками, объявление очередей, публикация и
// потребление сообщений.
package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// ExchangeOrders — exchange для событий заказов.
const ExchangeOrders = "orders"

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetOrderQueues возвращает очереди для воркера уведомлений о заказах.
func GetOrderQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "order.notifications", RoutingKey: "created"},
	}
}

// Connect устанавливает соединение с RabbitMQ, повторяя попытки с задержкой.
func Connect(url string, maxRetries int, retryDelay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	var conn *amqp.Connection
	var err error
	for i := 0; i < maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("%s: %w", op, err)
}

// SetupChannel открывает канал и объявляет exchange с очередями.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = ch.ExchangeDeclare(ExchangeOrders, "direct", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		if _, err = ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = ch.QueueBind(q.QueueName, q.RoutingKey, ExchangeOrders, false, nil); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return ch, nil
}

// ConsumeMessages запускает фонового потребителя очереди.
// Каждое сообщение передается функции handle; при ошибке сообщение
// возвращается в очередь (Nack с requeue).
func ConsumeMessages(ctx context.Context, ch *amqp.Channel, queueName string, handle func([]byte) error) error {
	const op = "rabbitmq.ConsumeMessages"
	msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if err := handle(msg.Body); err != nil {
					_ = msg.Nack(false, true)
					continue
				}
				_ = msg.Ack(false)
			}
		}
	}()
	return nil
}
