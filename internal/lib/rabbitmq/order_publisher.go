package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/online-shop/internal/models"
)

// OrderPublisher публикует события заказов в exchange "orders".
type OrderPublisher struct {
	ch *amqp.Channel
}

// NewOrderPublisher создает новый экземпляр OrderPublisher.
func NewOrderPublisher(ch *amqp.Channel) *OrderPublisher {
	return &OrderPublisher{ch: ch}
}

// PublishOrderCreated публикует событие о созданном заказе.
func (p *OrderPublisher) PublishOrderCreated(event models.OrderEvent) error {
	return PublishMessage(p.ch, ExchangeOrders, "created", event)
}
