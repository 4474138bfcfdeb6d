package models

import "time"

// Статусы заказа.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

// Order представляет заказ пользователя.
// TotalPrice всегда считается на сервере по ценам из каталога.
type Order struct {
	ID         int         `json:"id"`
	UID        string      `json:"uid"`
	Username   string      `json:"username"`
	Status     string      `json:"status"`
	TotalPrice int         `json:"total_price"`
	Items      []OrderItem `json:"items,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// OrderItem представляет позицию заказа.
// UnitPrice фиксирует цену товара на момент покупки.
type OrderItem struct {
	OrderID   int `json:"order_id"`
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
	UnitPrice int `json:"unit_price"`
}

// DummyOrderItem используется для приёма позиции заказа из JSON-запроса.
type DummyOrderItem struct {
	ProductID int `json:"product_id" validate:"required,gt=0"` // ID товара
	Quantity  int `json:"quantity" validate:"required,gt=0"`   // Количество (>0)
}

// DummyOrder используется для приёма данных нового заказа из JSON-запроса.
type DummyOrder struct {
	Items []DummyOrderItem `json:"items" validate:"required,min=1,dive"` // Позиции заказа
}

// DummyOrderStatus используется для приёма нового статуса заказа из JSON-запроса.
type DummyOrderStatus struct {
	Status string `json:"status" validate:"required,oneof=paid cancelled"` // Новый статус
}

// OrderEvent — сообщение о созданном заказе, публикуемое в брокер
// для воркера уведомлений.
type OrderEvent struct {
	OrderID    int       `json:"order_id"`
	OrderUID   string    `json:"order_uid"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	TotalPrice int       `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}
