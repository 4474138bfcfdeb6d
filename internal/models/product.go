package models

import "time"

// Product представляет товар каталога.
// Цена хранится в копейках, чтобы избежать ошибок округления float.
type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int       `json:"price"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DummyProduct используется для приёма данных товара из JSON-запроса,
// прежде чем конвертировать их в Product.
type DummyProduct struct {
	Name        string `json:"name" validate:"required"`           // Название товара
	Description string `json:"description"`                       // Описание (опционально)
	Price       int    `json:"price" validate:"required,gt=0"`     // Цена в копейках (>0)
	Stock       int    `json:"stock" validate:"gte=0"`             // Остаток на складе (>=0)
	IsActive    *bool  `json:"is_active" validate:"omitempty"`     // Доступен ли товар для заказа
}
