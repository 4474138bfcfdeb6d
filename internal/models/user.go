// Package models содержит доменные структуры интернет-магазина,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Роли пользователей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет пользователя магазина.
type User struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// DummyRegisterRequest используется для приёма данных регистрации из JSON-запроса.
type DummyRegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`       // Почта пользователя
	Username string `json:"username" validate:"required,alphanum"` // Имя пользователя
	Password string `json:"password" validate:"required,min=8"`    // Пароль (минимум 8 символов)
}

// DummyLoginRequest используется для приёма данных входа из JSON-запроса.
type DummyLoginRequest struct {
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required"`
}
