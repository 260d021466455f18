package models

import "time"

// User представляет зарегистрированного пользователя.
// Тэги `db` используются для маппинга с полями БД с помощью sqlx.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"` // Хеш пароля никогда не покидает сервер
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// RegisterRequest представляет данные формы регистрации.
type RegisterRequest struct {
	Username     string
	Password     string
	Confirmation string
}

// LoginRequest представляет данные формы входа.
type LoginRequest struct {
	Username string
	Password string
}
