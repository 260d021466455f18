package models

import "time"

// MinScore и MaxScore задают допустимый диапазон оценки.
const (
	MinScore = 1
	MaxScore = 5
)

// Review представляет отзыв пользователя о книге.
// Пара (ISBN, Username) уникальна: не больше одного отзыва на книгу от пользователя.
type Review struct {
	ISBN      string    `db:"isbn" json:"isbn"`
	Username  string    `db:"username" json:"username"`
	Review    string    `db:"review" json:"review"`
	Score     *int      `db:"score" json:"score,omitempty"` // может быть NULL
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ReviewRequest представляет данные формы отправки отзыва.
type ReviewRequest struct {
	ISBN     string
	Username string
	Review   string
	Score    string // Сырое значение из формы, проверяется сервисом
}
