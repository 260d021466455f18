// Package session хранит состояние браузера на сервере.
// Браузер получает только подписанный токен (JWT HS256) с ID сессии;
// данные сессии лежат в Store (память процесса или Redis).
package session

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Session - серверное состояние одного браузера.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	Flashes   []string  `json:"flashes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// New создает пустую анонимную сессию.
func New(ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsAuthenticated сообщает, что в сессии есть вошедший пользователь.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != 0 && s.Username != ""
}

// IsExpired сообщает, что срок жизни сессии истек.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Authenticate запоминает вошедшего пользователя.
func (s *Session) Authenticate(userID int64, username string) {
	s.UserID = userID
	s.Username = username
}

// AddFlash добавляет одноразовое сообщение для следующей отрисовки.
func (s *Session) AddFlash(msg string) {
	s.Flashes = append(s.Flashes, msg)
}

// PopFlashes возвращает накопленные сообщения и очищает их.
func (s *Session) PopFlashes() []string {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

// Clone возвращает независимую копию сессии.
func (s *Session) Clone() *Session {
	c := *s
	c.Flashes = slices.Clone(s.Flashes)
	return &c
}
