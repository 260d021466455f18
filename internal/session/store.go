package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Store определяет хранилище сессий. Реализации должны быть безопасны
// для конкурентного использования.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Ошибки пакета session.
var (
	ErrNotFound     = errors.New("сессия не найдена")
	ErrInvalidToken = errors.New("невалидный токен сессии")
)
