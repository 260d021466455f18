package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore хранит сессии в памяти процесса.
// Подходит для одного экземпляра сервера и для тестов.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore создает пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[uuid.UUID]*Session)}
}

// Get возвращает копию сессии. Истекшие сессии удаляются при обращении.
func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	if s.IsExpired() {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

// Save сохраняет копию сессии.
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	m.sessions[s.ID] = s.Clone()
	m.mu.Unlock()
	return nil
}

// Delete удаляет сессию. Удаление отсутствующей сессии не ошибка.
func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Len возвращает количество хранимых сессий.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
