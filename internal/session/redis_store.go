package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const defaultRedisPrefix = "booktalk:session:"

// RedisStore хранит сессии в Redis в виде JSON с TTL, равным сроку жизни сессии.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore создает хранилище поверх готового клиента.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, prefix: defaultRedisPrefix}
}

// ConnectRedis разбирает URL вида redis://host:port/db и проверяет соединение.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("некорректный REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			log.Warnf("[RedisStore] Ошибка закрытия клиента после неудачного пинга: %v", closeErr)
		}
		return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
	}

	log.Printf("[RedisStore] Подключение к Redis %s установлено", opts.Addr)
	return client, nil
}

func (s *RedisStore) key(id uuid.UUID) string {
	return s.prefix + id.String()
}

// Get читает сессию по ID.
func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения сессии из Redis: %w", err)
	}

	var sess Session
	if err = json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("ошибка декодирования сессии: %w", err)
	}
	if sess.IsExpired() {
		return nil, ErrNotFound
	}
	return &sess, nil
}

// Save записывает сессию с TTL до ExpiresAt.
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("нельзя сохранить истекшую сессию %s", sess.ID)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("ошибка кодирования сессии: %w", err)
	}
	if err = s.client.Set(ctx, s.key(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("ошибка записи сессии в Redis: %w", err)
	}
	return nil
}

// Delete удаляет сессию.
func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("ошибка удаления сессии из Redis: %w", err)
	}
	return nil
}
