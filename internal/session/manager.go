package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultCookieName = "booktalk_session"
	DefaultTTL        = 24 * time.Hour

	tokenIssuer = "booktalk"
)

// Config содержит параметры менеджера сессий.
type Config struct {
	CookieName string
	Secret     []byte        // Ключ подписи HS256
	TTL        time.Duration // Время жизни сессии
	Secure     bool          // Cookie только по HTTPS
}

// Manager связывает cookie браузера с сессией в Store.
type Manager struct {
	store Store
	cfg   Config
}

// NewManager создает менеджер сессий.
func NewManager(store Store, cfg Config) (*Manager, error) {
	if store == nil {
		return nil, errors.New("не задано хранилище сессий")
	}
	if len(cfg.Secret) == 0 {
		return nil, errors.New("не задан секрет подписи сессий")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Manager{store: store, cfg: cfg}, nil
}

// Load возвращает сессию браузера. Отсутствующий, поддельный или истекший
// токен дает новую пустую сессию; ошибка возвращается только при сбое Store.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil {
		return New(m.cfg.TTL), nil
	}

	id, err := m.parseToken(cookie.Value)
	if err != nil {
		log.Debugf("[Session] Отклонен токен сессии: %v", err)
		return New(m.cfg.TTL), nil
	}

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return New(m.cfg.TTL), nil
		}
		return nil, fmt.Errorf("ошибка загрузки сессии: %w", err)
	}
	return sess, nil
}

// Save сохраняет сессию и выставляет cookie с подписанным токеном.
// Cookie сессионная (без Expires и Max-Age) и живет до закрытия браузера.
// Срок жизни на сервере ограничен TTL в Store и claim exp токена.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if err := m.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("ошибка сохранения сессии: %w", err)
	}

	token, err := m.signToken(sess)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Reset удаляет сессию из Store и возвращает новую пустую (с новым ID).
// Новая сессия не сохранена: cookie перезаписывается при ее сохранении,
// а до тех пор старый токен указывает на отсутствующую сессию.
func (m *Manager) Reset(ctx context.Context, sess *Session) (*Session, error) {
	if err := m.store.Delete(ctx, sess.ID); err != nil {
		return nil, fmt.Errorf("ошибка удаления сессии: %w", err)
	}
	return New(m.cfg.TTL), nil
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

func (m *Manager) signToken(sess *Session) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена сессии: %w", err)
	}
	return signed, nil
}

func (m *Manager) parseToken(raw string) (uuid.UUID, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (interface{}, error) {
		return m.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return id, nil
}
