package middleware

import (
	"context"
	"net/http"

	"github.com/adamjdecaria/cs50wproject1/internal/session"
	log "github.com/sirupsen/logrus"
)

// Тип для ключа контекста.
type contextKey string

// SessionKey - ключ сессии в контексте запроса.
const SessionKey contextKey = "session"

// SessionLoader загружает и сохраняет сессии браузера.
type SessionLoader interface {
	Load(ctx context.Context, r *http.Request) (*session.Session, error)
	Save(ctx context.Context, w http.ResponseWriter, s *session.Session) error
}

// Sessions загружает сессию браузера и кладет ее в контекст запроса.
// Если хранилище сессий недоступно, запрос завершается ответом 503.
func Sessions(loader SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := loader.Load(r.Context(), r)
			if err != nil {
				log.Errorf("[SessionMiddleware] Ошибка загрузки сессии: %v", err)
				http.Error(w, "Session store is temporarily unavailable.", http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// RequireLogin пропускает только вошедших пользователей. Остальные
// получают flash-сообщение и перенаправляются на страницу входа.
func RequireLogin(loader SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFromContext(r.Context())
			if ok && sess.IsAuthenticated() {
				next.ServeHTTP(w, r)
				return
			}

			log.Printf("[AuthMiddleware] Анонимный доступ к %s %s", r.Method, r.URL.Path)
			if ok {
				sess.AddFlash(LoginRequiredMessage)
				if err := loader.Save(r.Context(), w, sess); err != nil {
					log.Warnf("[AuthMiddleware] Не удалось сохранить сессию: %v", err)
				}
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
		})
	}
}

// WithSession возвращает контекст с сессией.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, sess)
}

// SessionFromContext извлекает сессию из контекста запроса.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(SessionKey).(*session.Session)
	return sess, ok && sess != nil
}

// LoginRequiredMessage показывается при обращении к закрытому маршруту без входа.
const LoginRequiredMessage = "Please log in first."
