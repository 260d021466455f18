package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/adamjdecaria/cs50wproject1/internal/handlers"
	"github.com/adamjdecaria/cs50wproject1/internal/middleware"
	"github.com/adamjdecaria/cs50wproject1/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// testEnv собирает менеджер сессий и шаблоны для тестов обработчиков.
type testEnv struct {
	store    *session.MemoryStore
	sessions *session.Manager
	views    *handlers.Renderer
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	store := session.NewMemoryStore()
	mgr, err := session.NewManager(store, session.Config{Secret: []byte("test"), TTL: time.Hour})
	require.NoError(t, err)
	views, err := handlers.NewRenderer()
	require.NoError(t, err)
	return testEnv{store: store, sessions: mgr, views: views}
}

// router оборачивает маршруты в загрузку сессий, как в сервере.
func (e testEnv) router(register func(r chi.Router)) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Sessions(e.sessions))
	register(r)
	return r
}

// loggedInCookies сохраняет сессию вошедшего пользователя и возвращает ее cookie.
func (e testEnv) loggedInCookies(t *testing.T, username string) []*http.Cookie {
	t.Helper()
	sess := session.New(time.Hour)
	sess.Authenticate(1, username)
	rec := httptest.NewRecorder()
	require.NoError(t, e.sessions.Save(context.Background(), rec, sess))
	return rec.Result().Cookies()
}

func postForm(path string, form url.Values, cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestNewRenderer(t *testing.T) {
	views, err := handlers.NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	views.Render(rec, http.StatusTeapot, "error.html", handlers.PageData{Message: "<b>boom</b>"})
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Contains(t, rec.Body.String(), "&lt;b&gt;boom&lt;/b&gt;")

	rec = httptest.NewRecorder()
	views.Render(rec, http.StatusOK, "missing.html", handlers.PageData{})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
