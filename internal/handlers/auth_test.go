package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/adamjdecaria/cs50wproject1/internal/handlers"
	"github.com/adamjdecaria/cs50wproject1/internal/mocks"
	"github.com/adamjdecaria/cs50wproject1/internal/services"
	"github.com/adamjdecaria/cs50wproject1/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter(env testEnv, svc services.AuthService) *chi.Mux {
	h := handlers.NewAuthHandler(svc, env.sessions, env.views)
	return env.router(func(r chi.Router) {
		r.Get("/", h.Index)
		r.Get("/register", h.RegisterForm)
		r.Post("/register", h.Register)
		r.Get("/login", h.Login)
		r.Post("/login", h.Login)
		r.Get("/logout", h.Logout)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	form := url.Values{"username": {"alice"}, "password": {"pw1234"}, "confirmation": {"pw1234"}}
	req := models.RegisterRequest{Username: "alice", Password: "pw1234", Confirmation: "pw1234"}

	tests := []struct {
		name           string
		mockReturn     error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Успешная регистрация",
			expectedStatus: http.StatusOK,
			expectedBody:   "Registered!",
		},
		{
			name:           "Ошибка валидации",
			mockReturn:     &services.ValidationError{Field: "confirmation", Message: "Must confirm password."},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Must confirm password.",
		},
		{
			name:           "Имя занято",
			mockReturn:     services.ErrUsernameTaken,
			expectedStatus: http.StatusConflict,
			expectedBody:   "That username is taken. Please choose another.",
		},
		{
			name:           "Хранилище недоступно",
			mockReturn:     services.ErrStoreUnavailable,
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "temporarily unavailable",
		},
		{
			name:           "Непредвиденная ошибка",
			mockReturn:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			svc := new(mocks.AuthService)
			svc.On("Register", mock.Anything, req).Return(tt.mockReturn).Once()

			rec := httptest.NewRecorder()
			setupAuthRouter(env, svc).ServeHTTP(rec, postForm("/register", form, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	alice := &models.User{ID: 7, Username: "alice"}

	tests := []struct {
		name           string
		mockUser       *models.User
		mockErr        error
		expectedStatus int
		expectedBody   string
		expectedLogged bool
	}{
		{
			name:           "Успешный вход",
			mockUser:       alice,
			expectedStatus: http.StatusOK,
			expectedBody:   "Logged in!",
			expectedLogged: true,
		},
		{
			name:           "Неверные учетные данные",
			mockErr:        services.ErrInvalidCredentials,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid username and/or password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			svc := new(mocks.AuthService)
			svc.On("Login", mock.Anything, models.LoginRequest{Username: "alice", Password: "pw"}).
				Return(tt.mockUser, tt.mockErr).Once()

			// Прежняя сессия другого пользователя должна быть сброшена.
			cookies := env.loggedInCookies(t, "bob")
			require.Equal(t, 1, env.store.Len())

			rec := httptest.NewRecorder()
			setupAuthRouter(env, svc).ServeHTTP(rec,
				postForm("/login", url.Values{"username": {"alice"}, "password": {"pw"}}, cookies))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			assert.NotContains(t, rec.Body.String(), "bob")

			if tt.expectedLogged {
				assert.Equal(t, 1, env.store.Len())
				assert.Contains(t, rec.Body.String(), "Signed in as alice")
			} else {
				assert.Equal(t, 0, env.store.Len())
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_LoginGetClearsSession(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.loggedInCookies(t, "bob")

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	setupAuthRouter(env, new(mocks.AuthService)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, env.store.Len())
	assert.NotContains(t, rec.Body.String(), "Signed in as bob")
}

func TestAuthHandler_Logout(t *testing.T) {
	env := newTestEnv(t)
	r := setupAuthRouter(env, new(mocks.AuthService))

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	for _, c := range env.loggedInCookies(t, "alice") {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	// Новая сессия несет сообщение о выходе и показывает его на главной.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logged out!")
	assert.NotContains(t, rec.Body.String(), "Signed in as")
}
