package handlers

import (
	"net/http"

	"github.com/adamjdecaria/cs50wproject1/internal/middleware"
	"github.com/adamjdecaria/cs50wproject1/internal/services"
	"github.com/adamjdecaria/cs50wproject1/models"
	log "github.com/sirupsen/logrus"
)

// AuthHandler обрабатывает регистрацию, вход и выход.
type AuthHandler struct {
	pages
	service services.AuthService
}

// NewAuthHandler создает новый экземпляр AuthHandler.
func NewAuthHandler(s services.AuthService, sessions SessionManager, views *Renderer) *AuthHandler {
	return &AuthHandler{pages: pages{views: views, sessions: sessions}, service: s}
}

// Index показывает форму входа вместе с накопленными сообщениями.
func (h *AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())
	h.render(w, r, sess, http.StatusOK, pageLogin, PageData{})
}

// RegisterForm показывает форму регистрации.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())
	h.render(w, r, sess, http.StatusOK, pageRegister, PageData{})
}

// Register обрабатывает отправку формы регистрации.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, sess, &services.ValidationError{Field: "form", Message: "Malformed form."})
		return
	}

	req := models.RegisterRequest{
		Username:     r.PostForm.Get("username"),
		Password:     r.PostForm.Get("password"),
		Confirmation: r.PostForm.Get("confirmation"),
	}
	log.Printf("[AuthHandler] Попытка регистрации пользователя: %s", req.Username)

	if err := h.service.Register(r.Context(), req); err != nil {
		h.fail(w, r, sess, err)
		return
	}

	sess.AddFlash(msgRegistered)
	h.render(w, r, sess, http.StatusOK, pageLogin, PageData{})
}

// Login сбрасывает текущую сессию при любом методе. GET показывает форму,
// POST проверяет учетные данные и открывает поиск.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	old, _ := middleware.SessionFromContext(r.Context())
	sess, err := h.sessions.Reset(r.Context(), old)
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}

	if r.Method != http.MethodPost {
		h.render(w, r, sess, http.StatusOK, pageLogin, PageData{})
		return
	}

	if err = r.ParseForm(); err != nil {
		h.fail(w, r, sess, &services.ValidationError{Field: "form", Message: "Malformed form."})
		return
	}

	req := models.LoginRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	log.Printf("[AuthHandler] Попытка входа пользователя: %s", req.Username)

	user, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}

	sess.Authenticate(user.ID, user.Username)
	sess.AddFlash(msgLoggedIn)
	h.render(w, r, sess, http.StatusOK, pageSearch, PageData{})
}

// Logout удаляет сессию и перенаправляет на главную с сообщением.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	old, _ := middleware.SessionFromContext(r.Context())
	sess, err := h.sessions.Reset(r.Context(), old)
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}

	sess.AddFlash(msgLoggedOut)
	h.save(w, r, sess)
	log.Printf("[AuthHandler] Пользователь '%s' вышел", old.Username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
