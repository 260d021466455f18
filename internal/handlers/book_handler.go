package handlers

import (
	"errors"
	"net/http"

	"github.com/adamjdecaria/cs50wproject1/internal/middleware"
	"github.com/adamjdecaria/cs50wproject1/internal/services"
	"github.com/adamjdecaria/cs50wproject1/models"
)

// BookHandler обрабатывает поиск, страницу книги и отправку отзывов.
// Все маршруты требуют входа (middleware.RequireLogin).
type BookHandler struct {
	pages
	catalogue services.CatalogueService
	reviews   services.ReviewService
}

// NewBookHandler создает новый экземпляр BookHandler.
func NewBookHandler(
	catalogue services.CatalogueService,
	reviews services.ReviewService,
	sessions SessionManager,
	views *Renderer,
) *BookHandler {
	return &BookHandler{
		pages:     pages{views: views, sessions: sessions},
		catalogue: catalogue,
		reviews:   reviews,
	}
}

// SearchForm показывает форму поиска.
func (h *BookHandler) SearchForm(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())
	h.render(w, r, sess, http.StatusOK, pageSearch, PageData{})
}

// Search ищет книги по ISBN, названию или автору (первое непустое поле).
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, sess, &services.ValidationError{Field: "form", Message: "Malformed form."})
		return
	}

	books, err := h.catalogue.Search(r.Context(), models.SearchQuery{
		ISBN:   r.PostForm.Get("isbn"),
		Title:  r.PostForm.Get("title"),
		Author: r.PostForm.Get("author"),
	})
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}

	h.render(w, r, sess, http.StatusOK, pageResults, PageData{Books: books})
}

// SearchByISBN показывает страницу выбранной книги.
func (h *BookHandler) SearchByISBN(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, sess, &services.ValidationError{Field: "form", Message: "Malformed form."})
		return
	}

	detail, err := h.catalogue.Detail(r.Context(), r.PostForm.Get("choice"))
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}

	h.render(w, r, sess, http.StatusOK, pageBook, PageData{
		Detail: detail,
		Notice: ratingNotice(detail.RatingErr),
	})
}

// SubmitReview сохраняет отзыв вошедшего пользователя. После успешной
// записи ответ всегда 200, даже если страницу книги собрать не удалось.
// Неудачная запись не затрагивает сессию, кроме случая, когда пользователя
// сессии больше нет в базе: тогда сессия сбрасывается и нужен повторный вход.
func (h *BookHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, sess, &services.ValidationError{Field: "form", Message: "Malformed form."})
		return
	}

	detail, err := h.reviews.Submit(r.Context(), models.ReviewRequest{
		ISBN:     r.PostForm.Get("isbn"),
		Username: sess.Username,
		Review:   r.PostForm.Get("review"),
		Score:    r.PostForm.Get("score"),
	})
	if errors.Is(err, services.ErrUnknownReviewer) {
		h.relogin(w, r, sess)
		return
	}
	if err != nil {
		h.fail(w, r, sess, err)
		return
	}

	sess.AddFlash(msgReviewSubmitted)
	data := PageData{Detail: detail, Notice: ratingNotice(detail.RatingErr)}
	if detail.LoadErr != nil {
		data = PageData{Notice: msgReviewNoPage}
	}
	h.render(w, r, sess, http.StatusOK, pageBook, data)
}
