package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adamjdecaria/cs50wproject1/internal/services"
	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

// APIHandler обслуживает публичный JSON-эндпоинт /api/{isbn}.
type APIHandler struct {
	catalogue services.CatalogueService
}

// NewAPIHandler создает новый экземпляр APIHandler.
func NewAPIHandler(catalogue services.CatalogueService) *APIHandler {
	return &APIHandler{catalogue: catalogue}
}

// GetBook возвращает книгу и ее рейтинг. Ошибки отдаются пустым телом:
// 404 для неизвестного ISBN, 503 при недоступности хранилища или рейтингов.
func (h *APIHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "isbn")

	book, err := h.catalogue.Lookup(r.Context(), isbn)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			log.Printf("[APIHandler] ISBN '%s' не найден", isbn)
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, services.ErrStoreUnavailable), errors.Is(err, services.ErrRatingsUnavailable):
			log.Warnf("[APIHandler] Данные для '%s' недоступны: %v", isbn, err)
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			log.Errorf("[APIHandler] Ошибка получения '%s': %v", isbn, err)
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(book); err != nil {
		log.Warnf("[APIHandler] Ошибка кодирования ответа для '%s': %v", isbn, err)
	}
}
