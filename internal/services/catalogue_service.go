package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/adamjdecaria/cs50wproject1/internal/ratings"
	"github.com/adamjdecaria/cs50wproject1/internal/repository"
	"github.com/adamjdecaria/cs50wproject1/models"
	log "github.com/sirupsen/logrus"
)

// CatalogueService определяет операции чтения каталога.
type CatalogueService interface {
	Search(ctx context.Context, q models.SearchQuery) ([]models.Book, error)
	Detail(ctx context.Context, isbn string) (*models.BookDetail, error)
	Lookup(ctx context.Context, isbn string) (*models.APIBook, error)
}

var _ CatalogueService = (*catalogueService)(nil)

type catalogueService struct {
	bookRepo   repository.BookRepository
	reviewRepo repository.ReviewRepository
	ratings    ratings.Client
}

// NewCatalogueService создает сервис каталога.
func NewCatalogueService(
	bookRepo repository.BookRepository,
	reviewRepo repository.ReviewRepository,
	ratingsClient ratings.Client,
) CatalogueService {
	return &catalogueService{bookRepo: bookRepo, reviewRepo: reviewRepo, ratings: ratingsClient}
}

// Search ищет книги по первому непустому полю запроса.
// Пустой результат не является ошибкой.
func (s *catalogueService) Search(ctx context.Context, q models.SearchQuery) ([]models.Book, error) {
	field, value, ok := pickSearchField(q)
	if !ok {
		return nil, ErrEmptyQuery
	}

	books, err := s.bookRepo.SearchBooks(ctx, field, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	log.Printf("[CatalogueService] Поиск %s=%q: найдено %d книг", field, value, len(books))
	return books, nil
}

func pickSearchField(q models.SearchQuery) (models.SearchField, string, bool) {
	if v := strings.TrimSpace(q.ISBN); v != "" {
		return models.SearchByISBN, v, true
	}
	if v := strings.TrimSpace(q.Title); v != "" {
		return models.SearchByTitle, v, true
	}
	if v := strings.TrimSpace(q.Author); v != "" {
		return models.SearchByAuthor, v, true
	}
	return "", "", false
}

// Detail собирает страницу книги из трех чтений: книги по подстроке ISBN,
// отзывы по точному ISBN и рейтинг удаленного сервиса. Сбой рейтинга не
// прерывает сборку и записывается в RatingErr.
func (s *catalogueService) Detail(ctx context.Context, isbn string) (*models.BookDetail, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, invalid("choice", "Please choose a book.")
	}

	books, err := s.bookRepo.SearchBooks(ctx, models.SearchByISBN, isbn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if len(books) == 0 {
		return nil, ErrBookNotFound
	}

	reviews, err := s.reviewRepo.ListByISBN(ctx, isbn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	detail := &models.BookDetail{ISBN: isbn, Books: books, Reviews: reviews}

	rating, err := s.ratings.GetRating(ctx, isbn)
	switch {
	case err == nil:
		detail.Rating = rating
	case errors.Is(err, ratings.ErrISBNUnknown):
		detail.RatingErr = ErrNoRatings
	default:
		log.Warnf("[CatalogueService] Рейтинг для '%s' недоступен: %v", isbn, err)
		detail.RatingErr = ErrRatingsUnavailable
	}

	return detail, nil
}

// Lookup возвращает данные публичного JSON-эндпоинта по точному ISBN.
// Если удаленный сервис не знает ISBN, счетчики равны нулю.
func (s *catalogueService) Lookup(ctx context.Context, isbn string) (*models.APIBook, error) {
	book, err := s.bookRepo.GetBookByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	resp := &models.APIBook{
		Title:  book.Title,
		Author: book.Author,
		Year:   book.Year,
		ISBN:   book.ISBN,
	}

	rating, err := s.ratings.GetRating(ctx, book.ISBN)
	switch {
	case err == nil:
		resp.ReviewCount = rating.ReviewCount
		resp.AverageScore = rating.AverageScore
	case errors.Is(err, ratings.ErrISBNUnknown):
	default:
		return nil, fmt.Errorf("%w: %w", ErrRatingsUnavailable, err)
	}

	return resp, nil
}

// Ошибки сервиса каталога.
var (
	ErrEmptyQuery         = errors.New("пустой поисковый запрос")
	ErrBookNotFound       = errors.New("книга не найдена")
	ErrRatingsUnavailable = errors.New("сервис рейтингов недоступен")
	ErrNoRatings          = errors.New("у книги пока нет рейтинга")
)
