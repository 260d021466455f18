// Package memstore - хранилище в памяти с теми же ограничениями, что и схема
// PostgreSQL: уникальное имя пользователя, внешние ключи отзывов и первичный
// ключ (isbn, username). Используется в тестах сервисов и обработчиков.
package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/adamjdecaria/cs50wproject1/internal/repository"
	"github.com/adamjdecaria/cs50wproject1/models"
)

type reviewKey struct {
	isbn     string
	username string
}

// Store реализует UserRepository, BookRepository и ReviewRepository.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	users   map[string]models.User
	books   map[string]models.Book
	reviews map[reviewKey]models.Review
	order   []reviewKey
}

var (
	_ repository.UserRepository   = (*Store)(nil)
	_ repository.BookRepository   = (*Store)(nil)
	_ repository.ReviewRepository = (*Store)(nil)
)

// New создает пустое хранилище.
func New() *Store {
	return &Store{
		users:   make(map[string]models.User),
		books:   make(map[string]models.Book),
		reviews: make(map[reviewKey]models.Review),
	}
}

func (s *Store) CreateUser(_ context.Context, user *models.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return 0, repository.ErrUsernameTaken
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	s.users[user.Username] = *user
	return user.ID, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

func (s *Store) SearchBooks(_ context.Context, field models.SearchField, query string) ([]models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	books := make([]models.Book, 0)
	for _, b := range s.books {
		var value string
		switch field {
		case models.SearchByISBN:
			value = b.ISBN
		case models.SearchByTitle:
			value = b.Title
		case models.SearchByAuthor:
			value = b.Author
		default:
			return nil, repository.ErrUnknownSearchField
		}
		if strings.Contains(strings.ToLower(value), needle) {
			books = append(books, b)
		}
	}

	slices.SortFunc(books, func(a, b models.Book) int {
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.ISBN, b.ISBN)
	})
	return books, nil
}

func (s *Store) GetBookByISBN(_ context.Context, isbn string) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := s.books[isbn]
	if !ok {
		return nil, repository.ErrBookNotFound
	}
	return &book, nil
}

func (s *Store) ImportBooks(_ context.Context, books []models.Book) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var inserted int64
	for _, b := range books {
		if _, ok := s.books[b.ISBN]; ok {
			continue
		}
		s.books[b.ISBN] = b
		inserted++
	}
	return inserted, nil
}

func (s *Store) ListByISBN(_ context.Context, isbn string) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reviews := make([]models.Review, 0)
	for _, k := range s.order {
		if k.isbn == isbn {
			reviews = append(reviews, s.reviews[k])
		}
	}
	return reviews, nil
}

func (s *Store) Exists(_ context.Context, isbn, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.reviews[reviewKey{isbn: isbn, username: username}]
	return ok, nil
}

func (s *Store) CreateReview(_ context.Context, review *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[review.ISBN]; !ok {
		return repository.ErrUnknownBook
	}
	if _, ok := s.users[review.Username]; !ok {
		return repository.ErrUnknownUser
	}

	key := reviewKey{isbn: review.ISBN, username: review.Username}
	if _, ok := s.reviews[key]; ok {
		return repository.ErrReviewExists
	}
	review.CreatedAt = time.Now()
	s.reviews[key] = *review
	s.order = append(s.order, key)
	return nil
}

// ReviewCount возвращает общее число отзывов.
func (s *Store) ReviewCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews)
}
