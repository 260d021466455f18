// Package mocks содержит testify-моки интерфейсов репозиториев, сервисов и
// клиента рейтингов.
package mocks

import (
	"context"

	"github.com/adamjdecaria/cs50wproject1/internal/repository"
	"github.com/adamjdecaria/cs50wproject1/models"
	"github.com/stretchr/testify/mock"
)

// UserRepository - мок repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

// BookRepository - мок repository.BookRepository.
type BookRepository struct {
	mock.Mock
}

var _ repository.BookRepository = (*BookRepository)(nil)

func (m *BookRepository) SearchBooks(
	ctx context.Context, field models.SearchField, query string,
) ([]models.Book, error) {
	args := m.Called(ctx, field, query)
	books, _ := args.Get(0).([]models.Book)
	return books, args.Error(1)
}

func (m *BookRepository) GetBookByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	args := m.Called(ctx, isbn)
	book, _ := args.Get(0).(*models.Book)
	return book, args.Error(1)
}

func (m *BookRepository) ImportBooks(ctx context.Context, books []models.Book) (int64, error) {
	args := m.Called(ctx, books)
	return args.Get(0).(int64), args.Error(1)
}

// ReviewRepository - мок repository.ReviewRepository.
type ReviewRepository struct {
	mock.Mock
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

func (m *ReviewRepository) ListByISBN(ctx context.Context, isbn string) ([]models.Review, error) {
	args := m.Called(ctx, isbn)
	reviews, _ := args.Get(0).([]models.Review)
	return reviews, args.Error(1)
}

func (m *ReviewRepository) Exists(ctx context.Context, isbn, username string) (bool, error) {
	args := m.Called(ctx, isbn, username)
	return args.Bool(0), args.Error(1)
}

func (m *ReviewRepository) CreateReview(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}
