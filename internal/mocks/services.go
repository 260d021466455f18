package mocks

import (
	"context"

	"github.com/adamjdecaria/cs50wproject1/internal/services"
	"github.com/adamjdecaria/cs50wproject1/models"
	"github.com/stretchr/testify/mock"
)

// AuthService - мок services.AuthService.
type AuthService struct {
	mock.Mock
}

var _ services.AuthService = (*AuthService)(nil)

func (m *AuthService) Register(ctx context.Context, req models.RegisterRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

// CatalogueService - мок services.CatalogueService.
type CatalogueService struct {
	mock.Mock
}

var _ services.CatalogueService = (*CatalogueService)(nil)

func (m *CatalogueService) Search(ctx context.Context, q models.SearchQuery) ([]models.Book, error) {
	args := m.Called(ctx, q)
	books, _ := args.Get(0).([]models.Book)
	return books, args.Error(1)
}

func (m *CatalogueService) Detail(ctx context.Context, isbn string) (*models.BookDetail, error) {
	args := m.Called(ctx, isbn)
	detail, _ := args.Get(0).(*models.BookDetail)
	return detail, args.Error(1)
}

func (m *CatalogueService) Lookup(ctx context.Context, isbn string) (*models.APIBook, error) {
	args := m.Called(ctx, isbn)
	book, _ := args.Get(0).(*models.APIBook)
	return book, args.Error(1)
}

// ReviewService - мок services.ReviewService.
type ReviewService struct {
	mock.Mock
}

var _ services.ReviewService = (*ReviewService)(nil)

func (m *ReviewService) Submit(ctx context.Context, req models.ReviewRequest) (*models.BookDetail, error) {
	args := m.Called(ctx, req)
	detail, _ := args.Get(0).(*models.BookDetail)
	return detail, args.Error(1)
}
