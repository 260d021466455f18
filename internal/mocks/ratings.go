package mocks

import (
	"context"

	"github.com/adamjdecaria/cs50wproject1/internal/ratings"
	"github.com/adamjdecaria/cs50wproject1/models"
	"github.com/stretchr/testify/mock"
)

// RatingsClient - мок ratings.Client.
type RatingsClient struct {
	mock.Mock
}

var _ ratings.Client = (*RatingsClient)(nil)

func (m *RatingsClient) GetRating(ctx context.Context, isbn string) (*models.Rating, error) {
	args := m.Called(ctx, isbn)
	rating, _ := args.Get(0).(*models.Rating)
	return rating, args.Error(1)
}
