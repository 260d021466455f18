package mocks

import (
	"github.com/adamjdecaria/cs50wproject1/internal/services"
	"github.com/stretchr/testify/mock"
)

// PasswordHasher - мок services.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

var _ services.PasswordHasher = (*PasswordHasher)(nil)

func (m *PasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}
