package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher хеширует и проверяет пароли.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

var _ PasswordHasher = bcryptHasher{}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher создает PasswordHasher на bcrypt с заданной стоимостью.
func NewBcryptHasher(cost int) PasswordHasher {
	return bcryptHasher{cost: cost}
}

func (h bcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("ошибка хеширования пароля: %w", err)
	}
	return string(hashed), nil
}

func (h bcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
