package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/adamjdecaria/cs50wproject1/models"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// UserRepository хранит учетные записи читателей.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

const (
	insertUserQuery = `INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	selectUserQuery = `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`
)

type postgresUserRepository struct {
	db *sqlx.DB
}

// NewPostgresUserRepository возвращает UserRepository поверх PostgreSQL.
func NewPostgresUserRepository(db *sqlx.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

// CreateUser добавляет читателя и заполняет user.ID и user.CreatedAt.
// Имя уже занято - ErrUsernameTaken (решает ограничение UNIQUE, а не предварительная проверка).
func (r *postgresUserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	row := r.db.QueryRowxContext(ctx, insertUserQuery, user.Username, user.PasswordHash)
	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		if hasPgCode(err, pgUniqueViolationCode) {
			log.Printf("[UserRepo] Имя '%s' уже занято", user.Username)
			return 0, ErrUsernameTaken
		}
		log.Errorf("[UserRepo] Не удалось создать читателя '%s': %v", user.Username, err)
		return 0, fmt.Errorf("ошибка выполнения запроса на создание пользователя: %w", err)
	}

	log.Printf("[UserRepo] Читатель '%s' создан (ID %d)", user.Username, user.ID)
	return user.ID, nil
}

// GetUserByUsername ищет читателя по точному имени (с учетом регистра, без шаблонов).
func (r *postgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := new(models.User)
	err := r.db.GetContext(ctx, user, selectUserQuery, username)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrUserNotFound
	case err != nil:
		log.Errorf("[UserRepo] Не удалось прочитать читателя '%s': %v", username, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение пользователя: %w", err)
	}
	return user, nil
}

// Ошибки репозитория пользователей.
var (
	ErrUserNotFound  = errors.New("пользователь не найден")
	ErrUsernameTaken = errors.New("имя пользователя уже занято")
)
