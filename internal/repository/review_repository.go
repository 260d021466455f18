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

// ReviewRepository определяет методы для работы с отзывами.
type ReviewRepository interface {
	ListByISBN(ctx context.Context, isbn string) ([]models.Review, error)
	Exists(ctx context.Context, isbn, username string) (bool, error)
	CreateReview(ctx context.Context, review *models.Review) error
}

// postgresReviewRepository реализует ReviewRepository для PostgreSQL.
type postgresReviewRepository struct {
	db *sqlx.DB
}

// NewPostgresReviewRepository создает новый экземпляр репозитория отзывов.
func NewPostgresReviewRepository(db *sqlx.DB) ReviewRepository {
	return &postgresReviewRepository{db: db}
}

// ListByISBN возвращает все отзывы для точного ISBN, старые первыми.
func (r *postgresReviewRepository) ListByISBN(ctx context.Context, isbn string) ([]models.Review, error) {
	query := `SELECT isbn, username, review, score, created_at FROM reviews WHERE isbn=$1 ORDER BY created_at`

	reviews := make([]models.Review, 0)
	if err := r.db.SelectContext(ctx, &reviews, query, isbn); err != nil {
		log.Errorf("[ReviewRepo] Ошибка получения отзывов для '%s': %v", isbn, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение отзывов: %w", err)
	}

	log.Printf("[ReviewRepo] Для '%s' найдено %d отзывов", isbn, len(reviews))
	return reviews, nil
}

// Exists проверяет, оставлял ли пользователь отзыв на книгу.
// Это лишь быстрая подсказка: гарантию уникальности дает первичный ключ (isbn, username).
func (r *postgresReviewRepository) Exists(ctx context.Context, isbn, username string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reviews WHERE isbn=$1 AND username=$2)`
	var exists bool

	if err := r.db.GetContext(ctx, &exists, query, isbn, username); err != nil {
		log.Errorf("[ReviewRepo] Ошибка проверки отзыва '%s'/'%s': %v", isbn, username, err)
		return false, fmt.Errorf("ошибка выполнения запроса проверки отзыва: %w", err)
	}
	return exists, nil
}

// CreateReview сохраняет отзыв в транзакции.
// Нарушение первичного ключа превращается в ErrReviewExists,
// нарушение внешнего ключа на users - в ErrUnknownUser, на books - в ErrUnknownBook.
func (r *postgresReviewRepository) CreateReview(ctx context.Context, review *models.Review) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Warnf("[ReviewRepo] Ошибка отката транзакции: %v", rbErr)
		}
	}()

	query := `INSERT INTO reviews (isbn, username, review, score) VALUES ($1, $2, $3, $4) RETURNING created_at`
	err = tx.QueryRowxContext(ctx, query, review.ISBN, review.Username, review.Review, review.Score).
		Scan(&review.CreatedAt)
	if err != nil {
		return mapReviewInsertError(review, err)
	}

	if err = tx.Commit(); err != nil {
		log.Errorf("[ReviewRepo] Ошибка фиксации отзыва '%s'/'%s': %v", review.ISBN, review.Username, err)
		return fmt.Errorf("ошибка фиксации транзакции отзыва: %w", err)
	}

	log.Printf("[ReviewRepo] Отзыв пользователя '%s' на '%s' сохранен", review.Username, review.ISBN)
	return nil
}

func mapReviewInsertError(review *models.Review, err error) error {
	switch {
	case hasPgCode(err, pgUniqueViolationCode):
		log.Printf("[ReviewRepo] Пользователь '%s' уже оставил отзыв на '%s'", review.Username, review.ISBN)
		return ErrReviewExists
	case hasPgCode(err, pgForeignKeyViolationCode) && pgConstraint(err) == reviewsUserFK:
		log.Printf("[ReviewRepo] Отзыв от несуществующего пользователя '%s'", review.Username)
		return ErrUnknownUser
	case hasPgCode(err, pgForeignKeyViolationCode):
		log.Printf("[ReviewRepo] Отзыв на неизвестную книгу '%s'", review.ISBN)
		return ErrUnknownBook
	default:
		log.Errorf("[ReviewRepo] Непредвиденная ошибка при сохранении отзыва '%s'/'%s': %v",
			review.ISBN, review.Username, err)
		return fmt.Errorf("ошибка выполнения запроса на создание отзыва: %w", err)
	}
}

// Кастомные ошибки репозитория отзывов.
var (
	ErrReviewExists = errors.New("отзыв на эту книгу уже существует")
	ErrUnknownBook  = errors.New("книга для отзыва не существует")
	ErrUnknownUser  = errors.New("автор отзыва не существует")
)
