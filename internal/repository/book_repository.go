package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/adamjdecaria/cs50wproject1/models"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// BookRepository определяет методы чтения каталога книг.
type BookRepository interface {
	SearchBooks(ctx context.Context, field models.SearchField, query string) ([]models.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (*models.Book, error)
	ImportBooks(ctx context.Context, books []models.Book) (int64, error)
}

// postgresBookRepository реализует BookRepository для PostgreSQL.
type postgresBookRepository struct {
	db *sqlx.DB
}

// NewPostgresBookRepository создает новый экземпляр репозитория книг.
func NewPostgresBookRepository(db *sqlx.DB) BookRepository {
	return &postgresBookRepository{db: db}
}

// Запросы поиска по каждой из колонок. Имя колонки не подставляется из ввода.
var searchQueries = map[models.SearchField]string{
	models.SearchByISBN:   `SELECT DISTINCT isbn, title, author, year FROM books WHERE isbn ILIKE $1 ESCAPE '\' ORDER BY title, isbn`,
	models.SearchByTitle:  `SELECT DISTINCT isbn, title, author, year FROM books WHERE title ILIKE $1 ESCAPE '\' ORDER BY title, isbn`,
	models.SearchByAuthor: `SELECT DISTINCT isbn, title, author, year FROM books WHERE author ILIKE $1 ESCAPE '\' ORDER BY title, isbn`,
}

// likeEscaper экранирует спецсимволы шаблона LIKE.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern строит шаблон ILIKE для поиска подстроки.
func ContainsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// SearchBooks ищет книги по подстроке без учета регистра в указанной колонке.
// Пустой результат не является ошибкой.
func (r *postgresBookRepository) SearchBooks(
	ctx context.Context,
	field models.SearchField,
	query string,
) ([]models.Book, error) {
	sqlQuery, ok := searchQueries[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSearchField, field)
	}

	books := make([]models.Book, 0)
	if err := r.db.SelectContext(ctx, &books, sqlQuery, ContainsPattern(query)); err != nil {
		log.Errorf("[BookRepo] Ошибка поиска книг (%s=%q): %v", field, query, err)
		return nil, fmt.Errorf("ошибка выполнения запроса поиска книг: %w", err)
	}

	log.Printf("[BookRepo] Поиск %s=%q: найдено %d книг", field, query, len(books))
	return books, nil
}

// GetBookByISBN находит книгу по точному ISBN.
func (r *postgresBookRepository) GetBookByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	query := `SELECT isbn, title, author, year FROM books WHERE isbn=$1`
	var book models.Book

	err := r.db.GetContext(ctx, &book, query, isbn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Printf("[BookRepo] Книга с ISBN '%s' не найдена", isbn)
			return nil, ErrBookNotFound
		}
		log.Errorf("[BookRepo] Ошибка при поиске книги '%s': %v", isbn, err)
		return nil, fmt.Errorf("ошибка выполнения запроса на получение книги: %w", err)
	}

	return &book, nil
}

// ImportBooks добавляет книги одной транзакцией, пропуская уже существующие ISBN.
// Возвращает количество реально вставленных строк.
func (r *postgresBookRepository) ImportBooks(ctx context.Context, books []models.Book) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции импорта: %w", err)
	}
	defer func() {
		// После Commit откат вернет sql.ErrTxDone, это ожидаемо
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Warnf("[BookRepo] Ошибка отката транзакции импорта: %v", rbErr)
		}
	}()

	query := `INSERT INTO books (isbn, title, author, year) VALUES ($1, $2, $3, $4) ON CONFLICT (isbn) DO NOTHING`
	var inserted int64
	for _, b := range books {
		res, execErr := tx.ExecContext(ctx, query, b.ISBN, b.Title, b.Author, b.Year)
		if execErr != nil {
			return 0, fmt.Errorf("ошибка вставки книги '%s': %w", b.ISBN, execErr)
		}
		n, _ := res.RowsAffected()
		inserted += n
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("ошибка фиксации транзакции импорта: %w", err)
	}

	log.Printf("[BookRepo] Импортировано %d из %d книг", inserted, len(books))
	return inserted, nil
}

// Кастомные ошибки репозитория книг.
var (
	ErrBookNotFound       = errors.New("книга не найдена")
	ErrUnknownSearchField = errors.New("неизвестное поле поиска")
)
