package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

const (
	maxOpenConns    = 25              // Максимальное количество открытых соединений
	maxIdleConns    = 25              // Максимальное количество простаивающих соединений
	connMaxLifetime = 5 * time.Minute // Максимальное время жизни соединения
	connMaxIdleTime = 5 * time.Minute // Максимальное время простоя соединения
)

// Коды ошибок PostgreSQL.
const (
	pgUniqueViolationCode     = "23505"
	pgForeignKeyViolationCode = "23503"
)

// Внешний ключ reviews.username -> users.username (см. schema.sql).
const reviewsUserFK = "reviews_username_fkey"

//go:embed schema.sql
var schemaSQL string

// NewPostgresDB создает и возвращает новый пул соединений с PostgreSQL.
func NewPostgresDB(dsn string) (*sqlx.DB, error) {
	log.Printf("Подключение к PostgreSQL...")

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	// Проверка соединения
	if err = db.Ping(); err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			log.Warnf("Ошибка закрытия соединения с БД после неудачного пинга: %v", closeErr)
		}
		return nil, fmt.Errorf("ошибка проверки соединения с БД (ping): %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	log.Println("Подключение к PostgreSQL успешно установлено.")
	return db, nil
}

// EnsureSchema создает таблицы users, books и reviews, если их еще нет.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ошибка создания схемы БД: %w", err)
	}
	log.Println("Схема БД проверена.")
	return nil
}

// Schema возвращает DDL схемы.
func Schema() string {
	return schemaSQL
}

// hasPgCode сообщает, что err - ошибка PostgreSQL с указанным кодом.
func hasPgCode(err error, code string) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && string(pgErr.Code) == code
}

// pgConstraint возвращает имя нарушенного ограничения или пустую строку.
func pgConstraint(err error) string {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Constraint
	}
	return ""
}
