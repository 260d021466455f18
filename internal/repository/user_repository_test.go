package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/adamjdecaria/cs50wproject1/internal/repository"
	"github.com/adamjdecaria/cs50wproject1/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	insertUserSQL = regexp.QuoteMeta(`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id, created_at`)
	selectUserSQL = regexp.QuoteMeta(`SELECT id, username, password_hash, created_at FROM users WHERE username = $1`)
)

func newUserRepo(t *testing.T) (repository.UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewPostgresUserRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestUserRepository_CreateUser(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		username  string
		dbErr     error
		wantID    int64
		wantErrIs error
		wantText  string
	}{
		{name: "Новый читатель получает ID и дату", username: "jane_austen", wantID: 42},
		{
			name:      "Нарушение UNIQUE по имени",
			username:  "jane_austen",
			dbErr:     &pq.Error{Code: "23505", Constraint: "users_username_key"},
			wantErrIs: repository.ErrUsernameTaken,
		},
		{
			name:      "Обернутая ошибка уникальности тоже распознается",
			username:  "emma",
			dbErr:     fmt.Errorf("driver: %w", &pq.Error{Code: "23505"}),
			wantErrIs: repository.ErrUsernameTaken,
		},
		{
			name:     "Другой код PostgreSQL не считается занятым именем",
			username: "emma",
			dbErr:    &pq.Error{Code: "23502", Column: "password_hash"},
			wantText: "ошибка выполнения запроса на создание пользователя",
		},
		{
			name:      "Обрыв соединения пробрасывается обернутым",
			username:  "emma",
			dbErr:     sql.ErrConnDone,
			wantErrIs: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newUserRepo(t)
			user := &models.User{Username: tt.username, PasswordHash: "$2a$04$hash"}

			q := mock.ExpectQuery(insertUserSQL).WithArgs(tt.username, user.PasswordHash)
			if tt.dbErr != nil {
				q.WillReturnError(tt.dbErr)
			} else {
				q.WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(tt.wantID, created))
			}

			id, err := repo.CreateUser(context.Background(), user)

			switch {
			case tt.wantErrIs != nil:
				require.ErrorIs(t, err, tt.wantErrIs)
				assert.Zero(t, id)
			case tt.wantText != "":
				require.Error(t, err)
				assert.NotErrorIs(t, err, repository.ErrUsernameTaken)
				assert.Contains(t, err.Error(), tt.wantText)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
				assert.Equal(t, tt.wantID, user.ID)
				assert.Equal(t, created, user.CreatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetUserByUsername(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	columns := []string{"id", "username", "password_hash", "created_at"}

	t.Run("Имя с символами шаблонов LIKE передается как есть", func(t *testing.T) {
		repo, mock := newUserRepo(t)
		mock.ExpectQuery(selectUserSQL).WithArgs(`a_b%c\`).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(7), `a_b%c\`, "h", created))

		user, err := repo.GetUserByUsername(context.Background(), `a_b%c\`)
		require.NoError(t, err)
		assert.Equal(t, &models.User{ID: 7, Username: `a_b%c\`, PasswordHash: "h", CreatedAt: created}, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Регистр имени не приводится", func(t *testing.T) {
		repo, mock := newUserRepo(t)
		mock.ExpectQuery(selectUserSQL).WithArgs("Emma").WillReturnError(sql.ErrNoRows)

		user, err := repo.GetUserByUsername(context.Background(), "Emma")
		require.ErrorIs(t, err, repository.ErrUserNotFound)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Отмена контекста не превращается в отсутствие пользователя", func(t *testing.T) {
		repo, mock := newUserRepo(t)
		mock.ExpectQuery(selectUserSQL).WithArgs("emma").WillReturnError(context.Canceled)

		user, err := repo.GetUserByUsername(context.Background(), "emma")
		require.ErrorIs(t, err, context.Canceled)
		assert.False(t, errors.Is(err, repository.ErrUserNotFound))
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
