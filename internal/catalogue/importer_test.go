package catalogue_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/adamjdecaria/cs50wproject1/internal/catalogue"
	"github.com/adamjdecaria/cs50wproject1/internal/mocks"
	"github.com/adamjdecaria/cs50wproject1/internal/repository/memstore"
	"github.com/adamjdecaria/cs50wproject1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		expectedBooks   []models.Book
		expectedSkipped int
		expectedError   error
	}{
		{
			name:  "Корректный файл",
			input: "isbn,title,author,year\n0141439580,Emma,Jane Austen,1815\n0553213105,\"Persuasion\",Jane Austen,1817\n",
			expectedBooks: []models.Book{
				{ISBN: "0141439580", Title: "Emma", Author: "Jane Austen", Year: 1815},
				{ISBN: "0553213105", Title: "Persuasion", Author: "Jane Austen", Year: 1817},
			},
		},
		{
			name: "Некорректные строки пропускаются",
			input: "\ufeffisbn,title,author,year\n" +
				"0141439580,Emma,Jane Austen,1815\n" +
				",No ISBN,Someone,2000\n" +
				"123,Bad Year,Someone,soon\n" +
				"456,Too,Few\n",
			expectedBooks:   []models.Book{{ISBN: "0141439580", Title: "Emma", Author: "Jane Austen", Year: 1815}},
			expectedSkipped: 3,
		},
		{
			name:          "Пустой файл",
			input:         "",
			expectedError: catalogue.ErrEmptyFile,
		},
		{
			name:          "Чужой заголовок",
			input:         "id,name\n1,x\n",
			expectedError: catalogue.ErrBadHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, skipped, err := catalogue.Parse(strings.NewReader(tt.input))
			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedBooks, books)
			assert.Equal(t, tt.expectedSkipped, skipped)
		})
	}
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	input := "isbn,title,author,year\n0141439580,Emma,Jane Austen,1815\nbad,row\n"

	t.Run("Повторный импорт не дублирует книги", func(t *testing.T) {
		store := memstore.New()

		res, err := catalogue.Import(ctx, store, strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, &catalogue.Result{Read: 1, Skipped: 1, Inserted: 1}, res)

		res, err = catalogue.Import(ctx, store, strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.Inserted)

		book, err := store.GetBookByISBN(ctx, "0141439580")
		require.NoError(t, err)
		assert.Equal(t, "Emma", book.Title)
	})

	t.Run("Ошибка хранилища", func(t *testing.T) {
		repo := new(mocks.BookRepository)
		repo.On("ImportBooks", ctx, mock.Anything).Return(int64(0), errors.New("db down")).Once()

		_, err := catalogue.Import(ctx, repo, strings.NewReader(input))
		require.Error(t, err)
		repo.AssertExpectations(t)
	})
}
