// Package catalogue загружает каталог книг из CSV в хранилище.
package catalogue

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/adamjdecaria/cs50wproject1/internal/repository"
	"github.com/adamjdecaria/cs50wproject1/models"
	log "github.com/sirupsen/logrus"
)

var expectedHeader = []string{"isbn", "title", "author", "year"}

// Result - итог импорта.
type Result struct {
	Read     int   // Корректных строк в файле
	Skipped  int   // Пропущенных некорректных строк
	Inserted int64 // Новых книг в хранилище
}

// Parse читает CSV с заголовком isbn,title,author,year.
// Строки с неверным числом колонок, пустым ISBN или нечисловым годом
// пропускаются и учитываются в skipped.
func Parse(r io.Reader) ([]models.Book, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, ErrEmptyFile
		}
		return nil, 0, fmt.Errorf("ошибка чтения заголовка CSV: %w", err)
	}
	if !validHeader(header) {
		return nil, 0, fmt.Errorf("%w: %v", ErrBadHeader, header)
	}

	books := make([]models.Book, 0)
	skipped := 0
	line := 1
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		line++
		if readErr != nil {
			var parseErr *csv.ParseError
			if errors.As(readErr, &parseErr) {
				log.Warnf("[Catalogue] Строка %d пропущена: %v", line, readErr)
				skipped++
				continue
			}
			return nil, skipped, fmt.Errorf("ошибка чтения CSV: %w", readErr)
		}

		book, ok := parseRecord(record)
		if !ok {
			log.Warnf("[Catalogue] Строка %d пропущена: %q", line, record)
			skipped++
			continue
		}
		books = append(books, book)
	}
	return books, skipped, nil
}

func validHeader(header []string) bool {
	if len(header) != len(expectedHeader) {
		return false
	}
	for i, h := range header {
		// Первая колонка может начинаться с BOM
		if strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) != expectedHeader[i] {
			return false
		}
	}
	return true
}

func parseRecord(record []string) (models.Book, bool) {
	if len(record) != len(expectedHeader) {
		return models.Book{}, false
	}
	isbn := strings.TrimSpace(record[0])
	if isbn == "" {
		return models.Book{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil {
		return models.Book{}, false
	}
	return models.Book{
		ISBN:   isbn,
		Title:  strings.TrimSpace(record[1]),
		Author: strings.TrimSpace(record[2]),
		Year:   year,
	}, true
}

// Import разбирает CSV и добавляет новые книги одной транзакцией.
// Уже существующие ISBN не перезаписываются.
func Import(ctx context.Context, repo repository.BookRepository, r io.Reader) (*Result, error) {
	books, skipped, err := Parse(r)
	if err != nil {
		return nil, err
	}

	inserted, err := repo.ImportBooks(ctx, books)
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения каталога: %w", err)
	}

	res := &Result{Read: len(books), Skipped: skipped, Inserted: inserted}
	log.Printf("[Catalogue] Импорт завершен: прочитано %d, пропущено %d, добавлено %d",
		res.Read, res.Skipped, res.Inserted)
	return res, nil
}

// Ошибки импорта.
var (
	ErrEmptyFile = errors.New("пустой файл каталога")
	ErrBadHeader = errors.New("неожиданный заголовок CSV")
)
