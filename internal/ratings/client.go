// Package ratings - клиент стороннего сервиса агрегированных рейтингов книг.
package ratings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/adamjdecaria/cs50wproject1/internal/metrics"
	"github.com/adamjdecaria/cs50wproject1/models"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	// DefaultBaseURL - эндпоинт review_counts сервиса Goodreads.
	DefaultBaseURL = "https://www.goodreads.com/book/review_counts.json"
	DefaultTimeout = 5 * time.Second

	maxBodyBytes = 1 << 20
)

// Client определяет интерфейс получения рейтинга по ISBN.
type Client interface {
	GetRating(ctx context.Context, isbn string) (*models.Rating, error)
}

// Config содержит параметры подключения к сервису рейтингов.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPClient реализует Client поверх HTTP GET.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient создает клиент. Таймаут ограничивает весь запрос, включая чтение тела.
func NewHTTPClient(cfg Config) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &HTTPClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
	}
}

// GetRating запрашивает количество оценок и средний балл для точного ISBN.
// ErrISBNUnknown - сервис не знает ISBN, ErrUnavailable - любой сбой сервиса или сети.
func (c *HTTPClient) GetRating(ctx context.Context, isbn string) (*models.Rating, error) {
	start := time.Now()
	rating, err := c.fetch(ctx, isbn)

	outcome := metrics.RatingsOK
	switch {
	case errors.Is(err, ErrISBNUnknown):
		outcome = metrics.RatingsUnknownISBN
	case err != nil:
		outcome = metrics.RatingsUnavailable
	}
	metrics.ObserveRatingsCall(outcome, time.Since(start))

	return rating, err
}

func (c *HTTPClient) fetch(ctx context.Context, isbn string) (*models.Rating, error) {
	reqURL, err := c.requestURL(isbn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка создания запроса: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warnf("[Ratings] Сервис рейтингов недоступен для '%s': %v", isbn, err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warnf("[Ratings] Ошибка закрытия тела ответа: %v", closeErr)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка чтения ответа: %w", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnprocessableEntity:
		log.Printf("[Ratings] Сервис не знает ISBN '%s' (статус %d)", isbn, resp.StatusCode)
		return nil, ErrISBNUnknown
	case resp.StatusCode != http.StatusOK:
		log.Warnf("[Ratings] Неожиданный статус %d для '%s'", resp.StatusCode, isbn)
		return nil, fmt.Errorf("%w: статус %d", ErrUnavailable, resp.StatusCode)
	}

	return parseRating(isbn, body)
}

func (c *HTTPClient) requestURL(isbn string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("некорректный адрес сервиса рейтингов: %w", err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	q.Set("isbns", isbn)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// parseRating разбирает ответ вида {"books":[{"isbn":..,"work_ratings_count":..,"average_rating":"3.9"}]}.
func parseRating(isbn string, body []byte) (*models.Rating, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: ответ не является JSON", ErrUnavailable)
	}

	book := gjson.GetBytes(body, "books.0")
	if !book.Exists() {
		return nil, ErrISBNUnknown
	}

	count := book.Get("work_ratings_count")
	avg := book.Get("average_rating")
	if !count.Exists() || !avg.Exists() {
		return nil, fmt.Errorf("%w: в ответе нет полей рейтинга", ErrUnavailable)
	}

	// average_rating приходит строкой, gjson разбирает ее как число
	return &models.Rating{
		ISBN:         isbn,
		ReviewCount:  count.Int(),
		AverageScore: avg.Float(),
	}, nil
}

// Ошибки клиента рейтингов.
var (
	ErrISBNUnknown = errors.New("сервис рейтингов не знает этот ISBN")
	ErrUnavailable = errors.New("сервис рейтингов недоступен")
)
