package ratings_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/adamjdecaria/cs50wproject1/internal/ratings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *ratings.HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return ratings.NewHTTPClient(ratings.Config{BaseURL: srv.URL + "/book/review_counts.json", APIKey: "secret", Timeout: timeout})
}

func TestGetRating(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		expectedCount int64
		expectedAvg   float64
		expectedErr   error
	}{
		{
			name:          "Успешный ответ",
			status:        http.StatusOK,
			body:          `{"books":[{"id":29207858,"isbn":"1632168146","work_ratings_count":28,"average_rating":"4.07"}]}`,
			expectedCount: 28,
			expectedAvg:   4.07,
		},
		{
			name:        "ISBN неизвестен (404)",
			status:      http.StatusNotFound,
			body:        `No books match those ISBNs.`,
			expectedErr: ratings.ErrISBNUnknown,
		},
		{
			name:        "Пустой список книг",
			status:      http.StatusOK,
			body:        `{"books":[]}`,
			expectedErr: ratings.ErrISBNUnknown,
		},
		{
			name:        "Ошибка сервиса",
			status:      http.StatusInternalServerError,
			body:        `oops`,
			expectedErr: ratings.ErrUnavailable,
		},
		{
			name:        "Невалидный JSON",
			status:      http.StatusOK,
			body:        `{"books":[`,
			expectedErr: ratings.ErrUnavailable,
		},
		{
			name:        "Нет полей рейтинга",
			status:      http.StatusOK,
			body:        `{"books":[{"isbn":"1632168146"}]}`,
			expectedErr: ratings.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/book/review_counts.json", r.URL.Path)
				assert.Equal(t, "secret", r.URL.Query().Get("key"))
				assert.Equal(t, "1632168146", r.URL.Query().Get("isbns"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, time.Second)

			rating, err := client.GetRating(context.Background(), "1632168146")

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, rating)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "1632168146", rating.ISBN)
			assert.Equal(t, tt.expectedCount, rating.ReviewCount)
			assert.InDelta(t, tt.expectedAvg, rating.AverageScore, 1e-9)
		})
	}
}

func TestGetRating_Timeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}, 50*time.Millisecond)
	defer close(release)

	start := time.Now()
	rating, err := client.GetRating(context.Background(), "1632168146")

	require.ErrorIs(t, err, ratings.ErrUnavailable)
	assert.Nil(t, rating)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGetRating_ContextCanceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetRating(ctx, "1632168146")
	require.ErrorIs(t, err, ratings.ErrUnavailable)
}

func TestNewHTTPClient_Defaults(t *testing.T) {
	client := ratings.NewHTTPClient(ratings.Config{APIKey: "k"})
	assert.NotNil(t, client)
}
