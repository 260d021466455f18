package models

// Book представляет книгу каталога. Приложение только читает эту таблицу.
type Book struct {
	ISBN   string `db:"isbn" json:"isbn"`
	Title  string `db:"title" json:"title"`
	Author string `db:"author" json:"author"`
	Year   int    `db:"year" json:"year"`
}

// SearchField определяет колонку, по которой ведется поиск.
type SearchField string

const (
	SearchByISBN   SearchField = "isbn"
	SearchByTitle  SearchField = "title"
	SearchByAuthor SearchField = "author"
)

// SearchQuery содержит поля формы поиска. Используется первое непустое
// поле в порядке ISBN, Title, Author.
type SearchQuery struct {
	ISBN   string
	Title  string
	Author string
}

// Rating - агрегированные данные стороннего сервиса рейтингов.
type Rating struct {
	ISBN         string  `json:"isbn"`
	ReviewCount  int64   `json:"review_count"`
	AverageScore float64 `json:"average_score"`
}

// BookDetail собирает три независимых чтения в одну страницу.
// RatingErr заполняется, если удаленный сервис не ответил: страница
// все равно отображается без рейтинга. LoadErr заполняется, если после
// успешной записи отзыва страницу не удалось собрать заново.
type BookDetail struct {
	ISBN      string
	Books     []Book
	Reviews   []Review
	Rating    *Rating
	RatingErr error
	LoadErr   error
}

// APIBook - тело ответа публичного JSON-эндпоинта.
type APIBook struct {
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	Year         int     `json:"year"`
	ISBN         string  `json:"isbn"`
	ReviewCount  int64   `json:"review_count"`
	AverageScore float64 `json:"average_score"`
}
