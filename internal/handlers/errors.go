package handlers

import (
	"errors"
	"net/http"

	"github.com/adamjdecaria/cs50wproject1/internal/services"
)

// Сообщения, которые видит пользователь.
const (
	msgUsernameTaken      = "That username is taken. Please choose another."
	msgInvalidCredentials = "Invalid username and/or password"
	msgEmptyQuery         = "Please provide an ISBN, a title or an author."
	msgNotFound           = "Unable to find anything."
	msgAlreadyReviewed    = "You have already reviewed this book."
	msgStoreUnavailable   = "The catalogue is temporarily unavailable."
	msgRatingsUnavailable = "Ratings are currently unavailable."
	msgNoRatings          = "No ratings yet."
	msgInternal           = "Something went wrong. Please try again."

	msgRegistered      = "Registered!"
	msgLoggedIn        = "Logged in!"
	msgLoggedOut       = "Logged out!"
	msgReviewSubmitted = "Review submitted!"
	msgReviewNoPage    = "Your review was saved, but the book page could not be loaded."
)

// describeError сопоставляет ошибку сервиса со статусом HTTP и текстом.
func describeError(err error) (int, string) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, vErr.Message
	case errors.Is(err, services.ErrEmptyQuery):
		return http.StatusBadRequest, msgEmptyQuery
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, services.ErrBookNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, services.ErrUsernameTaken):
		return http.StatusConflict, msgUsernameTaken
	case errors.Is(err, services.ErrAlreadyReviewed):
		return http.StatusConflict, msgAlreadyReviewed
	case errors.Is(err, services.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, msgStoreUnavailable
	case errors.Is(err, services.ErrRatingsUnavailable):
		return http.StatusServiceUnavailable, msgRatingsUnavailable
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// ratingNotice возвращает пояснение к странице книги без рейтинга.
func ratingNotice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, services.ErrNoRatings):
		return msgNoRatings
	default:
		return msgRatingsUnavailable
	}
}
