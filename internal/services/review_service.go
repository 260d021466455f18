package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/adamjdecaria/cs50wproject1/internal/metrics"
	"github.com/adamjdecaria/cs50wproject1/internal/repository"
	"github.com/adamjdecaria/cs50wproject1/models"
	log "github.com/sirupsen/logrus"
)

// ReviewService определяет операции с отзывами.
type ReviewService interface {
	Submit(ctx context.Context, req models.ReviewRequest) (*models.BookDetail, error)
}

var _ ReviewService = (*reviewService)(nil)

type reviewService struct {
	reviewRepo repository.ReviewRepository
	catalogue  CatalogueService
}

// NewReviewService создает сервис отзывов.
func NewReviewService(reviewRepo repository.ReviewRepository, catalogue CatalogueService) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, catalogue: catalogue}
}

// Submit сохраняет отзыв и заново собирает страницу книги.
// Ошибка возвращается только если отзыв не записан. Если запись прошла,
// а страницу собрать не удалось, причина лежит в BookDetail.LoadErr.
func (s *reviewService) Submit(ctx context.Context, req models.ReviewRequest) (*models.BookDetail, error) {
	review, err := parseReview(req)
	if err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.Exists(ctx, review.ISBN, review.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if exists {
		log.Printf("[ReviewService] Повторный отзыв '%s' на '%s' отклонен", review.Username, review.ISBN)
		return nil, ErrAlreadyReviewed
	}

	if err = s.reviewRepo.CreateReview(ctx, review); err != nil {
		switch {
		case errors.Is(err, repository.ErrReviewExists):
			return nil, ErrAlreadyReviewed
		case errors.Is(err, repository.ErrUnknownBook):
			return nil, ErrBookNotFound
		case errors.Is(err, repository.ErrUnknownUser):
			log.Warnf("[ReviewService] Сессия ссылается на удаленного пользователя '%s'", review.Username)
			return nil, ErrUnknownReviewer
		default:
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
	}
	metrics.ReviewCreated()
	log.Printf("[ReviewService] Пользователь '%s' оставил отзыв на '%s'", review.Username, review.ISBN)

	detail, err := s.catalogue.Detail(ctx, review.ISBN)
	if err != nil {
		log.Warnf("[ReviewService] Отзыв сохранен, но страницу '%s' собрать не удалось: %v", review.ISBN, err)
		return &models.BookDetail{ISBN: review.ISBN, LoadErr: err}, nil
	}
	return detail, nil
}

func parseReview(req models.ReviewRequest) (*models.Review, error) {
	isbn := strings.TrimSpace(req.ISBN)
	text := strings.TrimSpace(req.Review)

	switch {
	case req.Username == "":
		return nil, invalid("username", "Please log in first.")
	case isbn == "":
		return nil, invalid("isbn", "Missing book ISBN.")
	case text == "":
		return nil, invalid("review", "Please write a review.")
	}

	review := &models.Review{ISBN: isbn, Username: req.Username, Review: text}

	if raw := strings.TrimSpace(req.Score); raw != "" {
		score, err := strconv.Atoi(raw)
		if err != nil || score < models.MinScore || score > models.MaxScore {
			return nil, invalid("score", fmt.Sprintf("Score must be a whole number from %d to %d.",
				models.MinScore, models.MaxScore))
		}
		review.Score = &score
	}
	return review, nil
}

// Ошибки сервиса отзывов.
var (
	ErrAlreadyReviewed = errors.New("пользователь уже оставил отзыв на эту книгу")
	ErrUnknownReviewer = errors.New("пользователь сессии не найден")
)
