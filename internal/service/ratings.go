package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/canteenpulse/internal/domain/models"
	"github.com/guttosm/canteenpulse/internal/logger"
	"github.com/guttosm/canteenpulse/internal/metrics"
	"github.com/guttosm/canteenpulse/internal/report"
	"github.com/guttosm/canteenpulse/internal/storage"
)

// MaxRecentRatings caps the recent ratings listing.
const MaxRecentRatings = 200

// RatingService handles rating submission and listing.
type RatingService interface {
	SubmitRating(ctx context.Context, r models.Rating) (string, error)
	ListRecent(ctx context.Context, limit int) ([]models.Rating, error)
}

type ratingService struct {
	store   storage.RatingStore
	metrics *metrics.Manager
	now     func() time.Time
}

// NewRatingService returns a RatingService over store. m may be nil.
func NewRatingService(store storage.RatingStore, m *metrics.Manager) RatingService {
	return &ratingService{
		store:   store,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SubmitRating stamps createdAt with the server clock and stores r.
// A missing userHash is derived from userId so that the one-rating-per-meal
// rule still applies to identified users.
func (s *ratingService) SubmitRating(ctx context.Context, r models.Rating) (string, error) {
	r.MealID = strings.TrimSpace(r.MealID)
	r.CanteenID = strings.TrimSpace(r.CanteenID)
	if r.MealID == "" || r.CanteenID == "" {
		return "", fmt.Errorf("%w: mealId and canteenId are required", report.ErrInvalidArgument)
	}
	r.DeriveUserHash()
	r.CreatedAt = s.now()

	id, err := s.store.InsertRating(ctx, r)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateRating) {
			return "", err
		}
		logger.L().Error().Err(err).Str("meal_id", r.MealID).Msg("insert rating failed")
		return "", fmt.Errorf("%w: insert rating: %w", report.ErrStoreUnavailable, err)
	}

	s.metrics.RecordRatingSubmitted()
	logger.L().Debug().Str("rating_id", id).Str("meal_id", r.MealID).Str("canteen_id", r.CanteenID).Msg("rating stored")
	return id, nil
}

// ListRecent returns the newest ratings. Non-positive or oversized limits
// fall back to MaxRecentRatings.
func (s *ratingService) ListRecent(ctx context.Context, limit int) ([]models.Rating, error) {
	if limit <= 0 || limit > MaxRecentRatings {
		limit = MaxRecentRatings
	}
	out, err := s.store.ListRecentRatings(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list ratings: %w", report.ErrStoreUnavailable, err)
	}
	return out, nil
}
