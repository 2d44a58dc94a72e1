package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/canteenpulse/internal/domain/models"
)

// RatingFinder reads ratings of one canteen created in [start, end).
type RatingFinder interface {
	FindRatings(ctx context.Context, canteenID string, start, end time.Time) ([]models.Rating, error)
}

// Engine computes weekly reports from the rating store.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	ratings RatingFinder
}

// NewEngine returns an Engine reading from ratings.
func NewEngine(ratings RatingFinder) *Engine {
	return &Engine{ratings: ratings}
}

// Aggregate loads the window's ratings for canteenID and computes the report.
//
// An empty canteenID fails with ErrInvalidArgument without touching the store,
// since an empty filter would silently aggregate every canteen. Store failures
// are wrapped in ErrStoreUnavailable and no partial report is returned.
func (e *Engine) Aggregate(ctx context.Context, canteenID string, window Window) (*models.WeeklyReport, error) {
	canteenID = strings.TrimSpace(canteenID)
	if canteenID == "" {
		return nil, fmt.Errorf("%w: canteenId is required", ErrInvalidArgument)
	}

	ratings, err := e.ratings.FindRatings(ctx, canteenID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("%w: find ratings: %w", ErrStoreUnavailable, err)
	}

	rep, err := Compute(canteenID, window, ratings)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}
