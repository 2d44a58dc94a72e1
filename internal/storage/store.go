package storage

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/canteenpulse/internal/domain/models"
)

var (
	// ErrNotFound is returned when a keyed lookup matches nothing.
	ErrNotFound = errors.New("storage: not found")

	// ErrDuplicateRating is returned when a non-anonymous user rates the same meal twice.
	ErrDuplicateRating = errors.New("storage: rating already exists for this user and meal")
)

// RatingStore is the append-only collection of ratings.
type RatingStore interface {
	// FindRatings returns the ratings of canteenID created in [start, end),
	// oldest first.
	FindRatings(ctx context.Context, canteenID string, start, end time.Time) ([]models.Rating, error)
	InsertRating(ctx context.Context, r models.Rating) (string, error)
	// ListRecentRatings returns up to limit ratings, newest first.
	ListRecentRatings(ctx context.Context, limit int) ([]models.Rating, error)
}

// ReportStore keeps materialized weekly reports keyed by (canteenId, weekStart).
type ReportStore interface {
	UpsertWeeklyReport(ctx context.Context, rep models.WeeklyReport, lastUpdated time.Time) error
	GetWeeklyReport(ctx context.Context, canteenID, weekStart string) (*models.StoredWeeklyReport, error)
}

// RatingImporter loads whole rating files and remembers which were imported.
type RatingImporter interface {
	HasImport(ctx context.Context, filename string) (bool, error)
	// ImportFile replaces the ratings previously loaded from filename with rs
	// and records the import. Either all of it is stored or none of it is.
	ImportFile(ctx context.Context, filename string, rs []models.Rating) error
}

// Store is a full backend: ratings, reports, import log and lifecycle hooks.
type Store interface {
	RatingStore
	ReportStore
	RatingImporter

	// EnsureIndexes creates the lookup and uniqueness indexes. Safe to re-run.
	EnsureIndexes(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
