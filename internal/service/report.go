package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/canteenpulse/internal/domain/models"
	"github.com/guttosm/canteenpulse/internal/logger"
	"github.com/guttosm/canteenpulse/internal/metrics"
	"github.com/guttosm/canteenpulse/internal/report"
	"github.com/guttosm/canteenpulse/internal/storage"
)

// ReportStore is what the report service needs from persistence.
type ReportStore interface {
	storage.RatingStore
	storage.ReportStore
}

// ReportService defines business logic for weekly canteen reports.
type ReportService interface {
	// ComputeWeeklyReport aggregates ratings live. An empty weekStart means the current week.
	ComputeWeeklyReport(ctx context.Context, canteenID, weekStart string) (*models.WeeklyReport, error)
	// RecomputeAndPersist computes the report and upserts it into the report store.
	RecomputeAndPersist(ctx context.Context, canteenID, weekStart string) (*models.StoredWeeklyReport, error)
	// GetMaterializedReport reads a previously persisted report.
	GetMaterializedReport(ctx context.Context, canteenID, weekStart string) (*models.StoredWeeklyReport, error)
	// RecomputeAll recomputes every canteen's report for the same week with at
	// most parallel concurrent jobs. The first failure cancels the rest.
	RecomputeAll(ctx context.Context, canteenIDs []string, weekStart string, parallel int) error
}

type reportService struct {
	engine       *report.Engine
	materializer *report.Materializer
	reports      storage.ReportStore
	metrics      *metrics.Manager
	now          func() time.Time
}

// NewReportService wires the engine and materializer on top of store.
// m may be nil.
func NewReportService(store ReportStore, m *metrics.Manager) ReportService {
	return &reportService{
		engine:       report.NewEngine(store),
		materializer: report.NewMaterializer(store),
		reports:      store,
		metrics:      m,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *reportService) ComputeWeeklyReport(ctx context.Context, canteenID, weekStart string) (*models.WeeklyReport, error) {
	return s.compute(ctx, canteenID, weekStart, metrics.ModeLive)
}

func (s *reportService) RecomputeAndPersist(ctx context.Context, canteenID, weekStart string) (*models.StoredWeeklyReport, error) {
	rep, err := s.compute(ctx, canteenID, weekStart, metrics.ModeMaterialize)
	if err != nil {
		return nil, err
	}

	log := logger.ForReport(rep.CanteenID, rep.WeekStart)
	stamp, err := s.materializer.Materialize(ctx, *rep)
	if err != nil {
		s.metrics.RecordReportFailure(failureKind(err))
		log.Error().Err(err).Msg("persist weekly report failed")
		return nil, err
	}
	s.metrics.RecordReportMaterialized()
	log.Info().Time("last_updated", stamp).Msg("weekly report materialized")

	return &models.StoredWeeklyReport{WeeklyReport: *rep, LastUpdated: stamp}, nil
}

func (s *reportService) GetMaterializedReport(ctx context.Context, canteenID, weekStart string) (*models.StoredWeeklyReport, error) {
	canteenID = strings.TrimSpace(canteenID)
	if canteenID == "" {
		return nil, fmt.Errorf("%w: canteenId is required", report.ErrInvalidArgument)
	}
	window, err := report.Resolve(weekStart, s.now())
	if err != nil {
		return nil, err
	}

	out, err := s.reports.GetWeeklyReport(ctx, canteenID, window.WeekStart())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: get weekly report: %w", report.ErrStoreUnavailable, err)
	}
	return out, nil
}

func (s *reportService) RecomputeAll(ctx context.Context, canteenIDs []string, weekStart string, parallel int) error {
	if len(canteenIDs) == 0 {
		return fmt.Errorf("%w: at least one canteenId is required", report.ErrInvalidArgument)
	}
	// Fail fast on a bad week before spawning any job.
	if _, err := report.Resolve(weekStart, s.now()); err != nil {
		return err
	}
	if parallel <= 0 {
		parallel = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, id := range canteenIDs {
		id := id
		g.Go(func() error {
			if _, err := s.RecomputeAndPersist(gctx, id, weekStart); err != nil {
				return fmt.Errorf("canteen %s: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *reportService) compute(ctx context.Context, canteenID, weekStart, mode string) (*models.WeeklyReport, error) {
	canteenID = strings.TrimSpace(canteenID)
	window, err := report.Resolve(weekStart, s.now())
	if err != nil {
		s.metrics.RecordReportFailure(failureKind(err))
		return nil, err
	}

	log := logger.ForReport(canteenID, window.WeekStart())
	started := time.Now()
	rep, err := s.engine.Aggregate(ctx, canteenID, window)
	elapsed := time.Since(started)
	if err != nil {
		s.metrics.RecordReportFailure(failureKind(err))
		log.Error().Err(err).Str("mode", mode).Msg("weekly report failed")
		return nil, err
	}

	s.metrics.RecordReportComputed(mode, elapsed)
	log.Info().
		Str("mode", mode).
		Int("total_ratings", rep.TotalRatings).
		Int("meals", len(rep.TopMeals)).
		Dur("elapsed", elapsed).
		Msg("weekly report computed")
	return rep, nil
}

// failureKind maps an error to a bounded metrics label.
func failureKind(err error) string {
	switch {
	case errors.Is(err, report.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, report.ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, report.ErrComputation):
		return "computation"
	default:
		return "other"
	}
}
