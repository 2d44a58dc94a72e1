package report

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/canteenpulse/internal/domain/models"
)

// ReportUpserter persists a report keyed by (CanteenID, WeekStart),
// replacing every field of an existing document or inserting a new one.
type ReportUpserter interface {
	UpsertWeeklyReport(ctx context.Context, rep models.WeeklyReport, lastUpdated time.Time) error
}

// Materializer writes computed reports to the report store.
type Materializer struct {
	store ReportUpserter
	now   func() time.Time
}

// NewMaterializer returns a Materializer stamping lastUpdated with the UTC wall clock.
func NewMaterializer(store ReportUpserter) *Materializer {
	return &Materializer{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Materialize upserts rep. Repeating the call with the same report leaves the
// store unchanged apart from lastUpdated. Concurrent writes to the same key
// are last-writer-wins.
func (m *Materializer) Materialize(ctx context.Context, rep models.WeeklyReport) (time.Time, error) {
	if rep.CanteenID == "" || rep.WeekStart == "" {
		return time.Time{}, fmt.Errorf("%w: report key (canteenId, weekStart) is incomplete", ErrInvalidArgument)
	}
	stamp := m.now()
	if err := m.store.UpsertWeeklyReport(ctx, rep, stamp); err != nil {
		return time.Time{}, fmt.Errorf("%w: upsert weekly report: %w", ErrStoreUnavailable, err)
	}
	return stamp, nil
}
