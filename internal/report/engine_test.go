package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/canteenpulse/internal/domain/models"
)

type fakeFinder struct {
	mu      sync.Mutex
	ratings []models.Rating
	err     error
	calls   int
	gotArgs []time.Time
}

func (f *fakeFinder) FindRatings(_ context.Context, canteenID string, start, end time.Time) ([]models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotArgs = []time.Time{start, end}
	if f.err != nil {
		return nil, f.err
	}
	return f.ratings, nil
}

func TestEngine_RejectsEmptyCanteenWithoutStoreAccess(t *testing.T) {
	finder := &fakeFinder{}
	e := NewEngine(finder)

	for _, id := range []string{"", "   "} {
		rep, err := e.Aggregate(context.Background(), id, week)
		assert.Nil(t, rep)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
	assert.Equal(t, 0, finder.calls)
}

func TestEngine_StoreFailureYieldsNoReport(t *testing.T) {
	boom := errors.New("connection refused")
	e := NewEngine(&fakeFinder{err: boom})

	rep, err := e.Aggregate(context.Background(), canteen, week)
	assert.Nil(t, rep)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, boom)
}

func TestEngine_QueriesWindowAndComputes(t *testing.T) {
	finder := &fakeFinder{ratings: []models.Rating{
		rating("A", 5, at(15, 12)),
		rating("A", 5, at(15, 13)),
		rating("B", 1, at(16, 12)),
	}}
	e := NewEngine(finder)

	rep, err := e.Aggregate(context.Background(), canteen, week)
	require.NoError(t, err)
	require.NotNil(t, rep)

	assert.Equal(t, []time.Time{week.Start, week.End}, finder.gotArgs)
	assert.Equal(t, 3, rep.TotalRatings)
	assert.InDelta(t, 11.0/3.0, rep.AvgRating, 1e-9)
}

func TestEngine_ConcurrentCallsAgree(t *testing.T) {
	finder := &fakeFinder{ratings: []models.Rating{
		rating("A", 4, at(15, 12)),
		rating("B", 2, at(17, 12)),
	}}
	e := NewEngine(finder)

	want, err := e.Aggregate(context.Background(), canteen, week)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.Aggregate(context.Background(), canteen, week)
			if err != nil {
				errs <- err
				return
			}
			if got.AvgRating != want.AvgRating || got.TotalRatings != want.TotalRatings {
				errs <- errors.New("diverging report")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
