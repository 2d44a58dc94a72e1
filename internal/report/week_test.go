package report

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWeek_StartsOnMondayAndContainsRef(t *testing.T) {
	base := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 24*30; h += 7 {
		ref := base.Add(time.Duration(h)*time.Hour + 13*time.Minute)
		w := ResolveWeek(ref)

		require.Equal(t, time.Monday, w.Start.Weekday(), "ref=%s", ref)
		require.Equal(t, 0, w.Start.Hour()+w.Start.Minute()+w.Start.Second()+w.Start.Nanosecond(), "ref=%s", ref)
		require.Equal(t, time.UTC, w.Start.Location())
		require.True(t, !ref.Before(w.Start) && ref.Before(w.End), "ref=%s not in %v", ref, w)
		require.Equal(t, w.Start.AddDate(0, 0, 7), w.End)
	}
}

func TestResolveWeek_Cases(t *testing.T) {
	cases := []struct {
		name string
		ref  time.Time
		want string
	}{
		{name: "monday midnight", ref: time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC), want: "2025-09-15"},
		{name: "sunday last instant", ref: time.Date(2025, 9, 21, 23, 59, 59, 999, time.UTC), want: "2025-09-15"},
		{name: "wednesday", ref: time.Date(2025, 9, 17, 12, 0, 0, 0, time.UTC), want: "2025-09-15"},
		{name: "crosses month", ref: time.Date(2025, 10, 2, 8, 0, 0, 0, time.UTC), want: "2025-09-29"},
		{name: "crosses year", ref: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC), want: "2025-12-29"},
		{name: "non-utc input uses utc day", ref: time.Date(2025, 9, 22, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*3600)), want: "2025-09-15"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveWeek(tc.ref).WeekStart())
		})
	}
}

func TestParseWeekStart(t *testing.T) {
	w, err := ParseWeekStart("2025-09-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC), w.End)
	assert.Equal(t, "2025-09-15", w.WeekStart())
	assert.Equal(t, "2025-09-21", w.WeekEndDisplay())

	for _, bad := range []string{"2025/09/15", "15-09-2025", "2025-13-01", "yesterday"} {
		_, err := ParseWeekStart(bad)
		assert.True(t, errors.Is(err, ErrInvalidArgument), "input %q: %v", bad, err)
	}

	_, err = ParseWeekStart("2025-09-17")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "Wednesday")
}

func TestResolve(t *testing.T) {
	now := time.Date(2025, 9, 18, 10, 0, 0, 0, time.UTC)

	w, err := Resolve("", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-09-15", w.WeekStart())

	w, err = Resolve("2025-09-08", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-09-08", w.WeekStart())

	_, err = Resolve("2025-09-09", now)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestWindow_ContainsIsHalfOpen(t *testing.T) {
	w, err := ParseWeekStart("2025-09-15")
	require.NoError(t, err)

	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End.Add(-time.Nanosecond)))
	assert.False(t, w.Contains(w.End))
	assert.False(t, w.Contains(w.Start.Add(-time.Nanosecond)))
}
