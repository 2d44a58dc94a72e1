//go:build integration
// +build integration

package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/canteenpulse/internal/domain/models"
	"github.com/guttosm/canteenpulse/internal/testutil/pgtest"
)

func TestPostgresStore_Integration(t *testing.T) {
	db := pgtest.Start(t).OpenMigrated(t)

	ctx := context.Background()
	store := NewPostgresStore(db)

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	user := "hash-1"

	seed := []models.Rating{
		{MealID: "m1", CanteenID: "c1", Rating: 5, CreatedAt: monday.Add(12 * time.Hour)},
		{MealID: "m2", CanteenID: "c1", Rating: 3, Anonymous: true, CreatedAt: monday.Add(36 * time.Hour)},
		{MealID: "m1", CanteenID: "c2", Rating: 1, CreatedAt: monday.Add(12 * time.Hour)},
		// first instant of the next week stays outside the window
		{MealID: "m1", CanteenID: "c1", Rating: 1, CreatedAt: monday.AddDate(0, 0, 7)},
	}
	if err := store.ImportFile(ctx, "week1.csv", seed); err != nil {
		t.Fatalf("import seed: %v", err)
	}

	t.Run("window is half-open and canteen scoped", func(t *testing.T) {
		got, err := store.FindRatings(ctx, "c1", monday, monday.AddDate(0, 0, 7))
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("want 2 ratings, got %d", len(got))
		}
		if got[0].MealID != "m1" || got[1].MealID != "m2" {
			t.Fatalf("unexpected order: %+v", got)
		}
	})

	t.Run("duplicate non-anonymous rating is rejected", func(t *testing.T) {
		r := models.Rating{MealID: "m9", CanteenID: "c1", UserHash: &user, Rating: 4, CreatedAt: monday}
		if _, err := store.InsertRating(ctx, r); err != nil {
			t.Fatalf("first insert: %v", err)
		}
		if _, err := store.InsertRating(ctx, r); !errors.Is(err, ErrDuplicateRating) {
			t.Fatalf("want ErrDuplicateRating, got %v", err)
		}
		r.Anonymous = true
		if _, err := store.InsertRating(ctx, r); err != nil {
			t.Fatalf("anonymous insert should pass: %v", err)
		}
	})

	t.Run("weekly report upsert replaces", func(t *testing.T) {
		rep := models.WeeklyReport{CanteenID: "c1", WeekStart: "2025-01-06", WeekEnd: "2025-01-12", TotalRatings: 2, AvgRating: 4}
		first := time.Date(2025, 1, 13, 8, 0, 0, 0, time.UTC)
		if err := store.UpsertWeeklyReport(ctx, rep, first); err != nil {
			t.Fatalf("upsert: %v", err)
		}
		rep.TotalRatings = 3
		if err := store.UpsertWeeklyReport(ctx, rep, first.Add(time.Hour)); err != nil {
			t.Fatalf("second upsert: %v", err)
		}

		got, err := store.GetWeeklyReport(ctx, "c1", "2025-01-06")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.TotalRatings != 3 || !got.LastUpdated.Equal(first.Add(time.Hour)) {
			t.Fatalf("unexpected stored report: %+v", got)
		}

		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM weekly_reports WHERE canteen_id = 'c1'").Scan(&n); err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != 1 {
			t.Fatalf("want one stored report, got %d", n)
		}
	})

	countFrom := func(t *testing.T, filename string) int {
		t.Helper()
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM ratings WHERE source_file = $1", filename).Scan(&n); err != nil {
			t.Fatalf("count: %v", err)
		}
		return n
	}

	t.Run("import log", func(t *testing.T) {
		ok, err := store.HasImport(ctx, "week1.csv")
		if err != nil || !ok {
			t.Fatalf("exists want true, got ok=%v err=%v", ok, err)
		}
		ok, err = store.HasImport(ctx, "week2.csv")
		if err != nil || ok {
			t.Fatalf("exists want false, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("re-import replaces the file's rows", func(t *testing.T) {
		if err := store.ImportFile(ctx, "week1.csv", seed); err != nil {
			t.Fatalf("re-import: %v", err)
		}
		if n := countFrom(t, "week1.csv"); n != len(seed) {
			t.Fatalf("want %d rows from week1.csv, got %d", len(seed), n)
		}
	})

	t.Run("failed import stores nothing", func(t *testing.T) {
		other := "hash-2"
		rs := []models.Rating{
			{MealID: "m3", CanteenID: "c1", Rating: 4, Anonymous: true, CreatedAt: monday},
			{MealID: "m3", CanteenID: "c1", UserHash: &other, Rating: 4, CreatedAt: monday},
			{MealID: "m3", CanteenID: "c1", UserHash: &other, Rating: 2, CreatedAt: monday},
		}
		if err := store.ImportFile(ctx, "week2.csv", rs); !errors.Is(err, ErrDuplicateRating) {
			t.Fatalf("want ErrDuplicateRating, got %v", err)
		}
		if n := countFrom(t, "week2.csv"); n != 0 {
			t.Fatalf("want no rows from week2.csv, got %d", n)
		}
		ok, err := store.HasImport(ctx, "week2.csv")
		if err != nil || ok {
			t.Fatalf("failed import must not be logged, got ok=%v err=%v", ok, err)
		}

		if err := store.ImportFile(ctx, "week2.csv", rs[:2]); err != nil {
			t.Fatalf("retry: %v", err)
		}
		if n := countFrom(t, "week2.csv"); n != 2 {
			t.Fatalf("want 2 rows after retry, got %d", n)
		}
	})
}
