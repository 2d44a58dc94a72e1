//go:build integration
// +build integration

package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/guttosm/canteenpulse/internal/storage"
	"github.com/guttosm/canteenpulse/internal/testutil/pgtest"
)

func writeRatingsFile(t *testing.T, dir, name string, day time.Time, rows int) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	defer f.Close()

	if _, err := f.WriteString(validHeader); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for i := 0; i < rows; i++ {
		line := fmt.Sprintf("meal_it;canteen_it;user%d;;false;%d;;;;;%s\n",
			i, 1+i%5, day.Add(time.Duration(i)*time.Minute).Format(time.RFC3339))
		if _, err := f.WriteString(line); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
}

func TestIngestion_EndToEnd_ProcessDirectory(t *testing.T) {
	db := pgtest.Start(t).OpenMigrated(t)

	dir := t.TempDir()
	day := time.Date(2025, 9, 16, 12, 0, 0, 0, time.UTC)
	writeRatingsFile(t, dir, "ratings_2025-09-16.csv", day, 7)

	store := storage.NewPostgresStore(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := ProcessDirectory(ctx, dir, store, Options{Parallel: 2})
	if err != nil {
		t.Fatalf("ProcessDirectory: %v", err)
	}
	if n != 7 {
		t.Fatalf("expected 7 imported rows, got %d", n)
	}

	var cnt int
	if err := db.QueryRow("SELECT COUNT(*) FROM ratings WHERE canteen_id='canteen_it'").Scan(&cnt); err != nil {
		t.Fatalf("count ratings: %v", err)
	}
	if cnt != 7 {
		t.Fatalf("expected 7 ratings, got %d", cnt)
	}

	var rows int
	if err := db.QueryRow("SELECT row_count FROM import_log WHERE filename=$1", "ratings_2025-09-16.csv").Scan(&rows); err != nil {
		t.Fatalf("check import_log: %v", err)
	}
	if rows != 7 {
		t.Fatalf("import_log row_count: want 7 got %d", rows)
	}

	// a second run is a no-op
	n, err = ProcessDirectory(ctx, dir, store, Options{Parallel: 1})
	if err != nil || n != 0 {
		t.Fatalf("second run: n=%d err=%v", n, err)
	}

	// a forced run replaces the file's rows instead of duplicating them
	n, err = ProcessDirectory(ctx, dir, store, Options{Parallel: 1, Force: true})
	if err != nil || n != 7 {
		t.Fatalf("forced run: n=%d err=%v", n, err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM ratings WHERE canteen_id='canteen_it'").Scan(&cnt); err != nil {
		t.Fatalf("count ratings: %v", err)
	}
	if cnt != 7 {
		t.Fatalf("expected 7 ratings after forced run, got %d", cnt)
	}
}

func TestIngestion_EndToEnd_BadRowLeavesNothing(t *testing.T) {
	db := pgtest.Start(t).OpenMigrated(t)
	store := storage.NewPostgresStore(db)
	ctx := context.Background()

	dir := t.TempDir()
	good := "meal_bad;canteen_bad;;;true;4;;;;;2025-09-16T12:00:00Z\n"
	path := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(path, []byte(validHeader+good+good+"meal_bad;canteen_bad;;;true;9;;;;;2025-09-16T12:00:00Z\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := ProcessDirectory(ctx, dir, store, Options{Parallel: 1}); err == nil {
		t.Fatalf("expected import error")
	}

	var cnt int
	if err := db.QueryRow("SELECT COUNT(*) FROM ratings WHERE canteen_id='canteen_bad'").Scan(&cnt); err != nil {
		t.Fatalf("count ratings: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected no ratings, got %d", cnt)
	}
	if ok, err := store.HasImport(ctx, "bad.csv"); err != nil || ok {
		t.Fatalf("failed file must not be logged: ok=%v err=%v", ok, err)
	}
}
