//go:build integration
// +build integration

package api_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/guttosm/canteenpulse/config"
	"github.com/guttosm/canteenpulse/internal/app"
	"github.com/guttosm/canteenpulse/internal/domain/models"
	"github.com/guttosm/canteenpulse/internal/testutil/pgtest"
)

func seedRatings(t *testing.T, db *sql.DB, weekStart time.Time) {
	t.Helper()
	rows := []struct {
		meal   string
		rating int
		at     time.Time
	}{
		{"meal_a", 5, weekStart.Add(12 * time.Hour)},
		{"meal_a", 3, weekStart.Add(13 * time.Hour)},
		{"meal_b", 4, weekStart.AddDate(0, 0, 1).Add(12 * time.Hour)},
		// next Monday, outside the window
		{"meal_b", 1, weekStart.AddDate(0, 0, 7)},
	}
	for i, r := range rows {
		_, err := db.Exec(`INSERT INTO ratings (meal_id, canteen_id, rating, comment, created_at) VALUES ($1,$2,$3,'',$4)`,
			r.meal, "canteen_e2e", r.rating, r.at)
		if err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
}

func TestAPI_E2E_WeeklyReport(t *testing.T) {
	pg := pgtest.Start(t)
	db := pg.OpenMigrated(t)

	monday := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	seedRatings(t, db, monday)

	config.AppConfig.Store.Driver = config.DriverPostgres
	config.AppConfig.Postgres.Host = pg.Host
	config.AppConfig.Postgres.Port = pg.Port
	config.AppConfig.Postgres.User = pg.User
	config.AppConfig.Postgres.Password = pg.Password
	config.AppConfig.Postgres.DBName = pg.DBName
	config.AppConfig.Postgres.SSLMode = "disable"

	router, cleanup, err := app.InitializeApp()
	if err != nil {
		t.Fatalf("init app: %v", err)
	}
	defer cleanup()

	query := "?canteenId=canteen_e2e&weekStart=2025-09-15"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/weekly-report"+query, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("live status: %d body=%s", w.Code, w.Body.String())
	}
	var live models.WeeklyReport
	if err := json.Unmarshal(w.Body.Bytes(), &live); err != nil {
		t.Fatalf("json: %v", err)
	}
	if live.TotalRatings != 3 || live.AvgRating != 4 || live.WeekEnd != "2025-09-21" {
		t.Fatalf("unexpected live report: %+v", live)
	}
	if len(live.TopMeals) != 2 || live.TopMeals[0].MealID != "meal_a" {
		t.Fatalf("unexpected ranking: %+v", live.TopMeals)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/weekly-report/materialized"+query, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before recompute, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/weekly-report/recompute"+query, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("recompute status: %d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/weekly-report/materialized"+query, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("materialized status: %d body=%s", w.Code, w.Body.String())
	}
	var stored models.StoredWeeklyReport
	if err := json.Unmarshal(w.Body.Bytes(), &stored); err != nil {
		t.Fatalf("json: %v", err)
	}
	if stored.TotalRatings != live.TotalRatings || stored.LastUpdated.IsZero() {
		t.Fatalf("unexpected stored report: %+v", stored)
	}
}
