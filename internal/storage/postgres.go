package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	pq "github.com/lib/pq"

	"github.com/guttosm/canteenpulse/internal/domain/models"
)

// uniqueViolation is the SQLSTATE raised by a unique index conflict.
const uniqueViolation = "23505"

const ratingColumns = `id, meal_id, canteen_id, user_id, user_hash, anonymous, rating,
		taste, quantity, value_for_money, comment, created_at`

// postgresIndexes mirrors the indexes declared in db/migrations.
var postgresIndexes = []string{
	`CREATE INDEX IF NOT EXISTS ratings_meal_created_idx ON ratings (meal_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS ratings_canteen_created_idx ON ratings (canteen_id, created_at DESC)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ratings_user_meal_uidx ON ratings (user_hash, meal_id) WHERE user_hash IS NOT NULL AND anonymous = FALSE`,
	`CREATE INDEX IF NOT EXISTS ratings_comment_fts_idx ON ratings USING GIN (to_tsvector('simple', comment))`,
	`CREATE INDEX IF NOT EXISTS ratings_source_file_idx ON ratings (source_file) WHERE source_file IS NOT NULL`,
}

type postgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns a Store backed by the tables in db/migrations.
func NewPostgresStore(db *sql.DB) Store {
	return &postgresStore{db: db}
}

// FindRatings selects one canteen's ratings in a half-open time range.
func (s *postgresStore) FindRatings(ctx context.Context, canteenID string, start, end time.Time) ([]models.Rating, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+ratingColumns+`
		FROM ratings
		WHERE canteen_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at ASC, id ASC
	`, canteenID, start, end)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanRatings(rows)
}

// ListRecentRatings returns the newest ratings across all canteens.
func (s *postgresStore) ListRecentRatings(ctx context.Context, limit int) ([]models.Rating, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+ratingColumns+`
		FROM ratings
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanRatings(rows)
}

// InsertRating stores one rating and returns its generated id.
func (s *postgresStore) InsertRating(ctx context.Context, r models.Rating) (string, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO ratings (meal_id, canteen_id, user_id, user_hash, anonymous, rating,
			taste, quantity, value_for_money, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`,
		r.MealID, r.CanteenID, nullString(r.UserID), nullString(r.UserHash), r.Anonymous, r.Rating,
		nullInt(r.Taste), nullInt(r.Quantity), nullInt(r.ValueForMoney), r.Comment, r.CreatedAt.UTC(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrDuplicateRating
		}
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

// ImportFile swaps the ratings loaded from filename for rs and upserts the
// import log entry, all in one transaction using COPY.
func (s *postgresStore) ImportFile(ctx context.Context, filename string, rs []models.Rating) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ratings WHERE source_file = $1`, filename); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear previous import: %w", err)
	}

	if err := copyRatings(ctx, tx, filename, rs); err != nil {
		_ = tx.Rollback()
		if isUniqueViolation(err) {
			return ErrDuplicateRating
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO import_log (filename, row_count)
		VALUES ($1, $2)
		ON CONFLICT (filename)
		DO UPDATE SET row_count = EXCLUDED.row_count,
					  imported_at = NOW()
	`, filename, len(rs)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record import: %w", err)
	}

	return tx.Commit()
}

func copyRatings(ctx context.Context, tx *sql.Tx, filename string, rs []models.Rating) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"ratings",
		"meal_id",
		"canteen_id",
		"user_id",
		"user_hash",
		"anonymous",
		"rating",
		"taste",
		"quantity",
		"value_for_money",
		"comment",
		"created_at",
		"source_file",
	))
	if err != nil {
		return err
	}

	for _, r := range rs {
		if _, err := stmt.ExecContext(ctx,
			r.MealID,
			r.CanteenID,
			nullString(r.UserID),
			nullString(r.UserHash),
			r.Anonymous,
			r.Rating,
			nullInt(r.Taste),
			nullInt(r.Quantity),
			nullInt(r.ValueForMoney),
			r.Comment,
			r.CreatedAt.UTC(),
			filename,
		); err != nil {
			_ = stmt.Close()
			return err
		}
	}

	// Flush the buffered rows; constraint violations surface here.
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return err
	}
	return stmt.Close()
}

// UpsertWeeklyReport replaces the report stored under (canteen_id, week_start).
func (s *postgresStore) UpsertWeeklyReport(ctx context.Context, rep models.WeeklyReport, lastUpdated time.Time) error {
	topMeals, err := json.Marshal(nonNilTopMeals(rep.TopMeals))
	if err != nil {
		return fmt.Errorf("encode top meals: %w", err)
	}
	daily, err := json.Marshal(nonNilDaily(rep.Daily))
	if err != nil {
		return fmt.Errorf("encode daily: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO weekly_reports (canteen_id, week_start, week_end, total_ratings, avg_rating, top_meals, daily, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (canteen_id, week_start)
		DO UPDATE SET week_end = EXCLUDED.week_end,
					  total_ratings = EXCLUDED.total_ratings,
					  avg_rating = EXCLUDED.avg_rating,
					  top_meals = EXCLUDED.top_meals,
					  daily = EXCLUDED.daily,
					  last_updated = EXCLUDED.last_updated
	`, rep.CanteenID, rep.WeekStart, rep.WeekEnd, rep.TotalRatings, rep.AvgRating, topMeals, daily, lastUpdated.UTC())
	return err
}

// GetWeeklyReport loads a materialized report or returns ErrNotFound.
func (s *postgresStore) GetWeeklyReport(ctx context.Context, canteenID, weekStart string) (*models.StoredWeeklyReport, error) {
	var (
		out      models.StoredWeeklyReport
		topMeals []byte
		daily    []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT canteen_id, week_start, week_end, total_ratings, avg_rating, top_meals, daily, last_updated
		FROM weekly_reports
		WHERE canteen_id = $1 AND week_start = $2
	`, canteenID, weekStart).Scan(
		&out.CanteenID,
		&out.WeekStart,
		&out.WeekEnd,
		&out.TotalRatings,
		&out.AvgRating,
		&topMeals,
		&daily,
		&out.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(topMeals, &out.TopMeals); err != nil {
		return nil, fmt.Errorf("decode top meals: %w", err)
	}
	if err := json.Unmarshal(daily, &out.Daily); err != nil {
		return nil, fmt.Errorf("decode daily: %w", err)
	}
	out.TopMeals = nonNilTopMeals(out.TopMeals)
	out.Daily = nonNilDaily(out.Daily)
	out.LastUpdated = out.LastUpdated.UTC()
	return &out, nil
}

// HasImport checks if a rating file was already imported.
func (s *postgresStore) HasImport(ctx context.Context, filename string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM import_log WHERE filename = $1)`, filename).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// EnsureIndexes re-applies the rating indexes; tables come from db/migrations.
func (s *postgresStore) EnsureIndexes(ctx context.Context) error {
	for _, stmt := range postgresIndexes {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *postgresStore) Close(_ context.Context) error {
	return s.db.Close()
}

func scanRatings(rows *sql.Rows) ([]models.Rating, error) {
	out := []models.Rating{}
	for rows.Next() {
		var (
			r                        models.Rating
			id                       int64
			userID, userHash         sql.NullString
			taste, quantity, valueFM sql.NullInt64
		)
		if err := rows.Scan(
			&id,
			&r.MealID,
			&r.CanteenID,
			&userID,
			&userHash,
			&r.Anonymous,
			&r.Rating,
			&taste,
			&quantity,
			&valueFM,
			&r.Comment,
			&r.CreatedAt,
		); err != nil {
			return nil, err
		}
		r.ID = strconv.FormatInt(id, 10)
		r.UserID = stringPtr(userID)
		r.UserHash = stringPtr(userHash)
		r.Taste = intPtr(taste)
		r.Quantity = intPtr(quantity)
		r.ValueForMoney = intPtr(valueFM)
		r.CreatedAt = r.CreatedAt.UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

// helpers mapping optional fields to NULL (nil)
func nullString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func nullInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func nonNilTopMeals(in []models.TopMeal) []models.TopMeal {
	if in == nil {
		return []models.TopMeal{}
	}
	return in
}

func nonNilDaily(in []models.DailyRollup) []models.DailyRollup {
	if in == nil {
		return []models.DailyRollup{}
	}
	return in
}
