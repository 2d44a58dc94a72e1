package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/canteenpulse/internal/domain/models"
)

// expectedHeaders enforces strict column ordering for ratings export files.
// If the header doesn't match EXACTLY (order + count), the import fails.
var expectedHeaders = []string{
	"mealId",
	"canteenId",
	"userId",
	"userHash",
	"anonymous",
	"rating",
	"taste",
	"quantity",
	"valueForMoney",
	"comment",
	"createdAt",
}

// parseFile opens, validates and parses one file, holding every row in memory
// so nothing is written until the whole file is known to be valid.
// It fails on:
//   - header not matching expected order/length
//   - any row with a missing or malformed required field
//   - unrecoverable I/O errors
//
// It tolerates empty optional cells (userId, userHash, sub-scores, comment).
func parseFile(ctx context.Context, path string) ([]models.Rating, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(expectedHeaders) {
		return nil, fmt.Errorf("invalid header length: expected %d, got %d", len(expectedHeaders), len(header))
	}
	for i, h := range header {
		if strings.TrimSpace(h) != expectedHeaders[i] {
			return nil, fmt.Errorf("invalid header at col %d: expected %q, got %q", i+1, expectedHeaders[i], h)
		}
	}

	ratings := []models.Rating{}
	lineNumber := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line after %d: %w", lineNumber, err)
		}
		lineNumber++

		if len(rec) != len(expectedHeaders) {
			return nil, fmt.Errorf("invalid column count on line %d: expected %d got %d", lineNumber, len(expectedHeaders), len(rec))
		}

		rating, err := recordToRating(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		ratings = append(ratings, rating)
	}
	return ratings, nil
}

// recordToRating converts one record (length already checked) into a Rating.
//
//	 0 mealId         required
//	 1 canteenId      required
//	 2 userId         optional
//	 3 userHash       optional, derived from userId when empty
//	 4 anonymous      optional bool, empty means false
//	 5 rating         required, 1..5
//	 6 taste          optional, 1..5
//	 7 quantity       optional, 1..5
//	 8 valueForMoney  optional, 1..5
//	 9 comment        optional
//	10 createdAt      required, RFC3339, stored in UTC
func recordToRating(rec []string) (models.Rating, error) {
	var r models.Rating

	r.MealID = strings.TrimSpace(rec[0])
	r.CanteenID = strings.TrimSpace(rec[1])
	if r.MealID == "" || r.CanteenID == "" {
		return r, errors.New("mealId and canteenId are required")
	}

	r.UserID = optionalString(rec[2])
	r.UserHash = optionalString(rec[3])

	if s := strings.TrimSpace(rec[4]); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return r, fmt.Errorf("invalid anonymous: %w", err)
		}
		r.Anonymous = b
	}

	score, err := parseScore(rec[5])
	if err != nil {
		return r, fmt.Errorf("invalid rating: %w", err)
	}
	if score == nil {
		return r, errors.New("rating is required")
	}
	r.Rating = *score

	if r.Taste, err = parseScore(rec[6]); err != nil {
		return r, fmt.Errorf("invalid taste: %w", err)
	}
	if r.Quantity, err = parseScore(rec[7]); err != nil {
		return r, fmt.Errorf("invalid quantity: %w", err)
	}
	if r.ValueForMoney, err = parseScore(rec[8]); err != nil {
		return r, fmt.Errorf("invalid valueForMoney: %w", err)
	}

	r.Comment = strings.TrimSpace(rec[9])

	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(rec[10]))
	if err != nil {
		return r, fmt.Errorf("invalid createdAt: %w", err)
	}
	r.CreatedAt = ts.UTC()

	r.DeriveUserHash()
	return r, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// parseScore reads a 1..5 score; an empty cell yields nil.
func parseScore(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	if v < 1 || v > 5 {
		return nil, fmt.Errorf("%d out of range 1..5", v)
	}
	return &v, nil
}
