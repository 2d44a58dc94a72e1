package report

import (
	"fmt"
	"sort"

	"github.com/guttosm/canteenpulse/internal/domain/models"
)

type mealDayKey struct {
	mealID string
	date   string
}

type dayBucket struct {
	count     int
	sumRating int
	sumTaste  int
	tasteN    int
}

// Compute builds the weekly report of canteenID over window from ratings.
//
// Ratings outside the window or belonging to another canteen are ignored.
// The result is deterministic for a given input order:
//
//  1. ratings are bucketed by (meal, UTC date);
//  2. buckets are folded per meal, where the meal average is the mean of its
//     daily means and the meal count is the sum of daily counts;
//  3. meals are ranked by average then count, both descending;
//  4. the report average is the count-weighted mean of meal averages
//     (0 when there are no ratings);
//  5. daily rollups merge every meal's buckets per date, ascending.
func Compute(canteenID string, window Window, ratings []models.Rating) (models.WeeklyReport, error) {
	meals, err := groupByMeal(canteenID, window, ratings)
	if err != nil {
		return models.WeeklyReport{}, err
	}
	rankMeals(meals)

	rep := models.WeeklyReport{
		CanteenID: canteenID,
		WeekStart: window.WeekStart(),
		WeekEnd:   window.WeekEndDisplay(),
		TopMeals:  make([]models.TopMeal, 0, len(meals)),
		Daily:     []models.DailyRollup{},
	}

	var weighted float64
	for _, m := range meals {
		rep.TopMeals = append(rep.TopMeals, models.TopMeal{MealID: m.MealID, AvgRating: m.AvgRating, Count: m.Count})
		rep.TotalRatings += m.Count
		weighted += m.AvgRating * float64(m.Count)
	}
	if rep.TotalRatings > 0 {
		rep.AvgRating = weighted / float64(rep.TotalRatings)
	}

	daily, err := mergeDaily(meals)
	if err != nil {
		return models.WeeklyReport{}, err
	}
	rep.Daily = daily

	return rep, nil
}

// groupByMeal runs both grouping passes. Meals and their daily buckets keep
// the order in which they were first seen.
func groupByMeal(canteenID string, window Window, ratings []models.Rating) ([]models.MealAggregate, error) {
	buckets := make(map[mealDayKey]*dayBucket)
	var keys []mealDayKey

	for _, r := range ratings {
		if r.CanteenID != canteenID || !window.Contains(r.CreatedAt) {
			continue
		}
		k := mealDayKey{mealID: r.MealID, date: r.CreatedAt.UTC().Format(DateLayout)}
		b, ok := buckets[k]
		if !ok {
			b = &dayBucket{}
			buckets[k] = b
			keys = append(keys, k)
		}
		b.count++
		b.sumRating += r.Rating
		if r.Taste != nil {
			b.sumTaste += *r.Taste
			b.tasteN++
		}
	}

	index := make(map[string]int)
	var meals []models.MealAggregate
	for _, k := range keys {
		b := buckets[k]
		if b.count == 0 {
			return nil, fmt.Errorf("%w: empty bucket for meal %s on %s", ErrComputation, k.mealID, k.date)
		}
		day := models.MealDay{
			Date:      k.date,
			Count:     b.count,
			SumRating: b.sumRating,
			AvgRating: float64(b.sumRating) / float64(b.count),
		}
		if b.tasteN > 0 {
			avg := float64(b.sumTaste) / float64(b.tasteN)
			day.AvgTaste = &avg
		}

		i, ok := index[k.mealID]
		if !ok {
			i = len(meals)
			index[k.mealID] = i
			meals = append(meals, models.MealAggregate{MealID: k.mealID})
		}
		meals[i].Daily = append(meals[i].Daily, day)
		meals[i].Count += day.Count
	}

	for i := range meals {
		var sum float64
		for _, d := range meals[i].Daily {
			sum += d.AvgRating
		}
		meals[i].AvgRating = sum / float64(len(meals[i].Daily))
	}

	return meals, nil
}

func rankMeals(meals []models.MealAggregate) {
	sort.SliceStable(meals, func(i, j int) bool {
		if meals[i].AvgRating != meals[j].AvgRating {
			return meals[i].AvgRating > meals[j].AvgRating
		}
		return meals[i].Count > meals[j].Count
	})
}

func mergeDaily(meals []models.MealAggregate) ([]models.DailyRollup, error) {
	merged := make(map[string]*dayBucket)
	for _, m := range meals {
		for _, d := range m.Daily {
			b, ok := merged[d.Date]
			if !ok {
				b = &dayBucket{}
				merged[d.Date] = b
			}
			b.count += d.Count
			b.sumRating += d.SumRating
		}
	}

	dates := make([]string, 0, len(merged))
	for d := range merged {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]models.DailyRollup, 0, len(dates))
	for _, d := range dates {
		b := merged[d]
		if b.count == 0 {
			return nil, fmt.Errorf("%w: empty daily rollup for %s", ErrComputation, d)
		}
		out = append(out, models.DailyRollup{
			Date:      d,
			Count:     b.count,
			AvgRating: float64(b.sumRating) / float64(b.count),
		})
	}
	return out, nil
}
