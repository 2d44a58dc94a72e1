package models

import "time"

// WeeklyReport summarizes every rating of one canteen inside one week window.
//
// Identity key: (CanteenID, WeekStart). WeekStart and WeekEnd are date-only
// strings (YYYY-MM-DD); WeekEnd is the last day inside the window.
//
// swagger:model WeeklyReport
type WeeklyReport struct {
	CanteenID    string        `json:"canteenId" bson:"canteenId" example:"canteen_01"`
	WeekStart    string        `json:"weekStart" bson:"weekStart" example:"2025-09-15"`
	WeekEnd      string        `json:"weekEnd" bson:"weekEnd" example:"2025-09-21"`
	TotalRatings int           `json:"totalRatings" bson:"totalRatings" example:"42"`
	AvgRating    float64       `json:"avgRating" bson:"avgRating" example:"3.8"`
	TopMeals     []TopMeal     `json:"topMeals" bson:"topMeals"`
	Daily        []DailyRollup `json:"daily" bson:"daily"`
}

// TopMeal is one entry of the meal ranking.
type TopMeal struct {
	MealID    string  `json:"mealId" bson:"mealId"`
	AvgRating float64 `json:"avgRating" bson:"avgRating"`
	Count     int     `json:"count" bson:"count"`
}

// DailyRollup is the per-date summary across all meals of the week.
type DailyRollup struct {
	Date      string  `json:"date" bson:"date"`
	Count     int     `json:"count" bson:"count"`
	AvgRating float64 `json:"avgRating" bson:"avgRating"`
}

// MealDay is the (meal, date) bucket produced by the first grouping pass.
// AvgTaste is nil when no rating in the bucket carried a taste score.
type MealDay struct {
	Date      string
	Count     int
	AvgRating float64
	SumRating int
	AvgTaste  *float64
}

// MealAggregate is the per-meal result of the second grouping pass.
// It only lives for the duration of one aggregation.
type MealAggregate struct {
	MealID    string
	AvgRating float64
	Count     int
	Daily     []MealDay
}

// StoredWeeklyReport is a materialized report as kept by the report store.
type StoredWeeklyReport struct {
	WeeklyReport `bson:",inline"`
	LastUpdated  time.Time `json:"lastUpdated" bson:"lastUpdated"`
}
