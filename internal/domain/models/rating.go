package models

import "time"

// Rating is a single feedback entry for one meal instance.
//
// Ratings are append-only: once stored they are never updated.
// Optional sub-scores and identities are pointers so that "not provided"
// stays distinguishable from zero.
//
// swagger:model Rating
type Rating struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty"`
	MealID        string    `json:"mealId" bson:"mealId" example:"meal_2025-09-15_canteen_01_lunch"`
	CanteenID     string    `json:"canteenId" bson:"canteenId" example:"canteen_01"`
	UserID        *string   `json:"userId,omitempty" bson:"userId,omitempty"`
	UserHash      *string   `json:"userHash,omitempty" bson:"userHash,omitempty"`
	Anonymous     bool      `json:"anonymous" bson:"anonymous"`
	Rating        int       `json:"rating" bson:"rating" example:"4"`
	Taste         *int      `json:"taste,omitempty" bson:"taste,omitempty"`
	Quantity      *int      `json:"quantity,omitempty" bson:"quantity,omitempty"`
	ValueForMoney *int      `json:"valueForMoney,omitempty" bson:"valueForMoney,omitempty"`
	Comment       string    `json:"comment" bson:"comment"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`

	// SourceFile names the CSV file a rating was imported from.
	SourceFile string `json:"-" bson:"sourceFile,omitempty"`
}

// DeriveUserHash fills UserHash from UserID when only the latter is known,
// so identified users are still bound by the one-rating-per-meal rule.
func (r *Rating) DeriveUserHash() {
	if r.UserHash == nil && r.UserID != nil && *r.UserID != "" {
		h := "uid:" + *r.UserID
		r.UserHash = &h
	}
}
