package dto

// CreateRatingRequest is the body of POST /api/v1/ratings.
//
// Range checks on the scores happen here, at the ingestion boundary;
// the report engine averages whatever is stored.
type CreateRatingRequest struct {
	MealID        string  `json:"mealId" binding:"required" example:"meal_2025-09-15_canteen_01_lunch"`
	CanteenID     string  `json:"canteenId" binding:"required" example:"canteen_01"`
	UserID        *string `json:"userId,omitempty"`
	UserHash      *string `json:"userHash,omitempty"`
	Anonymous     bool    `json:"anonymous"`
	Rating        int     `json:"rating" binding:"required,min=1,max=5" example:"4"`
	Taste         *int    `json:"taste,omitempty" binding:"omitempty,min=1,max=5"`
	Quantity      *int    `json:"quantity,omitempty" binding:"omitempty,min=1,max=5"`
	ValueForMoney *int    `json:"valueForMoney,omitempty" binding:"omitempty,min=1,max=5"`
	Comment       string  `json:"comment" binding:"max=2000"`
}

// CreateRatingResponse reports the identifier of a stored rating.
type CreateRatingResponse struct {
	InsertedID string `json:"insertedId" example:"42"`
}

// PingResponse is returned by GET /ping.
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2025-09-15T12:00:00Z"`
}
