package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating is a post-combat peer rating on five 1-5 dimensions, stored in MongoDB.
type Rating struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CombatID      primitive.ObjectID `json:"combat_id" bson:"combat_id"`
	FromID        string             `json:"from_id" bson:"from_id"`
	ToID          string             `json:"to_id" bson:"to_id"`
	Punctuality   int                `json:"punctuality" bson:"punctuality"`
	Attitude      int                `json:"attitude" bson:"attitude"`
	Technique     int                `json:"technique" bson:"technique"`
	Intensity     int                `json:"intensity" bson:"intensity"`
	Sportsmanship int                `json:"sportsmanship" bson:"sportsmanship"`
	Comment       string             `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

type CreateRatingRequest struct {
	Punctuality   int    `json:"punctuality" validate:"required,min=1,max=5"`
	Attitude      int    `json:"attitude" validate:"required,min=1,max=5"`
	Technique     int    `json:"technique" validate:"required,min=1,max=5"`
	Intensity     int    `json:"intensity" validate:"required,min=1,max=5"`
	Sportsmanship int    `json:"sportsmanship" validate:"required,min=1,max=5"`
	Comment       string `json:"comment,omitempty" validate:"omitempty,max=500"`
}

// RatingAverages holds per-dimension averages rounded to two decimals. All
// fields default to zero when the account has no ratings.
type RatingAverages struct {
	Punctuality   float64 `json:"punctuality" bson:"punctuality"`
	Attitude      float64 `json:"attitude" bson:"attitude"`
	Technique     float64 `json:"technique" bson:"technique"`
	Intensity     float64 `json:"intensity" bson:"intensity"`
	Sportsmanship float64 `json:"sportsmanship" bson:"sportsmanship"`
	Count         int64   `json:"count" bson:"count"`
}
