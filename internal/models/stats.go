package models

// OpponentCount is one row of the opponent-frequency aggregation.
type OpponentCount struct {
	OpponentID string `json:"opponent_id" bson:"_id"`
	Count      int64  `json:"count" bson:"count"`
}

// GymCount is one row of the gym-frequency aggregation.
type GymCount struct {
	GymID string `json:"gym_id" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// MonthCount is one bucket of the per-month combat time series ("2026-03").
type MonthCount struct {
	Month string `json:"month" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// CombatStats is the aggregate statistics payload for one account.
type CombatStats struct {
	MostFrequentOpponent *OpponentCount `json:"most_frequent_opponent,omitempty"`
	TopGyms              []GymCount     `json:"top_gyms"`
	CombatsPerMonth      []MonthCount   `json:"combats_per_month"`
	Ratings              RatingAverages `json:"ratings"`
}
