package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Combat lifecycle statuses. A rejected invitation is deleted outright, so
// "rejected" only ever appears in response events, never in stored documents.
const (
	CombatStatusPending   = "pending"
	CombatStatusAccepted  = "accepted"
	CombatStatusRejected  = "rejected"
	CombatStatusCompleted = "completed"
)

// Combat represents a scheduled match between two accounts, stored in MongoDB.
// Account and gym references are stored as string ids.
type Combat struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CreatorID  string             `json:"creator_id" bson:"creator_id"`
	OpponentID string             `json:"opponent_id" bson:"opponent_id"`
	GymID      string             `json:"gym_id" bson:"gym_id"`
	Date       time.Time          `json:"date" bson:"date"`
	Time       string             `json:"time" bson:"time"` // "18:30"
	Level      string             `json:"level" bson:"level"`
	Status     string             `json:"status" bson:"status"`
	Winner     string             `json:"winner,omitempty" bson:"winner,omitempty"`
	ImageKey   string             `json:"image_key,omitempty" bson:"image_key,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsParticipant reports whether the given account is the creator or the opponent.
func (cb *Combat) IsParticipant(accountID string) bool {
	return accountID == cb.CreatorID || accountID == cb.OpponentID
}

// OtherParticipant returns the counterpart of the given participant, or ""
// if the account is not part of this combat.
func (cb *Combat) OtherParticipant(accountID string) string {
	switch accountID {
	case cb.CreatorID:
		return cb.OpponentID
	case cb.OpponentID:
		return cb.CreatorID
	}
	return ""
}

// CanRespond reports whether the given account may accept or reject this
// combat. Only the invited opponent of a pending combat can respond.
func (cb *Combat) CanRespond(accountID string) bool {
	return cb.Status == CombatStatusPending && accountID == cb.OpponentID
}

// ValidWinner reports whether the given account may be recorded as winner.
func (cb *Combat) ValidWinner(accountID string) bool {
	return cb.IsParticipant(accountID)
}

// CountsAsCompleted reports whether this combat belongs to a participant's
// completed history: either explicitly completed, or accepted with a date in
// the past (occurred without a recorded result).
func (cb *Combat) CountsAsCompleted(now time.Time) bool {
	if cb.Status == CombatStatusCompleted {
		return true
	}
	return cb.Status == CombatStatusAccepted && cb.Date.Before(now)
}

type CreateCombatRequest struct {
	OpponentID string `json:"opponent_id" validate:"required"`
	GymID      string `json:"gym_id" validate:"required"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Time       string `json:"time" validate:"required,datetime=15:04"`
	Level      string `json:"level" validate:"required,oneof=beginner amateur professional"`
}

type RespondCombatRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
}

type SetResultRequest struct {
	WinnerID string `json:"winner_id" validate:"required"`
}

type SetCombatImageRequest struct {
	ImageKey string `json:"image_key" validate:"required,max=512"`
}
