package models

import "time"

// RefreshToken tracks issued refresh tokens so they can be rotated and revoked.
type RefreshToken struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	JTI         string    `json:"jti" gorm:"uniqueIndex"`
	AccountID   uint      `json:"account_id" gorm:"index"`
	AccountType string    `json:"account_type" gorm:"size:10"`
	ExpiresAt   time.Time `json:"expires_at"`
	Revoked     bool      `json:"revoked" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
