package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// Account types carried in JWT claims
const (
	AccountTypeUser = "user"
	AccountTypeGym  = "gym"
)

type User struct {
	gorm.Model  `json:"-"`
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"uniqueIndex"`
	Email       string  `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Password    string  `json:"-"`                        // Store hashed password, ignore for JSON serialization
	Weight      float64 `json:"weight,omitempty"`
	Level       string  `json:"level,omitempty"`
	City        string  `json:"city,omitempty"`
	AvatarKey   string  `json:"avatar_key,omitempty"`
	Visible     bool    `json:"visible" gorm:"default:true"`
	FirebaseUID string  `json:"firebase_uid,omitempty" gorm:"index"` // Link to Firebase User UID
}

type SignupUserRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=50"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Weight   float64 `json:"weight,omitempty" validate:"omitempty,min=30,max=200"`
	Level    string  `json:"level,omitempty" validate:"omitempty,oneof=beginner amateur professional"`
	City     string  `json:"city,omitempty" validate:"omitempty,max=80"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name   string  `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Weight float64 `json:"weight,omitempty" validate:"omitempty,min=30,max=200"`
	Level  string  `json:"level,omitempty" validate:"omitempty,oneof=beginner amateur professional"`
	City   string  `json:"city,omitempty" validate:"omitempty,max=80"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type SetVisibilityRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	AccountID   uint   `json:"account_id"`
	AccountType string `json:"account_type"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	jwt.RegisteredClaims
}

// RefreshClaims are the claims carried by long-lived refresh tokens.
type RefreshClaims struct {
	AccountID   uint   `json:"account_id"`
	AccountType string `json:"account_type"`
	jwt.RegisteredClaims
}
