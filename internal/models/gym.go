package models

import "gorm.io/gorm"

type Gym struct {
	gorm.Model `json:"-"`
	ID         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name" gorm:"uniqueIndex"`
	Email      string `json:"email" gorm:"uniqueIndex"`
	Password   string `json:"-"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	Phone      string `json:"phone,omitempty"`
	AvatarKey  string `json:"avatar_key,omitempty"`
	Visible    bool   `json:"visible" gorm:"default:true"`
}

type SignupGymRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Address  string `json:"address,omitempty" validate:"omitempty,max=200"`
	City     string `json:"city,omitempty" validate:"omitempty,max=80"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

type UpdateGymRequest struct {
	Name    string `json:"name,omitempty" validate:"omitempty,min=2,max=80"`
	Address string `json:"address,omitempty" validate:"omitempty,max=200"`
	City    string `json:"city,omitempty" validate:"omitempty,max=80"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,max=20"`
}
