package models

import "time"

// Follow represents a directed follow edge between two accounts. The optional
// device token is the follower's push subscription for fan-out notifications.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following"`
	DeviceToken string    `json:"device_token,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type FollowRequest struct {
	DeviceToken string `json:"device_token,omitempty" validate:"omitempty,max=512"`
}
