package models

import (
	"time"

	"gorm.io/gorm"
)

// User owns every metric series. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Birthday     time.Time `json:"birthday"`
	Gender       string    `gorm:"size:16" json:"gender"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Weights            []Weight            `json:"-"`
	Heights            []Height            `json:"-"`
	BodyCompositions   []BodyComposition   `json:"-"`
	WaterConsumptions  []WaterConsumption  `json:"-"`
	DailySteps         []DailySteps        `json:"-"`
	Exercises          []Exercise          `json:"-"`
	BodyFatPercentages []BodyFatPercentage `json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
