package models

import "time"

// Every metric table is keyed by (date, user_id): at most one record per
// user per timestamp, and a later write with the same key replaces the
// earlier value.

// Weight is a single body-weight measurement in kilograms.
type Weight struct {
	Date   time.Time `gorm:"primaryKey" json:"date"`
	UserID uint      `gorm:"primaryKey" json:"user_id"`
	Weight float64   `json:"weight"`
}

// Height is a single height measurement in centimeters.
type Height struct {
	Date   time.Time `gorm:"primaryKey" json:"date"`
	UserID uint      `gorm:"primaryKey" json:"user_id"`
	Height float64   `json:"height"`
}

// BodyComposition carries the three scale components of one reading.
type BodyComposition struct {
	Date   time.Time `gorm:"primaryKey" json:"date"`
	UserID uint      `gorm:"primaryKey" json:"user_id"`
	Fat    float64   `json:"fat"`
	Muscle float64   `json:"muscle"`
	Water  float64   `json:"water"`
}

// WaterConsumption counts glasses of water (250 ml each) for a day.
type WaterConsumption struct {
	Date        time.Time `gorm:"primaryKey" json:"date"`
	UserID      uint      `gorm:"primaryKey" json:"user_id"`
	WaterAmount int       `json:"water_amount"`
}

// DailySteps counts steps taken on a day.
type DailySteps struct {
	Date        time.Time `gorm:"primaryKey" json:"date"`
	UserID      uint      `gorm:"primaryKey" json:"user_id"`
	StepsAmount int       `json:"steps_amount"`
}

// TableName keeps the historical table name; the default pluralizer
// would produce "daily_steps" too, but being explicit avoids surprises.
func (DailySteps) TableName() string { return "daily_steps" }

// Exercise records one workout entry with its duration in minutes.
type Exercise struct {
	Date         time.Time `gorm:"primaryKey" json:"date"`
	UserID       uint      `gorm:"primaryKey" json:"user_id"`
	ExerciseName string    `gorm:"size:255" json:"exercise_name"`
	Duration     int       `json:"duration"`
}

// BodyFatPercentage is a single body-fat reading in percent.
type BodyFatPercentage struct {
	Date          time.Time `gorm:"primaryKey" json:"date"`
	UserID        uint      `gorm:"primaryKey" json:"user_id"`
	FatPercentage float64   `json:"fat_percentage"`
}

// All lists every entity for migration, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Weight{},
		&Height{},
		&BodyComposition{},
		&WaterConsumption{},
		&DailySteps{},
		&Exercise{},
		&BodyFatPercentage{},
	}
}
