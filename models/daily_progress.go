package models

import (
	"time"

	"gorm.io/gorm"
)

// DailyProgress is the per-day running total of everything the user logged,
// kept current by the meal service so the pattern detector reads one row
// instead of re-summing meals.
type DailyProgress struct {
	gorm.Model
	UserID uint      `gorm:"index;not null"`
	Date   time.Time `gorm:"index;not null"` // truncated to local midnight

	Calories     float64
	Protein      float64
	Carbs        float64
	Fat          float64
	Sodium       float64
	Sugar        float64
	SaturatedFat float64
}
