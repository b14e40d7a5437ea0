package models

import "gorm.io/gorm"

// DailyGoal holds each user's daily nutrient-intake targets.
type DailyGoal struct {
	gorm.Model
	UserID   uint    `gorm:"index;not null"`
	Calories float64 // e.g. 2000 kcal
	Protein  float64 // g
	Carbs    float64 // g
	Fat      float64 // g
	Sodium   float64 // mg
	Sugar    float64 // g
}
