package models

import (
	"time"

	"gorm.io/gorm"
)

// One Meal (breakfast/lunch/…)
type Meal struct {
	gorm.Model
	UserID uint      `gorm:"index;not null"`
	Type   string    // "Breakfast" | "Lunch" | …
	AteAt  time.Time `gorm:"index"`
	Items  []MealItem
}

// MealItem stores the nutrition snapshot plus the risk analysis outcome for
// one logged food. HealthScore feeds the repetitive-food pattern rule on
// later evaluations.
type MealItem struct {
	gorm.Model
	MealID uint `gorm:"index"`

	FoodName     string `gorm:"not null"`
	Brand        string
	Calories     float64
	Protein      float64
	Carbs        float64
	Fat          float64
	Fiber        float64
	Sugar        float64
	Sodium       float64
	SaturatedFat float64
	Cholesterol  float64
	Ingredients  string `gorm:"type:text"`

	Verdict     string  `gorm:"size:20"` // SAFE | CAUTION | NOT_RECOMMENDED | AVOID
	HealthScore float64 // safety score at log time, 0–100
	RiskCount   int
	Warnings    string `gorm:"type:text"` // joined risk messages
	Safe        bool
}
