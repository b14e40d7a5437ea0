package risk

// Nutrient keys used by the threshold table and condition overrides.
const (
	NutrientSodium       = "sodium"
	NutrientSugar        = "sugar"
	NutrientSaturatedFat = "saturated_fat"
	NutrientCarbs        = "carbs"
	NutrientProtein      = "protein"
	NutrientCholesterol  = "cholesterol"
)

// NutrientLimits holds the generic limits for one nutrient. Daily is the
// recommended daily ceiling, Meal the single-meal ceiling, Critical the
// single-meal value treated as a serious breach.
type NutrientLimits struct {
	Daily    float64
	Meal     float64
	Critical float64
}

// OverrideLimits is a per-condition replacement for the generic meal limits.
type OverrideLimits struct {
	Meal     float64
	Critical float64
}

// ThresholdTable is the immutable limit configuration injected into the
// engine at construction. Condition overrides take precedence over the
// generic limits when both apply to the same nutrient.
type ThresholdTable struct {
	Nutrients map[string]NutrientLimits
	Overrides map[string]map[string]OverrideLimits

	// Calorie-specific limits.
	BingeCalories     float64 // single-meal "binge" threshold
	DailyExcessMargin float64 // daily excess = calorie target + this margin

	// Pregnancy has no numeric overrides, only banned foods and trigger
	// categories checked by the immediate risk detector.
	PregnancyBannedFoods       []string
	PregnancyTriggerCategories []string
}

// DefaultThresholds returns the stock limit table. Sodium in mg, everything
// else in grams.
func DefaultThresholds() ThresholdTable {
	return ThresholdTable{
		Nutrients: map[string]NutrientLimits{
			NutrientSodium:       {Daily: 2300, Meal: 800, Critical: 1500},
			NutrientSugar:        {Daily: 50, Meal: 15, Critical: 25},
			NutrientSaturatedFat: {Daily: 20, Meal: 7, Critical: 12},
		},
		Overrides: map[string]map[string]OverrideLimits{
			"diabetes": {
				NutrientSugar: {Meal: 10, Critical: 15},
				NutrientCarbs: {Meal: 30, Critical: 45},
			},
			"hypertension": {
				NutrientSodium: {Meal: 500, Critical: 800},
			},
			"heart_disease": {
				NutrientSaturatedFat: {Meal: 5, Critical: 8},
				NutrientCholesterol:  {Meal: 100, Critical: 200},
			},
			"kidney_disease": {
				NutrientProtein: {Meal: 20, Critical: 30},
			},
		},
		BingeCalories:     1000,
		DailyExcessMargin: 500,
		PregnancyBannedFoods: []string{
			"sushi", "raw fish", "soft cheese", "raw eggs",
		},
		PregnancyTriggerCategories: []string{
			"mercury", "raw_foods", "unpasteurized", "caffeine",
		},
	}
}

// nutrientValue maps a table key to the food's value for it.
func nutrientValue(f *FoodRecord, nutrient string) (float64, bool) {
	switch nutrient {
	case NutrientSodium:
		return f.Sodium, true
	case NutrientSugar:
		return f.Sugar, true
	case NutrientSaturatedFat:
		return f.SaturatedFat, true
	case NutrientCarbs:
		return f.Carbs, true
	case NutrientProtein:
		return f.Protein, true
	case NutrientCholesterol:
		return f.Cholesterol, true
	default:
		return 0, false
	}
}

// PatternPolicy holds the tunables for the historical pattern detector.
// The defaults mirror long-standing product behavior; change them only
// with product guidance.
type PatternPolicy struct {
	HistoryDays       int     // rolling window of logged foods
	RepeatLimit       int     // more than this many similar unhealthy meals fires
	UnhealthyScore    float64 // health score below this counts as unhealthy
	LateHour          int     // local hour at or after which eating is "late"
	LateNightCalories float64 // late-night rule only fires above this
	BingeGapMinutes   float64 // meal gap below this suggests a possible binge
	BingeCalories     float64 // binge rule only fires above this
}

func DefaultPatternPolicy() PatternPolicy {
	return PatternPolicy{
		HistoryDays:       7,
		RepeatLimit:       3,
		UnhealthyScore:    50,
		LateHour:          21,
		LateNightCalories: 300,
		BingeGapMinutes:   60,
		BingeCalories:     400,
	}
}
