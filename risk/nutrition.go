package risk

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
)

// nutritionDetector evaluates the food's absolute nutrient values against
// the generic threshold table and the per-condition overrides. A single food
// can produce both a generic and several condition-specific risks for the
// same nutrient; each carries its own messaging and none are deduplicated.
type nutritionDetector struct {
	table ThresholdTable
}

func (d *nutritionDetector) Name() string { return "nutrition" }

// genericNutrients are checked against the generic meal/critical limits, in
// this fixed order so repeated evaluations produce identical results.
var genericNutrients = []string{NutrientSodium, NutrientSugar}

func (d *nutritionDetector) Detect(_ context.Context, in *Input) ([]Risk, error) {
	var risks []Risk

	for _, nutrient := range genericNutrients {
		limits, ok := d.table.Nutrients[nutrient]
		if !ok {
			continue
		}
		value, _ := nutrientValue(in.Food, nutrient)
		switch {
		case limits.Critical > 0 && value > limits.Critical:
			pctDaily := 0.0
			if limits.Daily > 0 {
				pctDaily = math.Round(value / limits.Daily * 100)
			}
			risks = append(risks, Risk{
				Type:      AlertHighRisk,
				Severity:  SeverityHigh,
				Message:   fmt.Sprintf("Very high %s: %s in one serving is %.0f%% of the daily limit.", nutrientLabel(nutrient), formatAmount(nutrient, value), pctDaily),
				Action:    fmt.Sprintf("Look for a lower-%s option", nutrientLabel(nutrient)),
				Nutrient:  nutrient,
				Value:     value,
				Threshold: limits.Critical,
			})
		case limits.Meal > 0 && value > limits.Meal:
			risks = append(risks, Risk{
				Type:      AlertCaution,
				Severity:  SeverityLow,
				Message:   fmt.Sprintf("High %s for a single meal: %s (meal guideline is %s).", nutrientLabel(nutrient), formatAmount(nutrient, value), formatAmount(nutrient, limits.Meal)),
				Action:    fmt.Sprintf("Balance the rest of today's meals to stay under the daily %s limit", nutrientLabel(nutrient)),
				Nutrient:  nutrient,
				Value:     value,
				Threshold: limits.Meal,
			})
		}
	}

	if d.table.BingeCalories > 0 && in.Food.Calories > d.table.BingeCalories {
		// rough burn rate for a brisk run, to make the number tangible
		minutes := int(math.Ceil(in.Food.Calories / 10))
		risks = append(risks, Risk{
			Type:      AlertHighRisk,
			Severity:  SeverityHigh,
			Message:   fmt.Sprintf("%.0f kcal in one sitting, roughly %d minutes of running to burn off.", in.Food.Calories, minutes),
			Action:    "Consider a smaller portion or splitting it across meals",
			Nutrient:  "calories",
			Value:     in.Food.Calories,
			Threshold: d.table.BingeCalories,
		})
	}

	risks = append(risks, d.conditionRisks(in)...)
	return risks, nil
}

// conditionRisks applies the per-condition overrides. Conditions are walked
// in profile order and nutrients within an override in sorted order, keeping
// the output deterministic.
func (d *nutritionDetector) conditionRisks(in *Input) []Risk {
	var risks []Risk
	for _, raw := range in.Profile.Conditions {
		cond := NormalizeTag(raw)
		override, ok := d.table.Overrides[cond]
		if !ok {
			continue
		}
		nutrients := make([]string, 0, len(override))
		for n := range override {
			nutrients = append(nutrients, n)
		}
		sort.Strings(nutrients)

		for _, nutrient := range nutrients {
			limits := override[nutrient]
			value, known := nutrientValue(in.Food, nutrient)
			if !known || value <= 0 {
				continue
			}
			switch {
			case limits.Critical > 0 && value > limits.Critical:
				risks = append(risks, Risk{
					Type:      AlertImmediateDanger,
					Severity:  SeverityCritical,
					Message:   fmt.Sprintf("With %s, %s of %s is a dangerous amount for one meal (limit %s).", conditionLabel(cond), formatAmount(nutrient, value), nutrientLabel(nutrient), formatAmount(nutrient, limits.Critical)),
					Action:    "Do not eat this; choose something within your limits",
					Condition: cond,
					Nutrient:  nutrient,
					Value:     value,
					Threshold: limits.Critical,
				})
			case limits.Meal > 0 && value > limits.Meal:
				risks = append(risks, Risk{
					Type:      AlertHighRisk,
					Severity:  SeverityHigh,
					Message:   fmt.Sprintf("With %s, keep %s under %s per meal; this food has %s.", conditionLabel(cond), nutrientLabel(nutrient), formatAmount(nutrient, limits.Meal), formatAmount(nutrient, value)),
					Action:    "Reduce the portion or pick a safer option",
					Condition: cond,
					Nutrient:  nutrient,
					Value:     value,
					Threshold: limits.Meal,
				})
			}
		}
	}
	return risks
}

func nutrientLabel(nutrient string) string {
	return strings.ReplaceAll(nutrient, "_", " ")
}

func conditionLabel(cond string) string {
	return strings.ReplaceAll(cond, "_", " ")
}

// formatAmount renders a nutrient amount with its customary unit.
func formatAmount(nutrient string, v float64) string {
	if nutrient == NutrientSodium || nutrient == NutrientCholesterol {
		return fmt.Sprintf("%.0fmg", v)
	}
	return fmt.Sprintf("%.0fg", v)
}
