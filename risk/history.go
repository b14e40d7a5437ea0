package risk

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DayTotals are the user's running totals for the current day.
type DayTotals struct {
	Calories      float64
	Sodium        float64
	Sugar         float64
	SaturatedFat  float64
	CalorieTarget float64
}

// HistoryStore provides the rolling aggregates the pattern detector reads.
// Eventually-consistent data is acceptable.
type HistoryStore interface {
	TodayTotals(ctx context.Context, userID uint) (*DayTotals, error)
	RecentFoods(ctx context.Context, userID uint, days int) ([]FoodRecord, error)
}

// historyDetector derives pattern risks from temporal behavior rather than
// the current food's static attributes. The four rules are independent and
// evaluated against the same fetched aggregates; any subset may fire.
type historyDetector struct {
	store   HistoryStore
	table   ThresholdTable
	policy  PatternPolicy
	timeout time.Duration
}

func (d *historyDetector) Name() string { return "pattern" }

func (d *historyDetector) Detect(ctx context.Context, in *Input) ([]Risk, error) {
	if d.store == nil {
		return nil, nil
	}
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	totals, err := d.store.TodayTotals(ctx, in.Profile.UserID)
	if err != nil {
		// a slow store means "no historical signal", not a failed evaluation
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, fmt.Errorf("today totals: %w", err)
	}
	recent, err := d.store.RecentFoods(ctx, in.Profile.UserID, d.policy.HistoryDays)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, fmt.Errorf("recent foods: %w", err)
	}

	var risks []Risk

	// 1) Daily excess projection.
	if totals != nil && totals.CalorieTarget > 0 {
		projected := totals.Calories + in.Food.Calories
		limit := totals.CalorieTarget + d.table.DailyExcessMargin
		if projected > limit {
			risks = append(risks, Risk{
				Type:      AlertPattern,
				Severity:  SeverityMedium,
				Message:   fmt.Sprintf("Logging this puts you at %.0f kcal today, %.0f over your %.0f kcal target.", projected, projected-totals.CalorieTarget, totals.CalorieTarget),
				Action:    "Go lighter for the rest of the day",
				Pattern:   "daily_excess",
				Value:     projected,
				Threshold: limit,
			})
		}
	}

	// 2) Repetitive unhealthy food over the rolling window.
	count := 0
	for _, f := range recent {
		if containsFold(f.Name, in.Food.Name) && f.HealthScore < d.policy.UnhealthyScore {
			count++
		}
	}
	if count > d.policy.RepeatLimit {
		risks = append(risks, Risk{
			Type:      AlertPattern,
			Severity:  SeverityHigh,
			Message:   fmt.Sprintf("You've had %s %d times in the last %d days, and it scores poorly each time.", in.Food.Name, count, d.policy.HistoryDays),
			Action:    "Mix in a healthier alternative this week",
			Pattern:   "repetitive_unhealthy",
			Value:     float64(count),
			Threshold: float64(d.policy.RepeatLimit),
		})
	}

	// 3) Late-night eating.
	if in.Context.now().Hour() >= d.policy.LateHour && in.Food.Calories > d.policy.LateNightCalories {
		risks = append(risks, Risk{
			Type:      AlertPattern,
			Severity:  SeverityMedium,
			Message:   fmt.Sprintf("A %.0f kcal meal this late can disrupt sleep and digestion.", in.Food.Calories),
			Action:    "Keep late meals light, or eat earlier tomorrow",
			Pattern:   "late_night",
			Value:     in.Food.Calories,
			Threshold: d.policy.LateNightCalories,
		})
	}

	// 4) Possible binge: big intake very soon after the previous meal.
	if gap := in.Context.MealGap; gap > 0 && gap < time.Duration(d.policy.BingeGapMinutes)*time.Minute &&
		in.Food.Calories > d.policy.BingeCalories {
		risks = append(risks, Risk{
			Type:      AlertPattern,
			Severity:  SeverityHigh,
			Message:   fmt.Sprintf("You ate %.0f minutes ago; take a moment before logging another %.0f kcal.", gap.Minutes(), in.Food.Calories),
			Action:    "Pause for ten minutes and check whether you're actually hungry",
			Pattern:   "possible_binge",
			Value:     in.Food.Calories,
			Threshold: d.policy.BingeCalories,
		})
	}

	return risks, nil
}
