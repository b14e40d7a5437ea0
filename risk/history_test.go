package risk

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistoryDetector(store HistoryStore) *historyDetector {
	return &historyDetector{
		store:   store,
		table:   DefaultThresholds(),
		policy:  DefaultPatternPolicy(),
		timeout: time.Second,
	}
}

func patternsOf(risks []Risk) []string {
	out := make([]string, 0, len(risks))
	for _, r := range risks {
		out = append(out, r.Pattern)
	}
	return out
}

func TestHistoryDetectorNoStore(t *testing.T) {
	d := newHistoryDetector(nil)
	risks, err := d.Detect(context.Background(), &Input{
		Food:    &FoodRecord{Name: "pizza", Calories: 900},
		Profile: &Profile{UserID: 1},
	})
	require.NoError(t, err)
	assert.Empty(t, risks)
}

func TestHistoryDetectorDailyExcess(t *testing.T) {
	store := &stubHistory{totals: &DayTotals{Calories: 1800, CalorieTarget: 2000}}
	d := newHistoryDetector(store)

	risks, err := d.Detect(context.Background(), &Input{
		Food:    &FoodRecord{Name: "burger", Calories: 800},
		Profile: &Profile{UserID: 1},
		Context: EvalContext{Now: noon},
	})
	require.NoError(t, err)
	require.Len(t, risks, 1)
	assert.Equal(t, "daily_excess", risks[0].Pattern)
	assert.Equal(t, SeverityMedium, risks[0].Severity)
	assert.Equal(t, 2600.0, risks[0].Value)
	assert.Contains(t, risks[0].Message, "600 over")
}

func TestHistoryDetectorDailyExcessNeedsTarget(t *testing.T) {
	// without a calorie target there is nothing to project against
	store := &stubHistory{totals: &DayTotals{Calories: 4000}}
	d := newHistoryDetector(store)

	risks, err := d.Detect(context.Background(), &Input{
		Food:    &FoodRecord{Name: "burger", Calories: 800},
		Profile: &Profile{UserID: 1},
		Context: EvalContext{Now: noon},
	})
	require.NoError(t, err)
	assert.Empty(t, risks)
}

func TestHistoryDetectorRepetitiveUnhealthy(t *testing.T) {
	store := &stubHistory{recent: []FoodRecord{
		{Name: "Maggi instant noodles", HealthScore: 30},
		{Name: "instant noodles deluxe", HealthScore: 45},
		{Name: "instant noodles", HealthScore: 20},
		{Name: "instant noodles", HealthScore: 10},
		{Name: "instant noodles but healthy", HealthScore: 80}, // healthy, not counted
		{Name: "salad", HealthScore: 90},
	}}
	d := newHistoryDetector(store)

	risks, err := d.Detect(context.Background(), &Input{
		Food:    &FoodRecord{Name: "instant noodles", Calories: 350},
		Profile: &Profile{UserID: 1},
		Context: EvalContext{Now: noon},
	})
	require.NoError(t, err)
	require.Len(t, risks, 1)
	assert.Equal(t, "repetitive_unhealthy", risks[0].Pattern)
	assert.Equal(t, SeverityHigh, risks[0].Severity)
	assert.Equal(t, 4.0, risks[0].Value)
}

func TestHistoryDetectorRepetitionAtLimitNoRisk(t *testing.T) {
	store := &stubHistory{recent: []FoodRecord{
		{Name: "instant noodles", HealthScore: 30},
		{Name: "instant noodles", HealthScore: 30},
		{Name: "instant noodles", HealthScore: 30},
	}}
	d := newHistoryDetector(store)

	risks, err := d.Detect(context.Background(), &Input{
		Food:    &FoodRecord{Name: "instant noodles", Calories: 350},
		Profile: &Profile{UserID: 1},
		Context: EvalContext{Now: noon},
	})
	require.NoError(t, err)
	assert.Empty(t, risks)
}

func TestHistoryDetectorLateNight(t *testing.T) {
	store := &stubHistory{}
	d := newHistoryDetector(store)
	tenPM := time.Date(2025, 3, 10, 22, 15, 0, 0, time.UTC)

	t.Run("fires late with enough calories", func(t *testing.T) {
		risks, err := d.Detect(context.Background(), &Input{
			Food:    &FoodRecord{Name: "leftover biryani", Calories: 600},
			Profile: &Profile{UserID: 1},
			Context: EvalContext{Now: tenPM},
		})
		require.NoError(t, err)
		require.Len(t, risks, 1)
		assert.Equal(t, "late_night", risks[0].Pattern)
	})

	t.Run("light snack is fine", func(t *testing.T) {
		risks, err := d.Detect(context.Background(), &Input{
			Food:    &FoodRecord{Name: "yogurt", Calories: 120},
			Profile: &Profile{UserID: 1},
			Context: EvalContext{Now: tenPM},
		})
		require.NoError(t, err)
		assert.Empty(t, risks)
	})
}

func TestHistoryDetectorPossibleBinge(t *testing.T) {
	store := &stubHistory{}
	d := newHistoryDetector(store)

	t.Run("short gap and big meal", func(t *testing.T) {
		risks, err := d.Detect(context.Background(), &Input{
			Food:    &FoodRecord{Name: "burger", Calories: 700},
			Profile: &Profile{UserID: 1},
			Context: EvalContext{Now: noon, MealGap: 30 * time.Minute},
		})
		require.NoError(t, err)
		require.Len(t, risks, 1)
		assert.Equal(t, "possible_binge", risks[0].Pattern)
		assert.Equal(t, SeverityHigh, risks[0].Severity)
	})

	t.Run("unknown gap never fires", func(t *testing.T) {
		risks, err := d.Detect(context.Background(), &Input{
			Food:    &FoodRecord{Name: "burger", Calories: 700},
			Profile: &Profile{UserID: 1},
			Context: EvalContext{Now: noon},
		})
		require.NoError(t, err)
		assert.Empty(t, risks)
	})
}

func TestHistoryDetectorRulesFireTogether(t *testing.T) {
	store := &stubHistory{
		totals: &DayTotals{Calories: 2400, CalorieTarget: 2000},
		recent: []FoodRecord{
			{Name: "loaded fries", HealthScore: 25},
			{Name: "loaded fries", HealthScore: 25},
			{Name: "loaded fries", HealthScore: 25},
			{Name: "loaded fries", HealthScore: 25},
		},
	}
	d := newHistoryDetector(store)
	late := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)

	risks, err := d.Detect(context.Background(), &Input{
		Food:    &FoodRecord{Name: "loaded fries", Calories: 650},
		Profile: &Profile{UserID: 1},
		Context: EvalContext{Now: late, MealGap: 20 * time.Minute},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"daily_excess", "repetitive_unhealthy", "late_night", "possible_binge"},
		patternsOf(risks))
}
