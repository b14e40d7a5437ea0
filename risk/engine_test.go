package risk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- stub collaborators ---

type stubHistory struct {
	totals *DayTotals
	recent []FoodRecord
	err    error
	delay  time.Duration
}

func (s *stubHistory) TodayTotals(ctx context.Context, _ uint) (*DayTotals, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.totals == nil {
		return &DayTotals{}, nil
	}
	return s.totals, nil
}

func (s *stubHistory) RecentFoods(_ context.Context, _ uint, _ int) ([]FoodRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.recent, nil
}

type stubAnalyzer struct {
	report *IngredientReport
	err    error
	calls  int
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ string, _ *Profile) (*IngredientReport, error) {
	s.calls++
	return s.report, s.err
}

type stubNotifier struct {
	ch chan map[string]any
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{ch: make(chan map[string]any, 1)}
}

func (s *stubNotifier) Notify(_ context.Context, _ uint, _ string, payload map[string]any) error {
	s.ch <- payload
	return nil
}

// noon avoids the late-night rule in tests that don't target it.
var noon = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func plainProfile() *Profile {
	return &Profile{UserID: 1, CalorieTarget: 2000}
}

// --- input validation ---

func TestEvaluateRejectsMalformedInput(t *testing.T) {
	e := NewEngine(Config{})

	_, err := e.Evaluate(context.Background(), nil, plainProfile(), EvalContext{})
	require.Error(t, err)

	_, err = e.Evaluate(context.Background(), &FoodRecord{Name: "  "}, plainProfile(), EvalContext{})
	require.Error(t, err)

	_, err = e.Evaluate(context.Background(), &FoodRecord{Name: "toast"}, nil, EvalContext{})
	require.Error(t, err)

	_, err = e.Evaluate(context.Background(), &FoodRecord{Name: "toast"}, &Profile{}, EvalContext{})
	require.Error(t, err)
}

// --- clean food ---

func TestEvaluateSafeFood(t *testing.T) {
	e := NewEngine(Config{History: &stubHistory{totals: &DayTotals{Calories: 400, CalorieTarget: 2000}}})

	food := &FoodRecord{Name: "grilled chicken salad", Calories: 350, Sodium: 300, Sugar: 4, SaturatedFat: 2}
	res, err := e.Evaluate(context.Background(), food, plainProfile(), EvalContext{Now: noon})
	require.NoError(t, err)

	assert.False(t, res.HasRisks)
	assert.Equal(t, 0, res.RiskCount)
	assert.Empty(t, res.Risks)
	assert.Empty(t, res.CriticalRisks)
	assert.Equal(t, 100, res.SafetyScore)
	assert.Equal(t, VerdictSafe, res.Recommendation.Verdict)
}

// --- allergy dominates everything ---

func TestEvaluateAllergyAlwaysAvoid(t *testing.T) {
	notifier := newStubNotifier()
	e := NewEngine(Config{Notifier: notifier})

	profile := &Profile{UserID: 7, Conditions: []string{"peanut_allergy"}}
	food := &FoodRecord{Name: "peanut butter toast", Calories: 250}

	res, err := e.Evaluate(context.Background(), food, profile, EvalContext{Now: noon})
	require.NoError(t, err)

	var allergies []Risk
	for _, r := range res.Risks {
		if r.Type == AlertAllergy {
			allergies = append(allergies, r)
		}
	}
	require.Len(t, allergies, 1)
	assert.Equal(t, "peanut", allergies[0].Ingredient)
	assert.Equal(t, VerdictAvoid, res.Recommendation.Verdict)
	assert.Equal(t, res.Risks[0].Type, AlertAllergy, "critical risks sort first")

	select {
	case payload := <-notifier.ch:
		assert.Equal(t, "peanut butter toast", payload["food"])
		assert.NotEmpty(t, payload["alert_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("expected a critical alert notification")
	}
}

func TestEvaluateAllergyMatchesIngredientText(t *testing.T) {
	e := NewEngine(Config{})
	profile := &Profile{UserID: 7, Conditions: []string{"tree_nut_allergy"}}
	food := &FoodRecord{Name: "granola bar", Ingredients: "oats, honey, tree nut mix"}

	res, err := e.Evaluate(context.Background(), food, profile, EvalContext{Now: noon})
	require.NoError(t, err)
	require.NotEmpty(t, res.CriticalRisks)
	assert.Equal(t, VerdictAvoid, res.Recommendation.Verdict)
}

// --- scenario: diabetes + gulab jamun ---

func TestEvaluateDiabetesCriticalOverrides(t *testing.T) {
	e := NewEngine(Config{})
	profile := &Profile{UserID: 3, Conditions: []string{"diabetes"}}
	food := &FoodRecord{Name: "gulab jamun", Sugar: 20, Carbs: 50, Calories: 300}

	res, err := e.Evaluate(context.Background(), food, profile, EvalContext{Now: noon})
	require.NoError(t, err)

	var dangers []Risk
	for _, r := range res.Risks {
		if r.Type == AlertImmediateDanger {
			dangers = append(dangers, r)
		}
	}
	require.Len(t, dangers, 2, "sugar and carbs each breach the diabetes critical limit")
	nutrients := []string{dangers[0].Nutrient, dangers[1].Nutrient}
	assert.ElementsMatch(t, []string{NutrientSugar, NutrientCarbs}, nutrients)
	assert.Equal(t, VerdictAvoid, res.Recommendation.Verdict)
}

// --- scenario: warfarin + broccoli ---

func TestEvaluateWarfarinInteraction(t *testing.T) {
	e := NewEngine(Config{})
	profile := &Profile{UserID: 4, Medications: []string{"Warfarin"}}
	food := &FoodRecord{Name: "broccoli salad"}

	res, err := e.Evaluate(context.Background(), food, profile, EvalContext{Now: noon})
	require.NoError(t, err)

	var interactions []Risk
	for _, r := range res.Risks {
		if r.Type == AlertHighRisk && r.Condition == "warfarin" {
			interactions = append(interactions, r)
		}
	}
	require.Len(t, interactions, 1)
	assert.Contains(t, interactions[0].Message, "Warfarin")
	assert.Equal(t, VerdictNotRecommended, res.Recommendation.Verdict)
}

// --- scenario: daily excess projection ---

func TestEvaluateDailyExcessProjection(t *testing.T) {
	e := NewEngine(Config{History: &stubHistory{totals: &DayTotals{Calories: 1800, CalorieTarget: 2000}}})
	food := &FoodRecord{Name: "pasta alfredo", Calories: 800, Sodium: 400, Sugar: 5}

	res, err := e.Evaluate(context.Background(), food, plainProfile(), EvalContext{Now: noon})
	require.NoError(t, err)

	var patterns []Risk
	for _, r := range res.Risks {
		if r.Pattern == "daily_excess" {
			patterns = append(patterns, r)
		}
	}
	require.Len(t, patterns, 1)
	assert.Equal(t, 2600.0, patterns[0].Value)
}

// --- score properties ---

func TestSafetyScoreMonotonicUnderRiskAccumulation(t *testing.T) {
	e := NewEngine(Config{})
	profile := plainProfile()

	mild := &FoodRecord{Name: "soup", Sodium: 900} // one caution
	res1, err := e.Evaluate(context.Background(), mild, profile, EvalContext{Now: noon})
	require.NoError(t, err)

	worse := &FoodRecord{Name: "soup", Sodium: 900, Sugar: 30} // adds a high risk
	res2, err := e.Evaluate(context.Background(), worse, profile, EvalContext{Now: noon})
	require.NoError(t, err)

	assert.Less(t, res1.SafetyScore, 100)
	assert.Less(t, res2.SafetyScore, res1.SafetyScore)
	assert.GreaterOrEqual(t, res2.SafetyScore, 0)
}

func TestSafetyScoreFloorsAtZero(t *testing.T) {
	e := NewEngine(Config{})
	profile := &Profile{
		UserID:      9,
		Conditions:  []string{"diabetes", "hypertension", "heart_disease", "kidney_disease", "peanut_allergy"},
		Medications: []string{"warfarin"},
	}
	food := &FoodRecord{
		Name:         "peanut broccoli mega bowl",
		Calories:     1400,
		Sugar:        60,
		Carbs:        120,
		Sodium:       2000,
		SaturatedFat: 25,
		Cholesterol:  300,
		Protein:      60,
	}

	res, err := e.Evaluate(context.Background(), food, profile, EvalContext{Now: noon})
	require.NoError(t, err)
	assert.Equal(t, 0, res.SafetyScore)
	assert.Equal(t, VerdictAvoid, res.Recommendation.Verdict)
}

// --- determinism ---

func TestEvaluateIdempotent(t *testing.T) {
	history := &stubHistory{
		totals: &DayTotals{Calories: 1500, CalorieTarget: 2000},
		recent: []FoodRecord{
			{Name: "instant noodles", HealthScore: 30},
			{Name: "instant noodles", HealthScore: 35},
			{Name: "instant noodles", HealthScore: 20},
			{Name: "instant noodles", HealthScore: 40},
		},
	}
	e := NewEngine(Config{History: history})
	profile := &Profile{UserID: 2, Conditions: []string{"hypertension"}, CalorieTarget: 2000}
	food := &FoodRecord{Name: "instant noodles", Calories: 450, Sodium: 1700, Sugar: 6}
	ec := EvalContext{Now: noon, MealGap: 40 * time.Minute}

	first, err := e.Evaluate(context.Background(), food, profile, ec)
	require.NoError(t, err)
	second, err := e.Evaluate(context.Background(), food, profile, ec)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// --- invariants ---

func TestResultInvariants(t *testing.T) {
	e := NewEngine(Config{})
	profile := &Profile{UserID: 5, Conditions: []string{"diabetes"}}
	food := &FoodRecord{Name: "cake", Sugar: 40, Carbs: 60, Calories: 600}

	res, err := e.Evaluate(context.Background(), food, profile, EvalContext{Now: noon})
	require.NoError(t, err)

	assert.Equal(t, res.RiskCount, len(res.Risks))
	for _, cr := range res.CriticalRisks {
		assert.True(t, cr.Type.Critical())
		assert.Contains(t, res.Risks, cr)
	}
	assert.Equal(t, len(res.CriticalRisks) > 0, res.Recommendation.Verdict == VerdictAvoid)

	// risks are sorted descending by weight
	for i := 1; i < len(res.Risks); i++ {
		assert.GreaterOrEqual(t, res.Risks[i-1].Type.Weight(), res.Risks[i].Type.Weight())
	}
}

// --- collaborator failure policy ---

func TestEvaluateIsolatesFailingCollaborator(t *testing.T) {
	e := NewEngine(Config{History: &stubHistory{err: errors.New("store down")}})
	food := &FoodRecord{Name: "apple", Calories: 80}

	res, err := e.Evaluate(context.Background(), food, plainProfile(), EvalContext{Now: noon})
	require.NoError(t, err)
	assert.False(t, res.HasRisks)
	assert.Equal(t, VerdictSafe, res.Recommendation.Verdict)
}

func TestEvaluateStrictPropagatesCollaboratorFailure(t *testing.T) {
	e := NewEngine(Config{
		History: &stubHistory{err: errors.New("store down")},
		Strict:  true,
	})
	food := &FoodRecord{Name: "apple", Calories: 80}

	_, err := e.Evaluate(context.Background(), food, plainProfile(), EvalContext{Now: noon})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pattern detector")
}

func TestEvaluateHistoryTimeoutMeansNoSignal(t *testing.T) {
	e := NewEngine(Config{
		History:        &stubHistory{totals: &DayTotals{Calories: 5000, CalorieTarget: 2000}, delay: 200 * time.Millisecond},
		HistoryTimeout: 20 * time.Millisecond,
	})
	food := &FoodRecord{Name: "banana", Calories: 100}

	res, err := e.Evaluate(context.Background(), food, plainProfile(), EvalContext{Now: noon})
	require.NoError(t, err)
	assert.Equal(t, VerdictSafe, res.Recommendation.Verdict)
}

// --- caution verdict carries tips ---

func TestEvaluateCautionCollectsTips(t *testing.T) {
	e := NewEngine(Config{})
	food := &FoodRecord{Name: "soup", Sodium: 900, Sugar: 16}

	res, err := e.Evaluate(context.Background(), food, plainProfile(), EvalContext{Now: noon})
	require.NoError(t, err)
	assert.Equal(t, VerdictCaution, res.Recommendation.Verdict)
	assert.NotEmpty(t, res.Recommendation.Tips)
	assert.LessOrEqual(t, len(res.Recommendation.Tips), 2)
}
