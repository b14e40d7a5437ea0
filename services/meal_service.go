package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nutriguard/models"
	"nutriguard/risk"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MealService owns the logging flow: build the engine inputs, evaluate each
// food, persist the outcome. The block/warn/allow decision lives here, at
// the caller side of the engine boundary.
type MealService struct {
	db     *gorm.DB
	engine *risk.Engine
	log    *zap.Logger
}

func NewMealService(db *gorm.DB, engine *risk.Engine, logger *zap.Logger) *MealService {
	return &MealService{db: db, engine: engine, log: logger}
}

type MealItemRequest struct {
	Name         string  `json:"name" binding:"required"`
	Brand        string  `json:"brand"`
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fat          float64 `json:"fat"`
	Fiber        float64 `json:"fiber"`
	Sugar        float64 `json:"sugar"`
	Sodium       float64 `json:"sodium"`
	SaturatedFat float64 `json:"saturated_fat"`
	Cholesterol  float64 `json:"cholesterol"`
	Ingredients  string  `json:"ingredients"`
}

func (r *MealItemRequest) toFood() *risk.FoodRecord {
	return &risk.FoodRecord{
		Name:         r.Name,
		Brand:        r.Brand,
		Calories:     r.Calories,
		Protein:      r.Protein,
		Carbs:        r.Carbs,
		Fat:          r.Fat,
		Fiber:        r.Fiber,
		Sugar:        r.Sugar,
		Sodium:       r.Sodium,
		SaturatedFat: r.SaturatedFat,
		Cholesterol:  r.Cholesterol,
		Ingredients:  r.Ingredients,
	}
}

type ItemAnalysis struct {
	FoodName string       `json:"food_name"`
	Analysis *risk.Result `json:"analysis"`
}

// UnsafeFoodError is returned when an item came back AVOID and the caller
// did not force the log. The analyses travel with it so the handler can
// show the user why.
type UnsafeFoodError struct {
	Analyses []ItemAnalysis
}

func (e *UnsafeFoodError) Error() string {
	names := make([]string, 0, len(e.Analyses))
	for _, a := range e.Analyses {
		if a.Analysis != nil && a.Analysis.Recommendation.Verdict == risk.VerdictAvoid {
			names = append(names, a.FoodName)
		}
	}
	return fmt.Sprintf("unsafe to log without confirmation: %s", strings.Join(names, ", "))
}

// ProfileFor builds the engine's read-only profile view from the stored
// user and goal. Condition and medication tags are normalized here, at the
// boundary, so the detectors only ever see canonical tokens.
func (s *MealService) ProfileFor(ctx context.Context, userID uint) (*risk.Profile, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}

	profile := &risk.Profile{
		UserID:      user.ID,
		Conditions:  risk.NormalizeTags(user.ConditionList()),
		Medications: risk.NormalizeTags(user.MedicationList()),
	}

	var goal models.DailyGoal
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		First(&goal).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	profile.CalorieTarget = goal.Calories
	profile.ProteinTarget = goal.Protein
	profile.CarbTarget = goal.Carbs
	profile.FatTarget = goal.Fat

	return profile, nil
}

// evalContext derives the situational signals from the user's most recent
// meal. Unknown gaps stay zero, which disables the binge rule.
func (s *MealService) evalContext(ctx context.Context, userID uint, now time.Time) risk.EvalContext {
	ec := risk.EvalContext{Now: now}

	var last models.Meal
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND ate_at <= ?", userID, now).
		Order("ate_at DESC").
		First(&last).Error
	if err == nil && !last.AteAt.IsZero() {
		ec.LastMealAt = last.AteAt
		if gap := now.Sub(last.AteAt); gap > 0 {
			ec.MealGap = gap
		}
	}
	return ec
}

// CheckFood evaluates one food without logging it.
func (s *MealService) CheckFood(ctx context.Context, userID uint, item MealItemRequest) (*risk.Result, error) {
	profile, err := s.ProfileFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	ec := s.evalContext(ctx, userID, time.Now())
	return s.engine.Evaluate(ctx, item.toFood(), profile, ec)
}

// LogMeal evaluates every item, then persists the meal unless an item came
// back AVOID and force is false.
func (s *MealService) LogMeal(
	ctx context.Context,
	userID uint,
	mealType string,
	ateAt time.Time,
	items []MealItemRequest,
	force bool,
) (*models.Meal, []ItemAnalysis, error) {
	if len(items) == 0 {
		return nil, nil, errors.New("a meal needs at least one item")
	}
	if ateAt.IsZero() {
		ateAt = time.Now()
	}

	profile, err := s.ProfileFor(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	ec := s.evalContext(ctx, userID, ateAt)

	analyses := make([]ItemAnalysis, 0, len(items))
	blocked := false
	for _, it := range items {
		result, err := s.engine.Evaluate(ctx, it.toFood(), profile, ec)
		if err != nil {
			return nil, nil, err
		}
		analyses = append(analyses, ItemAnalysis{FoodName: it.Name, Analysis: result})
		if result.Recommendation.Verdict == risk.VerdictAvoid {
			blocked = true
		}
	}
	if blocked && !force {
		return nil, analyses, &UnsafeFoodError{Analyses: analyses}
	}

	meal := &models.Meal{UserID: userID, Type: mealType, AteAt: ateAt}
	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, analyses, err
	}

	for i, it := range items {
		result := analyses[i].Analysis
		mi := &models.MealItem{
			MealID:       meal.ID,
			FoodName:     it.Name,
			Brand:        it.Brand,
			Calories:     it.Calories,
			Protein:      it.Protein,
			Carbs:        it.Carbs,
			Fat:          it.Fat,
			Fiber:        it.Fiber,
			Sugar:        it.Sugar,
			Sodium:       it.Sodium,
			SaturatedFat: it.SaturatedFat,
			Cholesterol:  it.Cholesterol,
			Ingredients:  it.Ingredients,
			Verdict:      string(result.Recommendation.Verdict),
			HealthScore:  float64(result.SafetyScore),
			RiskCount:    result.RiskCount,
			Warnings:     joinRiskMessages(result.Risks),
			Safe:         !result.HasRisks,
		}
		if err := s.db.WithContext(ctx).Create(mi).Error; err != nil {
			return nil, analyses, err
		}
	}

	if err := s.refreshDailyProgress(ctx, userID, ateAt); err != nil {
		// progress is derived data; the log itself succeeded
		s.log.Warn("daily progress refresh failed", zap.Uint("user_id", userID), zap.Error(err))
	}

	var populated models.Meal
	if err := s.db.WithContext(ctx).Preload("Items").First(&populated, meal.ID).Error; err != nil {
		return nil, analyses, err
	}
	return &populated, analyses, nil
}

// refreshDailyProgress re-sums the day's items into the DailyProgress row
// the pattern detector reads.
func (s *MealService) refreshDailyProgress(ctx context.Context, userID uint, day time.Time) error {
	start := dayStart(day)
	end := start.Add(24 * time.Hour)

	var meals []models.Meal
	if err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ? AND ate_at >= ? AND ate_at < ?", userID, start, end).
		Find(&meals).Error; err != nil {
		return err
	}

	dp := models.DailyProgress{UserID: userID, Date: start}
	for _, m := range meals {
		for _, it := range m.Items {
			dp.Calories += it.Calories
			dp.Protein += it.Protein
			dp.Carbs += it.Carbs
			dp.Fat += it.Fat
			dp.Sodium += it.Sodium
			dp.Sugar += it.Sugar
			dp.SaturatedFat += it.SaturatedFat
		}
	}

	return s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, start).
		Assign(dp).
		FirstOrCreate(&dp).Error
}

func (s *MealService) ListMeals(ctx context.Context, userID uint) ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("ate_at DESC").
		Find(&meals).Error
	return meals, err
}

func (s *MealService) ListRecentMeals(ctx context.Context, userID uint, limit int) ([]models.Meal, error) {
	if limit <= 0 {
		limit = 3
	}
	var meals []models.Meal
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("ate_at DESC").
		Limit(limit).
		Find(&meals).Error
	return meals, err
}

func joinRiskMessages(risks []risk.Risk) string {
	msgs := make([]string, 0, len(risks))
	for _, r := range risks {
		msgs = append(msgs, r.Message)
	}
	return strings.Join(msgs, "; ")
}
