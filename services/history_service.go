package services

import (
	"context"
	"errors"
	"time"

	"nutriguard/models"
	"nutriguard/risk"

	"gorm.io/gorm"
)

// HistoryService is the gorm-backed historical aggregates store behind the
// pattern detector: today's running totals and the recent-food window.
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// TodayTotals implements risk.HistoryStore. The totals come from the
// DailyProgress row the meal service keeps current; a missing row means an
// empty day, not an error.
func (s *HistoryService) TodayTotals(ctx context.Context, userID uint) (*risk.DayTotals, error) {
	start := dayStart(time.Now())

	totals := &risk.DayTotals{}

	var dp models.DailyProgress
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, start).
		First(&dp).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		totals.Calories = dp.Calories
		totals.Sodium = dp.Sodium
		totals.Sugar = dp.Sugar
		totals.SaturatedFat = dp.SaturatedFat
	}

	var goal models.DailyGoal
	err = s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		First(&goal).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	totals.CalorieTarget = goal.Calories

	return totals, nil
}

// RecentFoods implements risk.HistoryStore: the logged foods of the last N
// days with their persisted health scores.
func (s *HistoryService) RecentFoods(ctx context.Context, userID uint, days int) ([]risk.FoodRecord, error) {
	if days <= 0 {
		days = 7
	}
	since := dayStart(time.Now()).AddDate(0, 0, -days)

	var items []models.MealItem
	err := s.db.WithContext(ctx).
		Joins("JOIN meals ON meals.id = meal_items.meal_id").
		Where("meals.user_id = ? AND meals.ate_at >= ?", userID, since).
		Order("meals.ate_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	foods := make([]risk.FoodRecord, 0, len(items))
	for _, it := range items {
		foods = append(foods, risk.FoodRecord{
			Name:         it.FoodName,
			Calories:     it.Calories,
			Protein:      it.Protein,
			Carbs:        it.Carbs,
			Fat:          it.Fat,
			Fiber:        it.Fiber,
			Sugar:        it.Sugar,
			Sodium:       it.Sodium,
			SaturatedFat: it.SaturatedFat,
			Cholesterol:  it.Cholesterol,
			Brand:        it.Brand,
			HealthScore:  it.HealthScore,
		})
	}
	return foods, nil
}

func dayStart(t time.Time) time.Time {
	tt := t.In(time.Local)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.Local)
}
