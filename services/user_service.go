package services

import (
	"errors"
	"strings"

	"nutriguard/config"
	"nutriguard/models"
	"nutriguard/risk"

	"gorm.io/gorm"
)

type ProfileInput struct {
	FullName         string   `json:"full_name"`
	HealthConditions []string `json:"health_conditions"`
	Medications      []string `json:"medications"`
}

func GetUserProfile(userID uint) (map[string]interface{}, error) {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}

	return map[string]interface{}{
		"id":                user.ID,
		"email":             user.Email,
		"full_name":         user.FullName,
		"health_conditions": user.ConditionList(),
		"medications":       user.MedicationList(),
	}, nil
}

// UpdateUserProfile stores the profile with condition/medication tags
// normalized, so everything downstream matches on canonical tokens.
func UpdateUserProfile(userID uint, input ProfileInput) error {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return errors.New("user not found")
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.HealthConditions != nil {
		user.HealthConditions = strings.Join(risk.NormalizeTags(input.HealthConditions), ",")
	}
	if input.Medications != nil {
		user.Medications = strings.Join(risk.NormalizeTags(input.Medications), ",")
	}

	return config.DB.Save(&user).Error
}

func GetGoals(userID uint) (*models.DailyGoal, error) {
	var goal models.DailyGoal
	err := config.DB.Where("user_id = ?", userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.DailyGoal{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func UpsertGoals(userID uint, calories, protein, carbs, fat, sodium, sugar float64) error {
	var goal models.DailyGoal
	err := config.DB.Where("user_id = ?", userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		goal = models.DailyGoal{
			UserID:   userID,
			Calories: calories,
			Protein:  protein,
			Carbs:    carbs,
			Fat:      fat,
			Sodium:   sodium,
			Sugar:    sugar,
		}
		return config.DB.Create(&goal).Error
	}
	if err != nil {
		return err
	}

	goal.Calories = calories
	goal.Protein = protein
	goal.Carbs = carbs
	goal.Fat = fat
	goal.Sodium = sodium
	goal.Sugar = sugar

	return config.DB.Save(&goal).Error
}
