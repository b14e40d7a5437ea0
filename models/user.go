package models

import (
	"strings"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
	FullName string

	// Comma-separated condition tags, normalized on write
	// ("diabetes,peanut_allergy").
	HealthConditions string
	// Comma-separated medication names ("warfarin,levothyroxine").
	Medications string
}

// ConditionList splits the stored tags into a slice, dropping empties.
func (u *User) ConditionList() []string {
	return splitCSV(u.HealthConditions)
}

// MedicationList splits the stored medications into a slice.
func (u *User) MedicationList() []string {
	return splitCSV(u.Medications)
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
