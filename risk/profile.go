package risk

import (
	"strings"
	"time"
)

// FoodRecord is the structured nutrition snapshot for one food. Values are
// absolute for the logged portion, not per 100g. The engine never mutates it.
type FoodRecord struct {
	Name         string  `json:"name"`
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fat          float64 `json:"fat"`
	Fiber        float64 `json:"fiber"`
	Sugar        float64 `json:"sugar"`
	Sodium       float64 `json:"sodium"`
	SaturatedFat float64 `json:"saturated_fat"`
	Cholesterol  float64 `json:"cholesterol"`
	Ingredients  string  `json:"ingredients,omitempty"`
	Brand        string  `json:"brand,omitempty"`
	Source       string  `json:"source,omitempty"`

	// HealthScore is the safety score persisted when the food was logged.
	// Only set on records coming back from the history store.
	HealthScore float64 `json:"health_score,omitempty"`
}

// Profile is the read-only slice of the user the engine needs.
// Condition tags and medications are normalized at this boundary so the
// detectors match against canonical tokens, not raw free text.
type Profile struct {
	UserID        uint
	Conditions    []string // normalized: lowercase, underscores
	Medications   []string
	CalorieTarget float64
	ProteinTarget float64
	CarbTarget    float64
	FatTarget     float64
}

// NormalizeTag canonicalizes a condition or medication tag:
// trimmed, lowercased, spaces collapsed to underscores.
func NormalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "_")
}

// NormalizeTags canonicalizes a list, dropping empties.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if n := NormalizeTag(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// HasCondition reports whether the profile carries the given normalized tag.
func (p *Profile) HasCondition(tag string) bool {
	for _, c := range p.Conditions {
		if NormalizeTag(c) == tag {
			return true
		}
	}
	return false
}

// allergenFromTag derives the allergen name from a "<x>_allergy" condition
// tag: strip the suffix and turn underscores back into spaces, so
// "peanut_allergy" matches "peanut" and "tree_nut_allergy" matches "tree nut".
func allergenFromTag(tag string) (string, bool) {
	tag = NormalizeTag(tag)
	if !strings.Contains(tag, "allergy") {
		return "", false
	}
	name := strings.TrimSuffix(tag, "_allergy")
	name = strings.TrimSuffix(name, "allergy")
	name = strings.Trim(name, "_")
	if name == "" {
		return "", false
	}
	return strings.ReplaceAll(name, "_", " "), true
}

// EvalContext carries the per-call situational signals. Supplied fresh on
// every evaluation and never persisted by the engine.
type EvalContext struct {
	Location   string
	Social     string
	Mood       string
	MealGap    time.Duration // time since the previous meal; zero if unknown
	LastMealAt time.Time
	Now        time.Time // injected clock; zero means time.Now()
}

func (c EvalContext) now() time.Time {
	if c.Now.IsZero() {
		return time.Now()
	}
	return c.Now
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
