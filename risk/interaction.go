package risk

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Interaction describes foods known to interfere with one medication.
type Interaction struct {
	Foods    []string // food name fragments to match, lowercased
	Nutrient string   // the interfering nutrient, if one is known
	Timing   string   // spacing instruction instead of full avoidance
}

// DefaultInteractions returns the stock medication table, keyed by
// normalized medication name.
func DefaultInteractions() map[string]Interaction {
	return map[string]Interaction{
		"warfarin": {
			Foods:    []string{"leafy greens", "spinach", "kale", "broccoli", "brussels sprouts"},
			Nutrient: "vitamin K",
		},
		"statins": {
			Foods: []string{"grapefruit", "pomegranate"},
		},
		"maoi": {
			Foods: []string{"aged cheese", "cured meats", "fermented foods"},
		},
		"thyroid": {
			Foods:  []string{"soy", "coffee", "high-fiber foods"},
			Timing: "within 4 hours",
		},
	}
}

// interactionDetector checks the food name against the medication table for
// every medication the profile lists.
type interactionDetector struct {
	table map[string]Interaction
}

func (d *interactionDetector) Name() string { return "interaction" }

func (d *interactionDetector) Detect(_ context.Context, in *Input) ([]Risk, error) {
	if len(d.table) == 0 || len(in.Profile.Medications) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(d.table))
	for k := range d.table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var risks []Risk
	for _, med := range in.Profile.Medications {
		norm := NormalizeTag(med)
		if norm == "" {
			continue
		}
		for _, key := range keys {
			// "warfarin_5mg" should still hit the "warfarin" entry
			if norm != key && !strings.Contains(norm, key) {
				continue
			}
			entry := d.table[key]
			for _, food := range entry.Foods {
				if !containsFold(in.Food.Name, food) {
					continue
				}
				msg := fmt.Sprintf("%s can interfere with %s.", in.Food.Name, med)
				if entry.Nutrient != "" {
					msg = fmt.Sprintf("%s is rich in %s, which interferes with %s.", in.Food.Name, entry.Nutrient, med)
				}
				action := "Consult your doctor before combining these"
				if entry.Timing != "" {
					action = fmt.Sprintf("Avoid eating this %s of taking %s", entry.Timing, med)
				}
				risks = append(risks, Risk{
					Type:       AlertHighRisk,
					Severity:   SeverityHigh,
					Message:    msg,
					Action:     action,
					Condition:  key,
					Nutrient:   entry.Nutrient,
					Ingredient: food,
				})
			}
		}
	}
	return risks, nil
}
