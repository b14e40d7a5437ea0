package risk

import (
	"context"
	"fmt"
	"strings"
)

// immediateDetector covers the veto checks: allergies, pregnancy-banned
// foods, and (as an extension point) medication-food vetoes outside the
// interaction table. A match on one check never suppresses the others.
type immediateDetector struct {
	table ThresholdTable
}

func (d *immediateDetector) Name() string { return "immediate" }

func (d *immediateDetector) Detect(_ context.Context, in *Input) ([]Risk, error) {
	var risks []Risk

	for _, cond := range in.Profile.Conditions {
		allergen, ok := allergenFromTag(cond)
		if !ok {
			continue
		}
		if containsFold(in.Food.Name, allergen) || containsFold(in.Food.Ingredients, allergen) {
			risks = append(risks, Risk{
				Type:       AlertAllergy,
				Severity:   SeverityCritical,
				Message:    fmt.Sprintf("%s appears to contain %s, which you are allergic to.", in.Food.Name, allergen),
				Action:     "Find an alternative immediately",
				Condition:  NormalizeTag(cond),
				Ingredient: allergen,
			})
		}
	}

	if d.isPregnant(in.Profile) {
		for _, banned := range d.table.PregnancyBannedFoods {
			if containsFold(in.Food.Name, banned) {
				risks = append(risks, Risk{
					Type:       AlertImmediateDanger,
					Severity:   SeverityCritical,
					Message:    fmt.Sprintf("%s is not safe during pregnancy: risk of foodborne illness and harm to the baby's development.", in.Food.Name),
					Action:     "Avoid this food until after pregnancy",
					Condition:  "pregnancy",
					Ingredient: banned,
				})
			}
		}
		for _, cat := range d.table.PregnancyTriggerCategories {
			term := strings.ReplaceAll(cat, "_", " ")
			if containsFold(in.Food.Ingredients, term) {
				risks = append(risks, Risk{
					Type:       AlertImmediateDanger,
					Severity:   SeverityCritical,
					Message:    fmt.Sprintf("%s lists %s on its ingredients, which should be avoided during pregnancy.", in.Food.Name, term),
					Action:     "Avoid this food until after pregnancy",
					Condition:  "pregnancy",
					Ingredient: term,
				})
			}
		}
	}

	// Medication-food vetoes beyond the interaction table would go here.
	// None are defined yet; the interaction detector covers the known table.

	return risks, nil
}

func (d *immediateDetector) isPregnant(p *Profile) bool {
	for _, c := range p.Conditions {
		if containsFold(c, "pregnan") {
			return true
		}
	}
	return false
}
