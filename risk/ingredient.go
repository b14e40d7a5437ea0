package risk

import (
	"context"
	"fmt"
	"strings"
)

// IngredientAnalyzer is the external collaborator that classifies a raw
// ingredient list into harmful-ingredient findings. It may be slow or
// unavailable; a missing ingredient list skips the detector entirely.
type IngredientAnalyzer interface {
	Analyze(ctx context.Context, ingredients string, profile *Profile) (*IngredientReport, error)
}

// Processing levels reported by the analyzer.
const (
	ProcessingUnprocessed        = "unprocessed"
	ProcessingMinimallyProcessed = "minimally_processed"
	ProcessingProcessed          = "processed"
	ProcessingUltraProcessed     = "ultra_processed"
)

type HarmfulIngredient struct {
	Name                string   `json:"name"`
	Severity            string   `json:"severity"`
	PersonalSeverity    string   `json:"personal_severity,omitempty"`
	Risks               []string `json:"risks"`
	Category            string   `json:"category"`
	AlternativeProducts []string `json:"alternative_products,omitempty"`
}

type IngredientReport struct {
	HarmfulIngredients []HarmfulIngredient `json:"harmful_ingredients"`
	ProcessingLevel    string              `json:"processing_level"`
	HiddenSugars       []string            `json:"hidden_sugars"`
}

// ingredientDetector is a thin adapter over the analyzer: it reinterprets
// the analyzer's findings as risk records.
type ingredientDetector struct {
	analyzer IngredientAnalyzer
}

func (d *ingredientDetector) Name() string { return "ingredient" }

// hiddenSugarLimit: more than this many distinct hidden sugars earns a caution.
const hiddenSugarLimit = 3

func (d *ingredientDetector) Detect(ctx context.Context, in *Input) ([]Risk, error) {
	if d.analyzer == nil || strings.TrimSpace(in.Food.Ingredients) == "" {
		return nil, nil
	}

	report, err := d.analyzer.Analyze(ctx, in.Food.Ingredients, in.Profile)
	if err != nil {
		return nil, fmt.Errorf("ingredient analyzer: %w", err)
	}
	if report == nil {
		return nil, nil
	}

	var risks []Risk
	for _, ing := range report.HarmfulIngredients {
		severity := ing.Severity
		if ing.PersonalSeverity != "" {
			severity = ing.PersonalSeverity
		}
		typ, sev := AlertCaution, SeverityLow
		if severity == "very_high" {
			typ, sev = AlertHighRisk, SeverityHigh
		}
		action := "Choose a cleaner alternative"
		if len(ing.AlternativeProducts) > 0 {
			action = "Try " + ing.AlternativeProducts[0] + " instead"
		}
		risks = append(risks, Risk{
			Type:       typ,
			Severity:   sev,
			Message:    fmt.Sprintf("Contains %s: %s.", ing.Name, strings.Join(ing.Risks, "; ")),
			Action:     action,
			Ingredient: ing.Name,
		})
	}

	if report.ProcessingLevel == ProcessingUltraProcessed {
		risks = append(risks, Risk{
			Type:     AlertHighRisk,
			Severity: SeverityHigh,
			Message:  "This is an ultra-processed food; regular intake is linked to poorer health outcomes.",
			Action:   "Prefer minimally processed foods when you can",
		})
	}

	if len(report.HiddenSugars) > hiddenSugarLimit {
		risks = append(risks, Risk{
			Type:     AlertCaution,
			Severity: SeverityLow,
			Message:  fmt.Sprintf("%d hidden sugars in the ingredient list: %s.", len(report.HiddenSugars), strings.Join(report.HiddenSugars, ", ")),
			Action:   "Check the label; sugar hides under many names",
		})
	}

	return risks, nil
}
