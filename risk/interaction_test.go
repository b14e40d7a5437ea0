package risk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detectInteractions(t *testing.T, foodName string, medications []string) []Risk {
	t.Helper()
	d := &interactionDetector{table: DefaultInteractions()}
	risks, err := d.Detect(context.Background(), &Input{
		Food:    &FoodRecord{Name: foodName},
		Profile: &Profile{UserID: 1, Medications: medications},
	})
	require.NoError(t, err)
	return risks
}

func TestInteractionWarfarinVitaminK(t *testing.T) {
	risks := detectInteractions(t, "broccoli salad", []string{"warfarin"})

	require.Len(t, risks, 1)
	assert.Equal(t, AlertHighRisk, risks[0].Type)
	assert.Equal(t, "vitamin K", risks[0].Nutrient)
	assert.Contains(t, risks[0].Message, "warfarin")
	assert.Equal(t, "Consult your doctor before combining these", risks[0].Action)
}

func TestInteractionThyroidTiming(t *testing.T) {
	risks := detectInteractions(t, "soy latte", []string{"thyroid"})

	require.Len(t, risks, 1)
	assert.Contains(t, risks[0].Action, "within 4 hours")
}

func TestInteractionMedicationNameVariants(t *testing.T) {
	// dose suffixes and casing still hit the table entry
	risks := detectInteractions(t, "grapefruit juice", []string{"Statins 20mg"})
	require.Len(t, risks, 1)
	assert.Equal(t, "statins", risks[0].Condition)
}

func TestInteractionNoMedications(t *testing.T) {
	assert.Empty(t, detectInteractions(t, "broccoli salad", nil))
}

func TestInteractionUnrelatedFood(t *testing.T) {
	assert.Empty(t, detectInteractions(t, "rice bowl", []string{"warfarin", "maoi"}))
}

func TestInteractionMultipleMedications(t *testing.T) {
	risks := detectInteractions(t, "aged cheese and grapefruit plate", []string{"maoi", "statins"})
	require.Len(t, risks, 2)
}
