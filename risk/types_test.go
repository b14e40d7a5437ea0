package risk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertTypeOrdering(t *testing.T) {
	assert.Greater(t, AlertImmediateDanger.Weight(), AlertHighRisk.Weight())
	assert.Greater(t, AlertHighRisk.Weight(), AlertPattern.Weight())
	assert.Greater(t, AlertPattern.Weight(), AlertCaution.Weight())
	assert.Equal(t, AlertAllergy.Weight(), AlertImmediateDanger.Weight())
}

func TestAlertTypeCritical(t *testing.T) {
	assert.True(t, AlertAllergy.Critical())
	assert.True(t, AlertImmediateDanger.Critical())
	assert.False(t, AlertHighRisk.Critical())
	assert.False(t, AlertPattern.Critical())
	assert.False(t, AlertCaution.Critical())
}

func TestAlertTypeJSON(t *testing.T) {
	b, err := json.Marshal(Risk{Type: AlertAllergy, Severity: SeverityCritical, Message: "x"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"ALLERGY_ALERT"`)
}

func TestNormalizeTag(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Diabetes", "diabetes"},
		{"  Heart Disease  ", "heart_disease"},
		{"TREE  NUT   ALLERGY", "tree_nut_allergy"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTag(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeTagsDropsEmpties(t *testing.T) {
	got := NormalizeTags([]string{"Diabetes", "  ", "Heart Disease"})
	assert.Equal(t, []string{"diabetes", "heart_disease"}, got)
}

func TestAllergenFromTag(t *testing.T) {
	tests := []struct {
		tag  string
		want string
		ok   bool
	}{
		{"peanut_allergy", "peanut", true},
		{"tree_nut_allergy", "tree nut", true},
		{"Shellfish Allergy", "shellfish", true},
		{"diabetes", "", false},
		{"allergy", "", false},
	}
	for _, tt := range tests {
		got, ok := allergenFromTag(tt.tag)
		assert.Equal(t, tt.ok, ok, "tag %q", tt.tag)
		assert.Equal(t, tt.want, got, "tag %q", tt.tag)
	}
}

func TestHasCondition(t *testing.T) {
	p := &Profile{Conditions: []string{"diabetes", "Heart Disease"}}
	assert.True(t, p.HasCondition("diabetes"))
	assert.True(t, p.HasCondition("heart_disease"))
	assert.False(t, p.HasCondition("hypertension"))
}
