package risk

import "fmt"

// AlertType classifies a risk finding. The order of the constants is the
// severity order used for sorting and scoring: higher value sorts first.
type AlertType int

const (
	AlertCaution AlertType = iota + 1
	AlertPattern
	AlertHighRisk
	AlertAllergy
	AlertImmediateDanger
)

func (t AlertType) String() string {
	switch t {
	case AlertImmediateDanger:
		return "IMMEDIATE_DANGER"
	case AlertAllergy:
		return "ALLERGY_ALERT"
	case AlertHighRisk:
		return "HIGH_RISK"
	case AlertPattern:
		return "PATTERN_ALERT"
	case AlertCaution:
		return "CAUTION"
	default:
		return fmt.Sprintf("AlertType(%d)", int(t))
	}
}

// Weight is the contribution of one risk of this type to the safety score.
func (t AlertType) Weight() int {
	switch t {
	case AlertImmediateDanger, AlertAllergy:
		return 5
	case AlertHighRisk:
		return 3
	case AlertPattern:
		return 2
	case AlertCaution:
		return 1
	default:
		return 0
	}
}

// Critical reports whether this type belongs to the critical tier that
// forces an AVOID verdict and fires the alert pipeline.
func (t AlertType) Critical() bool {
	return t == AlertImmediateDanger || t == AlertAllergy
}

func (t AlertType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// Severity categorizes how serious a finding is, independent of its type.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Risk is a single structured finding that a food may be unsafe for this
// user right now. Detectors create risks; nothing mutates them afterwards.
type Risk struct {
	Type       AlertType `json:"type"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	Action     string    `json:"action,omitempty"`
	Condition  string    `json:"condition,omitempty"`
	Nutrient   string    `json:"nutrient,omitempty"`
	Ingredient string    `json:"ingredient,omitempty"`
	Pattern    string    `json:"pattern,omitempty"`
	Value      float64   `json:"value,omitempty"`
	Threshold  float64   `json:"threshold,omitempty"`
}

// Verdict is the final categorical recommendation for one food.
type Verdict string

const (
	VerdictSafe           Verdict = "SAFE"
	VerdictCaution        Verdict = "CAUTION"
	VerdictNotRecommended Verdict = "NOT_RECOMMENDED"
	VerdictAvoid          Verdict = "AVOID"
)

// Recommendation is derived deterministically from the sorted risk list.
type Recommendation struct {
	Verdict     Verdict  `json:"verdict"`
	Message     string   `json:"message"`
	Tips        []string `json:"tips,omitempty"`
	Alternative string   `json:"alternative,omitempty"`
}

// Result is the outcome of one evaluation. Risks are sorted descending by
// type weight; equal-weight risks keep detector invocation order.
type Result struct {
	HasRisks       bool           `json:"has_risks"`
	RiskCount      int            `json:"risk_count"`
	CriticalRisks  []Risk         `json:"critical_risks"`
	Risks          []Risk         `json:"risks"`
	SafetyScore    int            `json:"safety_score"`
	Recommendation Recommendation `json:"recommendation"`
}
