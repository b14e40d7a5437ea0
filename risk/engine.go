package risk

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Notifier delivers critical-alert notifications. Calls are best-effort:
// the engine never lets a notifier failure fail or delay an evaluation.
type Notifier interface {
	Notify(ctx context.Context, userID uint, eventType string, payload map[string]any) error
}

// Config wires the engine. Zero-value fields get sane defaults; collaborators
// left nil simply contribute no risks from their detector.
type Config struct {
	Thresholds   *ThresholdTable
	Patterns     *PatternPolicy
	Interactions map[string]Interaction

	Analyzer IngredientAnalyzer
	History  HistoryStore
	Notifier Notifier

	Logger *zap.Logger

	// Strict makes a failing collaborator abort the whole evaluation.
	// The default treats a failed detector as "contributes no risks".
	Strict bool

	// HistoryTimeout bounds the historical-aggregates query; a timeout is
	// treated as no historical signal. Defaults to 3s.
	HistoryTimeout time.Duration
}

// Engine fans the five detectors out concurrently, merges and sorts their
// findings, scores the result, and derives the verdict. Safe for concurrent
// use; evaluations are fully independent.
type Engine struct {
	detectors []detector
	notifier  Notifier
	log       *zap.Logger
	strict    bool
}

func NewEngine(cfg Config) *Engine {
	thresholds := DefaultThresholds()
	if cfg.Thresholds != nil {
		thresholds = *cfg.Thresholds
	}
	patterns := DefaultPatternPolicy()
	if cfg.Patterns != nil {
		patterns = *cfg.Patterns
	}
	interactions := cfg.Interactions
	if interactions == nil {
		interactions = DefaultInteractions()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	historyTimeout := cfg.HistoryTimeout
	if historyTimeout <= 0 {
		historyTimeout = 3 * time.Second
	}

	return &Engine{
		// slice order is the tie-break order for equal-weight risks:
		// allergy/immediate-danger messaging stays first within its tier
		detectors: []detector{
			&immediateDetector{table: thresholds},
			&ingredientDetector{analyzer: cfg.Analyzer},
			&nutritionDetector{table: thresholds},
			&historyDetector{store: cfg.History, table: thresholds, policy: patterns, timeout: historyTimeout},
			&interactionDetector{table: interactions},
		},
		notifier: cfg.Notifier,
		log:      logger,
		strict:   cfg.Strict,
	}
}

// Evaluate runs every detector against the food and returns one immutable
// result. Malformed input fails fast before any detector runs. There is no
// early exit: all detectors always run so the result is complete.
func (e *Engine) Evaluate(ctx context.Context, food *FoodRecord, profile *Profile, ec EvalContext) (*Result, error) {
	if food == nil || strings.TrimSpace(food.Name) == "" {
		return nil, errors.New("risk: a food record with a name is required")
	}
	if profile == nil || profile.UserID == 0 {
		return nil, errors.New("risk: a user profile with an id is required")
	}

	in := &Input{Food: food, Profile: profile, Context: ec}
	found := make([][]Risk, len(e.detectors))
	failures := make([]error, len(e.detectors))

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range e.detectors {
		i, d := i, d
		g.Go(func() error {
			risks, err := d.Detect(gctx, in)
			if err != nil {
				if e.strict {
					return fmt.Errorf("%s detector: %w", d.Name(), err)
				}
				failures[i] = err
				return nil
			}
			found[i] = risks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, err := range failures {
		if err != nil {
			e.log.Warn("detector degraded, contributing no risks",
				zap.String("detector", e.detectors[i].Name()),
				zap.Uint("user_id", profile.UserID),
				zap.Error(err))
		}
	}

	var risks []Risk
	for _, r := range found {
		risks = append(risks, r...)
	}
	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].Type.Weight() > risks[j].Type.Weight()
	})

	score := 100
	var critical []Risk
	for _, r := range risks {
		score -= r.Type.Weight() * 10
		if r.Type.Critical() {
			critical = append(critical, r)
		}
	}
	if score < 0 {
		score = 0
	}

	result := &Result{
		HasRisks:       len(risks) > 0,
		RiskCount:      len(risks),
		CriticalRisks:  critical,
		Risks:          risks,
		SafetyScore:    score,
		Recommendation: recommend(food, risks, critical),
	}

	if len(critical) > 0 && e.notifier != nil {
		go e.dispatchAlert(profile.UserID, food.Name, result)
	}

	return result, nil
}

// recommend derives the verdict deterministically from the sorted risk list.
func recommend(food *FoodRecord, risks, critical []Risk) Recommendation {
	if len(risks) == 0 {
		return Recommendation{
			Verdict: VerdictSafe,
			Message: fmt.Sprintf("%s looks safe for you. Enjoy!", food.Name),
		}
	}
	if len(critical) > 0 {
		return Recommendation{
			Verdict:     VerdictAvoid,
			Message:     critical[0].Message,
			Alternative: critical[0].Action,
		}
	}
	for _, r := range risks {
		if r.Type == AlertHighRisk {
			return Recommendation{
				Verdict: VerdictNotRecommended,
				Message: fmt.Sprintf("%s is not a good choice for you right now: %s", food.Name, r.Message),
			}
		}
	}
	return Recommendation{
		Verdict: VerdictCaution,
		Message: fmt.Sprintf("%s is okay in moderation, with a few things to watch.", food.Name),
		Tips:    collectTips(risks, 2),
	}
}

// collectTips gathers up to max distinct, non-empty actions in risk order.
func collectTips(risks []Risk, max int) []string {
	var tips []string
	seen := map[string]bool{}
	for _, r := range risks {
		if r.Action == "" || seen[r.Action] {
			continue
		}
		seen[r.Action] = true
		tips = append(tips, r.Action)
		if len(tips) == max {
			break
		}
	}
	return tips
}

// dispatchAlert fires the critical-alert notification after the result is
// assembled. It runs on its own context so it can never block or fail the
// evaluation; errors are logged and discarded.
func (e *Engine) dispatchAlert(userID uint, foodName string, result *Result) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages := make([]string, 0, len(result.CriticalRisks))
	for _, r := range result.CriticalRisks {
		messages = append(messages, r.Message)
	}
	payload := map[string]any{
		"alert_id":     uuid.NewString(),
		"food":         foodName,
		"verdict":      result.Recommendation.Verdict,
		"safety_score": result.SafetyScore,
		"risks":        messages,
	}
	if err := e.notifier.Notify(ctx, userID, "critical_risk", payload); err != nil {
		e.log.Warn("critical alert notification failed",
			zap.Uint("user_id", userID),
			zap.String("food", foodName),
			zap.Error(err))
	}
}
