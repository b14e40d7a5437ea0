package risk

import "context"

// Input is the read-only payload shared by all detectors for one evaluation.
type Input struct {
	Food    *FoodRecord
	Profile *Profile
	Context EvalContext
}

// detector is one independent source of risk findings. Implementations must
// respect the context deadline and must not mutate the input.
type detector interface {
	Name() string
	Detect(ctx context.Context, in *Input) ([]Risk, error)
}
