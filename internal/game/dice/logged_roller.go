package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged uniform rolls.
// All rolls are logged at debug level with label, bound, and value.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if src == nil {
		panic("dice: NewLoggedRoller precondition violated: src must be non-nil")
	}
	if logger == nil {
		panic("dice: NewLoggedRoller precondition violated: logger must be non-nil")
	}
	return &Roller{src: src, logger: logger}
}

// Between rolls a uniform integer in [0, max] and logs the result at debug level.
//
// Postcondition: result.Value is in [0, max(max, 0)]; result.Max == max(max, 0).
func (r *Roller) Between(label string, max int) RollResult {
	if max < 0 {
		max = 0
	}
	result := RollResult{
		Label: label,
		Max:   max,
		Value: Between(r.src, max),
	}
	r.logger.Debug("dice roll",
		zap.String("label", result.Label),
		zap.Int("max", result.Max),
		zap.Int("value", result.Value),
	)
	return result
}
