// Package dice provides the core randomness abstraction and roll-result types
// for the arena battle engine.
package dice

import "fmt"

// RollResult holds the audit trail for a single uniform roll in [0, Max].
//
// Invariant: 0 <= Value <= Max.
type RollResult struct {
	Label string // what the roll was for, e.g. "Gandalf speed"
	Max   int    // inclusive upper bound of the roll
	Value int    // rolled value
}

// String returns a human-readable audit string in the format:
//
//	"Gandalf speed [0..4] → 3"
//
// Precondition: r.Label is non-empty.
func (r RollResult) String() string {
	if r.Label == "" {
		panic("dice: RollResult.String() precondition violated: Label must be non-empty")
	}
	return fmt.Sprintf("%s [0..%d] → %d", r.Label, r.Max, r.Value)
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Between returns a uniformly distributed integer in [0, max], drawing from src.
// A negative max is treated as 0.
//
// Precondition: src must be non-nil.
// Postcondition: 0 <= result <= max(max, 0).
func Between(src Source, max int) int {
	if max <= 0 {
		return 0
	}
	return src.Intn(max + 1)
}
