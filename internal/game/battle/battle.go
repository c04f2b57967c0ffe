// Package battle implements the two-combatant battle simulation engine.
package battle

import (
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/dice"
)

// Roller draws a uniform integer in [0, max]. *dice.Roller satisfies it.
type Roller interface {
	Between(label string, max int) dice.RollResult
}

// TieBreak selects how equal speed rolls are resolved.
type TieBreak string

const (
	// TieBreakReroll redraws both speed rolls until they differ, falling back
	// to a coin flip after MaxRedraws consecutive ties.
	TieBreakReroll TieBreak = "reroll"
	// TieBreakCoinFlip resolves the first tie with a single coin flip.
	TieBreakCoinFlip TieBreak = "coinflip"
)

// ParseTieBreak resolves a configuration string to a TieBreak.
func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(s) {
	case TieBreakReroll, TieBreakCoinFlip:
		return TieBreak(s), nil
	}
	return "", fmt.Errorf("unknown tie-break policy %q: must be one of [reroll, coinflip]", s)
}

// Combatant is a battle-scoped working copy of a character. Only CurrentHP
// changes during a simulation.
type Combatant struct {
	ID            string
	Name          string
	Job           character.Job
	MaxHP         int
	CurrentHP     int
	AttackCeiling int
	SpeedCeiling  int
}

// NewCombatant snapshots c into an independent working copy.
//
// Postcondition: AttackCeiling == floor(c.AttackModifier); SpeedCeiling == floor(c.SpeedModifier).
func NewCombatant(c character.Character) *Combatant {
	return &Combatant{
		ID:            c.ID,
		Name:          c.Name,
		Job:           c.Job,
		MaxHP:         c.Health,
		CurrentHP:     c.CurrentHP,
		AttackCeiling: character.Ceiling(c.AttackModifier),
		SpeedCeiling:  character.Ceiling(c.SpeedModifier),
	}
}

// IsDead reports whether the combatant has no hit points left.
func (c *Combatant) IsDead() bool { return c.CurrentHP <= 0 }

// ApplyDamage reduces CurrentHP by amount, flooring at zero.
// Precondition: amount must be >= 0.
// Postcondition: CurrentHP >= 0.
func (c *Combatant) ApplyDamage(amount int) {
	c.CurrentHP -= amount
	if c.CurrentHP < 0 {
		c.CurrentHP = 0
	}
}

// Turn records one attack within a round.
type Turn struct {
	AttackerID   string
	AttackerName string
	DefenderID   string
	DefenderName string
	Damage       int
	// RemainingHP is the defender's hit points after the attack, floored at 0.
	RemainingHP int
}

// Round records the turn order decision and the attacks of one round.
type Round struct {
	Number      int
	FirstID     string
	FirstName   string
	FirstSpeed  int
	SecondID    string
	SecondName  string
	SecondSpeed int
	// Redraws counts tied speed rolls that were drawn again.
	Redraws int
	// CoinFlip is true when the order was settled by a coin flip.
	CoinFlip bool
	Turns    []Turn
}

// Result is the outcome of a simulated battle.
type Result struct {
	// Winner and Loser are the input characters with CurrentHP set to their
	// post-battle values.
	Winner character.Character
	Loser  character.Character
	Rounds []Round
	Log    []string
}
