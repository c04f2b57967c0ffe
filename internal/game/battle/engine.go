package battle

import (
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/character"
)

// DefaultMaxRedraws bounds consecutive tied speed rolls under TieBreakReroll.
const DefaultMaxRedraws = 100

// Config tunes the engine's turn-order policy and narrative.
type Config struct {
	TieBreak   TieBreak
	MaxRedraws int
	// StartLine emits the "Battle between ..." line before the first round.
	StartLine bool
}

// DefaultConfig returns the reference behavior: reroll ties, with a start line.
func DefaultConfig() Config {
	return Config{
		TieBreak:   TieBreakReroll,
		MaxRedraws: DefaultMaxRedraws,
		StartLine:  true,
	}
}

// Engine simulates battles between two characters. It holds no per-battle
// state and is safe for concurrent use when its Roller is.
type Engine struct {
	roller Roller
	cfg    Config
}

// NewEngine creates an Engine drawing all randomness from roller.
//
// Precondition: roller must be non-nil.
// Postcondition: Zero-valued TieBreak and MaxRedraws fall back to the defaults.
func NewEngine(roller Roller, cfg Config) *Engine {
	if roller == nil {
		panic("battle: NewEngine precondition violated: roller must be non-nil")
	}
	if cfg.TieBreak == "" {
		cfg.TieBreak = TieBreakReroll
	}
	if cfg.MaxRedraws <= 0 {
		cfg.MaxRedraws = DefaultMaxRedraws
	}
	return &Engine{roller: roller, cfg: cfg}
}

// CanResolve reports whether a battle between a and b can ever end. When
// neither side can roll positive damage and both are alive, no sequence of
// rolls reduces either to 0 HP.
func CanResolve(a, b character.Character) bool {
	if a.CurrentHP <= 0 || b.CurrentHP <= 0 {
		return true
	}
	return character.Ceiling(a.AttackModifier) > 0 || character.Ceiling(b.AttackModifier) > 0
}

// Simulate runs rounds until one side reaches 0 HP. c1 and c2 are taken by
// value and never mutated; all damage is tracked on working copies.
//
// Precondition: CanResolve(c1, c2).
// Postcondition: Winner.CurrentHP > 0 and Loser.CurrentHP == 0 when both
// entered with positive HP. Log ends with the winner line.
func (e *Engine) Simulate(c1, c2 character.Character) Result {
	if !CanResolve(c1, c2) {
		panic(fmt.Sprintf("battle: Simulate precondition violated: neither %q nor %q can deal damage", c1.Name, c2.Name))
	}

	a := NewCombatant(c1)
	b := NewCombatant(c2)

	var log []string
	if e.cfg.StartLine {
		log = append(log, startLine(a, b))
	}

	var rounds []Round
	for !a.IsDead() && !b.IsDead() {
		r := e.playRound(len(rounds)+1, a, b)
		rounds = append(rounds, r)
		log = append(log, roundLine(r))
		for _, t := range r.Turns {
			log = append(log, attackLine(t))
		}
	}

	winner, loser := b, a
	winChar, loseChar := c2, c1
	if !a.IsDead() {
		winner, loser = a, b
		winChar, loseChar = c1, c2
	}
	winChar.CurrentHP = winner.CurrentHP
	loseChar.CurrentHP = loser.CurrentHP
	log = append(log, winLine(winner))

	return Result{
		Winner: winChar,
		Loser:  loseChar,
		Rounds: rounds,
		Log:    log,
	}
}

// playRound decides turn order, then lets the first attacker strike and, if
// the defender survives, the second attacker strike back.
func (e *Engine) playRound(number int, a, b *Combatant) Round {
	first, second, fs, ss, redraws, flipped := e.turnOrder(a, b)
	r := Round{
		Number:      number,
		FirstID:     first.ID,
		FirstName:   first.Name,
		FirstSpeed:  fs,
		SecondID:    second.ID,
		SecondName:  second.Name,
		SecondSpeed: ss,
		Redraws:     redraws,
		CoinFlip:    flipped,
	}

	t := e.attack(first, second)
	r.Turns = append(r.Turns, t)
	if second.IsDead() {
		return r
	}
	r.Turns = append(r.Turns, e.attack(second, first))
	return r
}

// turnOrder rolls speed for both combatants and returns them in acting order
// with their rolls.
//
// Postcondition: fs > ss unless flipped is true, in which case fs == ss.
func (e *Engine) turnOrder(a, b *Combatant) (first, second *Combatant, fs, ss, redraws int, flipped bool) {
	for {
		ra := e.roller.Between(a.Name+" speed", a.SpeedCeiling).Value
		rb := e.roller.Between(b.Name+" speed", b.SpeedCeiling).Value
		switch {
		case ra > rb:
			return a, b, ra, rb, redraws, false
		case rb > ra:
			return b, a, rb, ra, redraws, false
		}

		// A tie is certain when both ceilings are 0; redrawing cannot help.
		forced := a.SpeedCeiling == 0 && b.SpeedCeiling == 0
		if e.cfg.TieBreak == TieBreakCoinFlip || forced || redraws >= e.cfg.MaxRedraws {
			if e.roller.Between("initiative coin flip", 1).Value == 0 {
				return a, b, ra, rb, redraws, true
			}
			return b, a, rb, ra, redraws, true
		}
		redraws++
	}
}

func (e *Engine) attack(attacker, defender *Combatant) Turn {
	dmg := e.roller.Between(attacker.Name+" damage", attacker.AttackCeiling).Value
	defender.ApplyDamage(dmg)
	return Turn{
		AttackerID:   attacker.ID,
		AttackerName: attacker.Name,
		DefenderID:   defender.ID,
		DefenderName: defender.Name,
		Damage:       dmg,
		RemainingHP:  defender.CurrentHP,
	}
}
