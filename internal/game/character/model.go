// Package character defines the character domain model and pure stat derivation.
package character

import (
	"fmt"
	"strings"
	"time"
)

// Job is a character archetype. The set of jobs is closed.
type Job string

const (
	Warrior Job = "Warrior"
	Thief   Job = "Thief"
	Mage    Job = "Mage"
)

// Jobs returns every valid Job in declaration order.
func Jobs() []Job {
	return []Job{Warrior, Thief, Mage}
}

// Valid reports whether j is one of the enumerated jobs.
func (j Job) Valid() bool {
	switch j {
	case Warrior, Thief, Mage:
		return true
	}
	return false
}

// String returns the display name of the job.
func (j Job) String() string { return string(j) }

// ParseJob resolves s to a Job, ignoring case and surrounding whitespace.
//
// Postcondition: Returns a valid Job or an *InvalidJobError.
func ParseJob(s string) (Job, error) {
	for _, j := range Jobs() {
		if strings.EqualFold(strings.TrimSpace(s), string(j)) {
			return j, nil
		}
	}
	return "", &InvalidJobError{Job: s}
}

// InvalidJobError is returned when a job value falls outside the enumeration.
type InvalidJobError struct {
	Job string
}

func (e *InvalidJobError) Error() string {
	return fmt.Sprintf("invalid job %q: must be one of Warrior, Thief, Mage", e.Job)
}

// Attributes holds the three base attributes that drive derived stats.
type Attributes struct {
	Strength     int
	Dexterity    int
	Intelligence int
}

// Character represents one combatant's persistent state.
//
// ID, CreatedAt, and UpdatedAt are set by the persistence layer; a zero ID
// indicates an unsaved character.
//
// Invariant: AttackModifier and SpeedModifier equal AttackModifier(Job, Attributes)
// and SpeedModifier(Job, Attributes) after Recompute.
type Character struct {
	ID   string
	Name string
	Job  Job

	Attributes Attributes
	Health     int
	CurrentHP  int

	AttackModifier float64
	SpeedModifier  float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDefeated reports whether the character has no hit points left.
func (c *Character) IsDefeated() bool {
	return c.CurrentHP <= 0
}
