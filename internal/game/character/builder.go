package character

import (
	"errors"
	"regexp"
)

// ErrInvalidName is returned when a name is not 4-15 letters or underscores.
var ErrInvalidName = errors.New("name must be 4-15 characters, letters and underscores only")

var namePattern = regexp.MustCompile(`^[A-Za-z_]{4,15}$`)

// ValidateName checks the display-name rules.
//
// Postcondition: Returns nil or ErrInvalidName.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}

// New constructs an unsaved Character with the job baseline applied and
// derived modifiers computed. CurrentHP starts at Health.
//
// Precondition: name should already satisfy ValidateName.
// Postcondition: Returns a fully derived Character or an *InvalidJobError.
func New(name string, job Job) (*Character, error) {
	c := &Character{Name: name}
	if err := c.ChangeJob(job); err != nil {
		return nil, err
	}
	return c, nil
}

// ChangeJob replaces the job, attributes, health, and current HP with the new
// job's baseline, then recomputes the derived modifiers. Nothing from the
// previous job is retained.
//
// Postcondition: On success c is consistent with job; on error c is unchanged.
func (c *Character) ChangeJob(job Job) error {
	b, err := InitialStats(job)
	if err != nil {
		return err
	}
	c.Job = job
	c.Attributes = b.Attributes
	c.Health = b.Health
	c.CurrentHP = b.Health
	c.Recompute()
	return nil
}

// Recompute stores the derived attack and speed modifiers for the current job
// and attributes. It must be called after any attribute or job mutation.
func (c *Character) Recompute() {
	c.AttackModifier = AttackModifier(c.Job, c.Attributes)
	c.SpeedModifier = SpeedModifier(c.Job, c.Attributes)
}
