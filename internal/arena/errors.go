package arena

import (
	"errors"
	"fmt"
)

// ErrSameCharacter is returned when a battle names one character twice.
var ErrSameCharacter = errors.New("a character cannot battle itself")

// ErrCharacterDefeated is returned when a battle entrant has no hit points left.
var ErrCharacterDefeated = errors.New("character has no hit points left")

// ErrUnresolvable is returned when neither entrant can ever deal damage.
var ErrUnresolvable = errors.New("battle cannot be resolved: neither character can deal damage")

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
