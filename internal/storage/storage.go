// Package storage defines the character store contract shared by all
// persistence backends.
package storage

import (
	"context"
	"errors"

	"github.com/cory-johannsen/arena/internal/game/character"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterNameTaken is returned when a name is already used by another character.
var ErrCharacterNameTaken = errors.New("character name already taken")

// HPUpdate sets the current hit points of one character.
type HPUpdate struct {
	ID        string
	CurrentHP int
}

// CharacterStore persists characters keyed by ID with unique names.
//
// Implementations MUST be safe for concurrent use and MUST return the derived
// modifiers recomputed for every character they hand out.
type CharacterStore interface {
	// Create inserts c and returns the stored copy with timestamps set.
	//
	// Precondition: c.ID must be non-empty.
	// Postcondition: Returns ErrCharacterNameTaken if c.Name is in use.
	Create(ctx context.Context, c *character.Character) (*character.Character, error)

	// List returns all characters ordered by creation time.
	List(ctx context.Context) ([]*character.Character, error)

	// Get returns the character with id or ErrCharacterNotFound.
	Get(ctx context.Context, id string) (*character.Character, error)

	// Update overwrites the stored record for c.ID.
	//
	// Postcondition: Returns ErrCharacterNotFound or ErrCharacterNameTaken on conflict.
	Update(ctx context.Context, c *character.Character) (*character.Character, error)

	// SaveHP persists only the current hit points of every character named
	// in updates.
	//
	// Postcondition: Either every update is applied or none is. Returns
	// ErrCharacterNotFound if any id is unknown.
	SaveHP(ctx context.Context, updates ...HPUpdate) error

	// Delete removes the character with id or returns ErrCharacterNotFound.
	Delete(ctx context.Context, id string) error

	// Health returns nil when the backend is reachable.
	Health(ctx context.Context) error
}
