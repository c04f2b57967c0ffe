// Package memory provides an in-process CharacterStore for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/storage"
)

// Store is a map-backed CharacterStore. Records are copied on the way in and
// out so callers never share memory with the store.
type Store struct {
	mu     sync.RWMutex
	byID   map[string]*character.Character
	byName map[string]string
	now    func() time.Time
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		byID:   make(map[string]*character.Character),
		byName: make(map[string]string),
		now:    time.Now,
	}
}

var _ storage.CharacterStore = (*Store)(nil)

func clone(c *character.Character) *character.Character {
	out := *c
	out.Recompute()
	return &out
}

// Create inserts c.
func (s *Store) Create(_ context.Context, c *character.Character) (*character.Character, error) {
	if c == nil || c.ID == "" {
		panic("memory: Create precondition violated: character with non-empty ID required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[c.Name]; taken {
		return nil, storage.ErrCharacterNameTaken
	}
	rec := clone(c)
	rec.CreatedAt = s.now()
	rec.UpdatedAt = rec.CreatedAt
	s.byID[rec.ID] = rec
	s.byName[rec.Name] = rec.ID
	return clone(rec), nil
}

// List returns every character ordered by creation time, then ID.
func (s *Store) List(_ context.Context) ([]*character.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*character.Character, 0, len(s.byID))
	for _, c := range s.byID {
		out = append(out, clone(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Get returns the character with id.
func (s *Store) Get(_ context.Context, id string) (*character.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrCharacterNotFound
	}
	return clone(c), nil
}

// Update overwrites the record for c.ID, moving the name index if the name changed.
func (s *Store) Update(_ context.Context, c *character.Character) (*character.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.byID[c.ID]
	if !ok {
		return nil, storage.ErrCharacterNotFound
	}
	if owner, taken := s.byName[c.Name]; taken && owner != c.ID {
		return nil, storage.ErrCharacterNameTaken
	}
	rec := clone(c)
	rec.CreatedAt = old.CreatedAt
	rec.UpdatedAt = s.now()
	delete(s.byName, old.Name)
	s.byName[rec.Name] = rec.ID
	s.byID[rec.ID] = rec
	return clone(rec), nil
}

// SaveHP sets the current hit points of every character in updates. All ids
// are checked before any record changes.
func (s *Store) SaveHP(_ context.Context, updates ...storage.HPUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range updates {
		if _, ok := s.byID[u.ID]; !ok {
			return storage.ErrCharacterNotFound
		}
	}
	now := s.now()
	for _, u := range updates {
		c := s.byID[u.ID]
		c.CurrentHP = u.CurrentHP
		c.UpdatedAt = now
	}
	return nil
}

// Delete removes the character with id.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return storage.ErrCharacterNotFound
	}
	delete(s.byID, id)
	delete(s.byName, c.Name)
	return nil
}

// Health always succeeds for the in-memory store.
func (s *Store) Health(context.Context) error { return nil }
