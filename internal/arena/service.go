// Package arena implements the character management and battle use cases on
// top of a character store and the battle engine.
package arena

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/storage"
)

// CharacterPatch lists the fields UpdateCharacter may change. Nil fields are
// left alone. A job change resets attributes, health, and current HP to the
// new job's baseline before CurrentHP is applied.
type CharacterPatch struct {
	Name      *string
	Job       *string
	CurrentHP *int
}

// Service coordinates character storage and battle simulation.
type Service struct {
	store  storage.CharacterStore
	engine *battle.Engine
	logger *zap.Logger
	newID  func() string

	// battleMu serializes the read-simulate-write cycle of battles.
	battleMu sync.Mutex
}

// NewService creates a Service.
//
// Precondition: store, engine, and logger must be non-nil.
func NewService(store storage.CharacterStore, engine *battle.Engine, logger *zap.Logger) *Service {
	if store == nil || engine == nil || logger == nil {
		panic("arena.NewService: store, engine, and logger must not be nil")
	}
	return &Service{
		store:  store,
		engine: engine,
		logger: logger,
		newID:  uuid.NewString,
	}
}

func validateName(name string) error {
	if err := character.ValidateName(name); err != nil {
		return &ValidationError{Field: "name", Reason: err.Error()}
	}
	return nil
}

// CreateCharacter validates name and job, builds the character at its job
// baseline, and stores it under a fresh UUID.
//
// Postcondition: Returns the stored character, a *ValidationError, a
// *character.InvalidJobError, or storage.ErrCharacterNameTaken.
func (s *Service) CreateCharacter(ctx context.Context, name, job string) (*character.Character, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	j, err := character.ParseJob(job)
	if err != nil {
		return nil, err
	}
	c, err := character.New(name, j)
	if err != nil {
		return nil, err
	}
	c.ID = s.newID()

	created, err := s.store.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.logger.Info("character created",
		zap.String("id", created.ID),
		zap.String("name", created.Name),
		zap.String("job", created.Job.String()),
	)
	return created, nil
}

// ListCharacters returns every stored character.
func (s *Service) ListCharacters(ctx context.Context) ([]*character.Character, error) {
	return s.store.List(ctx)
}

// GetCharacter returns the character with id or storage.ErrCharacterNotFound.
func (s *Service) GetCharacter(ctx context.Context, id string) (*character.Character, error) {
	return s.store.Get(ctx, id)
}

// UpdateCharacter applies patch to the character with id.
//
// Postcondition: On error the stored character is unchanged.
func (s *Service) UpdateCharacter(ctx context.Context, id string, patch CharacterPatch) (*character.Character, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if err := validateName(*patch.Name); err != nil {
			return nil, err
		}
		c.Name = *patch.Name
	}
	if patch.Job != nil {
		j, err := character.ParseJob(*patch.Job)
		if err != nil {
			return nil, err
		}
		if err := c.ChangeJob(j); err != nil {
			return nil, err
		}
	}
	if patch.CurrentHP != nil {
		hp := *patch.CurrentHP
		if hp < 0 || hp > c.Health {
			return nil, &ValidationError{
				Field:  "currentHp",
				Reason: fmt.Sprintf("must be between 0 and %d", c.Health),
			}
		}
		c.CurrentHP = hp
	}

	updated, err := s.store.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	s.logger.Info("character updated", zap.String("id", id))
	return updated, nil
}

// DeleteCharacter removes the character with id.
func (s *Service) DeleteCharacter(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("character deleted", zap.String("id", id))
	return nil
}

// Battle simulates a fight between the characters with id1 and id2 and
// persists both characters' remaining hit points.
//
// Postcondition: Returns the result, or storage.ErrCharacterNotFound,
// ErrSameCharacter, ErrCharacterDefeated, ErrUnresolvable, or a
// *ValidationError for empty ids.
func (s *Service) Battle(ctx context.Context, id1, id2 string) (battle.Result, error) {
	if strings.TrimSpace(id1) == "" {
		return battle.Result{}, &ValidationError{Field: "character1Id", Reason: "must not be empty"}
	}
	if strings.TrimSpace(id2) == "" {
		return battle.Result{}, &ValidationError{Field: "character2Id", Reason: "must not be empty"}
	}
	if id1 == id2 {
		return battle.Result{}, ErrSameCharacter
	}

	s.battleMu.Lock()
	defer s.battleMu.Unlock()

	c1, err := s.store.Get(ctx, id1)
	if err != nil {
		return battle.Result{}, fmt.Errorf("loading %s: %w", id1, err)
	}
	c2, err := s.store.Get(ctx, id2)
	if err != nil {
		return battle.Result{}, fmt.Errorf("loading %s: %w", id2, err)
	}
	for _, c := range []*character.Character{c1, c2} {
		if c.IsDefeated() {
			return battle.Result{}, fmt.Errorf("%s: %w", c.Name, ErrCharacterDefeated)
		}
	}
	if !battle.CanResolve(*c1, *c2) {
		return battle.Result{}, ErrUnresolvable
	}

	s.logger.Info("battle started",
		zap.String("character1", c1.Name),
		zap.String("character2", c2.Name),
	)
	res := s.engine.Simulate(*c1, *c2)

	if err := s.store.SaveHP(ctx,
		storage.HPUpdate{ID: res.Winner.ID, CurrentHP: res.Winner.CurrentHP},
		storage.HPUpdate{ID: res.Loser.ID, CurrentHP: res.Loser.CurrentHP},
	); err != nil {
		return battle.Result{}, fmt.Errorf("saving battle hp: %w", err)
	}

	s.logger.Info("battle finished",
		zap.String("winner", res.Winner.Name),
		zap.Int("winner_hp", res.Winner.CurrentHP),
		zap.String("loser", res.Loser.Name),
		zap.Int("rounds", len(res.Rounds)),
	)
	return res, nil
}

// Health reports whether the underlying store is reachable.
func (s *Service) Health(ctx context.Context) error {
	return s.store.Health(ctx)
}
