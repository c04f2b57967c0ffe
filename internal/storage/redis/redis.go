// Package redis provides a Redis-backed character store.
//
// Layout:
//
//	character:<id>    JSON record
//	characters        set of all ids
//	characters:names  hash of name -> id, claimed with HSETNX
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/storage"
)

const (
	idsKey   = "characters"
	namesKey = "characters:names"
)

func key(id string) string {
	return fmt.Sprintf("character:%s", id)
}

// record is the serialized form of a character. Derived modifiers are not
// stored; they are recomputed on load.
type record struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Job          string    `json:"job"`
	Strength     int       `json:"strength"`
	Dexterity    int       `json:"dexterity"`
	Intelligence int       `json:"intelligence"`
	Health       int       `json:"health"`
	CurrentHP    int       `json:"current_hp"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toRecord(c *character.Character) record {
	return record{
		ID:           c.ID,
		Name:         c.Name,
		Job:          string(c.Job),
		Strength:     c.Attributes.Strength,
		Dexterity:    c.Attributes.Dexterity,
		Intelligence: c.Attributes.Intelligence,
		Health:       c.Health,
		CurrentHP:    c.CurrentHP,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (r record) character() *character.Character {
	c := &character.Character{
		ID:   r.ID,
		Name: r.Name,
		Job:  character.Job(r.Job),
		Attributes: character.Attributes{
			Strength:     r.Strength,
			Dexterity:    r.Dexterity,
			Intelligence: r.Intelligence,
		},
		Health:    r.Health,
		CurrentHP: r.CurrentHP,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	c.Recompute()
	return c
}

func decode(raw string) (*character.Character, error) {
	var r record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("unmarshalling character: %w", err)
	}
	return r.character(), nil
}

// Store implements storage.CharacterStore on a Redis client.
type Store struct {
	client goredis.UniversalClient
	now    func() time.Time
}

var _ storage.CharacterStore = (*Store)(nil)

// NewStore creates a Store using client. A nil now defaults to time.Now.
//
// Precondition: client must be non-nil.
func NewStore(client goredis.UniversalClient, now func() time.Time) *Store {
	if client == nil {
		panic("redis.NewStore: client must not be nil")
	}
	if now == nil {
		now = time.Now
	}
	return &Store{client: client, now: now}
}

func (s *Store) put(ctx context.Context, r record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshalling character: %w", err)
	}
	if err := s.client.Set(ctx, key(r.ID), string(data), 0).Err(); err != nil {
		return fmt.Errorf("storing character: %w", err)
	}
	return nil
}

// Create claims c.Name in the name index, then stores the record and adds
// its id to the id set. The name claim is released if the write fails.
func (s *Store) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	if c == nil || c.ID == "" {
		panic("redis.Store.Create: character and ID must be set")
	}
	claimed, err := s.client.HSetNX(ctx, namesKey, c.Name, c.ID).Result()
	if err != nil {
		return nil, fmt.Errorf("claiming character name: %w", err)
	}
	if !claimed {
		return nil, storage.ErrCharacterNameTaken
	}

	r := toRecord(c)
	r.CreatedAt = s.now().UTC()
	r.UpdatedAt = r.CreatedAt
	data, err := json.Marshal(r)
	if err != nil {
		s.client.HDel(ctx, namesKey, c.Name)
		return nil, fmt.Errorf("marshalling character: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key(r.ID), string(data), 0)
	pipe.SAdd(ctx, idsKey, r.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		s.client.HDel(ctx, namesKey, c.Name)
		return nil, fmt.Errorf("creating character: %w", err)
	}
	return r.character(), nil
}

// List loads every indexed character ordered by creation time then id.
// Ids whose record has vanished are skipped.
func (s *Store) List(ctx context.Context) ([]*character.Character, error) {
	ids, err := s.client.SMembers(ctx, idsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listing character ids: %w", err)
	}
	out := make([]*character.Character, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("loading characters: %w", err)
	}
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		c, err := decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Get returns the character with id or storage.ErrCharacterNotFound.
func (s *Store) Get(ctx context.Context, id string) (*character.Character, error) {
	raw, err := s.client.Get(ctx, key(id)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, storage.ErrCharacterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting character: %w", err)
	}
	return decode(raw)
}

// Update overwrites the record for c.ID, moving its name claim if the name
// changed. CreatedAt is preserved from the stored record.
func (s *Store) Update(ctx context.Context, c *character.Character) (*character.Character, error) {
	existing, err := s.Get(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if existing.Name != c.Name {
		claimed, err := s.client.HSetNX(ctx, namesKey, c.Name, c.ID).Result()
		if err != nil {
			return nil, fmt.Errorf("claiming character name: %w", err)
		}
		if !claimed {
			return nil, storage.ErrCharacterNameTaken
		}
	}

	r := toRecord(c)
	r.CreatedAt = existing.CreatedAt
	r.UpdatedAt = s.now().UTC()
	if err := s.put(ctx, r); err != nil {
		if existing.Name != c.Name {
			s.client.HDel(ctx, namesKey, c.Name)
		}
		return nil, err
	}
	if existing.Name != c.Name {
		if err := s.client.HDel(ctx, namesKey, existing.Name).Err(); err != nil {
			return nil, fmt.Errorf("releasing character name: %w", err)
		}
	}
	return r.character(), nil
}

// SaveHP rewrites the records named in updates inside one MULTI/EXEC
// transaction. Every record is loaded first, so an unknown id writes nothing.
func (s *Store) SaveHP(ctx context.Context, updates ...storage.HPUpdate) error {
	now := s.now().UTC()
	payloads := make(map[string]string, len(updates))
	for _, u := range updates {
		existing, err := s.Get(ctx, u.ID)
		if err != nil {
			return err
		}
		r := toRecord(existing)
		r.CurrentHP = u.CurrentHP
		r.UpdatedAt = now
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshalling character: %w", err)
		}
		payloads[u.ID] = string(data)
	}
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, u := range updates {
			pipe.Set(ctx, key(u.ID), payloads[u.ID], 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving character hp: %w", err)
	}
	return nil
}

// Delete removes the record, its name claim, and its id index entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	pipe := s.client.Pipeline()
	pipe.Del(ctx, key(id))
	pipe.HDel(ctx, namesKey, existing.Name)
	pipe.SRem(ctx, idsKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	return nil
}

// Health pings the Redis server.
func (s *Store) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
