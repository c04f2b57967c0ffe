package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/storage"
)

const characterColumns = `id, name, job, strength, dexterity, intelligence,
		       health, current_hp, created_at, updated_at`

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	pool *Pool
	db   *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: pool must be open and non-nil.
func NewCharacterRepository(pool *Pool) *CharacterRepository {
	if pool == nil {
		panic("postgres.NewCharacterRepository: pool must not be nil")
	}
	return &CharacterRepository{pool: pool, db: pool.DB()}
}

var _ storage.CharacterStore = (*CharacterRepository)(nil)

// scanCharacter reads one row in characterColumns order and recomputes the
// derived modifiers, which are never stored.
func scanCharacter(row pgx.Row) (*character.Character, error) {
	var c character.Character
	var job string
	if err := row.Scan(
		&c.ID, &c.Name, &job,
		&c.Attributes.Strength, &c.Attributes.Dexterity, &c.Attributes.Intelligence,
		&c.Health, &c.CurrentHP, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.Job = character.Job(job)
	c.Recompute()
	return &c, nil
}

// Create inserts a new character and returns it with timestamps set.
//
// Precondition: c.ID must be a UUID string; c.Name must be non-empty.
// Postcondition: Returns the created character, or ErrCharacterNameTaken on duplicate.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	out, err := scanCharacter(r.db.QueryRow(ctx, `
		INSERT INTO characters
			(id, name, job, strength, dexterity, intelligence, health, current_hp)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+characterColumns,
		c.ID, c.Name, string(c.Job),
		c.Attributes.Strength, c.Attributes.Dexterity, c.Attributes.Intelligence,
		c.Health, c.CurrentHP,
	))
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, storage.ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return out, nil
}

// List returns all characters ordered by created_at.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) List(ctx context.Context) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+characterColumns+`
		FROM characters ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, c)
	}
	return chars, rows.Err()
}

// Get retrieves a character by its primary key.
//
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) Get(ctx context.Context, id string) (*character.Character, error) {
	c, err := scanCharacter(r.db.QueryRow(ctx, `
		SELECT `+characterColumns+`
		FROM characters WHERE id::text = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// Update overwrites the mutable columns of the character with c.ID.
//
// Postcondition: Returns the updated Character, ErrCharacterNotFound, or
// ErrCharacterNameTaken.
func (r *CharacterRepository) Update(ctx context.Context, c *character.Character) (*character.Character, error) {
	out, err := scanCharacter(r.db.QueryRow(ctx, `
		UPDATE characters SET
			name = $2, job = $3, strength = $4, dexterity = $5, intelligence = $6,
			health = $7, current_hp = $8, updated_at = NOW()
		WHERE id::text = $1
		RETURNING `+characterColumns,
		c.ID, c.Name, string(c.Job),
		c.Attributes.Strength, c.Attributes.Dexterity, c.Attributes.Intelligence,
		c.Health, c.CurrentHP,
	))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, storage.ErrCharacterNotFound
		case isDuplicateKeyError(err):
			return nil, storage.ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("updating character: %w", err)
	}
	return out, nil
}

// SaveHP persists the current hit points of every character in updates in a
// single transaction.
//
// Postcondition: Returns nil when every row was updated. Returns
// ErrCharacterNotFound and rolls back if any id matched no row.
func (r *CharacterRepository) SaveHP(ctx context.Context, updates ...storage.HPUpdate) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, u := range updates {
			tag, err := tx.Exec(ctx, `
				UPDATE characters SET current_hp = $2, updated_at = NOW()
				WHERE id::text = $1`,
				u.ID, u.CurrentHP,
			)
			if err != nil {
				return fmt.Errorf("saving character hp: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return storage.ErrCharacterNotFound
			}
		}
		return nil
	})
}

// Delete removes the character with id.
//
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row deleted.
func (r *CharacterRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrCharacterNotFound
	}
	return nil
}

// Health reports whether the backing pool answers a ping.
func (r *CharacterRepository) Health(ctx context.Context) error {
	return r.pool.Health(ctx)
}

func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
