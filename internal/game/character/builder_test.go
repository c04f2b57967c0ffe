package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/character"
)

func TestNew_AppliesBaseline(t *testing.T) {
	tests := []struct {
		job    character.Job
		health int
		attrs  character.Attributes
		atk    float64
		spd    float64
	}{
		{character.Warrior, 20, character.Attributes{Strength: 10, Dexterity: 5, Intelligence: 5}, 9.0, 4.0},
		{character.Thief, 15, character.Attributes{Strength: 4, Dexterity: 10, Intelligence: 4}, 12.0, 8.0},
		{character.Mage, 12, character.Attributes{Strength: 5, Dexterity: 6, Intelligence: 10}, 14.2, 2.9},
	}
	for _, tc := range tests {
		c, err := character.New("Hero", tc.job)
		require.NoError(t, err, "job=%s", tc.job)
		assert.Equal(t, "Hero", c.Name)
		assert.Equal(t, tc.job, c.Job)
		assert.Equal(t, tc.health, c.Health)
		assert.Equal(t, tc.health, c.CurrentHP)
		assert.Equal(t, tc.attrs, c.Attributes)
		assert.InDelta(t, tc.atk, c.AttackModifier, 1e-9, "job=%s attack", tc.job)
		assert.InDelta(t, tc.spd, c.SpeedModifier, 1e-9, "job=%s speed", tc.job)
		assert.Empty(t, c.ID)
	}
}

func TestNew_InvalidJob(t *testing.T) {
	_, err := character.New("Hero", character.Job("Bard"))
	require.Error(t, err)
	var ije *character.InvalidJobError
	require.ErrorAs(t, err, &ije)
	assert.Equal(t, "Bard", ije.Job)
}

// TestChangeJob_MageToWarrior verifies that a job change replaces every
// job-derived value rather than merging with the previous job.
func TestChangeJob_MageToWarrior(t *testing.T) {
	c, err := character.New("Gandalf", character.Mage)
	require.NoError(t, err)
	c.CurrentHP = 3

	require.NoError(t, c.ChangeJob(character.Warrior))

	assert.Equal(t, character.Warrior, c.Job)
	assert.Equal(t, 20, c.Health)
	assert.Equal(t, 20, c.CurrentHP)
	assert.Equal(t, character.Attributes{Strength: 10, Dexterity: 5, Intelligence: 5}, c.Attributes)
	assert.InDelta(t, 9.0, c.AttackModifier, 1e-9)
	assert.InDelta(t, 4.0, c.SpeedModifier, 1e-9)
	assert.Equal(t, "Gandalf", c.Name)
}

func TestChangeJob_InvalidLeavesCharacterUnchanged(t *testing.T) {
	c, err := character.New("Gandalf", character.Mage)
	require.NoError(t, err)
	before := *c

	err = c.ChangeJob("Necromancer")
	require.Error(t, err)
	assert.Equal(t, before, *c)
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"Gandalf", true},
		{"dark_lord", true},
		{"____", true},
		{"abc", false},
		{"abcdefghijklmnop", false},
		{"abcdefghijklmno", true},
		{"Gand4lf", false},
		{"Gan dalf", false},
		{"", false},
	}
	for _, tc := range tests {
		err := character.ValidateName(tc.name)
		if tc.ok {
			assert.NoError(t, err, "name=%q", tc.name)
		} else {
			assert.ErrorIs(t, err, character.ErrInvalidName, "name=%q", tc.name)
		}
	}
}

// TestValidateName_Property_AcceptsPattern verifies any 4-15 letter/underscore
// string is accepted.
func TestValidateName_Property_AcceptsPattern(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`[A-Za-z_]{4,15}`).Draw(rt, "name")
		assert.NoError(rt, character.ValidateName(name))
	})
}

// TestRecompute_Property_ConsistentWithPureFunctions verifies the stored
// modifiers always equal the pure derivation for arbitrary attributes.
func TestRecompute_Property_ConsistentWithPureFunctions(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		job := rapid.SampledFrom(character.Jobs()).Draw(rt, "job")
		attrs := character.Attributes{
			Strength:     rapid.IntRange(0, 100).Draw(rt, "str"),
			Dexterity:    rapid.IntRange(0, 100).Draw(rt, "dex"),
			Intelligence: rapid.IntRange(0, 100).Draw(rt, "int"),
		}
		c := character.Character{Job: job, Attributes: attrs}
		c.Recompute()
		assert.Equal(rt, character.AttackModifier(job, attrs), c.AttackModifier)
		assert.Equal(rt, character.SpeedModifier(job, attrs), c.SpeedModifier)
		assert.GreaterOrEqual(rt, c.AttackModifier, 0.0)
		assert.GreaterOrEqual(rt, c.SpeedModifier, 0.0)
	})
}
