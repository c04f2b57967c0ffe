package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/character"
)

func TestInitialStats_UnknownJob(t *testing.T) {
	_, err := character.InitialStats("Bard")
	var ije *character.InvalidJobError
	require.ErrorAs(t, err, &ije)
	assert.Contains(t, err.Error(), "Bard")
}

func TestModifiers_UnknownJobIsZero(t *testing.T) {
	a := character.Attributes{Strength: 10, Dexterity: 10, Intelligence: 10}
	assert.Zero(t, character.AttackModifier("Bard", a))
	assert.Zero(t, character.SpeedModifier("Bard", a))
}

func TestModifiers_Formulas(t *testing.T) {
	a := character.Attributes{Strength: 7, Dexterity: 3, Intelligence: 11}
	assert.InDelta(t, 0.8*7+0.2*3, character.AttackModifier(character.Warrior, a), 1e-9)
	assert.InDelta(t, 0.6*3+0.2*11, character.SpeedModifier(character.Warrior, a), 1e-9)
	assert.InDelta(t, 0.25*7+3+0.25*11, character.AttackModifier(character.Thief, a), 1e-9)
	assert.InDelta(t, 0.8*3, character.SpeedModifier(character.Thief, a), 1e-9)
	assert.InDelta(t, 0.2*7+0.2*3+1.2*11, character.AttackModifier(character.Mage, a), 1e-9)
	assert.InDelta(t, 0.4*3+0.1*7, character.SpeedModifier(character.Mage, a), 1e-9)
}

func TestCeiling(t *testing.T) {
	assert.Equal(t, 9, character.Ceiling(9.0))
	assert.Equal(t, 14, character.Ceiling(14.2))
	assert.Equal(t, 2, character.Ceiling(2.9))
	assert.Equal(t, 0, character.Ceiling(0.5))
	assert.Equal(t, 0, character.Ceiling(-1.5))
}

func TestParseJob(t *testing.T) {
	j, err := character.ParseJob("mage")
	require.NoError(t, err)
	assert.Equal(t, character.Mage, j)

	j, err = character.ParseJob(" WARRIOR ")
	require.NoError(t, err)
	assert.Equal(t, character.Warrior, j)

	_, err = character.ParseJob("paladin")
	var ije *character.InvalidJobError
	assert.ErrorAs(t, err, &ije)
}

func TestJob_Valid(t *testing.T) {
	for _, j := range character.Jobs() {
		assert.True(t, j.Valid(), "job=%s", j)
	}
	assert.False(t, character.Job("warrior").Valid())
	assert.False(t, character.Job("").Valid())
}

func TestCharacter_IsDefeated(t *testing.T) {
	c := character.Character{CurrentHP: 1}
	assert.False(t, c.IsDefeated())
	c.CurrentHP = 0
	assert.True(t, c.IsDefeated())
}
