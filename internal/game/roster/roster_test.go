package roster_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/roster"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	writeFile(t, path, `
characters:
  - name: Aragorn
    job: Warrior
  - name: Gandalf
    job: mage
    current_hp: 4
`)
	r, err := roster.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"Aragorn", "Gandalf"}, r.Names())

	g, ok := r.Get("GANDALF")
	require.True(t, ok)
	assert.Equal(t, character.Mage, g.Job)
	assert.Equal(t, 4, g.CurrentHP)
	assert.Equal(t, 12, g.Health)
	assert.InDelta(t, 2.9, g.SpeedModifier, 1e-9)
	assert.Equal(t, "gandalf", g.ID)

	a, ok := r.Get("aragorn")
	require.True(t, ok)
	assert.Equal(t, 20, a.CurrentHP)

	_, ok = r.Get("Sauron")
	assert.False(t, ok)
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"bad name":     "characters:\n  - name: Al\n    job: Warrior\n",
		"bad job":      "characters:\n  - name: Aragorn\n    job: Bard\n",
		"hp too high":  "characters:\n  - name: Aragorn\n    job: Warrior\n    current_hp: 21\n",
		"duplicate":    "characters:\n  - name: Aragorn\n    job: Warrior\n  - name: aragorn\n    job: Thief\n",
		"invalid yaml": "characters: [",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "roster.yaml")
			writeFile(t, path, content)
			_, err := roster.Load(path)
			assert.Error(t, err)
		})
	}

	_, err := roster.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadDir_MergesFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "fellowship.yaml"), "characters:\n  - name: Frodo\n    job: Thief\n")
	writeFile(t, filepath.Join(dir, "wizards.yml"), "characters:\n  - name: Saruman\n    job: Mage\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a roster")

	r, err := roster.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	writeFile(t, filepath.Join(dir, "zz_dupes.yaml"), "characters:\n  - name: Frodo\n    job: Warrior\n")
	_, err = roster.LoadDir(dir)
	assert.ErrorContains(t, err, "duplicate")
}

func TestLoad_Property_ValidEntriesRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`[A-Za-z_]{4,15}`).Draw(rt, "name")
		job := rapid.SampledFrom(character.Jobs()).Draw(rt, "job")

		path := filepath.Join(t.TempDir(), "roster.yaml")
		content := "characters:\n  - name: \"" + name + "\"\n    job: " + job.String() + "\n"
		require.NoError(rt, os.WriteFile(path, []byte(content), 0644))

		r, err := roster.Load(path)
		require.NoError(rt, err)
		c, ok := r.Get(name)
		require.True(rt, ok)
		assert.Equal(rt, job, c.Job)
		assert.Equal(rt, c.Health, c.CurrentHP)
	})
}
