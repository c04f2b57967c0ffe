// Package roster loads named battle entrants from YAML files.
package roster

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arena/internal/game/character"
)

// Entry is one character as written in a roster file. CurrentHP is optional;
// when omitted the character starts at full health.
type Entry struct {
	Name      string `yaml:"name"`
	Job       string `yaml:"job"`
	CurrentHP *int   `yaml:"current_hp"`
}

// File is the top-level YAML document.
type File struct {
	Characters []Entry `yaml:"characters"`
}

// Roster holds validated characters keyed by case-insensitive name.
type Roster struct {
	order  []string
	byName map[string]*character.Character
}

// Load reads and validates the roster at path.
//
// Precondition: path must be a readable YAML file.
// Postcondition: Returns a Roster whose characters all pass name, job, and
// hit point validation, or a non-nil error naming the first offending entry.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing roster file %s: %w", path, err)
	}
	r := &Roster{byName: make(map[string]*character.Character)}
	if err := r.add(f.Characters); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// LoadDir merges every .yaml and .yml file in dir into one Roster.
// Names must be unique across files.
func LoadDir(dir string) (*Roster, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	r := &Roster{byName: make(map[string]*character.Character)}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		part, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		for _, n := range part.order {
			c := part.byName[n]
			if err := r.put(c); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return r, nil
}

func (r *Roster) add(entries []Entry) error {
	for i, e := range entries {
		if err := character.ValidateName(e.Name); err != nil {
			return fmt.Errorf("entry %d (%q): %w", i, e.Name, err)
		}
		job, err := character.ParseJob(e.Job)
		if err != nil {
			return fmt.Errorf("entry %d (%q): %w", i, e.Name, err)
		}
		c, err := character.New(e.Name, job)
		if err != nil {
			return err
		}
		c.ID = strings.ToLower(e.Name)
		if e.CurrentHP != nil {
			if *e.CurrentHP < 0 || *e.CurrentHP > c.Health {
				return fmt.Errorf("entry %d (%q): current_hp must be between 0 and %d, got %d",
					i, e.Name, c.Health, *e.CurrentHP)
			}
			c.CurrentHP = *e.CurrentHP
		}
		if err := r.put(c); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}

func (r *Roster) put(c *character.Character) error {
	key := strings.ToLower(c.Name)
	if _, ok := r.byName[key]; ok {
		return fmt.Errorf("duplicate character name %q", c.Name)
	}
	r.byName[key] = c
	r.order = append(r.order, key)
	return nil
}

// Len returns the number of characters in the roster.
func (r *Roster) Len() int { return len(r.order) }

// Names returns character names in file order.
func (r *Roster) Names() []string {
	out := make([]string, len(r.order))
	for i, k := range r.order {
		out[i] = r.byName[k].Name
	}
	return out
}

// Get returns a copy of the named character, matching case-insensitively.
func (r *Roster) Get(name string) (character.Character, bool) {
	c, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return character.Character{}, false
	}
	return *c, true
}
