package character

import "math"

// Baseline is the job-determined starting stat row.
type Baseline struct {
	Health     int
	Attributes Attributes
}

// weights are expressed in hundredths so derived modifiers are exact.
type weights struct {
	str, dex, intl int
}

func (w weights) apply(a Attributes) float64 {
	hundredths := w.str*a.Strength + w.dex*a.Dexterity + w.intl*a.Intelligence
	return float64(hundredths) / 100
}

var baselines = map[Job]Baseline{
	Warrior: {Health: 20, Attributes: Attributes{Strength: 10, Dexterity: 5, Intelligence: 5}},
	Thief:   {Health: 15, Attributes: Attributes{Strength: 4, Dexterity: 10, Intelligence: 4}},
	Mage:    {Health: 12, Attributes: Attributes{Strength: 5, Dexterity: 6, Intelligence: 10}},
}

var attackWeights = map[Job]weights{
	Warrior: {str: 80, dex: 20},
	Thief:   {str: 25, dex: 100, intl: 25},
	Mage:    {str: 20, dex: 20, intl: 120},
}

var speedWeights = map[Job]weights{
	Warrior: {dex: 60, intl: 20},
	Thief:   {dex: 80},
	Mage:    {str: 10, dex: 40},
}

// InitialStats returns the fixed baseline for job.
//
// Postcondition: Returns the baseline row or an *InvalidJobError for an unknown job.
func InitialStats(job Job) (Baseline, error) {
	b, ok := baselines[job]
	if !ok {
		return Baseline{}, &InvalidJobError{Job: string(job)}
	}
	return b, nil
}

// AttackModifier returns the job-weighted attack ceiling for the given attributes.
// An unknown job yields 0.
func AttackModifier(job Job, a Attributes) float64 {
	w, ok := attackWeights[job]
	if !ok {
		return 0
	}
	return w.apply(a)
}

// SpeedModifier returns the job-weighted speed ceiling for the given attributes.
// An unknown job yields 0.
func SpeedModifier(job Job, a Attributes) float64 {
	w, ok := speedWeights[job]
	if !ok {
		return 0
	}
	return w.apply(a)
}

// Ceiling converts a modifier into the inclusive upper bound of a roll.
//
// Postcondition: Returns floor(mod), never negative.
func Ceiling(mod float64) int {
	f := int(math.Floor(mod))
	if f < 0 {
		return 0
	}
	return f
}
