package api

import (
	"time"

	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/character"
)

type createCharacterRequest struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type updateCharacterRequest struct {
	Name      *string `json:"name"`
	Job       *string `json:"job"`
	CurrentHP *int    `json:"currentHp"`
}

type battleRequest struct {
	Character1ID string `json:"character1Id"`
	Character2ID string `json:"character2Id"`
}

type characterResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Job            string    `json:"job"`
	Health         int       `json:"health"`
	CurrentHP      int       `json:"currentHp"`
	Strength       int       `json:"strength"`
	Dexterity      int       `json:"dexterity"`
	Intelligence   int       `json:"intelligence"`
	AttackModifier float64   `json:"attackModifier"`
	SpeedModifier  float64   `json:"speedModifier"`
	Defeated       bool      `json:"defeated"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toCharacterResponse(c *character.Character) characterResponse {
	return characterResponse{
		ID:             c.ID,
		Name:           c.Name,
		Job:            c.Job.String(),
		Health:         c.Health,
		CurrentHP:      c.CurrentHP,
		Strength:       c.Attributes.Strength,
		Dexterity:      c.Attributes.Dexterity,
		Intelligence:   c.Attributes.Intelligence,
		AttackModifier: c.AttackModifier,
		SpeedModifier:  c.SpeedModifier,
		Defeated:       c.IsDefeated(),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

type turnResponse struct {
	AttackerID  string `json:"attackerId"`
	DefenderID  string `json:"defenderId"`
	Damage      int    `json:"damage"`
	RemainingHP int    `json:"remainingHp"`
}

type roundResponse struct {
	Number          int            `json:"number"`
	FirstAttackerID string         `json:"firstAttackerId"`
	FirstSpeed      int            `json:"firstSpeed"`
	SecondSpeed     int            `json:"secondSpeed"`
	CoinFlip        bool           `json:"coinFlip,omitempty"`
	Turns           []turnResponse `json:"turns"`
}

type battleResponse struct {
	Winner    characterResponse `json:"winner"`
	Loser     characterResponse `json:"loser"`
	Rounds    []roundResponse   `json:"rounds"`
	BattleLog []string          `json:"battleLog"`
}

func toBattleResponse(res battle.Result) battleResponse {
	rounds := make([]roundResponse, 0, len(res.Rounds))
	for _, r := range res.Rounds {
		turns := make([]turnResponse, 0, len(r.Turns))
		for _, t := range r.Turns {
			turns = append(turns, turnResponse{
				AttackerID:  t.AttackerID,
				DefenderID:  t.DefenderID,
				Damage:      t.Damage,
				RemainingHP: t.RemainingHP,
			})
		}
		rounds = append(rounds, roundResponse{
			Number:          r.Number,
			FirstAttackerID: r.FirstID,
			FirstSpeed:      r.FirstSpeed,
			SecondSpeed:     r.SecondSpeed,
			CoinFlip:        r.CoinFlip,
			Turns:           turns,
		})
	}
	log := res.Log
	if log == nil {
		log = []string{}
	}
	return battleResponse{
		Winner:    toCharacterResponse(&res.Winner),
		Loser:     toCharacterResponse(&res.Loser),
		Rounds:    rounds,
		BattleLog: log,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}
