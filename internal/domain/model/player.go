package model

import (
	"fmt"
	"math"
	"strings"
)

// Domain bounds applied at ingestion.
const (
	MinAge    = 15
	MaxAge    = 45
	MinRating = 0.0
	MaxRating = 100.0
)

// Player is a roster member or a transfer candidate. Rating is on the 0-100
// scale and Value is in euros; 0 means a free transfer.
type Player struct {
	Name        string   `json:"name" koanf:"name"`
	Age         int      `json:"age" koanf:"age"`
	Rating      float64  `json:"rating" koanf:"rating"`
	Value       float64  `json:"value" koanf:"value"`
	Position    Position `json:"position" koanf:"position"`
	Team        string   `json:"team,omitempty" koanf:"team"`
	Nationality string   `json:"nationality,omitempty" koanf:"nationality"`
	Number      int      `json:"number,omitempty" koanf:"number"`
}

// NewPlayer builds a normalized player.
func NewPlayer(name string, age int, rating, value float64, position, team string) (Player, error) {
	return Player{
		Name:     name,
		Age:      age,
		Rating:   rating,
		Value:    value,
		Position: Position(position),
		Team:     team,
	}.Normalize()
}

// Normalize returns a cleaned copy of p. Name and position are required;
// age, rating and value are clamped into their domains.
func (p Player) Normalize() (Player, error) {
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.Team = strings.TrimSpace(p.Team)
	p.Nationality = strings.TrimSpace(p.Nationality)

	if p.Name == "" {
		return Player{}, fmt.Errorf("%w: missing name", ErrInvalidCandidate)
	}
	if strings.TrimSpace(string(p.Position)) == "" {
		return Player{}, fmt.Errorf("%w: missing position for %q", ErrInvalidCandidate, p.Name)
	}
	pos, err := ParsePosition(string(p.Position))
	if err != nil {
		return Player{}, fmt.Errorf("%w: %w", ErrInvalidCandidate, err)
	}
	p.Position = pos

	if math.IsNaN(p.Rating) || math.IsInf(p.Rating, 0) {
		return Player{}, fmt.Errorf("%w: rating is not a number for %q", ErrInvalidCandidate, p.Name)
	}
	if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
		return Player{}, fmt.Errorf("%w: value is not a number for %q", ErrInvalidCandidate, p.Name)
	}

	p.Age = min(max(p.Age, MinAge), MaxAge)
	p.Rating = math.Min(math.Max(p.Rating, MinRating), MaxRating)
	p.Value = math.Max(p.Value, 0)
	return p, nil
}

// Key is the identity used to decide whether two records are the same person.
func (p Player) Key() string {
	return Fold(p.Name)
}

// IsFree reports whether the player would arrive on a free transfer.
func (p Player) IsFree() bool { return p.Value == 0 }
