package squad

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/barcarate/internal/domain/model"
)

// Report is the full analysis of a roster.
type Report struct {
	Club              string            `json:"club"`
	Version           string            `json:"version"`
	Weaknesses        Set               `json:"weaknesses"`
	Descriptions      map[string]string `json:"descriptions"`
	Stats             Stats             `json:"stats"`
	PriorityPositions []model.Position  `json:"priority_positions"`
	Succession        []SuccessionNeed  `json:"succession"`
}

// Stats summarizes the roster. Averages of an empty population are 0.
type Stats struct {
	TotalPlayers   int                        `json:"total_players"`
	AverageAge     float64                    `json:"average_age"`
	AverageRating  float64                    `json:"average_rating"`
	TotalValue     float64                    `json:"total_value"`
	YoungPlayers   int                        `json:"young_players"`
	VeteranPlayers int                        `json:"veteran_players"`
	Groups         map[model.Group]GroupStats `json:"groups"`
	PositionCounts map[model.Position]int     `json:"position_counts"`
}

// GroupStats summarizes one roster section.
type GroupStats struct {
	Count         int     `json:"count"`
	AverageAge    float64 `json:"average_age"`
	AverageRating float64 `json:"average_rating"`
}

// SuccessionNeed flags a member at or past the succession age for their
// position.
type SuccessionNeed struct {
	Name     string         `json:"name"`
	Position model.Position `json:"position"`
	Age      int            `json:"age"`
	Rating   float64        `json:"rating"`
}

// Need levels for a single position.
const (
	NeedCritical   = "critical"
	NeedHigh       = "high"
	NeedMediumTerm = "medium-term"
	NeedLow        = "low"
)

// PositionReport describes the roster at one position.
type PositionReport struct {
	Position       model.Position `json:"position"`
	Players        []model.Player `json:"players"`
	Count          int            `json:"count"`
	AverageAge     float64        `json:"average_age"`
	AverageRating  float64        `json:"average_rating"`
	TotalValue     float64        `json:"total_value"`
	Urgent         []Weakness     `json:"urgent"`
	NeedLevel      string         `json:"need_level"`
	Recommendation string         `json:"recommendation"`
}

func (a *Analyzer) stats(players []model.Player) Stats {
	s := Stats{
		TotalPlayers:   len(players),
		Groups:         make(map[model.Group]GroupStats, len(model.Groups)),
		PositionCounts: make(map[model.Position]int, len(model.Positions)),
	}
	for _, pos := range model.Positions {
		s.PositionCounts[pos] = 0
	}

	var ageSum, ratingSum float64
	type acc struct {
		n           int
		age, rating float64
	}
	groups := make(map[model.Group]*acc, len(model.Groups))
	for _, g := range model.Groups {
		groups[g] = &acc{}
	}

	for _, p := range players {
		ageSum += float64(p.Age)
		ratingSum += p.Rating
		s.TotalValue += p.Value
		if p.Age < a.t.YoungAgeBelow {
			s.YoungPlayers++
		}
		if p.Age >= a.t.VeteranAge {
			s.VeteranPlayers++
		}
		s.PositionCounts[p.Position]++
		if g, ok := groups[p.Position.Group()]; ok {
			g.n++
			g.age += float64(p.Age)
			g.rating += p.Rating
		}
	}

	if n := len(players); n > 0 {
		s.AverageAge = round1(ageSum / float64(n))
		s.AverageRating = round1(ratingSum / float64(n))
	}
	for name, g := range groups {
		gs := GroupStats{Count: g.n}
		if g.n > 0 {
			gs.AverageAge = round1(g.age / float64(g.n))
			gs.AverageRating = round1(g.rating / float64(g.n))
		}
		s.Groups[name] = gs
	}
	return s
}

func (a *Analyzer) succession(players []model.Player) []SuccessionNeed {
	var out []SuccessionNeed
	for _, p := range players {
		limit, ok := a.t.Succession[p.Position]
		if !ok || p.Age < limit {
			continue
		}
		out = append(out, SuccessionNeed{Name: p.Name, Position: p.Position, Age: p.Age, Rating: p.Rating})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Age != out[j].Age {
			return out[i].Age > out[j].Age
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Position analyzes the roster at pos.
func (a *Analyzer) Position(r *model.Roster, pos model.Position) (PositionReport, error) {
	if !pos.Valid() {
		return PositionReport{}, fmt.Errorf("%w: %q", model.ErrUnknownPosition, pos)
	}
	var players []model.Player
	if r != nil {
		players = r.AtPosition(pos)
	}
	rep := PositionReport{
		Position: pos,
		Players:  players,
		Count:    len(players),
		Urgent:   a.Weaknesses(r).Urgent(pos),
	}
	if rep.Players == nil {
		rep.Players = []model.Player{}
	}

	var ageSum, ratingSum float64
	for _, p := range players {
		ageSum += float64(p.Age)
		ratingSum += p.Rating
		rep.TotalValue += p.Value
	}
	if rep.Count > 0 {
		rep.AverageAge = round1(ageSum / float64(rep.Count))
		rep.AverageRating = round1(ratingSum / float64(rep.Count))
	}

	switch {
	case rep.Count <= 1:
		rep.NeedLevel = NeedCritical
		rep.Recommendation = fmt.Sprintf("Immediate signing required at %s: fewer than two players available", pos)
	case rep.Count == 2 && len(rep.Urgent) > 0:
		rep.NeedLevel = NeedHigh
		rep.Recommendation = fmt.Sprintf("Strengthen %s depth this window", pos)
	case rep.AverageAge >= float64(a.t.VeteranAge):
		rep.NeedLevel = NeedMediumTerm
		rep.Recommendation = fmt.Sprintf("Plan %s renewal: average age %.1f", pos, rep.AverageAge)
	default:
		rep.NeedLevel = NeedLow
		rep.Recommendation = fmt.Sprintf("%s is covered; opportunistic signings only", pos)
	}
	return rep, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
