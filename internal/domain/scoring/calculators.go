package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/barcarate/internal/domain/model"
	"github.com/okian/barcarate/internal/domain/squad"
)

func (e *Engine) quality(c model.Player) (float64, string) {
	q := e.p.Quality
	for _, b := range q.Bands {
		if c.Rating >= b.Min {
			return b.Score, fmt.Sprintf("%s (%.0f)", b.Label, c.Rating)
		}
	}
	return q.Floor, fmt.Sprintf("%s (%.0f)", q.FloorLabel, c.Rating)
}

func (e *Engine) age(c model.Player) (float64, string) {
	a := e.p.Age
	if len(a.Phases) == 0 {
		return 0, fmt.Sprintf("age %d", c.Age)
	}
	band := 2
	switch {
	case c.Rating >= a.HighRating:
		band = 0
	case c.Rating >= a.MidRating:
		band = 1
	}
	phase := a.Phases[len(a.Phases)-1]
	for _, ph := range a.Phases {
		if c.Age <= ph.MaxAge {
			phase = ph
			break
		}
	}
	return phase.Scores[band], fmt.Sprintf("%s at %d", phase.Label, c.Age)
}

func (e *Engine) financial(c model.Player) (float64, string) {
	f := e.p.Financial
	if c.IsFree() {
		return f.FreeScore, "free transfer"
	}

	var band ValueBand
	for _, b := range f.Bands {
		band = b
		if b.MaxValue <= 0 || c.Value <= b.MaxValue {
			break
		}
	}
	score, label := band.Score, band.Label
	if c.Age <= band.ExceptionalAge && c.Rating >= band.ExceptionalRating {
		score, label = band.Exceptional, band.Label+" justified by age and level"
	}
	if c.Age > f.VeteranAge {
		score += f.VeteranPenalty
		label += ", little resale value"
	}
	if score > 0 && score <= f.ValueCeiling && c.Value/math.Max(c.Rating, 1) > f.PerPointLimit {
		score, label = f.PoorValue, "poor value per rating point"
	}
	return score, fmt.Sprintf("%s (%s)", label, millions(c.Value))
}

// positionNeed returns the score, its fragment and the redundancy part alone.
func (e *Engine) positionNeed(c model.Player, ws squad.Set, r *model.Roster) (float64, float64, string) {
	pp := e.p.Position
	score := pp.Base[c.Position]
	var notes []string

	if urgent := ws.Urgent(c.Position); len(urgent) > 0 {
		bonus := math.Min(pp.UrgentCap, pp.UrgentFirst+pp.UrgentExtra*float64(len(urgent)-1))
		score += bonus
		labels := make([]string, len(urgent))
		for i, w := range urgent {
			labels[i] = w.String()
		}
		notes = append(notes, fmt.Sprintf("urgent need at %s (%s)", c.Position, strings.Join(labels, ", ")))
	} else {
		notes = append(notes, fmt.Sprintf("no urgent need at %s", c.Position))
	}

	switch {
	case c.Age <= pp.YoungAge:
		score += pp.YoungBonus
		if ws.Has(squad.AgingSquad) || ws.Has(squad.CriticalAging) {
			score += pp.RenewalBonus
			notes = append(notes, "helps renew an aging squad")
		}
	case c.Age >= pp.VeryOldAge:
		score += pp.VeryOldPenalty
	case c.Age >= pp.OldAge:
		score += pp.OldPenalty
	}

	active := 0
	if r != nil {
		active = r.Count(func(p model.Player) bool {
			return p.Position == c.Position && p.Age < pp.ActiveAgeBelow
		})
	}
	redundancy := e.redundancy(c.Position, active)
	if redundancy < 0 {
		score += redundancy
		notes = append(notes, fmt.Sprintf("%d active players already at %s", active, c.Position))
	}
	return score, redundancy, strings.Join(notes, ", ")
}

func (e *Engine) redundancy(pos model.Position, active int) float64 {
	pp := e.p.Position
	ceiling, ok := pp.Ceiling[pos]
	if !ok || active < ceiling {
		return 0
	}
	penalty := pp.Penalty[pos]
	total := penalty + pp.PerExtraPenalty*float64(active-ceiling)
	return math.Max(total, 2*penalty)
}

func (e *Engine) special(c model.Player) (float64, []string) {
	s := e.p.Special
	var score float64
	var notes []string

	team := model.Fold(c.Team)
	switch {
	case team == "":
	case team == e.rivalKey:
		score += s.RivalBonus
		notes = append(notes, "weakens "+s.Rival)
	case team != e.homeKey && e.inLeague(team):
		score += s.LeagueBonus
		notes = append(notes, s.League+" experience")
	}
	if c.Age <= s.ProspectAge && c.Rating >= s.ProspectRating {
		score += s.ProspectBonus
		notes = append(notes, "elite young talent")
	}
	if c.Value > s.GalacticoValue {
		score += s.GalacticoPenalty
		notes = append(notes, "galactico fee")
	}
	return score, notes
}

func (e *Engine) risks(c model.Player, redundancy float64) []string {
	rp := e.p.Risk
	out := []string{}
	if c.Age >= rp.Age {
		out = append(out, fmt.Sprintf("age %d: decline and resale risk", c.Age))
	}
	if c.Value >= rp.Value {
		out = append(out, fmt.Sprintf("fee %s strains the budget", millions(c.Value)))
	}
	team := model.Fold(c.Team)
	if team != "" && team == e.rivalKey {
		out = append(out, "rival club: difficult negotiation")
	}
	if redundancy <= rp.CrowdedPenalty {
		out = append(out, fmt.Sprintf("crowded position at %s", c.Position))
	}
	if team != "" && team != e.homeKey && !e.inLeague(team) {
		out = append(out, fmt.Sprintf("adaptation to %s from %s", e.p.Special.League, c.Team))
	}
	return out
}

func (e *Engine) inLeague(team string) bool {
	_, ok := e.leagueKeys[team]
	return ok
}

func millions(v float64) string {
	return fmt.Sprintf("€%.1fM", v/1e6)
}
