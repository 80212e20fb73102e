// Package squad derives structural weaknesses and summary statistics from a
// club roster.
package squad

import (
	"github.com/okian/barcarate/internal/domain/model"
)

// Analyzer evaluates rosters against a fixed set of thresholds. It holds no
// mutable state and is safe for concurrent use.
type Analyzer struct {
	t Thresholds
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithThresholds replaces the default cut-offs.
func WithThresholds(t Thresholds) Option {
	return func(a *Analyzer) {
		if t.Succession == nil {
			t.Succession = DefaultThresholds().Succession
		}
		a.t = t
	}
}

// NewAnalyzer returns an Analyzer using DefaultThresholds unless overridden.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{t: DefaultThresholds()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Thresholds returns the cut-offs in use.
func (a *Analyzer) Thresholds() Thresholds { return a.t }

// Weaknesses returns the set of labels that hold for r. A nil roster is
// treated as empty.
func (a *Analyzer) Weaknesses(r *model.Roster) Set {
	players := members(r)
	t := a.t

	count := func(keep func(model.Player) bool) int {
		n := 0
		for _, p := range players {
			if keep(p) {
				n++
			}
		}
		return n
	}
	at := func(pos model.Position, extra func(model.Player) bool) int {
		return count(func(p model.Player) bool {
			return p.Position == pos && (extra == nil || extra(p))
		})
	}

	var s Set

	if at(model.GK, func(p model.Player) bool {
		return p.Age < t.GKQualityAgeBelow && p.Rating >= t.GKQualityMinRating
	}) == 0 {
		s = s.Add(GoalkeeperQuality)
	}
	if at(model.GK, func(p model.Player) bool {
		return p.Age < t.GKDepthAgeBelow && p.Rating >= t.GKDepthMinRating
	}) < t.GKDepthMin {
		s = s.Add(GoalkeeperDepth)
	}

	if count(func(p model.Player) bool { return p.Age > t.AgingAgeAbove }) >= t.AgingMin {
		s = s.Add(AgingSquad)
	}
	if count(func(p model.Player) bool { return p.Age > t.CriticalAgeAbove }) >= t.CriticalMin {
		s = s.Add(CriticalAging)
	}

	if at(model.ST, func(p model.Player) bool { return p.Age < t.StrikerAgeBelow }) < t.StrikerDepthMin {
		s = s.Add(StrikerDepth)
	}
	if at(model.ST, func(p model.Player) bool { return p.Age >= t.StrikerVeteran }) >= t.StrikerAgingMin {
		s = s.Add(StrikerAging)
	}

	if at(model.CB, nil) < t.CBDepthMin {
		s = s.Add(CBDepth)
	}
	if at(model.CB, func(p model.Player) bool {
		return p.Age <= t.CBFutureMaxAge && p.Rating >= t.CBFutureMinRating
	}) < t.CBFutureMin {
		s = s.Add(CBFuture)
	}

	if at(model.DM, nil) < t.DMDepthMin {
		s = s.Add(DMDepth)
	}
	if at(model.DM, func(p model.Player) bool { return p.Rating >= t.DMQualityRating }) == 0 {
		s = s.Add(DMQuality)
	}

	if at(model.LB, nil)+at(model.RB, nil) < t.FullbackDepthMin {
		s = s.Add(FullbackDepth)
	}

	// Quality labels need a non-empty group; an absent group is a depth
	// problem, not a quality one.
	if mean, ok := meanRating(players, model.Defenders); ok && mean < t.DefenderMeanFloor {
		s = s.Add(DefensiveQuality)
	}
	if mean, ok := meanRating(players, model.Midfielders); ok && mean < t.MidfielderMeanFloor {
		s = s.Add(MidfieldQuality)
	}

	return s
}

// Analyze returns the full report for r.
func (a *Analyzer) Analyze(r *model.Roster) Report {
	ws := a.Weaknesses(r)
	players := members(r)

	descriptions := make(map[string]string, ws.Len())
	for _, w := range ws.Labels() {
		descriptions[w.String()] = w.Description()
	}

	rep := Report{
		Club:              club(r),
		Version:           version(r),
		Weaknesses:        ws,
		Descriptions:      descriptions,
		Stats:             a.stats(players),
		PriorityPositions: PriorityPositions(ws),
		Succession:        a.succession(players),
	}
	return rep
}

// PriorityPositions returns, in canonical position order, the positions for
// which at least one urgent label is present in ws.
func PriorityPositions(ws Set) []model.Position {
	var out []model.Position
	for _, pos := range model.Positions {
		if len(ws.Urgent(pos)) > 0 {
			out = append(out, pos)
		}
	}
	return out
}

func members(r *model.Roster) []model.Player {
	if r == nil {
		return nil
	}
	return r.All()
}

func club(r *model.Roster) string {
	if r == nil {
		return ""
	}
	return r.Club()
}

func version(r *model.Roster) string {
	if r == nil {
		return ""
	}
	return r.Version()
}

func meanRating(players []model.Player, g model.Group) (float64, bool) {
	var sum float64
	n := 0
	for _, p := range players {
		if p.Position.Group() == g {
			sum += p.Rating
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
