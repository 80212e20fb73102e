// Package scoring rates transfer candidates against the current squad.
//
// Five independent calculators (quality, age, financial risk, position need
// and special factors) produce sub-scores that are summed into a raw total
// and compressed onto a 1.0-9.5 display scale.
package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/barcarate/internal/domain/model"
	"github.com/okian/barcarate/internal/domain/squad"
)

// Fragments are the per-calculator explanation pieces.
type Fragments struct {
	Quality   string   `json:"quality"`
	Age       string   `json:"age"`
	Financial string   `json:"financial"`
	Position  string   `json:"position"`
	Special   []string `json:"special"`
}

// Breakdown is the result of scoring one candidate.
type Breakdown struct {
	Candidate      model.Player `json:"candidate"`
	Quality        float64      `json:"quality"`
	AgeImpact      float64      `json:"age_impact"`
	FinancialRisk  float64      `json:"financial_risk"`
	PositionNeed   float64      `json:"position_need"`
	SpecialFactors float64      `json:"special_factors"`
	RawTotal       float64      `json:"raw_total"`
	FinalRating    float64      `json:"final_rating"`

	Recommendation            string    `json:"recommendation"`
	RecommendationDescription string    `json:"recommendation_description"`
	Explanation               string    `json:"explanation"`
	RiskFactors               []string  `json:"risk_factors"`
	Fragments                 Fragments `json:"fragments"`

	// RosterVersion identifies the squad the candidate was scored against.
	RosterVersion string `json:"roster_version,omitempty"`
}

// Evaluation pairs a candidate with its breakdown or the reason it could
// not be scored.
type Evaluation struct {
	Candidate model.Player `json:"candidate"`
	Breakdown *Breakdown   `json:"breakdown,omitempty"`
	Err       error        `json:"-"`
	Error     string       `json:"error,omitempty"`
}

// Engine scores candidates. It holds only immutable parameters and is safe
// for concurrent use.
type Engine struct {
	p          Params
	homeKey    string
	rivalKey   string
	leagueKeys map[string]struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithParams replaces the default constants.
func WithParams(p Params) Option {
	return func(e *Engine) { e.p = p }
}

// WithCap overrides the upper display bound.
func WithCap(ceil float64) Option {
	return func(e *Engine) {
		if ceil > 0 {
			e.p.Cap = ceil
		}
	}
}

// NewEngine returns an Engine using DefaultParams unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{p: DefaultParams()}
	for _, opt := range opts {
		opt(e)
	}
	if e.p.Cap < e.p.Floor {
		e.p.Cap = e.p.Floor
	}
	e.homeKey = model.Fold(e.p.Special.HomeClub)
	e.rivalKey = model.Fold(e.p.Special.Rival)
	e.leagueKeys = make(map[string]struct{}, len(e.p.Special.LeagueClubs))
	for _, c := range e.p.Special.LeagueClubs {
		e.leagueKeys[model.Fold(c)] = struct{}{}
	}
	return e
}

// Params returns the constants in use.
func (e *Engine) Params() Params { return e.p }

// Score rates candidate against the roster and its weaknesses. It fails
// only when the candidate is invalid or already in the roster.
func (e *Engine) Score(candidate model.Player, ws squad.Set, r *model.Roster) (Breakdown, error) {
	c, err := candidate.Normalize()
	if err != nil {
		return Breakdown{}, err
	}
	if r != nil {
		if m, ok := r.Find(c.Name); ok {
			return Breakdown{}, &ExistingPlayerError{Candidate: c, Member: m}
		}
	}

	b := Breakdown{Candidate: c}
	if r != nil {
		b.RosterVersion = r.Version()
	}
	b.Quality, b.Fragments.Quality = e.quality(c)
	b.AgeImpact, b.Fragments.Age = e.age(c)
	b.FinancialRisk, b.Fragments.Financial = e.financial(c)
	var redundancy float64
	b.PositionNeed, redundancy, b.Fragments.Position = e.positionNeed(c, ws, r)
	b.SpecialFactors, b.Fragments.Special = e.special(c)

	b.Quality = round(b.Quality, 2)
	b.AgeImpact = round(b.AgeImpact, 2)
	b.FinancialRisk = round(b.FinancialRisk, 2)
	b.PositionNeed = round(b.PositionNeed, 2)
	b.SpecialFactors = round(b.SpecialFactors, 2)
	b.RawTotal = round(b.Quality+b.AgeImpact+b.FinancialRisk+b.PositionNeed+b.SpecialFactors, 2)
	b.FinalRating = compress(b.RawTotal, e.p.Floor, e.p.Cap)

	tier := TierFor(b.FinalRating)
	b.Recommendation = tier.Label
	b.RecommendationDescription = tier.Description
	b.RiskFactors = e.risks(c, redundancy)
	b.Explanation = explain(b.Fragments)
	if b.Fragments.Special == nil {
		b.Fragments.Special = []string{}
	}
	return b, nil
}

// Compare scores every candidate. Scored candidates come first, best
// rating first and then by name; failures follow in name order.
func (e *Engine) Compare(candidates []model.Player, ws squad.Set, r *model.Roster) []Evaluation {
	out := make([]Evaluation, 0, len(candidates))
	for _, c := range candidates {
		b, err := e.Score(c, ws, r)
		ev := Evaluation{Candidate: c}
		if err != nil {
			ev.Err = err
			ev.Error = err.Error()
		} else {
			ev.Candidate = b.Candidate
			ev.Breakdown = &b
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Breakdown == nil) != (b.Breakdown == nil) {
			return a.Breakdown != nil
		}
		if a.Breakdown != nil && a.Breakdown.FinalRating != b.Breakdown.FinalRating {
			return a.Breakdown.FinalRating > b.Breakdown.FinalRating
		}
		return a.Candidate.Name < b.Candidate.Name
	})
	return out
}

func explain(f Fragments) string {
	parts := make([]string, 0, 4+len(f.Special))
	for _, p := range []string{f.Quality, f.Age, f.Financial, f.Position} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, f.Special...)
	return strings.Join(parts, "; ")
}

// String renders a one-line summary, used in logs and the load tool.
func (b Breakdown) String() string {
	return fmt.Sprintf("%s %s: %.1f (%s)", b.Candidate.Position, b.Candidate.Name, b.FinalRating, b.Recommendation)
}
