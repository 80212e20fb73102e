package roster

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/barcarate/internal/domain/model"
)

type poolFile struct {
	League  string         `koanf:"league"`
	Players []model.Player `koanf:"players"`
}

// Pool is the searchable set of league players that may be evaluated by
// name. It is immutable after loading.
type Pool struct {
	league  string
	players []model.Player
	byKey   map[string]int
}

// LoadPool reads the candidate pool. An empty path loads the bundled pool.
func LoadPool(_ context.Context, path string) (*Pool, error) {
	var f poolFile
	if err := load(path, candidatesPath, &f); err != nil {
		return nil, err
	}
	return NewPool(f.League, f.Players)
}

// NewPool normalizes players and indexes them by folded name.
func NewPool(league string, players []model.Player) (*Pool, error) {
	p := &Pool{
		league:  league,
		players: make([]model.Player, 0, len(players)),
		byKey:   make(map[string]int, len(players)),
	}
	for _, raw := range players {
		np, err := raw.Normalize()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadRoster, err)
		}
		k := np.Key()
		if _, dup := p.byKey[k]; dup {
			return nil, fmt.Errorf("%w: %w: %s", ErrLoadRoster, model.ErrDuplicatePlayer, np.Name)
		}
		p.byKey[k] = len(p.players)
		p.players = append(p.players, np)
	}
	return p, nil
}

// League returns the pool's league name.
func (p *Pool) League() string { return p.league }

// Len returns the number of players.
func (p *Pool) Len() int { return len(p.players) }

// Find looks a player up by folded name.
func (p *Pool) Find(name string) (model.Player, error) {
	i, ok := p.byKey[model.Fold(name)]
	if !ok {
		return model.Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, strings.TrimSpace(name))
	}
	return p.players[i], nil
}

// AtPosition returns every player at pos in file order.
func (p *Pool) AtPosition(pos model.Position) []model.Player {
	var out []model.Player
	for _, pl := range p.players {
		if pl.Position == pos {
			out = append(out, pl)
		}
	}
	return out
}

// Teams returns the distinct team names, sorted.
func (p *Pool) Teams() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, pl := range p.players {
		if _, ok := seen[pl.Team]; ok || pl.Team == "" {
			continue
		}
		seen[pl.Team] = struct{}{}
		out = append(out, pl.Team)
	}
	sort.Strings(out)
	return out
}

// Filter narrows a pool search. Zero fields do not filter.
type Filter struct {
	Query     string
	Position  model.Position
	Team      string
	MaxAge    int
	MaxValue  float64
	MinRating float64
	Limit     int
}

// Search returns matching players by rating desc, then name asc. Query and
// Team match on folded substrings.
func (p *Pool) Search(_ context.Context, f Filter) []model.Player {
	q := model.Fold(f.Query)
	team := model.Fold(f.Team)

	out := []model.Player{}
	for _, pl := range p.players {
		switch {
		case q != "" && !strings.Contains(pl.Key(), q):
		case f.Position != "" && pl.Position != f.Position:
		case team != "" && !strings.Contains(model.Fold(pl.Team), team):
		case f.MaxAge > 0 && pl.Age > f.MaxAge:
		case f.MaxValue > 0 && pl.Value > f.MaxValue:
		case pl.Rating < f.MinRating:
		default:
			out = append(out, pl)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Name < out[j].Name
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}
