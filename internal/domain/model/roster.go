package model

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Roster is the home club's squad grouped by section. It is immutable after
// construction; accessors hand out copies.
type Roster struct {
	club    string
	groups  map[Group][]Player
	byKey   map[string]Player
	version string
}

// NewRoster validates and normalizes members. Every member must have no team
// or the home club as team, and names must be unique after folding.
func NewRoster(club string, members map[Group][]Player) (*Roster, error) {
	r := &Roster{
		club:   club,
		groups: make(map[Group][]Player, len(Groups)),
		byKey:  make(map[string]Player),
	}
	clubKey := Fold(club)

	for g, players := range members {
		if !g.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, g)
		}
		out := make([]Player, 0, len(players))
		for _, p := range players {
			np, err := p.Normalize()
			if err != nil {
				return nil, err
			}
			if np.Team != "" && Fold(np.Team) != clubKey {
				return nil, fmt.Errorf("%w: %s plays for %s", ErrForeignRosterMember, np.Name, np.Team)
			}
			k := np.Key()
			if _, dup := r.byKey[k]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, np.Name)
			}
			r.byKey[k] = np
			out = append(out, np)
		}
		r.groups[g] = out
	}
	r.version = r.computeVersion()
	return r, nil
}

// NewRosterFromPlayers groups players by the group of their position.
func NewRosterFromPlayers(club string, players []Player) (*Roster, error) {
	members := make(map[Group][]Player, len(Groups))
	for _, p := range players {
		pos, err := ParsePosition(string(p.Position))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCandidate, err)
		}
		members[pos.Group()] = append(members[pos.Group()], p)
	}
	return NewRoster(club, members)
}

// Club returns the home club name.
func (r *Roster) Club() string { return r.club }

// Version identifies the roster contents; it changes whenever any member does.
func (r *Roster) Version() string { return r.version }

// Group returns a copy of the members of g in their original order.
func (r *Roster) Group(g Group) []Player {
	return append([]Player(nil), r.groups[g]...)
}

// All returns every member in group order.
func (r *Roster) All() []Player {
	out := make([]Player, 0, len(r.byKey))
	for _, g := range Groups {
		out = append(out, r.groups[g]...)
	}
	return out
}

// Len returns the number of members.
func (r *Roster) Len() int { return len(r.byKey) }

// Find looks a member up by folded name.
func (r *Roster) Find(name string) (Player, bool) {
	p, ok := r.byKey[Fold(name)]
	return p, ok
}

// AtPosition returns the members playing pos, in group order.
func (r *Roster) AtPosition(pos Position) []Player {
	var out []Player
	for _, p := range r.All() {
		if p.Position == pos {
			out = append(out, p)
		}
	}
	return out
}

// Count returns how many members satisfy keep.
func (r *Roster) Count(keep func(Player) bool) int {
	n := 0
	for _, g := range Groups {
		for _, p := range r.groups[g] {
			if keep(p) {
				n++
			}
		}
	}
	return n
}

func (r *Roster) computeVersion() string {
	keys := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := xxhash.New()
	_, _ = d.WriteString(Fold(r.club))
	for _, k := range keys {
		p := r.byKey[k]
		_, _ = d.WriteString("|" + k + "|" + string(p.Position) + "|" + strconv.Itoa(p.Age) +
			"|" + strconv.FormatFloat(p.Rating, 'f', -1, 64) + "|" + strconv.FormatFloat(p.Value, 'f', -1, 64))
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
