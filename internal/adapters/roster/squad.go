// Package roster loads the home squad and the candidate pool from YAML,
// either bundled with the binary or from operator-supplied files.
package roster

import (
	"context"
	"fmt"

	"github.com/okian/barcarate/internal/domain/model"
)

type squadFile struct {
	Club   string                    `koanf:"club"`
	League string                    `koanf:"league"`
	Squad  map[string][]model.Player `koanf:"squad"`
}

// LoadSquad builds the home roster. An empty path loads the bundled squad.
func LoadSquad(_ context.Context, path string) (*model.Roster, error) {
	var f squadFile
	if err := load(path, squadPath, &f); err != nil {
		return nil, err
	}
	if f.Club == "" {
		return nil, fmt.Errorf("%w: missing club", ErrLoadRoster)
	}

	members := make(map[model.Group][]model.Player, len(f.Squad))
	for g, players := range f.Squad {
		members[model.Group(g)] = players
	}
	r, err := model.NewRoster(f.Club, members)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadRoster, err)
	}
	return r, nil
}
