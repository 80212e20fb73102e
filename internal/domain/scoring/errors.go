package scoring

import (
	"errors"
	"fmt"

	"github.com/okian/barcarate/internal/domain/model"
)

// ErrExistingPlayer marks a candidate who is already on the roster.
var ErrExistingPlayer = errors.New("candidate is already in the squad")

// ExistingPlayerError carries the roster member the candidate matched.
type ExistingPlayerError struct {
	Candidate model.Player
	Member    model.Player
}

func (e *ExistingPlayerError) Error() string {
	return fmt.Sprintf("%s: %s (%s, %s)", ErrExistingPlayer, e.Candidate.Name, e.Member.Name, e.Member.Position)
}

// Is lets errors.Is match ErrExistingPlayer.
func (e *ExistingPlayerError) Is(target error) bool { return target == ErrExistingPlayer }
