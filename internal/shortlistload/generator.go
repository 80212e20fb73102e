package shortlistload

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/barcarate/internal/adapters/roster"
	"github.com/okian/barcarate/pkg/logger"
)

// generateSubmissions draws cfg.Candidates names from the pool in random
// order. Names repeat once the pool is exhausted; every submission gets its
// own ID.
func generateSubmissions(ctx context.Context, cfg *Config, stats *Stats) ([]Submission, error) {
	pool, err := roster.LoadPool(ctx, cfg.PoolFile)
	if err != nil {
		return nil, fmt.Errorf("load pool: %w", err)
	}
	players := pool.Search(ctx, roster.Filter{})
	if len(players) == 0 {
		return nil, fmt.Errorf("candidate pool is empty")
	}

	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	rand.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	subs := make([]Submission, cfg.Candidates)
	for i := range subs {
		subs[i] = Submission{
			SubmissionID: uuid.NewString(),
			Name:         names[i%len(names)],
		}
	}

	stats.Generated = len(subs)
	logger.Get().Info(ctx, "generated submissions",
		logger.Int("count", len(subs)),
		logger.Int("poolPlayers", pool.Len()),
		logger.String("league", pool.League()))
	return subs, nil
}

// uniqueNames returns the submitted names in first-seen order.
func uniqueNames(subs []Submission) []string {
	seen := make(map[string]struct{}, len(subs))
	out := make([]string, 0, len(subs))
	for _, s := range subs {
		if _, ok := seen[s.Name]; ok {
			continue
		}
		seen[s.Name] = struct{}{}
		out = append(out, s.Name)
	}
	return out
}
