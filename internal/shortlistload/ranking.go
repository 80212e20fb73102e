package shortlistload

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/okian/barcarate/internal/domain/model"
	"github.com/okian/barcarate/pkg/logger"
)

// squadResponse is the subset of GET /squad the verifier needs.
type squadResponse struct {
	Club  string                    `json:"club"`
	Squad map[string][]model.Player `json:"squad"`
}

// retrieveRanks fetches the shortlist entry of every submitted name. Names
// missing from the shortlist are left out.
func retrieveRanks(ctx context.Context, cfg *Config, client *HTTPClient, names []string, stats *Stats) (map[string]Entry, error) {
	logger.Get().Info(ctx, "retrieving ranks", logger.Int("names", len(names)), logger.Int("workers", cfg.Workers))

	var (
		mu    sync.Mutex
		ranks = make(map[string]Entry, len(names))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, name := range names {
		g.Go(func() error {
			var e Entry
			code, err := client.Get(gctx, "/shortlist/"+url.PathEscape(name), &e)
			switch {
			case code == http.StatusNotFound:
				return nil
			case err != nil:
				return fmt.Errorf("rank of %s: %w", name, err)
			}
			mu.Lock()
			ranks[name] = e
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.RanksRetrieved = len(ranks)
	logger.Get().Info(ctx, "rank retrieval completed", logger.Int("ranked", len(ranks)))
	return ranks, nil
}

// getShortlist retrieves the top N shortlist entries.
func getShortlist(ctx context.Context, cfg *Config, client *HTTPClient, stats *Stats) ([]Entry, error) {
	var entries []Entry
	if _, err := client.Get(ctx, fmt.Sprintf("/shortlist?limit=%d", cfg.TopN), &entries); err != nil {
		return nil, err
	}
	stats.ShortlistEntries = len(entries)
	logger.Get().Info(ctx, "retrieved shortlist", logger.Int("entries", len(entries)))
	return entries, nil
}

// getSquadNames returns the folded names of the current squad.
func getSquadNames(ctx context.Context, client *HTTPClient) (map[string]struct{}, error) {
	var sq squadResponse
	if _, err := client.Get(ctx, "/squad", &sq); err != nil {
		return nil, err
	}
	out := make(map[string]struct{})
	for _, players := range sq.Squad {
		for _, p := range players {
			out[model.Fold(p.Name)] = struct{}{}
		}
	}
	if len(out) == 0 {
		return nil, errors.New("squad is empty")
	}
	return out, nil
}
