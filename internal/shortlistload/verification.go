package shortlistload

import (
	"context"
	"fmt"

	"github.com/okian/barcarate/internal/domain/model"
	"github.com/okian/barcarate/pkg/logger"
)

// verifyResults checks the shortlist against the per-name ranks and the
// squad. It returns the first inconsistency.
func verifyResults(ctx context.Context, shortlist []Entry, ranks map[string]Entry, squad map[string]struct{}) error {
	log := logger.Get()
	log.Info(ctx, "verifying results")

	if len(shortlist) == 0 {
		return fmt.Errorf("shortlist is empty")
	}
	if err := verifyOrdering(shortlist); err != nil {
		return err
	}
	if err := verifyRanks(shortlist, ranks); err != nil {
		return err
	}
	for _, e := range shortlist {
		if _, ok := squad[model.Fold(e.Name)]; ok {
			return fmt.Errorf("squad member %s is on the shortlist", e.Name)
		}
	}

	displayTopCandidates(ctx, shortlist)
	log.Info(ctx, "result verification completed")
	return nil
}

// verifyOrdering checks non-increasing ratings with dense ranks: equal
// ratings share a rank and the next lower rating takes the next rank.
func verifyOrdering(shortlist []Entry) error {
	if shortlist[0].Rank != 1 {
		return fmt.Errorf("top entry %s has rank %d", shortlist[0].Name, shortlist[0].Rank)
	}
	for i := 1; i < len(shortlist); i++ {
		prev, cur := shortlist[i-1], shortlist[i]
		switch {
		case cur.FinalRating > prev.FinalRating:
			return fmt.Errorf("shortlist not sorted: entry %d (%s, %.1f) rates above entry %d (%s, %.1f)",
				i, cur.Name, cur.FinalRating, i-1, prev.Name, prev.FinalRating)
		case cur.FinalRating == prev.FinalRating && cur.Rank != prev.Rank:
			return fmt.Errorf("tied entries %s and %s have ranks %d and %d", prev.Name, cur.Name, prev.Rank, cur.Rank)
		case cur.FinalRating < prev.FinalRating && cur.Rank != prev.Rank+1:
			return fmt.Errorf("entry %s has rank %d after rank %d", cur.Name, cur.Rank, prev.Rank)
		}
	}
	return nil
}

// verifyRanks checks that every shortlisted name reports the same entry
// through the rank endpoint.
func verifyRanks(shortlist []Entry, ranks map[string]Entry) error {
	byKey := make(map[string]Entry, len(ranks))
	for name, e := range ranks {
		byKey[model.Fold(name)] = e
	}
	for _, e := range shortlist {
		r, ok := byKey[model.Fold(e.Name)]
		if !ok {
			continue
		}
		if r.Rank != e.Rank || r.FinalRating != e.FinalRating {
			return fmt.Errorf("%s: shortlist has rank %d (%.1f), rank endpoint has %d (%.1f)",
				e.Name, e.Rank, e.FinalRating, r.Rank, r.FinalRating)
		}
	}
	return nil
}

// displayTopCandidates logs the head of the shortlist.
func displayTopCandidates(ctx context.Context, shortlist []Entry) {
	n := min(topPerformers, len(shortlist))
	for _, e := range shortlist[:n] {
		logger.Get().Info(ctx, "shortlisted",
			logger.Int("rank", e.Rank),
			logger.String("name", e.Name),
			logger.String("position", e.Position),
			logger.Float64("finalRating", e.FinalRating),
			logger.String("recommendation", e.Recommendation))
	}
}
