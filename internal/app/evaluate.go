package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/okian/barcarate/internal/adapters/cache"
	"github.com/okian/barcarate/internal/domain/model"
	"github.com/okian/barcarate/internal/domain/scoring"
	"github.com/okian/barcarate/internal/domain/squad"
	"github.com/okian/barcarate/pkg/logger"
	"github.com/okian/barcarate/pkg/metrics"
	"github.com/okian/barcarate/pkg/tracing"
)

const (
	defaultRecommendLimit = 10
	perPositionPicks      = 3
	minRecommendRating    = 5.5
)

// Analysis returns the squad report for the current roster. Reports are
// reused for the analysis TTL while the roster version is unchanged.
func (s *Service) Analysis(ctx context.Context) squad.Report {
	return s.analysisFor(ctx, s.roster.Load())
}

func (s *Service) analysisFor(ctx context.Context, r *model.Roster) squad.Report {
	now := s.now()
	if e := s.analysis.Load(); e != nil && e.version == r.Version() && now.Before(e.expires) {
		return e.report
	}

	_, span := tracing.Start(ctx, tracerName, "squad.analyze",
		attribute.String("club", r.Club()),
		attribute.String("roster.version", r.Version()),
	)
	defer span.End()

	start := time.Now()
	report := s.analyzer.Analyze(r)
	metrics.RecordAnalysisLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.UpdateActiveWeaknesses(report.Weaknesses.Len())
	span.SetAttributes(attribute.StringSlice("weaknesses", report.Weaknesses.Strings()))

	s.analysis.Store(&analysisEntry{version: r.Version(), report: report, expires: now.Add(s.analysisTTL)})
	return report
}

// PositionReport analyzes one position of the current roster.
func (s *Service) PositionReport(_ context.Context, pos string) (squad.PositionReport, error) {
	p, err := model.ParsePosition(pos)
	if err != nil {
		return squad.PositionReport{}, err
	}
	return s.analyzer.Position(s.roster.Load(), p)
}

// Evaluate scores candidate against the current roster. Results are cached
// per roster version and candidate attributes.
func (s *Service) Evaluate(ctx context.Context, candidate model.Player) (scoring.Breakdown, error) {
	ctx, span := tracing.Start(ctx, tracerName, "scoring.evaluate", attribute.String("candidate", candidate.Name))
	defer span.End()

	start := time.Now()
	r := s.roster.Load()

	c, err := candidate.Normalize()
	if err != nil {
		return scoring.Breakdown{}, s.failed(span, err)
	}

	key := s.evaluationKey(r, c)
	var b scoring.Breakdown
	hit, err := cache.GetJSON(ctx, s.cache, key, &b)
	switch {
	case err != nil:
		s.logger.Warn(ctx, "evaluation cache read failed", logger.String("key", key), logger.Error(err))
	case hit:
		metrics.RecordCacheHit(s.cache.Backend())
		metrics.RecordEvaluation("cached")
		span.SetAttributes(attribute.Bool("cache.hit", true))
		// The key leaves out descriptive fields; report the caller's.
		b.Candidate = c
		return b, nil
	default:
		metrics.RecordCacheMiss(s.cache.Backend())
	}

	report := s.analysisFor(ctx, r)
	b, err = s.engine.Score(c, report.Weaknesses, r)
	if err != nil {
		return scoring.Breakdown{}, s.failed(span, err)
	}

	if err := cache.SetJSON(ctx, s.cache, key, b, s.cacheTTL); err != nil {
		s.logger.Warn(ctx, "evaluation cache write failed", logger.String("key", key), logger.Error(err))
	}

	metrics.RecordEvaluation("scored")
	metrics.RecordEvaluationLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordFinalRating(b.FinalRating, b.Recommendation)
	span.SetAttributes(
		attribute.Float64("final_rating", b.FinalRating),
		attribute.String("recommendation", b.Recommendation),
	)
	return b, nil
}

func (s *Service) failed(span trace.Span, err error) error {
	outcome := "error"
	switch {
	case errors.Is(err, scoring.ErrExistingPlayer):
		outcome = "existing_player"
	case errors.Is(err, model.ErrInvalidCandidate):
		outcome = "invalid_candidate"
	}
	metrics.RecordEvaluation(outcome)
	span.RecordError(err)
	span.SetStatus(codes.Error, outcome)
	return err
}

// evaluationKey identifies a scored candidate. Rating parameters are part of
// the key so processes with different caps never share entries.
func (s *Service) evaluationKey(r *model.Roster, c model.Player) string {
	h := xxhash.New()
	_, _ = fmt.Fprintf(h, "%s|%d|%g|%g|%s|%s|%g",
		c.Key(), c.Age, c.Rating, c.Value, c.Position, model.Fold(c.Team), s.engine.Params().Cap)
	return "eval:" + r.Version() + ":" + strconv.FormatUint(h.Sum64(), 16)
}

// EvaluateByName scores a player from the candidate pool.
func (s *Service) EvaluateByName(ctx context.Context, name string) (scoring.Breakdown, error) {
	p, err := s.pool.Find(name)
	if err != nil {
		return scoring.Breakdown{}, err
	}
	return s.Evaluate(ctx, p)
}

// Compare scores pool players by name. Unknown names are reported as failed
// evaluations after the scored ones.
func (s *Service) Compare(ctx context.Context, names []string) []scoring.Evaluation {
	ctx, span := tracing.Start(ctx, tracerName, "scoring.compare", attribute.Int("candidates", len(names)))
	defer span.End()

	r := s.roster.Load()
	players := make([]model.Player, 0, len(names))
	var missing []scoring.Evaluation
	for _, n := range names {
		p, err := s.pool.Find(n)
		if err != nil {
			missing = append(missing, scoring.Evaluation{Candidate: model.Player{Name: n}, Err: err, Error: err.Error()})
			continue
		}
		players = append(players, p)
	}

	out := s.engine.Compare(players, s.analysisFor(ctx, r).Weaknesses, r)
	return append(out, missing...)
}

// Recommend scores the pool at every priority position and returns the best
// candidates: at most three per position, rated at least 5.5, best first.
func (s *Service) Recommend(ctx context.Context, limit int) ([]scoring.Breakdown, error) {
	if limit <= 0 {
		limit = defaultRecommendLimit
	}
	ctx, span := tracing.Start(ctx, tracerName, "service.recommend", attribute.Int("limit", limit))
	defer span.End()

	r := s.roster.Load()
	report := s.analysisFor(ctx, r)
	positions := report.PriorityPositions

	picks := make([][]scoring.Breakdown, len(positions))
	g, gctx := errgroup.WithContext(ctx)
	for i, pos := range positions {
		g.Go(func() error {
			best, err := s.bestAt(gctx, pos, report.Weaknesses, r)
			if err != nil {
				return err
			}
			picks[i] = best
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recommend")
		return nil, err
	}

	var out []scoring.Breakdown
	for _, p := range picks {
		out = append(out, p...)
	}
	sortBreakdowns(out)
	if len(out) > limit {
		out = out[:limit]
	}
	span.SetAttributes(attribute.Int("recommendations", len(out)))
	return out, nil
}

func (s *Service) bestAt(ctx context.Context, pos model.Position, ws squad.Set, r *model.Roster) ([]scoring.Breakdown, error) {
	var best []scoring.Breakdown
	for _, c := range s.pool.AtPosition(pos) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, inSquad := r.Find(c.Name); inSquad {
			continue
		}
		b, err := s.engine.Score(c, ws, r)
		if err != nil {
			if errors.Is(err, scoring.ErrExistingPlayer) || errors.Is(err, model.ErrInvalidCandidate) {
				continue
			}
			return nil, fmt.Errorf("score %s: %w", c.Name, err)
		}
		if b.FinalRating >= minRecommendRating {
			best = append(best, b)
		}
	}
	sortBreakdowns(best)
	if len(best) > perPositionPicks {
		best = best[:perPositionPicks]
	}
	return best, nil
}

func sortBreakdowns(bs []scoring.Breakdown) {
	sort.SliceStable(bs, func(i, j int) bool {
		if bs[i].FinalRating != bs[j].FinalRating {
			return bs[i].FinalRating > bs[j].FinalRating
		}
		return bs[i].Candidate.Name < bs[j].Candidate.Name
	})
}
