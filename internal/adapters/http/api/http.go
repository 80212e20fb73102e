// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/xeipuuv/gojsonschema"

	"github.com/okian/barcarate/internal/adapters/mq/queue"
	"github.com/okian/barcarate/internal/adapters/repository"
	"github.com/okian/barcarate/internal/adapters/roster"
	"github.com/okian/barcarate/internal/domain/model"
	"github.com/okian/barcarate/internal/domain/scoring"
	"github.com/okian/barcarate/internal/domain/squad"
	"github.com/okian/barcarate/internal/domain/types"
)

const (
	maxBodyBytes      = 1 << 20
	defaultMaxLimit   = 100
	defaultSearchSize = 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SquadDependencies
	PlayerDependencies
	EvaluateDependencies
	CandidateDependencies
	ShortlistDependencies
	RecommendDependencies
	StatsProvider
}

// Entry mirrors the read shape returned by shortlist queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	squadHandler      *SquadHandler
	playersHandler    *PlayersHandler
	evaluateHandler   *EvaluateHandler
	candidatesHandler *CandidatesHandler
	shortlistHandler  *ShortlistHandler
	recommendHandler  *RecommendHandler
}

// NewServer creates a new API server with all handlers. maxLimit bounds
// every limit query parameter.
func NewServer(deps Dependencies, maxLimit int) *Server {
	if maxLimit < 1 {
		maxLimit = defaultMaxLimit
	}
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(deps),
		squadHandler:      NewSquadHandler(deps),
		playersHandler:    NewPlayersHandler(deps, maxLimit),
		evaluateHandler:   NewEvaluateHandler(deps),
		candidatesHandler: NewCandidatesHandler(deps),
		shortlistHandler:  NewShortlistHandler(deps, maxLimit),
		recommendHandler:  NewRecommendHandler(deps, maxLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/squad", MetricsMiddleware(s.squadHandler.HandleGetSquad, "squad"))
	mux.HandleFunc("/squad/analysis", MetricsMiddleware(s.squadHandler.HandleGetAnalysis, "squad_analysis"))
	mux.HandleFunc("/squad/positions/", MetricsMiddleware(s.squadHandler.HandleGetPosition, "squad_position"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleSearch, "players"))
	mux.HandleFunc("/evaluate", MetricsMiddleware(s.evaluateHandler.HandleEvaluate, "evaluate"))
	mux.HandleFunc("/compare", MetricsMiddleware(s.evaluateHandler.HandleCompare, "compare"))
	mux.HandleFunc("/candidates", MetricsMiddleware(s.candidatesHandler.HandlePostCandidate, "candidates"))
	mux.HandleFunc("/candidates/", MetricsMiddleware(s.candidatesHandler.HandleGetSubmission, "candidate_status"))
	mux.HandleFunc("/shortlist", MetricsMiddleware(s.shortlistHandler.HandleGetShortlist, "shortlist"))
	mux.HandleFunc("/shortlist/", MetricsMiddleware(s.shortlistHandler.HandleGetRank, "shortlist_rank"))
	mux.HandleFunc("/recommendations", MetricsMiddleware(s.recommendHandler.HandleGetRecommendations, "recommendations"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Member  string `json:"member,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps service errors onto status codes.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	var epe *scoring.ExistingPlayerError
	switch {
	case errors.As(err, &epe):
		writeJSON(w, http.StatusConflict, errorResponse{
			Code:    "existing_player",
			Message: WrapKind(op, ErrConflict, err).Error(),
			Member:  epe.Member.Name,
		})
	case errors.Is(err, scoring.ErrExistingPlayer):
		writeError(w, http.StatusConflict, "existing_player", WrapKind(op, ErrConflict, err))
	case errors.Is(err, model.ErrInvalidCandidate), errors.Is(err, model.ErrUnknownPosition):
		writeError(w, http.StatusBadRequest, "invalid_candidate", WrapKind(op, ErrBadRequest, err))
	case isNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, queue.ErrFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, queue.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// isNotFound allows the API to translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, roster.ErrPlayerNotFound) ||
		errors.Is(err, types.ErrSubmissionNotFound)
}

// readBody reads a bounded request body and validates it against schema.
func readBody(w http.ResponseWriter, r *http.Request, op string, schema *gojsonschema.Schema) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return nil, false
	}
	if err := validate(schema, body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return nil, false
	}
	return body, true
}

// limitParam parses the named query parameter. A missing value yields def;
// def < 1 makes the parameter required.
func limitParam(r *http.Request, name string, def, maxLimit int) (int, string, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if def < 1 {
			return 0, "bad_request", fmt.Errorf("missing %s", name)
		}
		return def, "", nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, "bad_request", fmt.Errorf("invalid %s %q", name, raw)
	}
	if n > maxLimit {
		return 0, "limit_exceeded", fmt.Errorf("%s %d exceeds %d", name, n, maxLimit)
	}
	return n, "", nil
}

// SquadDependencies exposes the home roster and its analysis.
type SquadDependencies interface {
	Roster() *model.Roster
	Analysis(ctx context.Context) squad.Report
	PositionReport(ctx context.Context, pos string) (squad.PositionReport, error)
}

// PlayerDependencies searches the candidate pool.
type PlayerDependencies interface {
	Search(ctx context.Context, f roster.Filter) []model.Player
}
