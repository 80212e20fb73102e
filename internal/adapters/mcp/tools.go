package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okian/barcarate/internal/adapters/roster"
	"github.com/okian/barcarate/internal/domain/model"
	"github.com/okian/barcarate/internal/domain/scoring"
	"github.com/okian/barcarate/pkg/logger"
)

const (
	defaultSearchLimit    = 20
	maxSearchLimit        = 100
	defaultRecommendLimit = 10
)

// AnalyzeSquadArgs is the input schema for the analyze_squad tool.
type AnalyzeSquadArgs struct{}

// CandidateArgs describes a player that is not in the candidate pool.
type CandidateArgs struct {
	Name        string  `json:"name" jsonschema:"Player name"`
	Age         int     `json:"age,omitempty" jsonschema:"Age in years (15-45)"`
	Rating      float64 `json:"rating,omitempty" jsonschema:"Skill rating on the 0-100 scale"`
	Value       float64 `json:"value,omitempty" jsonschema:"Market value in EUR; 0 is a free transfer"`
	Position    string  `json:"position" jsonschema:"One of GK CB LB RB DM CM AM LW RW ST"`
	Team        string  `json:"team,omitempty" jsonschema:"Current club"`
	Nationality string  `json:"nationality,omitempty"`
}

// EvaluateTransferArgs is the input schema for the evaluate_transfer tool.
type EvaluateTransferArgs struct {
	Name   string         `json:"name,omitempty" jsonschema:"Candidate pool player name"`
	Player *CandidateArgs `json:"player,omitempty" jsonschema:"Full player record, used when name is empty"`
}

// SearchPlayersArgs is the input schema for the search_players tool.
type SearchPlayersArgs struct {
	Query     string  `json:"query,omitempty" jsonschema:"Substring of the player name"`
	Position  string  `json:"position,omitempty" jsonschema:"Position code"`
	Team      string  `json:"team,omitempty" jsonschema:"Substring of the club name"`
	MaxAge    int     `json:"max_age,omitempty"`
	MaxValue  float64 `json:"max_value,omitempty" jsonschema:"Upper bound on market value in EUR"`
	MinRating float64 `json:"min_rating,omitempty"`
	Limit     int     `json:"limit,omitempty" jsonschema:"Maximum results (default 20, max 100)"`
}

// RecommendSigningsArgs is the input schema for the recommend_signings tool.
type RecommendSigningsArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum recommendations (default 10)"`
}

func (s *Server) analyzeSquad(ctx context.Context, _ *mcpsdk.CallToolRequest, _ AnalyzeSquadArgs) (*mcpsdk.CallToolResult, any, error) {
	return toolJSON(s.svc.Analysis(ctx)), nil, nil
}

func (s *Server) evaluateTransfer(ctx context.Context, _ *mcpsdk.CallToolRequest, args EvaluateTransferArgs) (*mcpsdk.CallToolResult, any, error) {
	var (
		b   scoring.Breakdown
		err error
	)
	switch {
	case strings.TrimSpace(args.Name) != "":
		b, err = s.svc.EvaluateByName(ctx, args.Name)
	case args.Player != nil:
		b, err = s.svc.Evaluate(ctx, model.Player{
			Name:        args.Player.Name,
			Age:         args.Player.Age,
			Rating:      args.Player.Rating,
			Value:       args.Player.Value,
			Position:    model.Position(args.Player.Position),
			Team:        args.Player.Team,
			Nationality: args.Player.Nationality,
		})
	default:
		return toolError(errors.New("name or player is required")), nil, nil
	}
	if err != nil {
		return s.evaluationError(ctx, err), nil, nil
	}
	return toolJSON(b), nil, nil
}

// evaluationError turns rejected candidates into tool errors the model can
// read. Anything else is logged as well.
func (s *Server) evaluationError(ctx context.Context, err error) *mcpsdk.CallToolResult {
	var epe *scoring.ExistingPlayerError
	switch {
	case errors.As(err, &epe):
		return toolError(fmt.Errorf("%s is already in the squad: %w", epe.Member.Name, err))
	case errors.Is(err, model.ErrInvalidCandidate), errors.Is(err, model.ErrUnknownPosition),
		errors.Is(err, roster.ErrPlayerNotFound):
		return toolError(err)
	default:
		s.logger.Error(ctx, "evaluate_transfer failed", logger.Error(err))
		return toolError(err)
	}
}

func (s *Server) searchPlayers(ctx context.Context, _ *mcpsdk.CallToolRequest, args SearchPlayersArgs) (*mcpsdk.CallToolResult, any, error) {
	f := roster.Filter{
		Query:     args.Query,
		Team:      args.Team,
		MaxAge:    args.MaxAge,
		MaxValue:  args.MaxValue,
		MinRating: args.MinRating,
		Limit:     args.Limit,
	}
	if args.Position != "" {
		pos, err := model.ParsePosition(args.Position)
		if err != nil {
			return toolError(err), nil, nil
		}
		f.Position = pos
	}
	switch {
	case f.Limit <= 0:
		f.Limit = defaultSearchLimit
	case f.Limit > maxSearchLimit:
		f.Limit = maxSearchLimit
	}
	players := s.svc.Search(ctx, f)
	if players == nil {
		players = []model.Player{}
	}
	return toolJSON(players), nil, nil
}

func (s *Server) recommendSignings(ctx context.Context, _ *mcpsdk.CallToolRequest, args RecommendSigningsArgs) (*mcpsdk.CallToolResult, any, error) {
	limit := args.Limit
	if limit <= 0 {
		limit = defaultRecommendLimit
	}
	out, err := s.svc.Recommend(ctx, limit)
	if err != nil {
		return toolError(err), nil, nil
	}
	if out == nil {
		out = []scoring.Breakdown{}
	}
	return toolJSON(out), nil, nil
}
