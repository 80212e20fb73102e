// Package mcp exposes the transfer service as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okian/barcarate/internal/adapters/roster"
	"github.com/okian/barcarate/internal/domain/model"
	"github.com/okian/barcarate/internal/domain/scoring"
	"github.com/okian/barcarate/internal/domain/squad"
	"github.com/okian/barcarate/pkg/logger"
)

const (
	serverName    = "barcarate"
	serverVersion = "1.0.0"
)

// Service is the subset of the transfer service the tools call.
type Service interface {
	Analysis(ctx context.Context) squad.Report
	Evaluate(ctx context.Context, candidate model.Player) (scoring.Breakdown, error)
	EvaluateByName(ctx context.Context, name string) (scoring.Breakdown, error)
	Search(ctx context.Context, f roster.Filter) []model.Player
	Recommend(ctx context.Context, limit int) ([]scoring.Breakdown, error)
}

// ToolInfo describes one registered tool.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Server holds the MCP server and the tools registered on it.
type Server struct {
	svc      Service
	server   *mcpsdk.Server
	registry []ToolInfo
	logger   logger.Logger
}

// NewServer registers every tool backed by svc.
func NewServer(svc Service) *Server {
	s := &Server{
		svc: svc,
		server: mcpsdk.NewServer(&mcpsdk.Implementation{
			Name:    serverName,
			Version: serverVersion,
		}, nil),
		registry: make([]ToolInfo, 0, 4),
		logger:   logger.Get().Named("mcp"),
	}

	addTool(s, &mcpsdk.Tool{
		Name:        "analyze_squad",
		Description: "Weaknesses, statistics and priority positions of the FC Barcelona squad",
	}, s.analyzeSquad)
	addTool(s, &mcpsdk.Tool{
		Name:        "evaluate_transfer",
		Description: "Score a transfer candidate by pool name or by full player record",
	}, s.evaluateTransfer)
	addTool(s, &mcpsdk.Tool{
		Name:        "search_players",
		Description: "Search the candidate pool by name, position, team, age, value and rating",
	}, s.searchPlayers)
	addTool(s, &mcpsdk.Tool{
		Name:        "recommend_signings",
		Description: "Best pool candidates for the squad's priority positions",
	}, s.recommendSignings)
	return s
}

// Tools lists the registered tools in registration order.
func (s *Server) Tools() []ToolInfo {
	out := make([]ToolInfo, len(s.registry))
	copy(out, s.registry)
	return out
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *mcpsdk.Server { return s.server }

// Run serves the tools over stdin/stdout until ctx is done or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info(ctx, "mcp server listening on stdio", logger.Int("tools", len(s.registry)))
	if err := s.server.Run(ctx, &mcpsdk.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp: %w", err)
	}
	return nil
}

func addTool[T any](s *Server, tool *mcpsdk.Tool, handler func(context.Context, *mcpsdk.CallToolRequest, T) (*mcpsdk.CallToolResult, any, error)) {
	s.registry = append(s.registry, ToolInfo{Name: tool.Name, Description: tool.Description})
	mcpsdk.AddTool(s.server, tool, handler)
}

func toolJSON(v any) *mcpsdk.CallToolResult {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err)
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(b)},
		},
	}
}

func toolError(err error) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		IsError: true,
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
