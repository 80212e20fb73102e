package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/barcarate/internal/adapters/roster"
	"github.com/okian/barcarate/internal/domain/model"
	"github.com/okian/barcarate/internal/domain/scoring"
	"github.com/okian/barcarate/internal/domain/squad"
	"github.com/okian/barcarate/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type stubService struct {
	lastFilter roster.Filter
	lastLimit  int
	evalErr    error
}

func (s *stubService) Analysis(context.Context) squad.Report {
	return squad.Report{Club: "FC Barcelona", Version: "v1"}
}

func (s *stubService) Evaluate(_ context.Context, c model.Player) (scoring.Breakdown, error) {
	if s.evalErr != nil {
		return scoring.Breakdown{}, s.evalErr
	}
	if !c.Position.Valid() {
		return scoring.Breakdown{}, fmt.Errorf("%w: %q", model.ErrUnknownPosition, c.Position)
	}
	return scoring.Breakdown{Candidate: c, FinalRating: 8.7, Recommendation: "Excellent Signing"}, nil
}

func (s *stubService) EvaluateByName(_ context.Context, name string) (scoring.Breakdown, error) {
	switch name {
	case "Robert Lewandowski":
		p := model.Player{Name: name, Position: model.ST, Team: "FC Barcelona"}
		return scoring.Breakdown{}, &scoring.ExistingPlayerError{Candidate: p, Member: p}
	case "Nobody":
		return scoring.Breakdown{}, roster.ErrPlayerNotFound
	}
	return scoring.Breakdown{Candidate: model.Player{Name: name}, FinalRating: 7.1}, nil
}

func (s *stubService) Search(_ context.Context, f roster.Filter) []model.Player {
	s.lastFilter = f
	if f.Query == "none" {
		return nil
	}
	return []model.Player{{Name: "Nico Williams", Position: model.LW}}
}

func (s *stubService) Recommend(_ context.Context, limit int) ([]scoring.Breakdown, error) {
	s.lastLimit = limit
	return nil, nil
}

func text(res *mcpsdk.CallToolResult) string {
	So(res.Content, ShouldHaveLength, 1)
	tc, ok := res.Content[0].(*mcpsdk.TextContent)
	So(ok, ShouldBeTrue)
	return tc.Text
}

func TestTools(t *testing.T) {
	Convey("Given an MCP server over a stub service", t, func() {
		ctx := context.Background()
		svc := &stubService{}
		s := NewServer(svc)

		Convey("It registers the four tools in order", func() {
			names := make([]string, 0, 4)
			for _, ti := range s.Tools() {
				names = append(names, ti.Name)
			}
			So(names, ShouldResemble, []string{"analyze_squad", "evaluate_transfer", "search_players", "recommend_signings"})
		})

		Convey("analyze_squad returns the report", func() {
			res, _, err := s.analyzeSquad(ctx, nil, AnalyzeSquadArgs{})
			So(err, ShouldBeNil)
			So(res.IsError, ShouldBeFalse)
			var rep squad.Report
			So(json.Unmarshal([]byte(text(res)), &rep), ShouldBeNil)
			So(rep.Club, ShouldEqual, "FC Barcelona")
		})

		Convey("evaluate_transfer", func() {
			Convey("scores a pool player by name", func() {
				res, _, err := s.evaluateTransfer(ctx, nil, EvaluateTransferArgs{Name: "Kylian Mbappé"})
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeFalse)
				So(text(res), ShouldContainSubstring, "Kylian Mbappé")
			})

			Convey("scores a full record", func() {
				res, _, err := s.evaluateTransfer(ctx, nil, EvaluateTransferArgs{Player: &CandidateArgs{
					Name: "Test Striker", Age: 24, Rating: 85, Value: 15_000_000, Position: "ST", Team: "Real Sociedad",
				}})
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeFalse)
				var b scoring.Breakdown
				So(json.Unmarshal([]byte(text(res)), &b), ShouldBeNil)
				So(b.FinalRating, ShouldEqual, 8.7)
				So(b.Recommendation, ShouldEqual, "Excellent Signing")
			})

			Convey("reports squad members as tool errors", func() {
				res, _, err := s.evaluateTransfer(ctx, nil, EvaluateTransferArgs{Name: "Robert Lewandowski"})
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeTrue)
				So(text(res), ShouldContainSubstring, "already in the squad")
			})

			Convey("reports invalid candidates as tool errors", func() {
				res, _, err := s.evaluateTransfer(ctx, nil, EvaluateTransferArgs{Player: &CandidateArgs{Name: "X", Position: "XX"}})
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeTrue)
			})

			Convey("reports unknown names as tool errors", func() {
				res, _, err := s.evaluateTransfer(ctx, nil, EvaluateTransferArgs{Name: "Nobody"})
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeTrue)
			})

			Convey("requires a name or a player", func() {
				res, _, err := s.evaluateTransfer(ctx, nil, EvaluateTransferArgs{})
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeTrue)
				So(text(res), ShouldContainSubstring, "name or player is required")
			})
		})

		Convey("search_players", func() {
			Convey("parses the position and defaults the limit", func() {
				res, _, err := s.searchPlayers(ctx, nil, SearchPlayersArgs{Position: "lw"})
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeFalse)
				So(svc.lastFilter.Position, ShouldEqual, model.LW)
				So(svc.lastFilter.Limit, ShouldEqual, defaultSearchLimit)
			})

			Convey("caps the limit", func() {
				_, _, _ = s.searchPlayers(ctx, nil, SearchPlayersArgs{Limit: 1000})
				So(svc.lastFilter.Limit, ShouldEqual, maxSearchLimit)
			})

			Convey("rejects unknown positions", func() {
				res, _, err := s.searchPlayers(ctx, nil, SearchPlayersArgs{Position: "keeper"})
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeTrue)
			})

			Convey("returns an empty list when nothing matches", func() {
				res, _, _ := s.searchPlayers(ctx, nil, SearchPlayersArgs{Query: "none"})
				So(strings.TrimSpace(text(res)), ShouldEqual, "[]")
			})
		})

		Convey("recommend_signings defaults the limit", func() {
			res, _, err := s.recommendSignings(ctx, nil, RecommendSigningsArgs{})
			So(err, ShouldBeNil)
			So(svc.lastLimit, ShouldEqual, defaultRecommendLimit)
			So(strings.TrimSpace(text(res)), ShouldEqual, "[]")
		})
	})
}

func TestSession(t *testing.T) {
	Convey("Given a client connected over in-memory transports", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s := NewServer(&stubService{})
		ct, st := mcpsdk.NewInMemoryTransports()
		ss, err := s.MCP().Connect(ctx, st, nil)
		So(err, ShouldBeNil)
		defer ss.Close()

		client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
		cs, err := client.Connect(ctx, ct, nil)
		So(err, ShouldBeNil)
		defer cs.Close()

		Convey("It lists the tools", func() {
			res, err := cs.ListTools(ctx, &mcpsdk.ListToolsParams{})
			So(err, ShouldBeNil)
			So(res.Tools, ShouldHaveLength, 4)
		})

		Convey("It calls evaluate_transfer", func() {
			res, err := cs.CallTool(ctx, &mcpsdk.CallToolParams{
				Name:      "evaluate_transfer",
				Arguments: map[string]any{"name": "Robert Lewandowski"},
			})
			So(err, ShouldBeNil)
			So(res.IsError, ShouldBeTrue)
		})
	})
}
