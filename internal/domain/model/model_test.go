package model_test

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/barcarate/internal/domain/model"
)

func TestParsePosition(t *testing.T) {
	Convey("Given position codes", t, func() {
		Convey("Known codes parse case-insensitively", func() {
			for _, s := range []string{"gk", " CB ", "St", "rw"} {
				p, err := model.ParsePosition(s)
				So(err, ShouldBeNil)
				So(p.Valid(), ShouldBeTrue)
			}
		})

		Convey("Unknown codes are rejected", func() {
			_, err := model.ParsePosition("MF")
			So(errors.Is(err, model.ErrUnknownPosition), ShouldBeTrue)
		})

		Convey("Every position maps to a group", func() {
			So(model.GK.Group(), ShouldEqual, model.Goalkeepers)
			So(model.LB.Group(), ShouldEqual, model.Defenders)
			So(model.AM.Group(), ShouldEqual, model.Midfielders)
			So(model.ST.Group(), ShouldEqual, model.Forwards)
			So(model.RW.Group(), ShouldEqual, model.Forwards)
		})
	})
}

func TestFold(t *testing.T) {
	Convey("Fold strips case, accents and extra spaces", t, func() {
		So(model.Fold("Pau Cubarsí"), ShouldEqual, "pau cubarsi")
		So(model.Fold("  JULES   Koundé "), ShouldEqual, "jules kounde")
		So(model.Fold("Wojciech Szczęsny"), ShouldEqual, "wojciech szczesny")
		So(model.Fold("Ørjan Nyland"), ShouldEqual, "orjan nyland")
		So(model.Fold("Iñaki Williams"), ShouldEqual, "inaki williams")
	})

	Convey("Fold keeps combining marks outside the Latin script", t, func() {
		So(model.Fold("कुणाल"), ShouldNotEqual, model.Fold("कणाल"))
		So(model.Fold("कुणाल"), ShouldEqual, "कुणाल")
		So(model.Fold("Ελένη"), ShouldEqual, "ελένη")
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given raw player records", t, func() {
		Convey("A complete record is cleaned", func() {
			p, err := model.NewPlayer("  Nico   Williams ", 22, 84, 70e6, "lw", " Athletic Bilbao ")
			So(err, ShouldBeNil)
			So(p.Name, ShouldEqual, "Nico Williams")
			So(p.Position, ShouldEqual, model.LW)
			So(p.Team, ShouldEqual, "Athletic Bilbao")
		})

		Convey("Out-of-range numbers are clamped", func() {
			p, err := model.NewPlayer("X", 9, 120, -5, "CB", "")
			So(err, ShouldBeNil)
			So(p.Age, ShouldEqual, model.MinAge)
			So(p.Rating, ShouldEqual, model.MaxRating)
			So(p.Value, ShouldEqual, 0)
			So(p.IsFree(), ShouldBeTrue)

			p, err = model.NewPlayer("Y", 60, -3, 1, "CB", "")
			So(err, ShouldBeNil)
			So(p.Age, ShouldEqual, model.MaxAge)
			So(p.Rating, ShouldEqual, model.MinRating)
		})

		Convey("Missing name or position is an invalid candidate", func() {
			_, err := model.NewPlayer(" ", 25, 80, 1, "CB", "")
			So(errors.Is(err, model.ErrInvalidCandidate), ShouldBeTrue)

			_, err = model.NewPlayer("Z", 25, 80, 1, "", "")
			So(errors.Is(err, model.ErrInvalidCandidate), ShouldBeTrue)

			_, err = model.NewPlayer("Z", 25, 80, 1, "libero", "")
			So(errors.Is(err, model.ErrInvalidCandidate), ShouldBeTrue)
			So(errors.Is(err, model.ErrUnknownPosition), ShouldBeTrue)
		})

		Convey("Non-numeric rating cannot be clamped", func() {
			_, err := model.NewPlayer("Z", 25, math.NaN(), 1, "CB", "")
			So(errors.Is(err, model.ErrInvalidCandidate), ShouldBeTrue)
		})
	})
}

func TestRoster(t *testing.T) {
	Convey("Given a small roster", t, func() {
		players := []model.Player{
			{Name: "Joan García", Age: 24, Rating: 83, Value: 25e6, Position: model.GK},
			{Name: "Pau Cubarsí", Age: 18, Rating: 78, Value: 25e6, Position: model.CB, Team: "FC Barcelona"},
			{Name: "Pedri", Age: 22, Rating: 88, Value: 100e6, Position: model.AM},
			{Name: "Robert Lewandowski", Age: 37, Rating: 87, Value: 15e6, Position: model.ST},
		}
		r, err := model.NewRosterFromPlayers("FC Barcelona", players)
		So(err, ShouldBeNil)

		Convey("It is grouped by position", func() {
			So(r.Len(), ShouldEqual, 4)
			So(r.Group(model.Goalkeepers), ShouldHaveLength, 1)
			So(r.Group(model.Forwards)[0].Name, ShouldEqual, "Robert Lewandowski")
			So(r.AtPosition(model.CB), ShouldHaveLength, 1)
			So(r.Count(func(p model.Player) bool { return p.Age > 30 }), ShouldEqual, 1)
		})

		Convey("Lookups fold accents and case", func() {
			p, ok := r.Find("PAU CUBARSI")
			So(ok, ShouldBeTrue)
			So(p.Name, ShouldEqual, "Pau Cubarsí")
		})

		Convey("Group copies cannot mutate the roster", func() {
			g := r.Group(model.Midfielders)
			g[0].Rating = 10
			So(r.Group(model.Midfielders)[0].Rating, ShouldEqual, 88)
		})

		Convey("Version tracks contents", func() {
			same, err := model.NewRosterFromPlayers("FC Barcelona", players)
			So(err, ShouldBeNil)
			So(same.Version(), ShouldEqual, r.Version())

			changed := append([]model.Player(nil), players...)
			changed[3].Age = 38
			other, err := model.NewRosterFromPlayers("FC Barcelona", changed)
			So(err, ShouldBeNil)
			So(other.Version(), ShouldNotEqual, r.Version())
		})
	})

	Convey("Roster invariants are enforced", t, func() {
		_, err := model.NewRoster("FC Barcelona", map[model.Group][]model.Player{
			model.Forwards: {{Name: "Kylian Mbappé", Age: 26, Rating: 91, Position: model.ST, Team: "Real Madrid CF"}},
		})
		So(errors.Is(err, model.ErrForeignRosterMember), ShouldBeTrue)

		_, err = model.NewRoster("FC Barcelona", map[model.Group][]model.Player{
			model.Midfielders: {
				{Name: "Gavi", Age: 21, Rating: 85, Position: model.CM},
				{Name: "gavi", Age: 21, Rating: 85, Position: model.CM},
			},
		})
		So(errors.Is(err, model.ErrDuplicatePlayer), ShouldBeTrue)

		_, err = model.NewRoster("FC Barcelona", map[model.Group][]model.Player{"bench": nil})
		So(errors.Is(err, model.ErrUnknownGroup), ShouldBeTrue)

		empty, err := model.NewRoster("FC Barcelona", nil)
		So(err, ShouldBeNil)
		So(empty.Len(), ShouldEqual, 0)
		So(empty.All(), ShouldBeEmpty)
	})
}
