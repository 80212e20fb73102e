package roster_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/barcarate/internal/adapters/roster"
	"github.com/okian/barcarate/internal/domain/model"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSquad(t *testing.T) {
	ctx := context.Background()

	Convey("The bundled squad loads", t, func() {
		r, err := roster.LoadSquad(ctx, "")
		So(err, ShouldBeNil)
		So(r.Club(), ShouldEqual, "FC Barcelona")
		So(r.Len(), ShouldEqual, 23)
		So(len(r.Group(model.Goalkeepers)), ShouldEqual, 3)

		p, ok := r.Find("roony bardghji")
		So(ok, ShouldBeTrue)
		So(p.Position, ShouldEqual, model.RW)
		So(p.Number, ShouldEqual, 28)

		lewy, ok := r.Find("Robert Lewandowski")
		So(ok, ShouldBeTrue)
		So(lewy.Value, ShouldEqual, 15e6)
	})

	Convey("A squad file overrides the bundle", t, func() {
		path := writeFile(t, `
club: Athletic Club
squad:
  goalkeepers:
    - {name: Unai Simón, age: 28, rating: 84, value: 30000000, position: GK}
  forwards:
    - {name: Nico Williams, age: 22, rating: 84, value: 70000000, position: LW, team: Athletic Club}
`)
		r, err := roster.LoadSquad(ctx, path)
		So(err, ShouldBeNil)
		So(r.Club(), ShouldEqual, "Athletic Club")
		So(r.Len(), ShouldEqual, 2)
	})

	Convey("Invalid squads are rejected", t, func() {
		_, err := roster.LoadSquad(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
		So(errors.Is(err, roster.ErrLoadRoster), ShouldBeTrue)

		foreign := writeFile(t, `
club: FC Barcelona
squad:
  forwards:
    - {name: Kylian Mbappé, age: 26, rating: 91, value: 180000000, position: ST, team: Real Madrid CF}
`)
		_, err = roster.LoadSquad(ctx, foreign)
		So(errors.Is(err, roster.ErrLoadRoster), ShouldBeTrue)
		So(errors.Is(err, model.ErrForeignRosterMember), ShouldBeTrue)

		noClub := writeFile(t, "squad: {}\n")
		_, err = roster.LoadSquad(ctx, noClub)
		So(errors.Is(err, roster.ErrLoadRoster), ShouldBeTrue)
	})
}

func TestPool(t *testing.T) {
	ctx := context.Background()
	pool, err := roster.LoadPool(ctx, "")
	if err != nil {
		t.Fatalf("load pool: %v", err)
	}

	Convey("The bundled pool covers the league", t, func() {
		So(pool.Len(), ShouldEqual, 233)
		So(pool.League(), ShouldEqual, "La Liga")
		So(len(pool.Teams()), ShouldEqual, 20)
	})

	Convey("Find folds case and accents", t, func() {
		p, err := pool.Find("kylian mbappe")
		So(err, ShouldBeNil)
		So(p.Name, ShouldEqual, "Kylian Mbappé")
		So(p.Team, ShouldEqual, "Real Madrid CF")

		_, err = pool.Find("Pelé")
		So(errors.Is(err, roster.ErrPlayerNotFound), ShouldBeTrue)
	})

	Convey("Search filters and orders by rating", t, func() {
		st := pool.Search(ctx, roster.Filter{Position: model.ST, Limit: 3})
		So(len(st), ShouldEqual, 3)
		So(st[0].Name, ShouldEqual, "Kylian Mbappé")
		So(st[1].Name, ShouldEqual, "Robert Lewandowski")
		So(st[2].Name, ShouldEqual, "Julián Álvarez")

		williams := pool.Search(ctx, roster.Filter{Query: "williams"})
		So(len(williams), ShouldEqual, 2)
		So(williams[0].Name, ShouldEqual, "Nico Williams")

		youngCBs := pool.Search(ctx, roster.Filter{Position: model.CB, MaxAge: 21, MaxValue: 30e6})
		So(len(youngCBs), ShouldEqual, 2)
		for _, p := range youngCBs {
			So(p.Age, ShouldBeLessThanOrEqualTo, 21)
			So(p.Value, ShouldBeLessThanOrEqualTo, 30e6)
		}

		athletic := pool.Search(ctx, roster.Filter{Team: "athletic"})
		So(len(athletic), ShouldEqual, 12)

		So(pool.Search(ctx, roster.Filter{Query: "nobody at all"}), ShouldBeEmpty)
	})

	Convey("Duplicate names are rejected", t, func() {
		_, err := roster.NewPool("La Liga", []model.Player{
			{Name: "Pedri", Age: 22, Rating: 88, Position: model.AM},
			{Name: "pedri", Age: 22, Rating: 88, Position: model.AM},
		})
		So(errors.Is(err, model.ErrDuplicatePlayer), ShouldBeTrue)
	})
}
