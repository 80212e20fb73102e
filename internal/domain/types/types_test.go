package types_test

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/barcarate/internal/domain/types"
)

func TestEntryJSON(t *testing.T) {
	Convey("Given a shortlist entry", t, func() {
		entry := types.Entry{Rank: 1, Name: "Nico Williams", FinalRating: 8.2, Position: "LW", Recommendation: "Excellent Signing"}

		Convey("It encodes with snake_case keys and omits an empty team", func() {
			b, err := json.Marshal(entry)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual,
				`{"rank":1,"name":"Nico Williams","final_rating":8.2,"position":"LW","recommendation":"Excellent Signing"}`)
		})

		Convey("A team is included when known", func() {
			entry.Team = "Athletic Bilbao"
			b, err := json.Marshal(entry)
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"team":"Athletic Bilbao"`)
		})
	})
}
