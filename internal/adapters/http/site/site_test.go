package site

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRootIndex(t *testing.T) {
	Convey("Given a registered root handler", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux, "FC Barcelona")

		Convey("GET / describes the service", func() {
			req := httptest.NewRequest("GET", "/", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

			var idx Index
			So(json.Unmarshal(w.Body.Bytes(), &idx), ShouldBeNil)
			So(idx.Club, ShouldEqual, "FC Barcelona")
			So(idx.Docs, ShouldEqual, "/api-docs")
			So(idx.Endpoints, ShouldContain, Link{http.MethodPost, "/evaluate", "score a candidate"})
		})

		Convey("Unknown paths are not found", func() {
			req := httptest.NewRequest("GET", "/nope", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Other methods are not found", func() {
			req := httptest.NewRequest("POST", "/", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("A nil mux panics", t, func() {
		So(func() { Register(context.Background(), nil, "x") }, ShouldPanic)
	})
}
