package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/barcarate/internal/adapters/roster"
	"github.com/okian/barcarate/internal/domain/model"
)

// PlayersHandler searches the candidate pool.
type PlayersHandler struct {
	deps     PlayerDependencies
	maxLimit int
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies, maxLimit int) *PlayersHandler {
	return &PlayersHandler{deps: deps, maxLimit: maxLimit}
}

// HandleSearch handles GET /players requests.
func (h *PlayersHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search_players"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	f, code, err := h.filter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, code, WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Search(r.Context(), f))
}

func (h *PlayersHandler) filter(r *http.Request) (roster.Filter, string, error) {
	q := r.URL.Query()
	f := roster.Filter{Query: q.Get("q"), Team: q.Get("team")}

	if raw := q.Get("position"); raw != "" {
		pos, err := model.ParsePosition(raw)
		if err != nil {
			return f, "unknown_position", err
		}
		f.Position = pos
	}
	if raw := q.Get("max_age"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return f, "bad_request", fmt.Errorf("invalid max_age %q", raw)
		}
		f.MaxAge = n
	}
	for _, p := range []struct {
		name string
		dst  *float64
	}{{"max_value", &f.MaxValue}, {"min_rating", &f.MinRating}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return f, "bad_request", fmt.Errorf("invalid %s %q", p.name, raw)
		}
		*p.dst = v
	}

	n, code, err := limitParam(r, "limit", min(defaultSearchSize, h.maxLimit), h.maxLimit)
	if err != nil {
		return f, code, err
	}
	f.Limit = n
	return f, "", nil
}
