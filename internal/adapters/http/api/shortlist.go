package api

import (
	"context"
	"net/http"
	"strings"
)

// ShortlistDependencies defines the interface for shortlist reads.
type ShortlistDependencies interface {
	Shortlist(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, name string) (Entry, error)
}

// ShortlistHandler handles shortlist requests.
type ShortlistHandler struct {
	deps     ShortlistDependencies
	maxLimit int
}

// NewShortlistHandler creates a new shortlist handler.
func NewShortlistHandler(deps ShortlistDependencies, maxLimit int) *ShortlistHandler {
	return &ShortlistHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetShortlist handles GET /shortlist?limit=N requests.
func (h *ShortlistHandler) HandleGetShortlist(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_shortlist"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, code, err := limitParam(r, "limit", 0, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, code, WrapKind(op, ErrBadRequest, err))
		return
	}
	entries, err := h.deps.Shortlist(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetRank handles GET /shortlist/{name} requests.
func (h *ShortlistHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /shortlist/
	name := strings.TrimPrefix(r.URL.Path, "/shortlist/")
	if strings.TrimSpace(name) == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.Rank(r.Context(), name)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
