package api

import (
	"context"
	"net/http"

	"github.com/okian/barcarate/internal/domain/scoring"
)

const defaultRecommendations = 10

// RecommendDependencies suggests signings for the squad's weak positions.
type RecommendDependencies interface {
	Recommend(ctx context.Context, limit int) ([]scoring.Breakdown, error)
}

// RecommendHandler handles recommendation requests.
type RecommendHandler struct {
	deps     RecommendDependencies
	maxLimit int
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(deps RecommendDependencies, maxLimit int) *RecommendHandler {
	return &RecommendHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetRecommendations handles GET /recommendations?limit=N requests.
func (h *RecommendHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_recommendations"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, code, err := limitParam(r, "limit", min(defaultRecommendations, h.maxLimit), h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, code, WrapKind(op, ErrBadRequest, err))
		return
	}
	recs, err := h.deps.Recommend(r.Context(), n)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	if recs == nil {
		recs = []scoring.Breakdown{}
	}
	writeJSON(w, http.StatusOK, recs)
}
