package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/barcarate/internal/domain/model"
	"github.com/okian/barcarate/internal/domain/scoring"
)

// EvaluateDependencies scores candidates synchronously.
type EvaluateDependencies interface {
	Evaluate(ctx context.Context, candidate model.Player) (scoring.Breakdown, error)
	EvaluateByName(ctx context.Context, name string) (scoring.Breakdown, error)
	Compare(ctx context.Context, names []string) []scoring.Evaluation
}

// EvaluateHandler handles synchronous evaluations.
type EvaluateHandler struct {
	deps EvaluateDependencies
}

// NewEvaluateHandler creates a new evaluate handler.
func NewEvaluateHandler(deps EvaluateDependencies) *EvaluateHandler {
	return &EvaluateHandler{deps: deps}
}

// HandleEvaluate handles POST /evaluate. The body is either {"name": ...},
// looked up in the candidate pool, or a full player record.
func (h *EvaluateHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "api.evaluate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	body, ok := readBody(w, r, op, evaluateValidator)
	if !ok {
		return
	}
	var p model.Player
	if err := json.Unmarshal(body, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	var (
		b   scoring.Breakdown
		err error
	)
	if p.Position == "" {
		b, err = h.deps.EvaluateByName(r.Context(), p.Name)
	} else {
		b, err = h.deps.Evaluate(r.Context(), p)
	}
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

type compareRequest struct {
	Names []string `json:"names"`
}

// HandleCompare handles POST /compare.
func (h *EvaluateHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.compare"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	body, ok := readBody(w, r, op, compareValidator)
	if !ok {
		return
	}
	var req compareRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Compare(r.Context(), req.Names))
}
