package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/barcarate/internal/domain/model"
	"github.com/okian/barcarate/internal/domain/types"
)

// CandidateDependencies queues candidates for asynchronous evaluation.
type CandidateDependencies interface {
	// Lookup finds a candidate in the pool by name.
	Lookup(ctx context.Context, name string) (model.Player, error)
	// Submit queues s. It returns queue.ErrFull on backpressure.
	Submit(ctx context.Context, s model.Submission) (types.SubmissionStatus, error)
	SubmissionStatus(ctx context.Context, id string) (types.SubmissionStatus, error)
}

// CandidatesHandler handles candidate submissions.
type CandidatesHandler struct {
	deps CandidateDependencies
}

// NewCandidatesHandler creates a new candidates handler.
func NewCandidatesHandler(deps CandidateDependencies) *CandidatesHandler {
	return &CandidatesHandler{deps: deps}
}

// candidateRequest mirrors the OpenAPI schema for POST /candidates.
type candidateRequest struct {
	SubmissionID string        `json:"submission_id"`
	Name         string        `json:"name"`
	Player       *model.Player `json:"player"`
}

type ackResponse struct {
	Status       string `json:"status"`
	Duplicate    bool   `json:"duplicate"`
	SubmissionID string `json:"submission_id"`
}

// HandlePostCandidate handles POST /candidates requests.
func (h *CandidatesHandler) HandlePostCandidate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_candidate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	body, ok := readBody(w, r, op, candidateValidator)
	if !ok {
		return
	}
	var req candidateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	var p model.Player
	if req.Player != nil {
		p = *req.Player
	} else {
		var err error
		if p, err = h.deps.Lookup(r.Context(), req.Name); err != nil {
			writeDomainError(w, op, err)
			return
		}
	}

	st, err := h.deps.Submit(r.Context(), model.Submission{ID: req.SubmissionID, Candidate: p})
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	if st.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true, SubmissionID: st.ID})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", SubmissionID: st.ID})
}

// HandleGetSubmission handles GET /candidates/{submission_id} requests.
func (h *CandidatesHandler) HandleGetSubmission(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_submission"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/candidates/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	st, err := h.deps.SubmissionStatus(r.Context(), id)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
