package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/barcarate/internal/domain/model"
)

// SquadHandler serves the roster and its analysis.
type SquadHandler struct {
	deps SquadDependencies
}

// NewSquadHandler creates a new squad handler.
func NewSquadHandler(deps SquadDependencies) *SquadHandler {
	return &SquadHandler{deps: deps}
}

type squadResponse struct {
	Club    string                         `json:"club"`
	Version string                         `json:"version"`
	Players int                            `json:"players"`
	Squad   map[model.Group][]model.Player `json:"squad"`
}

// HandleGetSquad handles GET /squad requests.
func (h *SquadHandler) HandleGetSquad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	ros := h.deps.Roster()
	resp := squadResponse{
		Club:    ros.Club(),
		Version: ros.Version(),
		Players: ros.Len(),
		Squad:   make(map[model.Group][]model.Player, len(model.Groups)),
	}
	for _, g := range model.Groups {
		resp.Squad[g] = ros.Group(g)
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGetAnalysis handles GET /squad/analysis requests.
func (h *SquadHandler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Analysis(r.Context()))
}

// HandleGetPosition handles GET /squad/positions/{POS} requests.
func (h *SquadHandler) HandleGetPosition(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_position"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	pos := strings.TrimPrefix(r.URL.Path, "/squad/positions/")
	if pos == "" || strings.Contains(pos, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	rep, err := h.deps.PositionReport(r.Context(), pos)
	if err != nil {
		if errors.Is(err, model.ErrUnknownPosition) {
			writeError(w, http.StatusBadRequest, "unknown_position", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
