// Package site serves the root index: what the service is and where its
// endpoints and docs live.
package site

import (
	"context"
	"encoding/json"
	"net/http"
)

// Link points at one endpoint.
type Link struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Title  string `json:"title"`
}

// Index is the body of GET /.
type Index struct {
	Name      string `json:"name"`
	Club      string `json:"club"`
	Docs      string `json:"docs"`
	OpenAPI   string `json:"openapi"`
	Endpoints []Link `json:"endpoints"`
}

var endpoints = []Link{
	{http.MethodGet, "/squad", "home roster"},
	{http.MethodGet, "/squad/analysis", "weaknesses and statistics"},
	{http.MethodGet, "/squad/positions/{position}", "one position"},
	{http.MethodGet, "/players", "search the candidate pool"},
	{http.MethodPost, "/evaluate", "score a candidate"},
	{http.MethodPost, "/compare", "score several candidates"},
	{http.MethodPost, "/candidates", "queue a candidate"},
	{http.MethodGet, "/candidates/{submission_id}", "submission state"},
	{http.MethodGet, "/shortlist", "top shortlisted candidates"},
	{http.MethodGet, "/shortlist/{name}", "rank of a candidate"},
	{http.MethodGet, "/recommendations", "suggested signings"},
	{http.MethodGet, "/stats", "service statistics"},
	{http.MethodGet, "/healthz", "metrics"},
}

// RootHandler handles root path requests.
type RootHandler struct {
	index Index
}

// NewRootHandler creates a root handler for club.
func NewRootHandler(club string) *RootHandler {
	return &RootHandler{index: Index{
		Name:      "barcarate",
		Club:      club,
		Docs:      "/api-docs",
		OpenAPI:   "/openapi.yaml",
		Endpoints: endpoints,
	}}
}

// HandleRoot handles GET / requests. Every other unmatched path is a 404.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(h.index)
}

// Register attaches the root index to mux.
func Register(_ context.Context, mux *http.ServeMux, club string) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/", NewRootHandler(club).HandleRoot)
}
