package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/arbor/internal/treeservice"
)

// RebuildFunc triggers a rescan+rebuild; the handler calls it on POST
// /rebuild.
type RebuildFunc func() error

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *treeservice.Service, rebuild RebuildFunc, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, rebuild)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Tree views.
	r.Get("/tree", h.GetTree)
	r.Get("/tree/flat", h.FlattenTree)
	r.Get("/tree/diff", h.FlattenDiff)
	r.Post("/rebuild", h.Rebuild)

	// Single nodes and their UI state. Node IDs may contain slashes
	// (file IDs embed the entry ID), so every route takes a trailing
	// wildcard.
	r.Get("/nodes/*", h.GetNode)
	r.Get("/selection/*", h.FolderSelection)
	r.Post("/expand/*", h.Expand)
	r.Post("/collapse/*", h.Collapse)
	r.Post("/select/*", h.Select)
	r.Post("/deselect/*", h.Deselect)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
