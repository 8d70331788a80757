package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/arbor/internal/apperr"
	"github.com/starford/arbor/internal/treeservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc     *treeservice.Service
	rebuild RebuildFunc
}

// NewHandler creates a new Handler.
func NewHandler(svc *treeservice.Service, rebuild RebuildFunc) *Handler {
	return &Handler{svc: svc, rebuild: rebuild}
}

// nodeID extracts the node ID from the URL wildcard. Supports encoded
// slashes from OpenAPI clients (e.g. node_src%2Fa.go).
func nodeID(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// GetTree handles GET /api/tree.
func (h *Handler) GetTree(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("tree not built yet"))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// FlattenTree handles GET /api/tree/flat?filter=...
func (h *Handler) FlattenTree(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Flatten(r.URL.Query().Get("filter"))
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("tree not built yet"))
		return
	}
	writeJSON(w, http.StatusOK, FlatResponse{Rows: rows})
}

// FlattenDiff handles GET /api/tree/diff?filter=...
func (h *Handler) FlattenDiff(w http.ResponseWriter, r *http.Request) {
	rows, delta, err := h.svc.FlattenDiff(r.URL.Query().Get("filter"))
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("tree not built yet"))
		return
	}
	writeJSON(w, http.StatusOK, newDiffResponse(rows, delta))
}

// Rebuild handles POST /api/rebuild.
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	if h.rebuild == nil {
		writeJSON(w, http.StatusNotImplemented, errorBody("rebuild not available"))
		return
	}
	if err := h.rebuild(); err != nil {
		slog.Error("rebuild failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	sum, err := h.svc.Summary()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// GetNode handles GET /api/nodes/*.
func (h *Handler) GetNode(w http.ResponseWriter, r *http.Request) {
	id := nodeID(r)
	node, err := h.svc.Node(id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get node failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// Expand handles POST /api/expand/*.
func (h *Handler) Expand(w http.ResponseWriter, r *http.Request) {
	h.setExpanded(w, r, true)
}

// Collapse handles POST /api/collapse/*.
func (h *Handler) Collapse(w http.ResponseWriter, r *http.Request) {
	h.setExpanded(w, r, false)
}

func (h *Handler) setExpanded(w http.ResponseWriter, r *http.Request, expanded bool) {
	id := nodeID(r)
	if err := h.svc.SetExpanded(id, expanded); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("set expanded failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"expanded": expanded})
}

// Select handles POST /api/select/*.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	h.setSelected(w, r, true)
}

// Deselect handles POST /api/deselect/*.
func (h *Handler) Deselect(w http.ResponseWriter, r *http.Request) {
	h.setSelected(w, r, false)
}

func (h *Handler) setSelected(w http.ResponseWriter, r *http.Request, selected bool) {
	id := nodeID(r)
	if err := h.svc.SetSelected(id, selected); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("set selected failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"selected": selected})
}

// FolderSelection handles GET /api/selection/*.
func (h *Handler) FolderSelection(w http.ResponseWriter, r *http.Request) {
	id := nodeID(r)
	state, err := h.svc.FolderSelection(id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("folder selection failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, SelectionResponse{State: string(state)})
}
