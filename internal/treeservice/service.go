// Package treeservice coordinates the scanner, the tree builder, and the UI
// state holders behind one mutex: each rebuild swaps in a fresh immutable
// TreeData while expansion and selection survive through stable node IDs.
package treeservice

import (
	"context"
	"fmt"
	"sync"

	"github.com/starford/arbor/internal/apperr"
	"github.com/starford/arbor/internal/builder"
	"github.com/starford/arbor/internal/flatten"
	"github.com/starford/arbor/internal/listdiff"
	"github.com/starford/arbor/internal/models"
	"github.com/starford/arbor/internal/scan"
	"github.com/starford/arbor/internal/statestore"
	"github.com/starford/arbor/internal/uistate"
)

// Summary is the lightweight tree overview returned by the API.
type Summary struct {
	RootID        string `json:"root_id"`
	VisibleRootID string `json:"visible_root_id"`
	NodeCount     int    `json:"node_count"`
	FileCount     int    `json:"file_count"`
	FolderCount   int    `json:"folder_count"`
}

// Service owns the current tree and its UI state.
type Service struct {
	mu sync.Mutex

	scanner *scan.Scanner
	store   *statestore.DB // nil disables persistence
	profile string
	opts    builder.Options

	data      *models.TreeData
	expansion *uistate.ExpansionSet
	selection *uistate.SelectionSet
	lastFlat  []models.VisibleNode

	// Until a set is seeded (restored from the store or adopted from the
	// first build's baked-in bits) rebuilds may initialize it.
	expansionSeeded bool
	selectionSeeded bool
}

// NewService creates a service and restores persisted UI state when a store
// is supplied.
func NewService(scanner *scan.Scanner, store *statestore.DB, profile string, opts builder.Options) (*Service, error) {
	s := &Service{
		scanner:   scanner,
		store:     store,
		profile:   profile,
		opts:      opts,
		expansion: uistate.NewExpansionSet(),
		selection: uistate.NewSelectionSet(),
	}
	if store != nil {
		expanded, err := store.LoadSet(profile, statestore.KindExpansion)
		if err != nil {
			return nil, fmt.Errorf("treeservice: restore expansion: %w", err)
		}
		selected, err := store.LoadSet(profile, statestore.KindSelection)
		if err != nil {
			return nil, fmt.Errorf("treeservice: restore selection: %w", err)
		}
		s.expansion.Replace(expanded)
		s.selection.Replace(selected)
		s.expansionSeeded = len(expanded) > 0
		s.selectionSeeded = len(selected) > 0
	}
	return s, nil
}

// Rebuild rescans the workspace, builds a fresh tree, verifies it, and
// swaps it in.
func (s *Service) Rebuild(_ context.Context) error {
	entries, _, err := s.scanner.List()
	if err != nil {
		return err
	}

	data := builder.Build(entries, s.opts)
	if err := builder.Verify(data, s.opts.CaseInsensitivePaths); err != nil {
		return err
	}

	s.install(data)
	return nil
}

// BuildFromEntries builds directly from caller-supplied entries, bypassing
// the scanner. Used by tools that already hold the flat list.
func (s *Service) BuildFromEntries(entries []models.TreeEntry) error {
	data := builder.Build(entries, s.opts)
	if err := builder.Verify(data, s.opts.CaseInsensitivePaths); err != nil {
		return err
	}
	s.install(data)
	return nil
}

// install swaps in a freshly built tree. The first build with no persisted
// state adopts the baked-in expansion and selection bits.
func (s *Service) install(data *models.TreeData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	if !s.expansionSeeded {
		for id, n := range data.Nodes {
			if n.Type == models.NodeFolder && n.IsExpanded {
				s.expansion.Add(id)
			}
		}
		s.expansionSeeded = true
	}
	if !s.selectionSeeded {
		for id, n := range data.Nodes {
			if n.Type == models.NodeFile && n.IsSelected {
				s.selection.Add(id)
			}
		}
		s.selectionSeeded = true
	}
}

// Data returns the current immutable tree, or nil before the first build.
func (s *Service) Data() *models.TreeData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Summary returns the current tree overview.
func (s *Service) Summary() (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return Summary{}, apperr.ErrNotFound
	}
	sum := Summary{
		RootID:        s.data.RootID,
		VisibleRootID: s.data.VisibleRootID,
		NodeCount:     len(s.data.Nodes),
	}
	for _, n := range s.data.Nodes {
		switch n.Type {
		case models.NodeFile:
			sum.FileCount++
		case models.NodeFolder:
			sum.FolderCount++
		}
	}
	return sum, nil
}

// Flatten returns the visible rows for the current expansion state and
// filter query, remembering them as the baseline for the next diff.
func (s *Service) Flatten(query string) ([]models.VisibleNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, apperr.ErrNotFound
	}
	rows := flatten.Flatten(s.data, s.expansion, query, nil)
	s.lastFlat = rows
	return rows, nil
}

// FlattenDiff flattens and returns the minimal delta against the previously
// served rows.
func (s *Service) FlattenDiff(query string) ([]models.VisibleNode, listdiff.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, listdiff.Result{}, apperr.ErrNotFound
	}
	rows := flatten.Flatten(s.data, s.expansion, query, nil)
	delta := listdiff.Diff(s.lastFlat, rows)
	s.lastFlat = rows
	return rows, delta, nil
}

// Node returns a single node by ID.
func (s *Service) Node(id string) (*models.TreeNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, apperr.ErrNotFound
	}
	n := s.data.Nodes[id]
	if n == nil {
		return nil, apperr.ErrNotFound
	}
	return n, nil
}

// SetExpanded expands or collapses a folder and persists the set.
func (s *Service) SetExpanded(id string, expanded bool) error {
	s.mu.Lock()
	if s.data == nil || s.data.Nodes[id] == nil {
		s.mu.Unlock()
		return apperr.ErrNotFound
	}
	if expanded {
		s.expansion.Add(id)
	} else {
		s.expansion.Remove(id)
	}
	ids := s.expansion.IDs()
	s.mu.Unlock()
	return s.persist(statestore.KindExpansion, ids)
}

// SetSelected selects or deselects a row and persists the set.
func (s *Service) SetSelected(id string, selected bool) error {
	s.mu.Lock()
	if s.data == nil || s.data.Nodes[id] == nil {
		s.mu.Unlock()
		return apperr.ErrNotFound
	}
	if selected {
		s.selection.Add(id)
	} else {
		s.selection.Remove(id)
	}
	ids := s.selection.IDs()
	s.mu.Unlock()
	return s.persist(statestore.KindSelection, ids)
}

// FolderSelection reports a folder's tri-state checkbox value.
func (s *Service) FolderSelection(id string) (uistate.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil || s.data.Nodes[id] == nil {
		return "", apperr.ErrNotFound
	}
	return uistate.FolderState(s.data, id, s.selection), nil
}

func (s *Service) persist(kind string, ids []string) error {
	if s.store == nil {
		return nil
	}
	return s.store.SaveSet(s.profile, kind, ids)
}
