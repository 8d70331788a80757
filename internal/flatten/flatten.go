// Package flatten linearizes a built tree into the visible row sequence a
// UI renders, honoring expansion state and surfacing filter matches together
// with their ancestor chain.
package flatten

import (
	"strings"

	"github.com/starford/arbor/internal/filterquery"
	"github.com/starford/arbor/internal/models"
)

// ExpandedSet answers whether a folder ID is currently expanded.
// uistate.ExpansionSet satisfies it.
type ExpandedSet interface {
	Has(id string) bool
}

// SortDelegate returns a stable total order for a parent's children.
// A nil delegate visits children in ChildIDs order.
type SortDelegate interface {
	SortChildIDs(data *models.TreeData, parentID string) []string
}

// Flatten walks the tree depth-first from the visible root and emits one
// VisibleNode per visible row. A folder's children are visited only when it
// is expanded, or force-expanded because a filter match lives beneath it.
// With OmitContainerRowAtRoot the visible root itself is not emitted and its
// children start at depth 0.
func Flatten(data *models.TreeData, expanded ExpandedSet, query string, delegate SortDelegate) []models.VisibleNode {
	start := data.Nodes[data.VisibleRootID]
	if start == nil {
		return nil
	}

	f := &flattener{
		data:      data,
		expanded:  expanded,
		delegate:  delegate,
		hasFilter: strings.TrimSpace(query) != "",
		pred:      filterquery.Compile(query),
		memo:      make(map[string]bool),
	}

	if data.OmitContainerRowAtRoot && (start.Type == models.NodeRoot || start.Type == models.NodeFolder) {
		for _, cid := range f.childOrder(start) {
			child := data.Nodes[cid]
			f.visit(child, 0, f.hasFilter && f.subtreeMatches(child))
		}
		return f.rows
	}

	f.visit(start, 0, f.hasFilter && f.subtreeMatches(start))
	return f.rows
}

type flattener struct {
	data      *models.TreeData
	expanded  ExpandedSet
	delegate  SortDelegate
	hasFilter bool
	pred      filterquery.Predicate
	memo      map[string]bool
	rows      []models.VisibleNode
}

func (f *flattener) visit(n *models.TreeNode, depth int, forceExpand bool) {
	if !f.subtreeMatches(n) {
		return
	}

	f.rows = append(f.rows, models.VisibleNode{
		ID:          n.ID,
		Depth:       depth,
		Name:        n.Name,
		Type:        n.Type,
		HasChildren: len(n.ChildIDs) > 0,
		VirtualPath: n.VirtualPath,
		EntryID:     n.EntryID,
		IsVirtual:   n.IsVirtual,
		SourcePath:  n.SourcePath,
		Origin:      n.Origin,
	})

	if n.Type != models.NodeRoot && n.Type != models.NodeFolder {
		return
	}
	if len(n.ChildIDs) == 0 {
		return
	}
	if !forceExpand && !f.isExpanded(n.ID) {
		return
	}
	for _, cid := range f.childOrder(n) {
		child := f.data.Nodes[cid]
		f.visit(child, depth+1, f.hasFilter && f.subtreeMatches(child))
	}
}

// subtreeMatches reports whether n or any descendant passes the filter.
// Memoized per flatten call.
func (f *flattener) subtreeMatches(n *models.TreeNode) bool {
	if !f.hasFilter {
		return true
	}
	if v, ok := f.memo[n.ID]; ok {
		return v
	}
	match := f.pred(n.Name, filterquery.ExtLower(n.Name))
	if !match {
		for _, cid := range n.ChildIDs {
			if f.subtreeMatches(f.data.Nodes[cid]) {
				match = true
				break
			}
		}
	}
	f.memo[n.ID] = match
	return match
}

func (f *flattener) isExpanded(id string) bool {
	return f.expanded != nil && f.expanded.Has(id)
}

func (f *flattener) childOrder(n *models.TreeNode) []string {
	if f.delegate != nil {
		return f.delegate.SortChildIDs(f.data, n.ID)
	}
	return n.ChildIDs
}
