package builder

import (
	"fmt"
	"strings"

	"github.com/starford/arbor/internal/apperr"
	"github.com/starford/arbor/internal/models"
	"github.com/starford/arbor/internal/paths"
)

// Verify checks the structural invariants of a built tree: the root exists
// and is typed root, parent/child links agree both ways, the reachable graph
// is an acyclic tree covering all nodes, folder names carry no separator,
// file nodes map one-to-one onto entry IDs, and the visible root is
// reachable. Any failure wraps apperr.ErrInvariant.
func Verify(data *models.TreeData, caseInsensitive bool) error {
	root, ok := data.Nodes[data.RootID]
	if !ok {
		return fail("root %q missing", data.RootID)
	}
	if root.Type != models.NodeRoot {
		return fail("root %q has type %s", data.RootID, root.Type)
	}

	visited := make(map[string]struct{}, len(data.Nodes))
	var walk func(n *models.TreeNode) error
	walk = func(n *models.TreeNode) error {
		if _, seen := visited[n.ID]; seen {
			return fail("node %q reached twice (cycle or shared child)", n.ID)
		}
		visited[n.ID] = struct{}{}
		if n.Type != models.NodeFile && strings.ContainsRune(n.Name, '/') {
			return fail("folder %q name contains separator: %q", n.ID, n.Name)
		}
		for _, cid := range n.ChildIDs {
			child, ok := data.Nodes[cid]
			if !ok {
				return fail("node %q references missing child %q", n.ID, cid)
			}
			if child.ParentID != n.ID {
				return fail("child %q has parent %q, expected %q", cid, child.ParentID, n.ID)
			}
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return err
	}
	if len(visited) != len(data.Nodes) {
		return fail("%d of %d nodes unreachable from root", len(data.Nodes)-len(visited), len(data.Nodes))
	}

	if _, ok := data.Nodes[data.VisibleRootID]; !ok {
		return fail("visible root %q missing", data.VisibleRootID)
	}
	if t := data.Nodes[data.VisibleRootID].Type; t != models.NodeRoot && t != models.NodeFolder {
		return fail("visible root %q has type %s", data.VisibleRootID, t)
	}

	entryIDs := make(map[string]string)
	for _, n := range data.Nodes {
		if n.Type != models.NodeFile {
			continue
		}
		if n.EntryID == "" {
			return fail("file %q has no entry ID", n.ID)
		}
		if prev, dup := entryIDs[n.EntryID]; dup {
			return fail("entry %q owned by nodes %q and %q", n.EntryID, prev, n.ID)
		}
		entryIDs[n.EntryID] = n.ID
	}

	// Sibling folders of the same kind must not collide on virtual path
	// under the case policy (a real and a virtual sibling may share a name
	// when merging is disabled); file-path uniqueness is enforced at entry
	// dedup.
	for _, n := range data.Nodes {
		seen := make(map[string]string, len(n.ChildIDs))
		for _, cid := range n.ChildIDs {
			child := data.Nodes[cid]
			if child.Type != models.NodeFolder {
				continue
			}
			key := child.VirtualPath
			if child.IsVirtual {
				key = "v:" + key
			}
			if caseInsensitive {
				key = paths.FoldCase(key)
			}
			if prev, dup := seen[key]; dup {
				return fail("sibling folders %q and %q share virtual path %q", prev, cid, child.VirtualPath)
			}
			seen[key] = cid
		}
	}
	return nil
}

func fail(format string, args ...any) error {
	return fmt.Errorf("builder: %s: %w", fmt.Sprintf(format, args...), apperr.ErrInvariant)
}
