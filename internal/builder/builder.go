// Package builder converts a flat list of file entries plus optional
// directory hints into a normalized, immutable tree graph. Identical inputs
// always yield identical node IDs, structure, and ordering across rebuilds.
package builder

import (
	"sort"
	"strings"

	"github.com/starford/arbor/internal/models"
	"github.com/starford/arbor/internal/paths"
)

// Options controls one build. Zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// SourceRoots are legacy top-level directories added to the anchor
	// universe unconditionally.
	SourceRoots []string
	// SelectedDirectories are directories the user named directly; they are
	// materialized even when empty and their folders carry Origin direct.
	SelectedDirectories []string
	// RootFolderLabel names the container folder under the synthetic root.
	RootFolderLabel string
	// ExpandFoldersByDefault bakes the initial expansion bit into folders.
	ExpandFoldersByDefault bool
	// SelectNewFilesByDefault bakes the initial selection bit into files.
	SelectNewFilesByDefault bool
	// PreferDeepestRoot inverts anchor-compression dominance so the deepest
	// of mutually-ancestral candidates survives.
	PreferDeepestRoot bool
	// SortChildrenByName reorders every folder's children after
	// materialization: folders first, then case-insensitive name, then ID.
	SortChildrenByName bool
	// StripPrefixes are removed from canonical paths to form display
	// source paths.
	StripPrefixes []string
	// AutoPickVisibleRoot hoists the visible root past single-folder chains.
	AutoPickVisibleRoot bool
	// VisibleRootMaxHoistLevels bounds hoisting depth; negative = unlimited.
	VisibleRootMaxHoistLevels int
	// VisibleRootIgnoreVirtualFiles excludes virtual files when deciding
	// whether a folder is hoistable.
	VisibleRootIgnoreVirtualFiles bool
	// MergeVirtualIntoRealFolders lets virtual folders adopt same-named real
	// siblings and vice versa.
	MergeVirtualIntoRealFolders bool
	// CaseInsensitivePaths folds case for all path comparisons and dedup.
	CaseInsensitivePaths bool
	// UnicodeNormalize, when non-nil, is applied during canonicalization
	// (typically NFC).
	UnicodeNormalize func(string) string
	// AutoComputeAnchors derives anchors from file parents and selected
	// directories; when false only SourceRoots enter the universe.
	AutoComputeAnchors bool
	// OmitContainerRowAtRoot tells flatten to start at the visible root's
	// children rather than emitting the visible root itself.
	OmitContainerRowAtRoot bool
}

// DefaultOptions returns the option set matching the documented defaults.
func DefaultOptions() Options {
	return Options{
		RootFolderLabel:               "tree",
		ExpandFoldersByDefault:        true,
		SelectNewFilesByDefault:       true,
		SortChildrenByName:            true,
		AutoPickVisibleRoot:           true,
		VisibleRootMaxHoistLevels:     2,
		VisibleRootIgnoreVirtualFiles: true,
		MergeVirtualIntoRealFolders:   true,
		CaseInsensitivePaths:          true,
		AutoComputeAnchors:            true,
	}
}

// builder carries the mutable state of one build.
type builder struct {
	opts     Options
	stripper *paths.Stripper
	data     *models.TreeData

	// canonByID remembers the canonical source path behind each folder node
	// ("" for purely virtual folders); the merge policy compares these.
	canonByID map[string]string

	// selectedDirs are the canonicalized SelectedDirectories;
	// selectedSet indexes them by folded key.
	selectedDirs []string
	selectedSet  map[string]struct{}
}

// Build runs the full pipeline and returns a fresh immutable TreeData.
func Build(entries []models.TreeEntry, opts Options) *models.TreeData {
	b := &builder{
		opts:      opts,
		stripper:  paths.NewStripper(opts.StripPrefixes, opts.CaseInsensitivePaths, opts.UnicodeNormalize),
		canonByID: make(map[string]string),
		data: &models.TreeData{
			Nodes:                  make(map[string]*models.TreeNode),
			RootID:                 RootID,
			VisibleRootID:          ContainerID,
			OmitContainerRowAtRoot: opts.OmitContainerRowAtRoot,
		},
		selectedSet: make(map[string]struct{}),
	}

	for _, d := range opts.SelectedDirectories {
		canonical := paths.Canonicalize(d, opts.UnicodeNormalize)
		key := b.fold(canonical)
		if _, ok := b.selectedSet[key]; ok {
			continue
		}
		b.selectedSet[key] = struct{}{}
		b.selectedDirs = append(b.selectedDirs, canonical)
	}

	files, virtuals := b.normalizeEntries(entries)

	universe := b.anchorUniverse(files)
	anchors := b.compressAnchors(universe)
	anchors, groups := b.groupFiles(anchors, files)

	b.createSkeleton()
	b.materialize(anchors, groups)
	b.materializeSelectedDirs(anchors)
	b.placeVirtualEntries(anchors, virtuals)

	if opts.SortChildrenByName {
		b.sortChildren()
	}
	b.pickVisibleRoot()

	return b.data
}

// fold applies the case policy to a canonical path key.
func (b *builder) fold(p string) string {
	if b.opts.CaseInsensitivePaths {
		return paths.FoldCase(p)
	}
	return p
}

// normalizeEntries canonicalizes real entries and silently drops duplicates:
// repeated entry IDs and, for real entries, repeated canonical paths under
// the case policy. The first occurrence wins.
func (b *builder) normalizeEntries(entries []models.TreeEntry) ([]realEntry, []models.TreeEntry) {
	seenIDs := make(map[string]struct{}, len(entries))
	seenPaths := make(map[string]struct{}, len(entries))

	var files []realEntry
	var virtuals []models.TreeEntry
	for _, e := range entries {
		if _, dup := seenIDs[e.ID]; dup {
			continue
		}
		seenIDs[e.ID] = struct{}{}

		if e.IsVirtual {
			virtuals = append(virtuals, e)
			continue
		}

		canonical := paths.Canonicalize(e.FullPath, b.opts.UnicodeNormalize)
		key := b.fold(canonical)
		if _, dup := seenPaths[key]; dup {
			continue
		}
		seenPaths[key] = struct{}{}
		files = append(files, realEntry{entry: e, canonical: canonical})
	}
	return files, virtuals
}

// sortChildren applies the stable comparator to every folder: folders before
// files, case-insensitive name ascending, node ID as the tie-break.
func (b *builder) sortChildren() {
	for _, n := range b.data.Nodes {
		if n.Type != models.NodeRoot && n.Type != models.NodeFolder {
			continue
		}
		ids := n.ChildIDs
		sort.SliceStable(ids, func(i, j int) bool {
			ci, cj := b.data.Nodes[ids[i]], b.data.Nodes[ids[j]]
			fi, fj := ci.Type == models.NodeFolder, cj.Type == models.NodeFolder
			if fi != fj {
				return fi
			}
			ni, nj := strings.ToLower(ci.Name), strings.ToLower(cj.Name)
			if ni != nj {
				return ni < nj
			}
			return ci.ID < cj.ID
		})
	}
}

// pickVisibleRoot hoists past single-folder chains starting at the
// container, bounded by VisibleRootMaxHoistLevels.
func (b *builder) pickVisibleRoot() {
	if !b.opts.AutoPickVisibleRoot {
		b.data.VisibleRootID = ContainerID
		return
	}

	cur := b.data.Nodes[ContainerID]
	hops := 0
	for {
		if b.opts.VisibleRootMaxHoistLevels >= 0 && hops >= b.opts.VisibleRootMaxHoistLevels {
			break
		}
		var soleFolder *models.TreeNode
		folders, files := 0, 0
		for _, cid := range cur.ChildIDs {
			child := b.data.Nodes[cid]
			switch child.Type {
			case models.NodeFolder:
				folders++
				soleFolder = child
			case models.NodeFile:
				if b.opts.VisibleRootIgnoreVirtualFiles && child.IsVirtual {
					continue
				}
				files++
			}
		}
		if folders != 1 || files != 0 {
			break
		}
		cur = soleFolder
		hops++
	}
	b.data.VisibleRootID = cur.ID
}

// uniqueLabels assigns a display label to every top anchor. Labels start as
// the basename; anchors sharing one are widened with ancestor segments
// joined by " - " until unique, with a digest suffix as the final tie-break.
func (b *builder) uniqueLabels(anchors []string) map[string]string {
	labels := make(map[string]string, len(anchors))
	width := make(map[string]int, len(anchors))
	for _, a := range anchors {
		labels[a] = anchorLabel(a)
		width[a] = 1
	}

	conflictGroups := func() [][]string {
		byLabel := make(map[string][]string)
		for _, a := range anchors {
			byLabel[b.fold(labels[a])] = append(byLabel[b.fold(labels[a])], a)
		}
		var groups [][]string
		for _, g := range byLabel {
			if len(g) > 1 {
				groups = append(groups, g)
			}
		}
		return groups
	}

	for {
		groups := conflictGroups()
		if len(groups) == 0 {
			return labels
		}
		progressed := false
		for _, g := range groups {
			for _, a := range g {
				segs := paths.Segments(a)
				if width[a] < len(segs) {
					width[a]++
					labels[a] = strings.Join(segs[len(segs)-width[a]:], " - ")
					progressed = true
				}
			}
		}
		if !progressed {
			break
		}
	}

	// Widening exhausted: disambiguate with a digest fragment.
	for _, g := range conflictGroups() {
		for _, a := range g {
			d := digest(a)
			if len(d) > 6 {
				d = d[:6]
			}
			labels[a] += " [" + d + "]"
		}
	}
	return labels
}
