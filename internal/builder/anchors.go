package builder

import (
	"sort"

	"github.com/starford/arbor/internal/models"
	"github.com/starford/arbor/internal/paths"
)

// anchorUniverse gathers the candidate top-level directories: the parent of
// every real file, every directly-selected directory, and every source root.
// With AutoComputeAnchors disabled only the source roots remain.
func (b *builder) anchorUniverse(files []realEntry) []string {
	seen := make(map[string]string)
	add := func(canonical string) {
		key := b.fold(canonical)
		if _, ok := seen[key]; !ok {
			seen[key] = canonical
		}
	}

	if b.opts.AutoComputeAnchors {
		for _, f := range files {
			add(paths.Parent(f.canonical))
		}
		for _, d := range b.selectedDirs {
			add(d)
		}
	}
	for _, r := range b.opts.SourceRoots {
		add(paths.Canonicalize(r, b.opts.UnicodeNormalize))
	}

	out := make([]string, 0, len(seen))
	for _, c := range seen {
		out = append(out, c)
	}
	return out
}

// compressAnchors removes anchors dominated by another anchor. Under the
// default rule a kept anchor dominates its descendants; with
// PreferDeepestRoot the dominance is inverted and the deepest of a chain of
// mutually-ancestral candidates survives. The result is sorted shallowest
// first, then lexicographically.
func (b *builder) compressAnchors(universe []string) []string {
	candidates := append([]string(nil), universe...)
	sortAnchors(candidates, b.opts.PreferDeepestRoot)

	var kept []string
	for _, cand := range candidates {
		dominated := false
		for _, k := range kept {
			if b.opts.PreferDeepestRoot {
				// A kept deeper anchor eliminates its ancestors.
				if paths.IsWithin(cand, k, b.opts.CaseInsensitivePaths) {
					dominated = true
					break
				}
			} else if paths.IsWithin(k, cand, b.opts.CaseInsensitivePaths) {
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, cand)
		}
	}

	sortAnchors(kept, false)
	return kept
}

// sortAnchors orders anchors by segment depth (descending when deepestFirst)
// and lexicographically within a depth.
func sortAnchors(anchors []string, deepestFirst bool) {
	sort.Slice(anchors, func(i, j int) bool {
		di, dj := paths.Depth(anchors[i]), paths.Depth(anchors[j])
		if di != dj {
			if deepestFirst {
				return di > dj
			}
			return di < dj
		}
		return anchors[i] < anchors[j]
	})
}

// groupFiles assigns each file to its governing top anchor (the shallowest
// ancestor). Files no anchor covers fall back to their own parent directory
// as a synthetic top anchor. Every returned anchor has a grouping entry,
// possibly empty.
func (b *builder) groupFiles(anchors []string, files []realEntry) ([]string, map[string][]realEntry) {
	groups := make(map[string][]realEntry, len(anchors))
	for _, a := range anchors {
		groups[a] = nil
	}

	var synthetic []string
	syntheticSeen := make(map[string]string)

	for _, f := range files {
		assigned := ""
		for _, a := range anchors {
			if paths.IsWithin(a, f.canonical, b.opts.CaseInsensitivePaths) {
				assigned = a
				break
			}
		}
		if assigned == "" {
			parent := paths.Parent(f.canonical)
			key := b.fold(parent)
			if existing, ok := syntheticSeen[key]; ok {
				parent = existing
			} else {
				syntheticSeen[key] = parent
				synthetic = append(synthetic, parent)
			}
			assigned = parent
		}
		groups[assigned] = append(groups[assigned], f)
	}

	if len(synthetic) > 0 {
		anchors = append(append([]string(nil), anchors...), synthetic...)
		sortAnchors(anchors, false)
	}
	return anchors, groups
}

// realEntry pairs a non-virtual input entry with its canonical path.
type realEntry struct {
	entry     models.TreeEntry
	canonical string
}
