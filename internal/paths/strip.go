package paths

import "sort"

// Stripper rewrites canonical paths into their display form by removing one
// of a configured set of prefixes. Prefixes are canonicalized up front and
// tried longest-first so the most specific one wins.
type Stripper struct {
	prefixes        []string
	caseInsensitive bool
}

// NewStripper canonicalizes the given prefixes and prepares them for
// longest-first matching.
func NewStripper(prefixes []string, caseInsensitive bool, normalize func(string) string) *Stripper {
	canon := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		canon = append(canon, Canonicalize(p, normalize))
	}
	sort.Slice(canon, func(i, j int) bool {
		if len(canon[i]) != len(canon[j]) {
			return len(canon[i]) > len(canon[j])
		}
		return canon[i] < canon[j]
	})
	return &Stripper{prefixes: canon, caseInsensitive: caseInsensitive}
}

// Strip returns the display form of path: for the first prefix that equals
// or governs it, the /-prepended remainder (an exact match keeps the
// prefix's own final segment); otherwise the canonical path unchanged.
func (s *Stripper) Strip(path string) string {
	canon := Canonicalize(path, nil)
	for _, p := range s.prefixes {
		if !IsWithin(p, canon, s.caseInsensitive) {
			continue
		}
		if fold(p, s.caseInsensitive) == fold(canon, s.caseInsensitive) {
			return "/" + Basename(p)
		}
		return "/" + Relative(p, canon)
	}
	return canon
}
