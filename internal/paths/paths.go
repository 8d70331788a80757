// Package paths implements cross-platform path canonicalization and the
// ancestry helpers the tree builder keys everything on. The canonical form
// is POSIX-like, /-separated, and absolute-looking; it is the sole key used
// for dedup, ancestry tests, and ID derivation.
package paths

import (
	"net/url"
	"strings"
)

// Canonicalize converts a raw path of any OS convention into canonical form.
//
// Empty or whitespace input yields "/". Backslashes become slashes, percent
// escapes are decoded, a Windows drive prefix is uppercased and retained as
// "X:/...", a leading "//" is treated as UNC-like and kept, "." and ".."
// segments are resolved lexically without escaping the root, and duplicate
// or trailing slashes are removed.
//
// normalize, when non-nil, is applied early (typically Unicode NFC).
func Canonicalize(raw string, normalize func(string) string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "/"
	}
	s = strings.ReplaceAll(s, "\\", "/")
	if normalize != nil {
		s = normalize(s)
	}
	if decoded, err := url.PathUnescape(s); err == nil {
		s = decoded
	}

	// Strip one leading slash inserted before a drive letter ("/C:/...").
	if len(s) >= 3 && s[0] == '/' && isDriveLetter(s[1]) && s[2] == ':' {
		s = s[1:]
	}

	drive := ""
	if len(s) >= 2 && isDriveLetter(s[0]) && s[1] == ':' {
		drive = strings.ToUpper(s[:1]) + ":"
		s = s[2:]
	}

	unc := drive == "" && strings.HasPrefix(s, "//")

	segments := make([]string, 0, 8)
	for _, seg := range strings.Split(s, "/") {
		switch seg {
		case "", ".":
			// Dropped: duplicate separators and no-ops.
		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
			// ".." at root clamps.
		default:
			segments = append(segments, seg)
		}
	}

	if len(segments) == 0 {
		if drive != "" {
			return drive + "/"
		}
		return "/"
	}

	prefix := "/"
	if unc {
		prefix = "//"
	}
	return drive + prefix + strings.Join(segments, "/")
}

// FoldCase returns the case-folded key for a canonical path under the
// case-insensitive policy.
func FoldCase(p string) string {
	return strings.ToLower(p)
}

// fold applies case folding only when the policy asks for it.
func fold(p string, caseInsensitive bool) string {
	if caseInsensitive {
		return FoldCase(p)
	}
	return p
}

// IsWithin reports whether child equals parent or lives underneath it,
// comparing whole path segments under the case policy.
func IsWithin(parent, child string, caseInsensitive bool) bool {
	p := fold(parent, caseInsensitive)
	c := fold(child, caseInsensitive)
	if p == c {
		return true
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return strings.HasPrefix(c, p)
}

// Parent returns the canonical parent directory, clamped at the root.
func Parent(p string) string {
	root := rootOf(p)
	rest := p[len(root):]
	idx := strings.LastIndexByte(rest, '/')
	if idx < 0 {
		return root
	}
	if idx == 0 {
		// Should not happen for canonical input, but stay safe.
		return root
	}
	return root + rest[:idx]
}

// Basename returns the final path segment, or the root form itself for roots.
func Basename(p string) string {
	root := rootOf(p)
	rest := p[len(root):]
	if rest == "" {
		return p
	}
	if idx := strings.LastIndexByte(rest, '/'); idx >= 0 {
		return rest[idx+1:]
	}
	return rest
}

// Segments splits the canonical path into its segments, excluding the root.
func Segments(p string) []string {
	rest := p[len(rootOf(p)):]
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

// Relative returns child expressed relative to ancestor ("" when equal).
// The caller must already know ancestor governs child; case differences in
// the shared prefix are tolerated.
func Relative(ancestor, child string) string {
	a := Segments(ancestor)
	c := Segments(child)
	if len(c) <= len(a) {
		return ""
	}
	return strings.Join(c[len(a):], "/")
}

// Join appends a segment to a canonical directory path.
func Join(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}

// Depth returns the number of segments, used to order anchors shallowest
// first.
func Depth(p string) int {
	return len(Segments(p))
}

// rootOf returns the root prefix of a canonical path: "X:/", "//", or "/".
func rootOf(p string) string {
	if len(p) >= 3 && isDriveLetter(p[0]) && p[1] == ':' && p[2] == '/' {
		return p[:3]
	}
	if strings.HasPrefix(p, "//") {
		return "//"
	}
	if strings.HasPrefix(p, "/") {
		return "/"
	}
	return ""
}

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
