package builder

import (
	"encoding/base64"
	"strings"

	"github.com/starford/arbor/internal/paths"
)

// Fixed IDs for the two synthetic nodes every tree starts with.
const (
	RootID      = "root"
	ContainerID = "container"
)

// digest returns the unpadded base64url encoding of s. It keeps IDs unique
// across paths whose sanitized forms collide (e.g. "foo-bar" vs "foo_bar")
// while staying URL-safe and human-debuggable.
func digest(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

// sanitize replaces every character outside [A-Za-z0-9_-] with '_'.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// anchorID derives the stable ID of a top-anchor folder from its canonical
// path. IDs depend only on canonical inputs, never on build order.
func anchorID(canonical string) string {
	return "folder_sr_" + sanitize(paths.Basename(canonical)) + "_" + digest(canonical)
}

// sourceFolderID derives the stable ID of a folder whose canonical source
// path is known.
func sourceFolderID(canonical string) string {
	return "folder_sp_" + sanitize(paths.Basename(canonical)) + "_" + digest(canonical)
}

// virtualFolderID derives the stable ID of a purely virtual folder from its
// virtual path.
func virtualFolderID(virtualPath string) string {
	return "folder_" + sanitize(virtualPath) + "_" + digest(virtualPath)
}

// fileNodeID derives a file node ID from the originating entry ID.
func fileNodeID(entryID string) string {
	return "node_" + entryID
}

// anchorLabel returns the display label for an anchor path. Root forms
// ("/", "C:/", "//") have no basename; their slash-free remainder (or
// "root") stands in so the label never carries a path separator.
func anchorLabel(canonical string) string {
	label := paths.Basename(canonical)
	if strings.ContainsRune(label, '/') {
		label = strings.ReplaceAll(label, "/", "")
	}
	if label == "" {
		label = "root"
	}
	return label
}
