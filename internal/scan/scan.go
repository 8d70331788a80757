// Package scan walks a workspace directory and produces the flat entry list
// the tree builder consumes. The builder itself performs no I/O; this is the
// collaborator that feeds it.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/arbor/internal/checksum"
	"github.com/starford/arbor/internal/models"
)

// Scanner lists files beneath a workspace root.
type Scanner struct {
	root string // absolute path to the workspace directory
}

// New creates a Scanner rooted at the given directory, which must exist.
func New(root string) (*Scanner, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("scan: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("scan: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan: root is not a directory: %s", abs)
	}
	return &Scanner{root: abs}, nil
}

// Root returns the absolute workspace root.
func (s *Scanner) Root() string {
	return s.root
}

// List walks the workspace and returns one TreeEntry per regular file plus
// the absolute path of every directory seen. Entry IDs are the
// workspace-relative slash paths, so they are stable across rescans.
// Hidden files and directories (dot-prefixed) are skipped.
func (s *Scanner) List() ([]models.TreeEntry, []string, error) {
	var entries []models.TreeEntry
	var dirs []string

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p != s.root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, p)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, relErr := filepath.Rel(s.root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		data, readErr := os.ReadFile(p)
		if readErr != nil {
			return readErr
		}

		entries = append(entries, models.TreeEntry{
			ID:       rel,
			Name:     d.Name(),
			FullPath: p,
			Metadata: map[string]any{
				"size":     info.Size(),
				"checksum": checksum.Sum(data),
			},
		})
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("scan: list: %w", err)
	}
	return entries, dirs, nil
}
