// Package testutil provides shared test helpers for building entries and
// temporary state databases.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/arbor/internal/models"
	"github.com/starford/arbor/internal/statestore"
)

// Entry builds a real TreeEntry with the given display name.
func Entry(id, name, fullPath string) models.TreeEntry {
	return models.TreeEntry{ID: id, Name: name, FullPath: fullPath}
}

// VirtualEntry builds a virtual TreeEntry with an optional virtualParent
// placement hint.
func VirtualEntry(id, name, fullPath, virtualParent string) models.TreeEntry {
	e := models.TreeEntry{ID: id, Name: name, FullPath: fullPath, IsVirtual: true}
	if virtualParent != "" {
		e.Metadata = map[string]any{"virtualParent": virtualParent}
	}
	return e
}

// TestDB creates a temporary SQLite state store that is automatically
// cleaned up.
func TestDB(t *testing.T) *statestore.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "arbor-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := statestore.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
