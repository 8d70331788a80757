package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestList(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.go", "package a")
	writeFile(t, root, "src/sub/b.go", "package b")
	writeFile(t, root, "README.md", "readme")

	s, err := New(root)
	if err != nil {
		t.Fatal(err)
	}

	entries, dirs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	byID := map[string]bool{}
	for _, e := range entries {
		byID[e.ID] = true
		if e.FullPath == "" || e.Name == "" {
			t.Errorf("entry %q incomplete: %+v", e.ID, e)
		}
		if e.Metadata["checksum"] == "" {
			t.Errorf("entry %q has no checksum", e.ID)
		}
	}
	for _, want := range []string{"src/a.go", "src/sub/b.go", "README.md"} {
		if !byID[want] {
			t.Errorf("missing entry %q", want)
		}
	}

	// Root, src, and src/sub.
	if len(dirs) != 3 {
		t.Errorf("dirs = %v, want 3 entries", dirs)
	}
}

func TestList_SkipsHidden(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/config", "hidden")
	writeFile(t, root, ".hidden.txt", "hidden")
	writeFile(t, root, "visible.txt", "ok")

	s, err := New(root)
	if err != nil {
		t.Fatal(err)
	}
	entries, _, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != "visible.txt" {
		t.Errorf("entries = %+v, want only visible.txt", entries)
	}
}

func TestNew_RejectsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "f.txt", "x")
	if _, err := New(filepath.Join(root, "f.txt")); err == nil {
		t.Error("expected error for non-directory root")
	}
}

func TestList_StableIDsAcrossRescans(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/b.txt", "x")

	s, err := New(root)
	if err != nil {
		t.Fatal(err)
	}
	first, _, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 || len(second) != 1 || first[0].ID != second[0].ID {
		t.Errorf("IDs differ across rescans: %+v vs %+v", first, second)
	}
}
