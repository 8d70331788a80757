package uistate

import (
	"testing"

	"github.com/starford/arbor/internal/builder"
	"github.com/starford/arbor/internal/models"
	"github.com/starford/arbor/internal/testutil"
)

func TestIDSet_Basics(t *testing.T) {
	s := NewIDSet()
	s.Add("a")
	s.Add("b")
	s.Add("a")
	if s.Len() != 2 {
		t.Errorf("len = %d, want 2", s.Len())
	}
	if !s.Has("a") || !s.Has("b") {
		t.Error("membership lost")
	}
	s.Remove("a")
	if s.Has("a") {
		t.Error("removed ID still present")
	}
	ids := s.IDs()
	if len(ids) != 1 || ids[0] != "b" {
		t.Errorf("ids = %v", ids)
	}
}

func TestIDSet_Toggle(t *testing.T) {
	s := NewIDSet()
	if !s.Toggle("x") {
		t.Error("first toggle should add")
	}
	if s.Toggle("x") {
		t.Error("second toggle should remove")
	}
	if s.Has("x") {
		t.Error("x still present after toggle off")
	}
}

func TestIDSet_Replace(t *testing.T) {
	s := NewIDSet()
	s.Add("old")
	s.Replace([]string{"n1", "n2"})
	if s.Has("old") {
		t.Error("replace kept old member")
	}
	if !s.Has("n1") || !s.Has("n2") {
		t.Error("replace dropped new members")
	}
}

func buildTree(t *testing.T) *models.TreeData {
	t.Helper()
	entries := []models.TreeEntry{
		testutil.Entry("a", "a.go", "/repo/pkg/a.go"),
		testutil.Entry("b", "b.go", "/repo/pkg/b.go"),
		testutil.Entry("c", "c.go", "/repo/pkg/sub/c.go"),
	}
	return builder.Build(entries, builder.DefaultOptions())
}

func folderID(t *testing.T, data *models.TreeData, name string) string {
	t.Helper()
	for id, n := range data.Nodes {
		if n.Type == models.NodeFolder && n.Name == name {
			return id
		}
	}
	t.Fatalf("folder %q not found", name)
	return ""
}

func TestFolderState_Tristate(t *testing.T) {
	data := buildTree(t)
	pkg := folderID(t, data, "pkg")
	sel := NewSelectionSet()

	if got := FolderState(data, pkg, sel); got != Unchecked {
		t.Errorf("empty selection = %s, want unchecked", got)
	}

	sel.Add("node_a")
	if got := FolderState(data, pkg, sel); got != Mixed {
		t.Errorf("partial selection = %s, want mixed", got)
	}

	sel.Add("node_b")
	sel.Add("node_c")
	if got := FolderState(data, pkg, sel); got != Checked {
		t.Errorf("full selection = %s, want checked", got)
	}
}

func TestFolderState_NoFileDescendants(t *testing.T) {
	entries := []models.TreeEntry{
		testutil.Entry("a", "a.go", "/repo/pkg/a.go"),
	}
	opts := builder.DefaultOptions()
	opts.SelectedDirectories = []string{"/repo/pkg/empty"}
	data := builder.Build(entries, opts)

	empty := folderID(t, data, "empty")
	if got := FolderState(data, empty, NewSelectionSet()); got != Unchecked {
		t.Errorf("empty folder = %s, want unchecked", got)
	}
}
