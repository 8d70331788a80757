package builder

import (
	"sort"
	"testing"

	"github.com/starford/arbor/internal/models"
	"github.com/starford/arbor/internal/testutil"
)

func scanEntries() []models.TreeEntry {
	return []models.TreeEntry{
		testutil.Entry("f", "file_category.dart", "/repo/lib/src/features/scan/models/file_category.dart"),
		testutil.Entry("s", "markdown_builder.dart", "/repo/lib/src/features/scan/services/markdown_builder.dart"),
		testutil.Entry("d", "scan.dart", "/repo/lib/src/features/scan/scan.dart"),
	}
}

func childNames(t *testing.T, data *models.TreeData, id string) []string {
	t.Helper()
	n := data.Nodes[id]
	if n == nil {
		t.Fatalf("node %q missing", id)
	}
	names := make([]string, 0, len(n.ChildIDs))
	for _, cid := range n.ChildIDs {
		names = append(names, data.Nodes[cid].Name)
	}
	return names
}

func findFolder(data *models.TreeData, name string) *models.TreeNode {
	for _, n := range data.Nodes {
		if n.Type == models.NodeFolder && n.Name == name {
			return n
		}
	}
	return nil
}

func TestBuild_AnchorCompression(t *testing.T) {
	opts := DefaultOptions()
	opts.StripPrefixes = []string{"/repo"}
	opts.OmitContainerRowAtRoot = true
	opts.AutoPickVisibleRoot = false

	data := Build(scanEntries(), opts)
	if err := Verify(data, opts.CaseInsensitivePaths); err != nil {
		t.Fatalf("verify: %v", err)
	}

	top := childNames(t, data, ContainerID)
	if len(top) != 1 || top[0] != "scan" {
		t.Fatalf("depth-0 names = %v, want [scan]", top)
	}

	scan := findFolder(data, "scan")
	if scan.Origin != models.OriginInferred {
		t.Errorf("scan origin = %s, want inferred", scan.Origin)
	}
	if scan.SourcePath != "/lib/src/features/scan" {
		t.Errorf("scan sourcePath = %q", scan.SourcePath)
	}

	got := childNames(t, data, scan.ID)
	want := []string{"models", "services", "scan.dart"}
	if len(got) != len(want) {
		t.Fatalf("scan children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("scan child[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if data.VisibleRootID != ContainerID {
		t.Errorf("visible root = %q, want container (hoisting disabled)", data.VisibleRootID)
	}
}

func TestBuild_DirectSelectionPromotesOrigin(t *testing.T) {
	opts := DefaultOptions()
	opts.StripPrefixes = []string{"/repo"}
	opts.OmitContainerRowAtRoot = true
	opts.AutoPickVisibleRoot = false
	opts.SelectedDirectories = []string{"/repo/lib/src/features/editor"}

	data := Build(scanEntries(), opts)
	if err := Verify(data, opts.CaseInsensitivePaths); err != nil {
		t.Fatalf("verify: %v", err)
	}

	top := childNames(t, data, ContainerID)
	want := []string{"editor", "scan"}
	if len(top) != 2 || top[0] != want[0] || top[1] != want[1] {
		t.Fatalf("depth-0 names = %v, want %v", top, want)
	}

	if o := findFolder(data, "editor").Origin; o != models.OriginDirect {
		t.Errorf("editor origin = %s, want direct", o)
	}
	if o := findFolder(data, "scan").Origin; o != models.OriginInferred {
		t.Errorf("scan origin = %s, want inferred", o)
	}
}

func TestBuild_VirtualMergesIntoReal(t *testing.T) {
	entries := []models.TreeEntry{
		testutil.Entry("real", "story.md", "/repo/notes/story.md"),
		testutil.VirtualEntry("v", "scratch.txt", "/virtual/scratch.txt", "repo/notes"),
	}
	data := Build(entries, DefaultOptions())
	if err := Verify(data, true); err != nil {
		t.Fatalf("verify: %v", err)
	}

	var notes []*models.TreeNode
	for _, n := range data.Nodes {
		if n.Type == models.NodeFolder && n.Name == "notes" {
			notes = append(notes, n)
		}
	}
	if len(notes) != 1 {
		t.Fatalf("folders named notes = %d, want 1", len(notes))
	}

	var entryIDs []string
	for _, cid := range notes[0].ChildIDs {
		child := data.Nodes[cid]
		if child.Type == models.NodeFile {
			entryIDs = append(entryIDs, child.EntryID)
		}
	}
	sort.Strings(entryIDs)
	if len(entryIDs) != 2 || entryIDs[0] != "real" || entryIDs[1] != "v" {
		t.Errorf("file entry IDs = %v, want [real v]", entryIDs)
	}
}

func TestBuild_WindowsCanonicalizationDedup(t *testing.T) {
	entries := []models.TreeEntry{
		testutil.Entry("A", "a.dart", `C:\work\repo\lib\a.dart`),
		testutil.Entry("B", "a.dart", "c:/work/repo/lib/a.dart"),
	}
	opts := DefaultOptions()
	opts.StripPrefixes = []string{"C:/work/repo"}
	opts.OmitContainerRowAtRoot = true
	opts.AutoPickVisibleRoot = false

	data := Build(entries, opts)
	if err := Verify(data, opts.CaseInsensitivePaths); err != nil {
		t.Fatalf("verify: %v", err)
	}

	files := 0
	for _, n := range data.Nodes {
		if n.Type == models.NodeFile {
			files++
			if n.EntryID != "A" {
				t.Errorf("surviving entry = %q, want A (first wins)", n.EntryID)
			}
		}
	}
	if files != 1 {
		t.Errorf("file nodes = %d, want 1", files)
	}

	top := childNames(t, data, ContainerID)
	if len(top) != 1 || top[0] != "lib" {
		t.Errorf("depth-0 names = %v, want [lib]", top)
	}
}

func TestBuild_DuplicateEntryIdempotent(t *testing.T) {
	once := Build(scanEntries(), DefaultOptions())
	twice := Build(append(scanEntries(), scanEntries()...), DefaultOptions())

	countFiles := func(d *models.TreeData) int {
		n := 0
		for _, node := range d.Nodes {
			if node.Type == models.NodeFile {
				n++
			}
		}
		return n
	}
	if countFiles(once) != countFiles(twice) {
		t.Errorf("file counts differ: %d vs %d", countFiles(once), countFiles(twice))
	}
	if len(once.Nodes) != len(twice.Nodes) {
		t.Errorf("node counts differ: %d vs %d", len(once.Nodes), len(twice.Nodes))
	}
}

func TestBuild_Deterministic(t *testing.T) {
	opts := DefaultOptions()
	opts.StripPrefixes = []string{"/repo"}
	opts.SelectedDirectories = []string{"/repo/lib/src/features/editor"}

	a := Build(scanEntries(), opts)
	b := Build(scanEntries(), opts)

	if len(a.Nodes) != len(b.Nodes) {
		t.Fatalf("node counts differ: %d vs %d", len(a.Nodes), len(b.Nodes))
	}
	for id, na := range a.Nodes {
		nb := b.Nodes[id]
		if nb == nil {
			t.Fatalf("node %q missing from second build", id)
		}
		if na.ParentID != nb.ParentID || na.Name != nb.Name || na.Type != nb.Type || na.VirtualPath != nb.VirtualPath {
			t.Errorf("node %q differs across builds", id)
		}
		if len(na.ChildIDs) != len(nb.ChildIDs) {
			t.Errorf("node %q child counts differ", id)
			continue
		}
		for i := range na.ChildIDs {
			if na.ChildIDs[i] != nb.ChildIDs[i] {
				t.Errorf("node %q child order differs at %d", id, i)
			}
		}
	}
	if a.RootID != b.RootID || a.VisibleRootID != b.VisibleRootID {
		t.Error("root IDs differ across builds")
	}
}

func TestBuild_VisibleRootHoisting(t *testing.T) {
	opts := DefaultOptions()
	opts.StripPrefixes = []string{"/repo"}

	data := Build(scanEntries(), opts)
	// Container has a single folder chain: container -> scan (which holds
	// files), so hoisting stops at scan after one hop.
	vr := data.Nodes[data.VisibleRootID]
	if vr.Name != "scan" {
		t.Errorf("visible root = %q, want scan", vr.Name)
	}
}

func TestBuild_HoistLevelsBounded(t *testing.T) {
	entries := []models.TreeEntry{
		testutil.Entry("x", "deep.txt", "/r/a/b/c/d/deep.txt"),
	}
	opts := DefaultOptions()
	opts.VisibleRootMaxHoistLevels = 1

	data := Build(entries, opts)
	vr := data.Nodes[data.VisibleRootID]
	// One hop from the container lands on the single top anchor.
	if vr.ID == ContainerID {
		t.Error("expected at least one hoist hop")
	}
	if vr.ParentID != ContainerID {
		t.Errorf("visible root parent = %q, want container after one hop", vr.ParentID)
	}
}

func TestBuild_UniqueRootLabels(t *testing.T) {
	entries := []models.TreeEntry{
		testutil.Entry("1", "a.go", "/one/x/lib/a.go"),
		testutil.Entry("2", "b.go", "/two/y/lib/b.go"),
	}
	opts := DefaultOptions()
	opts.AutoPickVisibleRoot = false

	data := Build(entries, opts)
	names := childNames(t, data, ContainerID)
	if len(names) != 2 {
		t.Fatalf("top folders = %v", names)
	}
	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			t.Fatalf("duplicate top label %q", n)
		}
		seen[n] = true
	}
	if !seen["x - lib"] || !seen["y - lib"] {
		t.Errorf("labels = %v, want widened [x - lib, y - lib]", names)
	}
}

func TestBuild_PreferDeepestRoot(t *testing.T) {
	entries := []models.TreeEntry{
		testutil.Entry("1", "a.go", "/a/b/src/a.go"),
	}
	opts := DefaultOptions()
	opts.AutoComputeAnchors = false
	opts.SourceRoots = []string{"/a", "/a/b"}
	opts.PreferDeepestRoot = true
	opts.AutoPickVisibleRoot = false

	data := Build(entries, opts)
	names := childNames(t, data, ContainerID)
	if len(names) != 1 || names[0] != "b" {
		t.Errorf("top folders = %v, want [b] (deepest anchor wins)", names)
	}
}

func TestBuild_EmptySelectedDirectoryMaterialized(t *testing.T) {
	opts := DefaultOptions()
	opts.SelectedDirectories = []string{"/repo/lib/src/features/scan/fixtures"}

	data := Build(scanEntries(), opts)
	if err := Verify(data, true); err != nil {
		t.Fatalf("verify: %v", err)
	}

	fixtures := findFolder(data, "fixtures")
	if fixtures == nil {
		t.Fatal("empty selected directory was not materialized")
	}
	if fixtures.Origin != models.OriginDirect {
		t.Errorf("fixtures origin = %s, want direct", fixtures.Origin)
	}
	if len(fixtures.ChildIDs) != 0 {
		t.Errorf("fixtures children = %v, want none", fixtures.ChildIDs)
	}
}

func TestBuild_VirtualWithoutHintUnderContainer(t *testing.T) {
	entries := []models.TreeEntry{
		testutil.VirtualEntry("v", "note.txt", "/virtual/note.txt", ""),
	}
	data := Build(entries, DefaultOptions())

	container := data.Nodes[ContainerID]
	if len(container.ChildIDs) != 1 {
		t.Fatalf("container children = %d, want 1", len(container.ChildIDs))
	}
	child := data.Nodes[container.ChildIDs[0]]
	if child.Type != models.NodeFile || !child.IsVirtual || child.EntryID != "v" {
		t.Errorf("unexpected child %+v", child)
	}
}

func TestBuild_VirtualHintCreatesVirtualFolders(t *testing.T) {
	entries := []models.TreeEntry{
		testutil.VirtualEntry("v", "note.txt", "/virtual/note.txt", `drafts\..\ideas`),
	}
	data := Build(entries, DefaultOptions())

	ideas := findFolder(data, "ideas")
	if ideas == nil {
		t.Fatal("hint folder not created")
	}
	if !ideas.IsVirtual {
		t.Error("hint folder should be virtual")
	}
	if ideas.ParentID != ContainerID {
		t.Errorf("hint folder parent = %q, want container (.. collapsed)", ideas.ParentID)
	}
	if findFolder(data, "drafts") != nil {
		t.Error("navigation segment materialized a folder")
	}
}

func TestBuild_StableIDsIndependentOfSiblings(t *testing.T) {
	opts := DefaultOptions()
	small := Build(scanEntries(), opts)
	big := Build(append(scanEntries(),
		testutil.Entry("extra", "z.dart", "/repo/lib/src/features/scan/models/z.dart")), opts)

	for id, n := range small.Nodes {
		if n.Type != models.NodeFolder {
			continue
		}
		if big.Nodes[id] == nil {
			t.Errorf("folder %q (%s) got a different ID when a sibling was added", id, n.Name)
		}
	}
}

func TestBuild_FileNamesWithSpecialChars(t *testing.T) {
	entries := []models.TreeEntry{
		testutil.Entry("1", "a.go", "/x/foo-bar/a.go"),
		testutil.Entry("2", "b.go", "/x/foo_bar/b.go"),
	}
	opts := DefaultOptions()
	opts.CaseInsensitivePaths = false

	data := Build(entries, opts)
	if err := Verify(data, false); err != nil {
		t.Fatalf("verify: %v", err)
	}

	ids := map[string]bool{}
	for _, n := range data.Nodes {
		if n.Type == models.NodeFolder && (n.Name == "foo-bar" || n.Name == "foo_bar") {
			if ids[n.ID] {
				t.Fatalf("sanitized ID collision for %q", n.Name)
			}
			ids[n.ID] = true
		}
	}
	if len(ids) != 2 {
		t.Errorf("distinct folders = %d, want 2", len(ids))
	}
}
