package listdiff

import (
	"testing"

	"github.com/starford/arbor/internal/models"
)

func rows(ids ...string) []models.VisibleNode {
	out := make([]models.VisibleNode, len(ids))
	for i, id := range ids {
		out[i] = models.VisibleNode{ID: id}
	}
	return out
}

// apply replays a diff: removals descending, then insertions ascending
// pulling rows from after.
func apply(before, after []models.VisibleNode, r Result) []models.VisibleNode {
	out := append([]models.VisibleNode(nil), before...)
	for _, i := range r.RemovesDesc {
		out = append(out[:i], out[i+1:]...)
	}
	for _, j := range r.InsertsAsc {
		out = append(out[:j], append([]models.VisibleNode{after[j]}, out[j:]...)...)
	}
	return out
}

func assertEqualIDs(t *testing.T, got, want []models.VisibleNode) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("lengths differ: %d vs %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Errorf("row[%d] = %q, want %q", i, got[i].ID, want[i].ID)
		}
	}
}

func assertInts(t *testing.T, label string, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s = %v, want %v", label, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s = %v, want %v", label, got, want)
		}
	}
}

func TestDiff_Identical(t *testing.T) {
	x := rows("a", "b", "c")
	r := Diff(x, x)
	if !r.Empty() {
		t.Errorf("diff(x, x) = %+v, want empty", r)
	}
}

func TestDiff_Reorder(t *testing.T) {
	before := rows("a", "b", "c")
	after := rows("c", "a", "b")

	r := Diff(before, after)
	assertInts(t, "removesDesc", r.RemovesDesc, []int{2})
	assertInts(t, "insertsAsc", r.InsertsAsc, []int{0})
	assertEqualIDs(t, apply(before, after, r), after)
}

func TestDiff_Mixed(t *testing.T) {
	before := rows("anchor", "b", "c", "d", "e")
	after := rows("inserted", "anchor", "d", "e", "tail")

	r := Diff(before, after)
	assertInts(t, "removesDesc", r.RemovesDesc, []int{2, 1})
	assertInts(t, "insertsAsc", r.InsertsAsc, []int{0, 4})
	assertEqualIDs(t, apply(before, after, r), after)
}

func TestDiff_AllRemoved(t *testing.T) {
	before := rows("a", "b")
	after := rows()

	r := Diff(before, after)
	assertInts(t, "removesDesc", r.RemovesDesc, []int{1, 0})
	assertInts(t, "insertsAsc", r.InsertsAsc, nil)
	assertEqualIDs(t, apply(before, after, r), after)
}

func TestDiff_AllInserted(t *testing.T) {
	before := rows()
	after := rows("a", "b")

	r := Diff(before, after)
	assertInts(t, "removesDesc", r.RemovesDesc, nil)
	assertInts(t, "insertsAsc", r.InsertsAsc, []int{0, 1})
	assertEqualIDs(t, apply(before, after, r), after)
}

func TestDiff_RoundTripAndMinimality(t *testing.T) {
	cases := []struct {
		before, after []models.VisibleNode
		lis           int
	}{
		{rows("a", "b", "c", "d"), rows("d", "c", "b", "a"), 1},
		{rows("a", "b", "c"), rows("a", "x", "b", "y", "c"), 3},
		{rows("a", "b", "c", "d", "e"), rows("b", "d", "a", "c", "e"), 3},
		{rows("x"), rows("y"), 0},
	}
	for i, tc := range cases {
		r := Diff(tc.before, tc.after)
		assertEqualIDs(t, apply(tc.before, tc.after, r), tc.after)

		ops := len(r.RemovesDesc) + len(r.InsertsAsc)
		want := len(tc.before) + len(tc.after) - 2*tc.lis
		if ops != want {
			t.Errorf("case %d: ops = %d, want %d", i, ops, want)
		}
	}
}

func TestDiff_EqualLengthDifferentIDs(t *testing.T) {
	before := rows("a", "b")
	after := rows("a", "c")

	r := Diff(before, after)
	assertEqualIDs(t, apply(before, after, r), after)
	if len(r.RemovesDesc) != 1 || len(r.InsertsAsc) != 1 {
		t.Errorf("r = %+v, want one remove and one insert", r)
	}
}
