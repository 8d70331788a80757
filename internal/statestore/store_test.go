package statestore

import (
	"os"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "arbor-statestore-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveLoadRoundTrip(t *testing.T) {
	db := testDB(t)

	ids := []string{"folder_sp_a", "folder_sp_b", "node_x"}
	if err := db.SaveSet("default", KindExpansion, ids); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := db.LoadSet("default", KindExpansion)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 3 || got[0] != "folder_sp_a" || got[2] != "node_x" {
		t.Errorf("loaded = %v", got)
	}
}

func TestSaveReplacesPrevious(t *testing.T) {
	db := testDB(t)

	_ = db.SaveSet("p", KindSelection, []string{"a", "b"})
	if err := db.SaveSet("p", KindSelection, []string{"c"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := db.LoadSet("p", KindSelection)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0] != "c" {
		t.Errorf("loaded = %v, want [c]", got)
	}
}

func TestLoadMissingSetIsEmpty(t *testing.T) {
	db := testDB(t)
	got, err := db.LoadSet("nobody", KindExpansion)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("loaded = %v, want empty", got)
	}
}

func TestKindsAreIndependent(t *testing.T) {
	db := testDB(t)
	_ = db.SaveSet("p", KindExpansion, []string{"e"})
	_ = db.SaveSet("p", KindSelection, []string{"s"})

	exp, _ := db.LoadSet("p", KindExpansion)
	sel, _ := db.LoadSet("p", KindSelection)
	if len(exp) != 1 || exp[0] != "e" {
		t.Errorf("expansion = %v", exp)
	}
	if len(sel) != 1 || sel[0] != "s" {
		t.Errorf("selection = %v", sel)
	}
}

func TestProfiles(t *testing.T) {
	db := testDB(t)
	_ = db.SaveSet("alpha", KindExpansion, []string{"x"})
	_ = db.SaveSet("beta", KindSelection, []string{"y"})

	got, err := db.Profiles()
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	if len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Errorf("profiles = %v", got)
	}
}
