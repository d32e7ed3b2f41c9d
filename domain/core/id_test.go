package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewRunIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[RunID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewRunID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

func TestParseRunID(t *testing.T) {
	id := NewRunID()
	parsed, err := ParseRunID(" " + id.String() + " ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != id {
		t.Errorf("expected %s, got %s", id, parsed)
	}

	if _, err := ParseRunID(""); err == nil {
		t.Error("expected error for empty run ID")
	}
	if _, err := ParseRunID("not-a-uuid"); err == nil {
		t.Error("expected error for non-UUID run ID")
	}
}

func TestComputeInputSetHash_OrderIndependent(t *testing.T) {
	a := ComputeInputSetHash(map[string]Hash{"md": "1", "sd": "2", "drugs": "3"})
	b := ComputeInputSetHash(map[string]Hash{"drugs": "3", "sd": "2", "md": "1"})
	if a != b {
		t.Errorf("hash depends on map order: %s vs %s", a, b)
	}

	c := ComputeInputSetHash(map[string]Hash{"md": "1", "sd": "2", "drugs": "4"})
	if a == c {
		t.Error("different inputs produced the same hash")
	}
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.csv")
	if err := os.WriteFile(path, []byte("id,name\n1,aspirin\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	h, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if h != NewHash([]byte("id,name\n1,aspirin\n")) {
		t.Errorf("file hash differs from in-memory hash")
	}
	if len(h.Short()) != 12 {
		t.Errorf("expected 12-char short hash, got %q", h.Short())
	}
}
