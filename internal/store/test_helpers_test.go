package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with minimal required fields.
func createTestRun(id string, seq int64) Run {
	return Run{
		ID:             id,
		Name:           "test",
		ConfigHash:     "cfg-hash",
		ConfigJSON:     `{"seed":1}`,
		SourceNumber:   100,
		RequestedDraws: 10,
		Seq:            seq,
	}
}
