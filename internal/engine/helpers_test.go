package engine

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/roach88/lenspop/internal/config"
	"github.com/roach88/lenspop/internal/store"
)

func testConfig(t *testing.T, number int, policy string) *config.Config {
	t.Helper()
	doc := fmt.Sprintf(`
name: engine-test
seed: 7
population:
  number: %d
  z_min: 0.1
  z_max: 5
  m_min: 17
  m_max: 25
sky_area: 0.1 deg2
cosmology:
  h0: 70
  om0: 0.3
draw:
  policy: %s
`, number, policy)
	cfg, err := config.ParseYAML([]byte(doc))
	if err != nil {
		t.Fatalf("ParseYAML() failed: %v", err)
	}
	return cfg
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
