package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with args and returns stdout,
// stderr and the command error.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeConfig writes a small population configuration and returns its path.
func writeConfig(t *testing.T, number int, policy string) string {
	t.Helper()
	content := `name: cli-test
seed: 5
population:
  number: ` + strconv.Itoa(number) + `
  z_min: 0.2
  z_max: 3
  m_min: 18
  m_max: 24
sky_area: 1 deg2
cosmology:
  h0: 70
  om0: 0.3
draw:
  policy: ` + policy + "\n"
	path := filepath.Join(t.TempDir(), "population.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
