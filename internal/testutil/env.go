package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// DefaultConfigYAML is the config written by SetupTestDir.
const DefaultConfigYAML = `log_level: warn
jump_table: true
output:
  buffered: false
`

// SetupTestDir creates a temporary working directory containing a .tape
// directory with DefaultConfigYAML. The directory is removed when the test
// completes.
func SetupTestDir(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	tapeDir := filepath.Join(tmpDir, ".tape")
	require.NoError(t, os.MkdirAll(tapeDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tapeDir, "config.yaml"), []byte(DefaultConfigYAML), 0o644))

	return tmpDir
}

// WriteProgram writes src to name under dir and returns the full path.
func WriteProgram(t *testing.T, dir, name, src string) string {
	t.Helper()
	return WriteTestFile(t, dir, name, src)
}

// WriteTestFile writes a file relative to base, creating parent
// directories, and returns the full path.
func WriteTestFile(t *testing.T, base, path, content string) string {
	t.Helper()

	fullPath := filepath.Join(base, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	return fullPath
}

// WriteSamplePrograms writes every SamplePrograms entry into dir.
func WriteSamplePrograms(t *testing.T, dir string) map[string]string {
	t.Helper()

	paths := make(map[string]string)
	for name, src := range SamplePrograms() {
		paths[name] = WriteProgram(t, dir, name, src)
	}
	return paths
}
