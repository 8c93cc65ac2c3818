package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestDir(t *testing.T) {
	dir := SetupTestDir(t)

	data, err := os.ReadFile(filepath.Join(dir, ".tape", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigYAML, string(data))
}

func TestWriteSamplePrograms(t *testing.T) {
	dir := t.TempDir()
	paths := WriteSamplePrograms(t, dir)

	assert.Len(t, paths, len(SamplePrograms()))
	for name, path := range paths {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, SamplePrograms()[name], string(data))
	}
}

func TestWriteTestFile_CreatesParents(t *testing.T) {
	path := WriteTestFile(t, t.TempDir(), "a/b/c.b", "+")
	assert.FileExists(t, path)
}

func TestEventually(t *testing.T) {
	calls := 0
	ok := Eventually(time.Second, func() bool {
		calls++
		return calls >= 3
	})
	assert.True(t, ok)
	assert.False(t, Eventually(20*time.Millisecond, func() bool { return false }))
}

func TestWatchContext(t *testing.T) {
	ctx, cancel := WatchContext(t)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.True(t, time.Until(deadline) <= DefaultWatchTimeout)
}
