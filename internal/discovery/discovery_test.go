package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modhost/modhost/internal/moduledesc"
)

func TestDiscoverClassifiesBySuffix(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "worker.wasm", "wasm-bytes")
	write(t, dir, "runner_run.wasm", "wasm-bytes")
	write(t, dir, "worker.so", "")
	write(t, dir, "runner_run.so", "")
	write(t, dir, "ignored.txt", "")

	descriptors, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, descriptors, 4)

	byName := make(map[string]moduledesc.Descriptor, len(descriptors))
	for _, d := range descriptors {
		byName[d.Name] = d
	}

	assert.Equal(t, moduledesc.BytecodeWorker, byName["worker.wasm"].Kind)
	assert.Equal(t, moduledesc.BytecodeRunner, byName["runner_run.wasm"].Kind)
	assert.Equal(t, moduledesc.NativeWorker, byName["worker.so"].Kind)
	assert.Equal(t, moduledesc.NativeRunner, byName["runner_run.so"].Kind)
}

func TestDiscoverReadsBytesForBytecodeAndPathForNative(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "worker.wasm", "payload")
	write(t, dir, "worker.so", "")

	descriptors, err := Discover(dir)
	require.NoError(t, err)

	for _, d := range descriptors {
		switch d.Kind {
		case moduledesc.BytecodeWorker:
			assert.Equal(t, "payload", string(d.Bytes))
			assert.Empty(t, d.Path)
		case moduledesc.NativeWorker:
			expected, err := filepath.Abs(filepath.Join(dir, "worker.so"))
			require.NoError(t, err)
			assert.Equal(t, expected, d.Path)
		}
	}
}

func TestDiscoverToleratesLostAndFound(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "lost+found"), 0o755))
	write(t, dir, "worker.wasm", "x")

	descriptors, err := Discover(dir)
	require.NoError(t, err)
	assert.Len(t, descriptors, 1)
}

func TestDiscoverRejectsOtherSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	_, err := Discover(dir)
	assert.Error(t, err)
}

func TestDiscoverEmptyDirectoryReturnsEmpty(t *testing.T) {
	dir := t.TempDir()

	descriptors, err := Discover(dir)
	require.NoError(t, err)
	assert.Empty(t, descriptors)
}

func write(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}
