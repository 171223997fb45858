package supervisor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modhost/modhost/internal/persistence"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	gateway, err := persistence.Connect(filepath.Join(t.TempDir(), "modhost.db"))
	require.NoError(t, err)
	t.Cleanup(func() { gateway.Close() })
	return &Manager{gateway: gateway}
}

func TestPersistKVLinesPersistsWellFormedLines(t *testing.T) {
	m := newTestManager(t)

	success := m.persistKVLines("mod", "KV:k###1\nsome noise\nKV:other###2")
	assert.True(t, success)
}

func TestPersistKVLinesDropsMalformedLines(t *testing.T) {
	m := newTestManager(t)

	// Zero separators and more than one separator are both malformed;
	// neither should abort the scan of the remaining lines.
	success := m.persistKVLines("mod", "KV:nosep\nKV:a###b###c\nKV:k###v")
	assert.True(t, success, "malformed lines are dropped, not treated as failures")
}

func TestPersistKVLinesIgnoresNonKVLines(t *testing.T) {
	m := newTestManager(t)

	success := m.persistKVLines("mod", "just some stdout\nanother line")
	assert.True(t, success)
}

func TestForwardStderrToleratesEmptyLines(t *testing.T) {
	// forwardStderr only logs; this exercises it for panics, not output.
	forwardStderr("mod", "one\n\ntwo\n")
}
