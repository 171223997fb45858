package hostlog

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLevelGatesLowerLevels(t *testing.T) {
	d, i, w, e := DebugWriter, InfoWriter, WarnWriter, ErrWriter
	t.Cleanup(func() {
		DebugWriter, InfoWriter, WarnWriter, ErrWriter = d, i, w, e
	})

	SetLevel("warn")
	assert.Equal(t, io.Discard, DebugWriter)
	assert.Equal(t, io.Discard, InfoWriter)
	assert.NotEqual(t, io.Discard, WarnWriter)
	assert.NotEqual(t, io.Discard, ErrWriter)
}

func TestSetLevelUnknownDefaultsToInfo(t *testing.T) {
	d, i, w, e := DebugWriter, InfoWriter, WarnWriter, ErrWriter
	t.Cleanup(func() {
		DebugWriter, InfoWriter, WarnWriter, ErrWriter = d, i, w, e
	})

	SetLevel("nonsense")
	assert.Equal(t, io.Discard, DebugWriter)
	assert.NotEqual(t, io.Discard, InfoWriter)
}

func TestDebugWritesNothingWhenDiscarded(t *testing.T) {
	var buf bytes.Buffer
	orig := DebugWriter
	origOut := debugLog.Writer()
	t.Cleanup(func() {
		DebugWriter = orig
		debugLog.SetOutput(origOut)
	})

	debugLog.SetOutput(&buf)
	DebugWriter = io.Discard
	Debug("should not panic")
	assert.Equal(t, 0, buf.Len())
}
