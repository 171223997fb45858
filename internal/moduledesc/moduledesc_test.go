package moduledesc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindPredicates(t *testing.T) {
	cases := []struct {
		kind     Kind
		worker   bool
		runner   bool
		native   bool
		stringed string
	}{
		{BytecodeWorker, true, false, false, "bytecode-worker"},
		{BytecodeRunner, false, true, false, "bytecode-runner"},
		{NativeWorker, true, false, true, "native-worker"},
		{NativeRunner, false, true, true, "native-runner"},
	}

	for _, c := range cases {
		assert.Equal(t, c.worker, c.kind.IsWorker(), c.stringed)
		assert.Equal(t, c.runner, c.kind.IsRunner(), c.stringed)
		assert.Equal(t, c.native, c.kind.IsNative(), c.stringed)
		assert.Equal(t, c.stringed, c.kind.String())
	}
}
