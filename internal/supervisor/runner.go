package supervisor

import (
	"strings"

	"github.com/modhost/modhost/internal/adapter/nativeadapter"
	"github.com/modhost/modhost/internal/adapter/wasmadapter"
	"github.com/modhost/modhost/internal/metrics"
	"github.com/modhost/modhost/internal/moduledesc"
	"github.com/modhost/modhost/internal/persistence"
	"github.com/modhost/modhost/pkg/hostlog"
)

const kindBytecodeRunner = "bytecode-runner"
const kindNativeRunner = "native-runner"

// kvPrefix marks an output line as a key/value record to persist.
// recordSep separates the key from the value on such a line. Exactly
// one separator must be present; a line with zero or more than one is
// malformed and is dropped rather than guessed at (spec §9: fixes the
// original "split then assume two parts" bug).
const kvPrefix = "KV:"
const recordSep = "###"

// triggerQueueCapacity is deliberately generous rather than bounded to
// one in-flight trigger: the queue must absorb bursts of concurrent
// thunder requests without rejecting them, the same choice the
// teacher's own archivingWorker channel makes for its job queue.
const triggerQueueCapacity = 128

// spawnBytecodeRunner wires a trigger channel and a consumer goroutine
// that compiles once and re-invokes the module exactly once per signal.
func (m *Manager) spawnBytecodeRunner(d moduledesc.Descriptor) {
	trigger := make(chan struct{}, triggerQueueCapacity)

	mod, err := wasmadapter.Compile(d.Name, d.Bytes)
	if err != nil {
		hostlog.Errorf("supervisor: %s", err)
		m.store.InitBytecodeRunner(d.Name, trigger, true)
		metrics.Crashes.WithLabelValues(d.Name, kindBytecodeRunner).Inc()
		return
	}
	m.store.InitBytecodeRunner(d.Name, trigger, false)

	name := d.Name
	go func() {
		for range trigger {
			metrics.TriggersReceived.WithLabelValues(name).Inc()

			out, err := mod.Invoke()
			if err != nil {
				hostlog.Errorf("supervisor: runner %q invocation failed: %s", name, err)
				m.store.UpdateBytecodeRunner(name, false)
				metrics.Crashes.WithLabelValues(name, kindBytecodeRunner).Inc()
				continue
			}

			forwardStderr(name, out.Stderr)
			success := m.persistKVLines(name, out.Stdout)
			m.store.UpdateBytecodeRunner(name, success)
		}
	}()
}

// spawnNativeRunner wires a trigger channel and a consumer goroutine
// over a dynamically loaded shared object, passing the process's
// env block on every invocation.
func (m *Manager) spawnNativeRunner(d moduledesc.Descriptor) {
	trigger := make(chan struct{}, triggerQueueCapacity)

	lib, err := nativeadapter.LoadRunner(d.Path)
	if err != nil {
		hostlog.Errorf("supervisor: %s", err)
		m.store.InitNativeRunner(d.Name, trigger, true)
		metrics.Crashes.WithLabelValues(d.Name, kindNativeRunner).Inc()
		return
	}
	m.store.InitNativeRunner(d.Name, trigger, false)

	name := d.Name
	go func() {
		for range trigger {
			metrics.TriggersReceived.WithLabelValues(name).Inc()

			result, err := lib.InvokeRunner(m.envBlock)
			if err != nil {
				hostlog.Errorf("supervisor: runner %q invocation failed: %s", name, err)
				m.store.UpdateNativeRunner(name, false)
				metrics.Crashes.WithLabelValues(name, kindNativeRunner).Inc()
				continue
			}

			success := m.persistKVLines(name, result)
			m.store.UpdateNativeRunner(name, success)
		}
	}()
}

// persistKVLines scans output for "KV:key###value" lines and persists
// each via the gateway. A module's output may interleave non-KV lines
// freely; those are ignored. Returns whether every well-formed KV line
// persisted without error -- a module that emits no KV lines at all
// still counts as a successful run.
func (m *Manager) persistKVLines(moduleName, output string) bool {
	success := true
	for _, line := range strings.Split(output, "\n") {
		if !strings.HasPrefix(line, kvPrefix) {
			continue
		}

		body := strings.TrimPrefix(line, kvPrefix)
		parts := strings.Split(body, recordSep)
		if len(parts) != 2 {
			hostlog.Warnf("supervisor: runner %q emitted malformed KV line, dropping: %q", moduleName, line)
			continue
		}

		kv := persistence.KeyValuePair{Key: parts[0], Value: parts[1]}
		if err := m.gateway.Save(kv); err != nil {
			hostlog.Errorf("supervisor: runner %q failed to persist %q: %s", moduleName, kv.Key, err)
			success = false
			continue
		}
		metrics.RecordsPersisted.WithLabelValues(moduleName).Inc()
	}
	return success
}

// forwardStderr relays a bytecode runner's captured stderr to the host
// log line by line, each prefixed with the emitting module's name so
// concurrent runners' output stays distinguishable.
func forwardStderr(moduleName, stderr string) {
	for _, line := range strings.Split(stderr, "\n") {
		if line == "" {
			continue
		}
		hostlog.Warnf("RUNNER %s: %s", moduleName, line)
	}
}
