package supervisor

import (
	"strings"

	"github.com/go-co-op/gocron/v2"

	"github.com/modhost/modhost/internal/adapter/nativeadapter"
	"github.com/modhost/modhost/internal/adapter/wasmadapter"
	"github.com/modhost/modhost/internal/metrics"
	"github.com/modhost/modhost/internal/moduledesc"
	"github.com/modhost/modhost/internal/state"
	"github.com/modhost/modhost/pkg/hostlog"
)

const kindBytecodeWorker = "bytecode-worker"
const kindNativeWorker = "native-worker"

// spawnBytecodeWorker compiles the module once; compilation failure is
// fatal to this module only (spec §7 module-fatal tier) -- it never
// reaches the scheduler, so it is simply never polled again.
func (m *Manager) spawnBytecodeWorker(d moduledesc.Descriptor) {
	m.store.InitBytecodeWorker(d.Name)

	mod, err := wasmadapter.Compile(d.Name, d.Bytes)
	if err != nil {
		hostlog.Errorf("supervisor: %s", err)
		m.store.SetBytecodeWorker(d.Name, state.WorkerState{Alive: false, OnCrash: true})
		metrics.Crashes.WithLabelValues(d.Name, kindBytecodeWorker).Inc()
		return
	}

	name := d.Name
	poll := func() {
		if st, ok := m.store.GetBytecodeWorker(name); ok && st.OnCrash {
			return
		}

		metrics.Invocations.WithLabelValues(name, kindBytecodeWorker).Inc()
		out, err := mod.Invoke()
		if err != nil {
			hostlog.Errorf("supervisor: worker %q invocation failed, marking on_crash: %s", name, err)
			m.store.SetBytecodeWorker(name, state.WorkerState{Alive: false, OnCrash: true})
			metrics.Crashes.WithLabelValues(name, kindBytecodeWorker).Inc()
			return
		}

		alive := bytecodeWorkerAlive(out.Stdout)
		m.store.SetBytecodeWorker(name, state.WorkerState{Alive: alive, OnCrash: false})
	}

	if _, err := m.sched.NewJob(
		gocron.DurationJob(pollInterval),
		gocron.NewTask(poll),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	); err != nil {
		hostlog.Errorf("supervisor: failed to register poll job for %q: %s", name, err)
	}
}

// bytecodeWorkerAlive is the byte-exact liveness check (spec §4.4, §9):
// a module must emit exactly "true" with no trailing newline to be
// considered alive. Anything else, including "true\n", is dead.
func bytecodeWorkerAlive(stdout string) bool {
	return stdout == "true"
}

// nativeStatusLine is the first line of a native worker's result
// string, the only part its status is read from.
func nativeStatusLine(result string) string {
	firstLine, _, _ := strings.Cut(result, "\n")
	return firstLine
}

// parseNativeWorkerStatus interprets a native worker's first output
// line. Only "True", "False" and "Crash" are recognized; any other
// value leaves recognized false so the caller keeps the worker's
// previous state unchanged rather than guessing (spec §4.4).
func parseNativeWorkerStatus(result string) (st state.WorkerState, recognized bool) {
	switch nativeStatusLine(result) {
	case "True":
		return state.WorkerState{Alive: true, OnCrash: false}, true
	case "False":
		return state.WorkerState{Alive: false, OnCrash: false}, true
	case "Crash":
		return state.WorkerState{Alive: false, OnCrash: true}, true
	default:
		return state.WorkerState{}, false
	}
}

// spawnNativeWorker resolves the shared object once; a load failure is
// fatal to this module only.
func (m *Manager) spawnNativeWorker(d moduledesc.Descriptor) {
	m.store.InitNativeWorker(d.Name)

	lib, err := nativeadapter.LoadWorker(d.Path)
	if err != nil {
		hostlog.Errorf("supervisor: %s", err)
		m.store.SetNativeWorker(d.Name, state.WorkerState{Alive: false, OnCrash: true})
		metrics.Crashes.WithLabelValues(d.Name, kindNativeWorker).Inc()
		return
	}

	name := d.Name
	poll := func() {
		if st, ok := m.store.GetNativeWorker(name); ok && st.OnCrash {
			return
		}

		metrics.Invocations.WithLabelValues(name, kindNativeWorker).Inc()
		result, err := lib.InvokeWorker()
		if err != nil {
			hostlog.Errorf("supervisor: worker %q invocation failed, marking on_crash: %s", name, err)
			m.store.SetNativeWorker(name, state.WorkerState{Alive: false, OnCrash: true})
			metrics.Crashes.WithLabelValues(name, kindNativeWorker).Inc()
			return
		}

		st, recognized := parseNativeWorkerStatus(result)
		if !recognized {
			hostlog.Warnf("supervisor: worker %q returned unrecognized status %q, leaving state unchanged", name, nativeStatusLine(result))
			return
		}

		m.store.SetNativeWorker(name, st)
		if st.OnCrash {
			metrics.Crashes.WithLabelValues(name, kindNativeWorker).Inc()
		}
	}

	if _, err := m.sched.NewJob(
		gocron.DurationJob(pollInterval),
		gocron.NewTask(poll),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	); err != nil {
		hostlog.Errorf("supervisor: failed to register poll job for %q: %s", name, err)
	}
}
