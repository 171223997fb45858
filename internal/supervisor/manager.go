// Package supervisor implements the four lifecycle flavors (bytecode and
// native, worker and runner) described in spec §4.4/§4.5, and owns the
// scheduling primitive workers are polled through.
//
// Worker polling is generalized from the reference backend's
// taskManager/taskmanager packages: a single process-wide gocron
// scheduler, one DurationJob per unit of work started immediately
// (mirroring internal/taskmanager/metricPullWorker.go's
// "one job per cluster" shape, here "one job per worker module"),
// instead of a raw goroutine with time.Sleep.
//
// Runner supervision is generalized from
// internal/repository/archiveWorker.go's channel-consumer goroutine:
// block on a receive, process exactly one unit of work per signal, loop.
package supervisor

import (
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/modhost/modhost/internal/moduledesc"
	"github.com/modhost/modhost/internal/persistence"
	"github.com/modhost/modhost/internal/state"
	"github.com/modhost/modhost/pkg/hostlog"
)

// pollInterval is the fixed worker health-poll cadence required by spec §4.4.
const pollInterval = 60 * time.Second

// Manager owns the shared scheduler and wires every discovered descriptor
// to its supervisor flavor.
type Manager struct {
	store    *state.Store
	gateway  *persistence.Gateway
	sched    gocron.Scheduler
	envBlock string
}

// New creates a Manager. envBlock is the "K=V;;;K=V;;;" rendering of the
// process environment handed to native runners on each invocation (spec
// §4.3.b).
func New(store *state.Store, gateway *persistence.Gateway, envBlock string) (*Manager, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Manager{store: store, gateway: gateway, sched: sched, envBlock: envBlock}, nil
}

// SpawnAll wires every descriptor to its supervisor flavor and starts the
// scheduler. Descriptors are a closed set by the time this is called
// (spec §3 invariant: discovery's output never changes after startup).
func (m *Manager) SpawnAll(descriptors []moduledesc.Descriptor) {
	for _, d := range descriptors {
		switch d.Kind {
		case moduledesc.BytecodeWorker:
			m.spawnBytecodeWorker(d)
		case moduledesc.NativeWorker:
			m.spawnNativeWorker(d)
		case moduledesc.BytecodeRunner:
			m.spawnBytecodeRunner(d)
		case moduledesc.NativeRunner:
			m.spawnNativeRunner(d)
		default:
			hostlog.Warnf("supervisor: descriptor %q has unrecognized kind, skipping", d.Name)
		}
	}

	m.sched.Start()
}

// Shutdown stops the worker scheduler. Runner goroutines are left
// running; this process's shutdown is abrupt (spec §5: "no
// cancellation"), so they simply stop existing along with the process.
func (m *Manager) Shutdown() error {
	return m.sched.Shutdown()
}
