// Package metrics exposes the host's supervisor activity as Prometheus
// counters -- the same client library the reference backend instruments
// its own job pipeline with, scoped here to module invocations, crashes
// and persisted records rather than job lifecycle events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Invocations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "modhost_module_invocations_total",
		Help: "Number of times a worker module was polled through its adapter.",
	}, []string{"module", "kind"})

	Crashes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "modhost_module_crashes_total",
		Help: "Number of module load/compile failures, worker on_crash transitions and failed runner invocations.",
	}, []string{"module", "kind"})

	RecordsPersisted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "modhost_records_persisted_total",
		Help: "Number of key/value records successfully persisted by runners.",
	}, []string{"module"})

	TriggersReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "modhost_runner_triggers_total",
		Help: "Number of trigger signals received by runner supervisors.",
	}, []string{"module"})
)

func init() {
	prometheus.MustRegister(Invocations, Crashes, RecordsPersisted, TriggersReceived)
}
