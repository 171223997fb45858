package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/modhost/modhost/internal/state"
)

// handleHealth returns a handler for /health/{name} (native=false) or
// /health/lib/{name} (native=true). Codes exactly per §6: 200 "OK" if
// alive, 503 if not alive and not crashed, 500 "Health service is not
// available" if crashed, 404 if the name isn't a worker of the
// requested flavor.
func (a *API) handleHealth(native bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["name"]

		var (
			st WorkerLookup
			ok bool
		)
		if native {
			st, ok = a.lookupNativeWorker(name)
		} else {
			st, ok = a.lookupBytecodeWorker(name)
		}

		if !ok {
			writeText(w, http.StatusNotFound, "Service not found")
			return
		}

		switch {
		case st.OnCrash:
			writeText(w, http.StatusInternalServerError, "Health service is not available")
		case st.Alive:
			writeText(w, http.StatusOK, "OK")
		default:
			writeText(w, http.StatusServiceUnavailable, "")
		}
	}
}

// handleThunder returns a handler for /thunder/{name} (native=false) or
// /thunder/lib/{name} (native=true). The trigger queue is generously
// buffered and has exactly one consumer for its lifetime (the runner's
// supervisor goroutine, started once at spawn time and never torn
// down), so the send below blocks only as long as that buffer is
// genuinely full under sustained load -- it never "fails" in the sense
// the 500 response is reserved for, which is a module that never
// started at all (on_crash at load time).
func (a *API) handleThunder(native bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["name"]

		var (
			rst RunnerLookup
			ok  bool
		)
		if native {
			rst, ok = a.lookupNativeRunner(name)
		} else {
			rst, ok = a.lookupBytecodeRunner(name)
		}

		if !ok {
			writeText(w, http.StatusNotFound, "Service not found")
			return
		}

		if rst.OnCrash {
			writeText(w, http.StatusInternalServerError, "Service not found")
			return
		}

		rst.Trigger <- struct{}{}
		writeText(w, http.StatusOK, "Service is running")
	}
}

// handleStats serves /thunder/stats/{name} for either runner flavor,
// resolving which map the name belongs to via the Store's combined
// resolution rather than trying both explicitly.
func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	switch a.store.Resolve(name) {
	case state.IsBytecodeRunner:
		rst, _ := a.store.GetBytecodeRunner(name)
		writeStats(w, rst)
	case state.IsNativeRunner:
		rst, _ := a.store.GetNativeRunner(name)
		writeStats(w, rst)
	default:
		writeText(w, http.StatusNotFound, "Service not found")
	}
}

func writeStats(w http.ResponseWriter, rst state.RunnerState) {
	body := fmt.Sprintf("Service: %s\nLast run: %s\nLast run success: %t\n",
		rst.ModuleName, rst.LastRun.Format(http.TimeFormat), rst.LastRunSuccess)
	writeText(w, http.StatusOK, body)
}

func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	if body != "" {
		fmt.Fprint(w, body)
	}
}

// WorkerLookup and RunnerLookup are the minimal views handleHealth and
// handleThunder need; kept distinct from state.WorkerState/RunnerState
// so the lookup helpers below stay symmetric between the bytecode and
// native flavors.
type WorkerLookup struct {
	Alive   bool
	OnCrash bool
}

type RunnerLookup struct {
	OnCrash bool
	Trigger chan<- struct{}
}

func (a *API) lookupBytecodeWorker(name string) (WorkerLookup, bool) {
	st, ok := a.store.GetBytecodeWorker(name)
	if !ok || a.store.Resolve(name) != state.IsBytecodeWorker {
		return WorkerLookup{}, false
	}
	return WorkerLookup{Alive: st.Alive, OnCrash: st.OnCrash}, true
}

func (a *API) lookupNativeWorker(name string) (WorkerLookup, bool) {
	st, ok := a.store.GetNativeWorker(name)
	if !ok || a.store.Resolve(name) != state.IsNativeWorker {
		return WorkerLookup{}, false
	}
	return WorkerLookup{Alive: st.Alive, OnCrash: st.OnCrash}, true
}

func (a *API) lookupBytecodeRunner(name string) (RunnerLookup, bool) {
	st, ok := a.store.GetBytecodeRunner(name)
	if !ok || a.store.Resolve(name) != state.IsBytecodeRunner {
		return RunnerLookup{}, false
	}
	return RunnerLookup{OnCrash: st.OnCrash, Trigger: st.Trigger}, true
}

func (a *API) lookupNativeRunner(name string) (RunnerLookup, bool) {
	st, ok := a.store.GetNativeRunner(name)
	if !ok || a.store.Resolve(name) != state.IsNativeRunner {
		return RunnerLookup{}, false
	}
	return RunnerLookup{OnCrash: st.OnCrash, Trigger: st.Trigger}, true
}
