package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modhost/modhost/internal/state"
)

func TestHealthReturnsOKWhenAlive(t *testing.T) {
	s := state.New()
	s.InitBytecodeWorker("w.wasm")
	s.SetBytecodeWorker("w.wasm", state.WorkerState{Alive: true})

	rr := do(t, s, http.MethodGet, "/health/w.wasm")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestHealthReturns503WhenNotAliveNotCrashed(t *testing.T) {
	s := state.New()
	s.InitBytecodeWorker("w.wasm")

	rr := do(t, s, http.MethodGet, "/health/w.wasm")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHealthReturns500WhenCrashed(t *testing.T) {
	s := state.New()
	s.InitNativeWorker("w.so")
	s.SetNativeWorker("w.so", state.WorkerState{OnCrash: true})

	rr := do(t, s, http.MethodGet, "/health/lib/w.so")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Health service is not available", rr.Body.String())
}

func TestHealthReturns404WhenUnknown(t *testing.T) {
	s := state.New()

	rr := do(t, s, http.MethodGet, "/health/nope.wasm")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Service not found", rr.Body.String())
}

func TestHealthDoesNotCrossLookupFlavors(t *testing.T) {
	s := state.New()
	s.InitNativeWorker("w.so")
	s.SetNativeWorker("w.so", state.WorkerState{Alive: true})

	// a bytecode-worker health check must not see a native worker of
	// the same name
	rr := do(t, s, http.MethodGet, "/health/w.so")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestThunderTriggersAndReportsSuccess(t *testing.T) {
	s := state.New()
	trigger := make(chan struct{}, 1)
	s.InitBytecodeRunner("r.wasm", trigger, false)

	rr := do(t, s, http.MethodPost, "/thunder/r.wasm")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Service is running", rr.Body.String())

	select {
	case <-trigger:
	default:
		t.Fatal("expected a trigger signal to have been sent")
	}
}

func TestThunderUnknownModuleReturns404(t *testing.T) {
	s := state.New()

	rr := do(t, s, http.MethodPost, "/thunder/nope.wasm")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestThunderAbsorbsBurstsWithoutRejecting(t *testing.T) {
	s := state.New()
	trigger := make(chan struct{}, 8)
	s.InitBytecodeRunner("r.wasm", trigger, false)

	// Nothing drains this channel in the test; a queue that is merely
	// generously buffered rather than truly unbounded must still accept
	// every one of these without a 500, since none of them overflows it.
	for i := 0; i < cap(trigger); i++ {
		rr := do(t, s, http.MethodPost, "/thunder/r.wasm")
		require.Equal(t, http.StatusOK, rr.Code, "trigger %d should have been queued, not rejected", i)
	}
	assert.Len(t, trigger, cap(trigger))
}

func TestThunderFailsFastOnCrashedRunner(t *testing.T) {
	s := state.New()
	s.InitBytecodeRunner("r.wasm", make(chan struct{}, 1), true)

	rr := do(t, s, http.MethodPost, "/thunder/r.wasm")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestStatsReportsLastRun(t *testing.T) {
	s := state.New()
	s.InitNativeRunner("r.so", make(chan struct{}, 1), false)
	s.UpdateNativeRunner("r.so", true)

	rr := do(t, s, http.MethodGet, "/thunder/stats/r.so")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Service: r.so")
	assert.Contains(t, rr.Body.String(), "Last run success: true")
}

func TestStatsUnknownModuleReturns404(t *testing.T) {
	s := state.New()

	rr := do(t, s, http.MethodGet, "/thunder/stats/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func do(t *testing.T, s *state.Store, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	handler := New(s)
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}
