// Package httpapi is the host's control plane: a small gorilla/mux
// router exposing per-module health, trigger and stats endpoints over
// plain text, plus a Prometheus scrape endpoint. Grounded on the
// reference backend's cmd/cc-backend/main.go router assembly and its
// internal/api REST handlers, generalized from GraphQL/REST resource
// routes to the five fixed module-control routes this host exposes.
package httpapi

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/modhost/modhost/internal/state"
	"github.com/modhost/modhost/pkg/hostlog"
)

// API bundles the dependencies handlers need to resolve and act on
// module state.
type API struct {
	store *state.Store
}

// New wires the router. The returned handler already has the
// recovery and logging middleware applied, the same wrapping order
// the teacher's main.go builds its own handler chain in.
func New(store *state.Store) http.Handler {
	api := &API{store: store}

	r := mux.NewRouter()
	r.HandleFunc("/health/lib/{name}", api.handleHealth(true)).Methods(http.MethodGet)
	r.HandleFunc("/health/{name}", api.handleHealth(false)).Methods(http.MethodGet)
	r.HandleFunc("/thunder/stats/{name}", api.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/thunder/lib/{name}", api.handleThunder(true)).Methods(http.MethodPost)
	r.HandleFunc("/thunder/{name}", api.handleThunder(false)).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	logged := handlers.CustomLoggingHandler(hostlog.InfoWriter, r, logFormatter)
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(logged)
}
