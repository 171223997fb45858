// Command modhost is the module host process: it discovers modules
// under MODULES_PATH, supervises each for the lifetime of the process,
// and exposes a control plane over HTTP.
//
// Entry-point shape follows the reference backend's cmd/cc-backend/main.go:
// load env/config, open the persistence layer, wire subsystems, start
// the HTTP server, then block on an OS signal for graceful shutdown.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/gops/agent"

	"github.com/modhost/modhost/internal/discovery"
	"github.com/modhost/modhost/internal/hostconfig"
	"github.com/modhost/modhost/internal/httpapi"
	"github.com/modhost/modhost/internal/moduledesc"
	"github.com/modhost/modhost/internal/persistence"
	"github.com/modhost/modhost/internal/runtimeenv"
	"github.com/modhost/modhost/internal/state"
	"github.com/modhost/modhost/internal/supervisor"
	"github.com/modhost/modhost/pkg/hostlog"
)

func main() {
	cfg, err := hostconfig.Load(".env")
	if err != nil {
		hostlog.Fatalf("modhost: %s", err)
	}

	descriptors, err := discovery.Discover(cfg.ModulesPath)
	if err != nil {
		hostlog.Fatalf("modhost: %s", err)
	}

	if len(descriptors) == 0 {
		fmt.Println("No modules found")
		os.Exit(0)
	}

	if cfg.ShowModulesConsole {
		printModules(descriptors)
	}

	if cfg.GopsDebug {
		if err := agent.Listen(agent.Options{}); err != nil {
			hostlog.Warnf("modhost: gops agent failed to start: %s", err)
		}
	}

	gateway, err := persistence.Connect("modhost.db")
	if err != nil {
		hostlog.Fatalf("modhost: %s", err)
	}
	defer gateway.Close()

	store := state.New()

	mgr, err := supervisor.New(store, gateway, envBlock())
	if err != nil {
		hostlog.Fatalf("modhost: %s", err)
	}
	mgr.SpawnAll(descriptors)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpapi.New(store),
	}

	go func() {
		hostlog.Infof("modhost: control plane listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			hostlog.Fatalf("modhost: %s", err)
		}
	}()

	runtimeenv.SystemdNotify(true, "running")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	runtimeenv.SystemdNotify(false, "stopping")
	hostlog.Infof("modhost: shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		hostlog.Warnf("modhost: HTTP shutdown: %s", err)
	}

	if err := mgr.Shutdown(); err != nil {
		hostlog.Warnf("modhost: scheduler shutdown: %s", err)
	}
}

// printModules echoes the classified module list at startup, gated by
// SHOW_MODULES_CONSOLE.
func printModules(descriptors []moduledesc.Descriptor) {
	fmt.Printf("Discovered %d module(s):\n", len(descriptors))
	for _, d := range descriptors {
		fmt.Printf("  %-10s %s\n", d.Kind, d.Name)
	}
}

// envBlock renders the process environment as the "K=V;;;K=V;;;..."
// string handed to native runners on every invocation (spec §4.3.b).
func envBlock() string {
	pairs := os.Environ()
	sort.Strings(pairs)
	return strings.Join(pairs, ";;;") + ";;;"
}
