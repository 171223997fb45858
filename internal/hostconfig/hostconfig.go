// Package hostconfig reads the handful of environment variables that
// drive the host, optionally supplemented by a ".env" file -- the same
// load-env-file-before-reading-process-config ordering the reference
// backend's entry point uses ahead of its own ProgramConfig.
package hostconfig

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/modhost/modhost/pkg/hostlog"
)

// Config is the fully resolved set of knobs the host runs with.
type Config struct {
	// ModulesPath is the flat directory discovery walks. Required.
	ModulesPath string

	// ShowModulesConsole, when true, echoes the classified module list
	// to stdout at startup.
	ShowModulesConsole bool

	// Addr is the HTTP control plane's listen address.
	Addr string

	// GopsDebug, when true, starts the github.com/google/gops agent.
	GopsDebug bool
}

const defaultAddr = "0.0.0.0:3000"

// Load reads an optional .env file (missing file is not an error, same
// as the reference backend's own env loading step) and then the process
// environment.
func Load(envFile string) (Config, error) {
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	modulesPath, ok := os.LookupEnv("MODULES_PATH")
	if !ok {
		return Config{}, fmt.Errorf("MODULES_PATH environment variable not set")
	}

	cfg := Config{
		ModulesPath:        modulesPath,
		ShowModulesConsole: os.Getenv("SHOW_MODULES_CONSOLE") != "",
		Addr:               defaultAddr,
		GopsDebug:          os.Getenv("GOPS_DEBUG") != "",
	}

	if addr := os.Getenv("HOST_ADDR"); addr != "" {
		cfg.Addr = addr
	}

	hostlog.Debugf("hostconfig: resolved %+v", cfg)
	return cfg, nil
}
