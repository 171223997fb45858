// Package runtimeenv carries small process-supervision glue, following
// the reference backend's own runtimeEnv package.
package runtimeenv

import (
	"fmt"
	"os"
	"os/exec"
)

// SystemdNotify informs systemd of the process's readiness/status, if
// the process was started under systemd (NOTIFY_SOCKET set). A no-op
// otherwise.
func SystemdNotify(ready bool, status string) {
	if os.Getenv("NOTIFY_SOCKET") == "" {
		return
	}

	args := []string{fmt.Sprintf("--pid=%d", os.Getpid())}
	if ready {
		args = append(args, "--ready")
	}
	if status != "" {
		args = append(args, fmt.Sprintf("--status=%s", status))
	}

	cmd := exec.Command("systemd-notify", args...)
	cmd.Run() // best-effort: nothing useful to do if this fails.
}
