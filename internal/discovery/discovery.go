// Package discovery walks the configured modules directory once at
// startup and classifies each entry into a moduledesc.Descriptor.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/modhost/modhost/internal/moduledesc"
)

// ignoredSubdir is the one subdirectory name discovery tolerates: the
// lost+found directory common to ext-family filesystem mounts.
const ignoredSubdir = "lost+found"

// suffixRule pairs a file suffix with the Kind it selects. Order matters:
// longer, more specific suffixes must be tried before their shorter
// overlapping counterparts (_run.wasm before .wasm, _run.so before .so).
var suffixRules = []struct {
	suffix string
	kind   moduledesc.Kind
}{
	{"_run.wasm", moduledesc.BytecodeRunner},
	{".wasm", moduledesc.BytecodeWorker},
	{"_run.so", moduledesc.NativeRunner},
	{".so", moduledesc.NativeWorker},
}

// Discover reads dir non-recursively and classifies every regular file by
// suffix. It returns an error if dir contains any subdirectory other than
// lost+found; unrecognized suffixes are silently ignored.
func Discover(dir string) ([]moduledesc.Descriptor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading modules directory: %w", err)
	}

	// Deterministic order makes startup console output and tests stable.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var descriptors []moduledesc.Descriptor
	for _, entry := range entries {
		if entry.IsDir() {
			if entry.Name() == ignoredSubdir {
				continue
			}
			return nil, fmt.Errorf("modules directory contains unexpected subdirectory %q", entry.Name())
		}

		kind, ok := classify(entry.Name())
		if !ok {
			continue
		}

		d := moduledesc.Descriptor{Name: entry.Name(), Kind: kind}
		full := filepath.Join(dir, entry.Name())

		if kind.IsNative() {
			abs, err := filepath.Abs(full)
			if err != nil {
				return nil, fmt.Errorf("resolving canonical path for %q: %w", entry.Name(), err)
			}
			d.Path = abs
		} else {
			bytes, err := os.ReadFile(full)
			if err != nil {
				return nil, fmt.Errorf("reading module %q: %w", entry.Name(), err)
			}
			d.Bytes = bytes
		}

		descriptors = append(descriptors, d)
	}

	return descriptors, nil
}

func classify(name string) (moduledesc.Kind, bool) {
	for _, rule := range suffixRules {
		if strings.HasSuffix(name, rule.suffix) {
			return rule.kind, true
		}
	}
	return 0, false
}
