//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-ps"
)

// ErrAnotherInstance is returned when the same executable is already running.
var ErrAnotherInstance = errors.New("another instance is already running")

// processLister returns the running processes. Replaced in tests.
//
//nolint:gochecknoglobals // Test seam for the process table.
var processLister = ps.Processes

// EnsureSingleInstance fails with ErrAnotherInstance when a process other than
// the current one runs an executable named name. An empty name means the
// current executable.
func EnsureSingleInstance(name string) error {
	if name == "" {
		executable, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve executable: %w", err)
		}

		name = filepath.Base(executable)
	}

	processList, err := processLister()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if !sameExecutable(process.Executable(), name) {
			continue
		}

		return fmt.Errorf("%w: %s (pid %d)", ErrAnotherInstance, name, process.Pid())
	}

	return nil
}

// sameExecutable compares names, ignoring case and the extension on Windows.
func sameExecutable(a, b string) bool {
	if runtime.GOOS != "windows" {
		return a == b
	}

	return strings.EqualFold(strings.TrimSuffix(a, ".exe"), strings.TrimSuffix(b, ".exe"))
}
