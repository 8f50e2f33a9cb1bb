//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"os"
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"
)

// fakeProcess is a static ps.Process.
type fakeProcess struct {
	pid        int
	executable string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.executable }

// TestEnsureSingleInstance verifies other processes with the same name are detected.
//
//nolint:paralleltest // Replaces the package-level process lister.
func TestEnsureSingleInstance(t *testing.T) {
	original := processLister

	t.Cleanup(func() {
		processLister = original
	})

	processLister = func() ([]ps.Process, error) {
		return []ps.Process{
			fakeProcess{pid: os.Getpid(), executable: "alarm-monitor"},
			fakeProcess{pid: os.Getpid() + 1, executable: "alarm-status"},
		}, nil
	}

	// Only this process runs alarm-monitor.
	require.NoError(t, EnsureSingleInstance("alarm-monitor"))

	processLister = func() ([]ps.Process, error) {
		return []ps.Process{
			fakeProcess{pid: os.Getpid() + 1, executable: "alarm-monitor"},
		}, nil
	}

	require.ErrorIs(t, EnsureSingleInstance("alarm-monitor"), ErrAnotherInstance)
}

// TestEnsureSingleInstance_RealProcessTable runs against the real process table.
//
//nolint:paralleltest // Other tests replace the process lister.
func TestEnsureSingleInstance_RealProcessTable(t *testing.T) {
	require.NoError(t, EnsureSingleInstance("alarm-panel-test-binary-that-does-not-exist"))
}
