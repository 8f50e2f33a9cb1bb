package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-panel/internal/domain/alarm"
	"github.com/oshokin/alarm-panel/internal/domain/event"
)

// TestFileRepository_NotFound verifies Load returns ErrNotFound for missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.json"))

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

// TestFileRepository_SaveLoad_Roundtrip ensures Save followed by Load returns an equal snapshot.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "snapshot.json")
	repo := NewFileRepository(file)

	a := alarm.New(false)
	a.HandleEvent(&event.SystemStatusEvent{Type: event.ArmedAway})
	a.HandleEvent(&event.SystemStatusEvent{Type: event.Alarm})
	a.HandleEvent(&event.ZoneUpdate{RequestID: event.ZoneInputUnsealed, IncludedZones: event.ZonesOf(5)})

	want := a.Snapshot()

	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)

	contents, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(contents), "TRIGGERED")
}

// TestFileRepository_Corrupted verifies garbage files are reported as decode errors.
func TestFileRepository_Corrupted(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(file, []byte("{\"arming_state\": \"PANIC\"}"), 0o600))

	_, err := NewFileRepository(file).Load(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}
