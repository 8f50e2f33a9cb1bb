package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-panel/internal/codec"
	"github.com/oshokin/alarm-panel/internal/config"
	"github.com/oshokin/alarm-panel/internal/domain/alarm"
)

// Repository defines snapshot export operations.
type Repository interface {
	Load(ctx context.Context) (alarm.Snapshot, error)
	Save(ctx context.Context, snapshot alarm.Snapshot) error
}

// FileRepository stores a snapshot in a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the JSON file.
	path string
	// mu protects concurrent access to the file.
	mu sync.Mutex
}

// ErrNotFound is returned when the snapshot file does not exist yet.
var ErrNotFound = errors.New("snapshot not found")

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the file location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the snapshot from disk.
func (r *FileRepository) Load(_ context.Context) (alarm.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return alarm.Snapshot{}, ErrNotFound
		}

		return alarm.Snapshot{}, fmt.Errorf("read snapshot file: %w", err)
	}

	var value structpb.Struct
	if err = protojson.Unmarshal(contents, &value); err != nil {
		return alarm.Snapshot{}, fmt.Errorf("decode snapshot file: %w", err)
	}

	snapshot, err := codec.FromStruct(&value)
	if err != nil {
		return alarm.Snapshot{}, fmt.Errorf("decode snapshot file: %w", err)
	}

	return snapshot, nil
}

// Save writes the snapshot to disk as indented JSON.
func (r *FileRepository) Save(_ context.Context, snapshot alarm.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	value, err := codec.ToStruct(snapshot)
	if err != nil {
		return err
	}

	marshalOptions := protojson.MarshalOptions{
		Multiline:       true,
		EmitUnpopulated: true,
	}

	data, err := marshalOptions.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}

	return nil
}
