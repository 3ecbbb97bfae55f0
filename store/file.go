package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tifye/fairway/assert"
	"github.com/tifye/fairway/rules"
	"github.com/tifye/fairway/sim"
)

// FileStore keeps one SimulationState as a JSON snapshot on disk. Saves
// go through a temp file and a rename so a crash mid-write never leaves
// a half-written state behind.
type FileStore struct {
	path  string
	rules *rules.Rules
}

func NewFileStore(path string, r *rules.Rules) *FileStore {
	assert.AssertNotEmpty(path)
	assert.AssertNotNil(r)
	return &FileStore{
		path:  path,
		rules: r,
	}
}

func (f *FileStore) Path() string {
	return f.path
}

// Load reads the snapshot, creating and persisting a fresh initial state
// when none exists yet.
func (f *FileStore) Load() (*sim.State, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		state := InitialState(f.rules)
		if err := f.Save(state); err != nil {
			return nil, err
		}
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var dto StateDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("decode state file %s: %w", f.path, err)
	}
	return FromDTO(dto), nil
}

func (f *FileStore) Save(state *sim.State) error {
	data, err := json.MarshalIndent(ToDTO(state), "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func (f *FileStore) Reset() (*sim.State, error) {
	state := InitialState(f.rules)
	if err := f.Save(state); err != nil {
		return nil, err
	}
	return state, nil
}

// Remove deletes the snapshot, typically on session teardown.
func (f *FileStore) Remove() error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
