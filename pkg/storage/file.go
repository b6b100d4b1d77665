package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const workspaceFile = "workspace.json"

// FileStore keeps the workspace in a single JSON file. Writes go to a
// temporary file that is renamed into place.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

type fileLayout struct {
	Meta       json.RawMessage   `json:"meta"`
	Ontologies []json.RawMessage `json:"ontologies"`
}

// NewFileStore creates a file store in baseDir.
// If baseDir is empty, defaults to ~/.config/ontoforge/.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "ontoforge")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) Save(ctx context.Context, st *State) error {
	meta, recs, err := encodeState(st)
	if err != nil {
		return err
	}
	layout := fileLayout{Meta: meta, Ontologies: make([]json.RawMessage, len(recs))}
	for i, r := range recs {
		layout.Ontologies[i] = r.Payload
	}
	data, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.baseDir, workspaceFile+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write workspace file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write workspace file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("replace workspace file: %w", err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read workspace file: %w", err)
	}
	var layout fileLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("parse workspace file: %w", err)
	}
	recs := make([]record, len(layout.Ontologies))
	for i, raw := range layout.Ontologies {
		recs[i] = record{ID: fmt.Sprintf("#%d", i), Payload: raw}
	}
	return decodeState(layout.Meta, recs)
}

func (s *FileStore) Close() error { return nil }

// Path returns the workspace file path.
func (s *FileStore) Path() string {
	return filepath.Join(s.baseDir, workspaceFile)
}

var _ Store = (*FileStore)(nil)
