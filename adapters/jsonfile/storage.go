package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"lifesystem/core"
)

// Store persists state blobs to a single JSON file holding one entry per slot.
// Suitable for a single device or small deployments.
type Store struct {
	path string
	slot string
	mu   sync.Mutex
}

func New(path, slot string) *Store {
	return &Store{path: path, slot: slot}
}

func (s *Store) Path() string { return s.path }

// read returns all slots. A missing file is empty; an unparseable file is a
// *core.DeserializationError.
func (s *Store) read() (map[string]json.RawMessage, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	slots := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &slots); err != nil {
		return nil, &core.DeserializationError{Err: err}
	}
	return slots, nil
}

func (s *Store) persist(slots map[string]json.RawMessage) error {
	tmp := s.path + ".tmp"
	b, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) Load(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slots, err := s.read()
	if err != nil {
		return nil, err
	}
	v, ok := slots[s.slot]
	if !ok {
		return nil, core.ErrNotFound
	}
	return v, nil
}

// Save replaces this store's slot. Other slots in the file are kept unless
// the file is unreadable JSON, in which case it is rewritten from scratch.
func (s *Store) Save(_ context.Context, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("jsonfile: refusing to save invalid JSON for slot %q", s.slot)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	slots, err := s.read()
	var de *core.DeserializationError
	if errors.As(err, &de) {
		slots = map[string]json.RawMessage{}
	} else if err != nil {
		return err
	}
	slots[s.slot] = json.RawMessage(append([]byte(nil), data...))
	return s.persist(slots)
}
