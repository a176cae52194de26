package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"liars_dice/internal/domain"
	"liars_dice/internal/logger"
)

// PersonaStore persists persona memory. Load never fails the caller: a
// missing or unreadable record yields zero counters. Save upserts the given
// names and leaves every other name untouched (last writer wins per name).
type PersonaStore interface {
	Load(ctx context.Context, names []string) domain.Memory
	Save(ctx context.Context, mem domain.Memory) error
	All(ctx context.Context) (domain.Memory, error)
}

// decodeMemory reads a name -> counters JSON object. Entries that do not
// decode or hold negative counters are dropped; a document that is not an
// object at all is an error.
func decodeMemory(data []byte) (domain.Memory, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	mem := make(domain.Memory, len(raw))
	for name, entry := range raw {
		var s domain.PersonaStats
		if err := json.Unmarshal(entry, &s); err != nil || !s.Valid() {
			continue
		}
		mem[name] = s
	}
	return mem, nil
}

// pick returns an entry for every name, zero when absent from src.
func pick(src domain.Memory, names []string) domain.Memory {
	out := domain.NewMemory(names...)
	for _, n := range names {
		if s, ok := src[n]; ok {
			out[n] = s
		}
	}
	return out
}

// FilePersonaStore keeps persona memory in a single JSON file.
type FilePersonaStore struct {
	path string
	mu   sync.Mutex
}

func NewFilePersonaStore(path string) *FilePersonaStore {
	return &FilePersonaStore{path: path}
}

func (s *FilePersonaStore) Load(ctx context.Context, names []string) domain.Memory {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		logger.Warn("persona memory unreadable, starting fresh", "path", s.path, "error", err)
		all = domain.Memory{}
	}
	return pick(all, names)
}

func (s *FilePersonaStore) Save(ctx context.Context, mem domain.Memory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		// A corrupt file is replaced rather than blocking every save.
		all = domain.Memory{}
	}
	for name, st := range mem {
		all[name] = st
	}
	return writeJSONFile(s.path, all)
}

func (s *FilePersonaStore) All(ctx context.Context) (domain.Memory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FilePersonaStore) read() (domain.Memory, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Memory{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeMemory(data)
}

// writeJSONFile writes v next to path and renames it into place.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// MemoryPersonaStore is an in-process store, used by tests and as the
// fallback when no backend is configured.
type MemoryPersonaStore struct {
	mu  sync.RWMutex
	mem domain.Memory
}

func NewMemoryPersonaStore(seed domain.Memory) *MemoryPersonaStore {
	if seed == nil {
		seed = domain.Memory{}
	}
	return &MemoryPersonaStore{mem: seed.Clone()}
}

func (s *MemoryPersonaStore) Load(ctx context.Context, names []string) domain.Memory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pick(s.mem, names)
}

func (s *MemoryPersonaStore) Save(ctx context.Context, mem domain.Memory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, st := range mem {
		s.mem[name] = st
	}
	return nil
}

func (s *MemoryPersonaStore) All(ctx context.Context) (domain.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mem.Clone(), nil
}
