package repository

import (
	"path/filepath"
	"testing"

	"liars_dice/internal/config"
)

func TestNewStores(t *testing.T) {
	dir := t.TempDir()
	b := Backends{
		MemoryFile:   filepath.Join(dir, "memory.json"),
		DefeatedFile: filepath.Join(dir, "defeated.json"),
	}

	p, d, err := NewStores(config.BackendFile, b)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*FilePersonaStore); !ok {
		t.Fatalf("persona store = %T", p)
	}
	if _, ok := d.(*FileDefeatedStore); !ok {
		t.Fatalf("defeated store = %T", d)
	}

	p, _, err = NewStores(config.BackendMemory, b)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*MemoryPersonaStore); !ok {
		t.Fatalf("persona store = %T", p)
	}

	for _, backend := range []string{config.BackendPostgres, config.BackendRedis, "etcd"} {
		if _, _, err := NewStores(backend, b); err == nil {
			t.Errorf("backend %q without a connection should fail", backend)
		}
	}
}
