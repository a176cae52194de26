package repository

import (
	"fmt"

	"liars_dice/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

// Backends holds whatever connections the process managed to open.
type Backends struct {
	DB           *pgxpool.Pool
	Redis        *redis.Client
	MemoryFile   string
	DefeatedFile string
}

// NewStores picks the persona and defeated stores for backend. A database
// backend without its connection is an error, so a misconfigured server
// does not silently forget.
func NewStores(backend string, b Backends) (PersonaStore, DefeatedStore, error) {
	switch backend {
	case config.BackendPostgres:
		if b.DB == nil {
			return nil, nil, fmt.Errorf("memory backend %q needs DATABASE_URL", backend)
		}
		return NewPgPersonaStore(b.DB), NewPgDefeatedStore(b.DB), nil
	case config.BackendRedis:
		if b.Redis == nil {
			return nil, nil, fmt.Errorf("memory backend %q needs a reachable REDIS_ADDR", backend)
		}
		return NewRedisPersonaStore(b.Redis), NewRedisDefeatedStore(b.Redis), nil
	case config.BackendMemory:
		return NewMemoryPersonaStore(nil), NewMemoryDefeatedStore(), nil
	case config.BackendFile, "":
		return NewFilePersonaStore(b.MemoryFile), NewFileDefeatedStore(b.DefeatedFile), nil
	default:
		return nil, nil, fmt.Errorf("unknown memory backend %q", backend)
	}
}
