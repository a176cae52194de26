package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"

	"liars_dice/internal/domain"
	"liars_dice/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

// DefeatedStore is the per-difficulty list of opponents the player has
// beaten, in the order they fell. Lists only grow.
type DefeatedStore interface {
	Append(ctx context.Context, d domain.Difficulty, names []string) error
	List(ctx context.Context, d domain.Difficulty) ([]string, error)
}

// FileDefeatedStore keeps {"easy": [...], "medium": [...], "hard": [...]}.
type FileDefeatedStore struct {
	path string
	mu   sync.Mutex
}

func NewFileDefeatedStore(path string) *FileDefeatedStore {
	return &FileDefeatedStore{path: path}
}

func (s *FileDefeatedStore) Append(ctx context.Context, d domain.Difficulty, names []string) error {
	if len(names) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.read()
	all[d] = append(all[d], names...)
	return writeJSONFile(s.path, all)
}

func (s *FileDefeatedStore) List(ctx context.Context, d domain.Difficulty) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.read()[d]...), nil
}

func (s *FileDefeatedStore) read() map[domain.Difficulty][]string {
	all := make(map[domain.Difficulty][]string, len(domain.Difficulties))
	for _, d := range domain.Difficulties {
		all[d] = []string{}
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("defeated list unreadable, starting fresh", "path", s.path, "error", err)
		}
		return all
	}
	var raw map[domain.Difficulty][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("defeated list corrupt, starting fresh", "path", s.path, "error", err)
		return all
	}
	for d, names := range raw {
		if d.Valid() {
			all[d] = names
		}
	}
	return all
}

type MemoryDefeatedStore struct {
	mu   sync.RWMutex
	lists map[domain.Difficulty][]string
}

func NewMemoryDefeatedStore() *MemoryDefeatedStore {
	return &MemoryDefeatedStore{lists: map[domain.Difficulty][]string{}}
}

func (s *MemoryDefeatedStore) Append(ctx context.Context, d domain.Difficulty, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[d] = append(s.lists[d], names...)
	return nil
}

func (s *MemoryDefeatedStore) List(ctx context.Context, d domain.Difficulty) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.lists[d]...), nil
}

type PgDefeatedStore struct {
	db *pgxpool.Pool
}

func NewPgDefeatedStore(db *pgxpool.Pool) *PgDefeatedStore {
	return &PgDefeatedStore{db: db}
}

func (s *PgDefeatedStore) Append(ctx context.Context, d domain.Difficulty, names []string) error {
	if len(names) == 0 {
		return nil
	}
	// unnest WITH ORDINALITY keeps the elimination order in the id sequence
	_, err := s.db.Exec(ctx,
		`INSERT INTO defeated (difficulty, name)
		 SELECT $1, n FROM unnest($2::text[]) WITH ORDINALITY AS t(n, ord) ORDER BY ord`,
		string(d), names,
	)
	return err
}

func (s *PgDefeatedStore) List(ctx context.Context, d domain.Difficulty) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT name FROM defeated WHERE difficulty = $1 ORDER BY id`,
		string(d),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// RedisDefeatedStore keeps one list per difficulty.
type RedisDefeatedStore struct {
	rdb *redis.Client
}

func NewRedisDefeatedStore(rdb *redis.Client) *RedisDefeatedStore {
	return &RedisDefeatedStore{rdb: rdb}
}

func defeatedKey(d domain.Difficulty) string {
	return "liarsdice:defeated:" + string(d)
}

func (s *RedisDefeatedStore) Append(ctx context.Context, d domain.Difficulty, names []string) error {
	if len(names) == 0 {
		return nil
	}
	vals := make([]interface{}, len(names))
	for i, n := range names {
		vals[i] = n
	}
	return s.rdb.RPush(ctx, defeatedKey(d), vals...).Err()
}

func (s *RedisDefeatedStore) List(ctx context.Context, d domain.Difficulty) ([]string, error) {
	return s.rdb.LRange(ctx, defeatedKey(d), 0, -1).Result()
}
