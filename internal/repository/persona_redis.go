package repository

import (
	"context"
	"encoding/json"

	"liars_dice/internal/domain"
	"liars_dice/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// PersonaKey is the Redis hash holding one JSON document per name.
const PersonaKey = "liarsdice:personas"

type RedisPersonaStore struct {
	rdb *redis.Client
	key string
}

func NewRedisPersonaStore(rdb *redis.Client) *RedisPersonaStore {
	return &RedisPersonaStore{rdb: rdb, key: PersonaKey}
}

func (s *RedisPersonaStore) Load(ctx context.Context, names []string) domain.Memory {
	if len(names) == 0 {
		return domain.Memory{}
	}
	vals, err := s.rdb.HMGet(ctx, s.key, names...).Result()
	if err != nil {
		logger.Warn("persona memory unavailable in redis, starting fresh", "error", err)
		return domain.NewMemory(names...)
	}
	out := domain.NewMemory(names...)
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var st domain.PersonaStats
		if err := json.Unmarshal([]byte(str), &st); err != nil || !st.Valid() {
			continue
		}
		out[names[i]] = st
	}
	return out
}

func (s *RedisPersonaStore) Save(ctx context.Context, mem domain.Memory) error {
	if len(mem) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(mem))
	for name, st := range mem {
		b, err := json.Marshal(st)
		if err != nil {
			return err
		}
		fields[name] = b
	}
	return s.rdb.HSet(ctx, s.key, fields).Err()
}

func (s *RedisPersonaStore) All(ctx context.Context) (domain.Memory, error) {
	raw, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, err
	}
	mem := make(domain.Memory, len(raw))
	for name, v := range raw {
		var st domain.PersonaStats
		if err := json.Unmarshal([]byte(v), &st); err != nil || !st.Valid() {
			continue
		}
		mem[name] = st
	}
	return mem, nil
}
