package config

import (
	"testing"

	"liars_dice/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "MEMORY_BACKEND", "STARTING_GOLD", "MIN_ANTE", "MAX_ANTE", "AUTOSAVE_TURNS", "DEFAULT_DIFFICULTY", "TURN_DELAY_MS", "GAME_RATE_LIMIT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.AppPort != "8080" || cfg.MemoryBackend != BackendFile {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.StartingGold != 100 || cfg.MinAnte != 1 || cfg.AutosaveTurns != 25 {
		t.Fatalf("game defaults = %+v", cfg)
	}
	if cfg.DefaultDifficulty != domain.DifficultyMedium || cfg.TurnDelayMS != 1000 {
		t.Fatalf("difficulty %s delay %d", cfg.DefaultDifficulty, cfg.TurnDelayMS)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MEMORY_BACKEND", "Redis")
	t.Setenv("STARTING_GOLD", "500")
	t.Setenv("MAX_ANTE", "-3")
	t.Setenv("AUTOSAVE_TURNS", "0")
	t.Setenv("TURN_DELAY_MS", "0")
	t.Setenv("DEFAULT_DIFFICULTY", "3")
	t.Setenv("LOG_JSON", "true")

	cfg := Load()
	if cfg.MemoryBackend != BackendRedis {
		t.Errorf("backend = %s", cfg.MemoryBackend)
	}
	if cfg.StartingGold != 500 {
		t.Errorf("starting gold = %d", cfg.StartingGold)
	}
	if cfg.MaxAnte != 100000 {
		t.Errorf("negative MAX_ANTE should fall back, got %d", cfg.MaxAnte)
	}
	if cfg.AutosaveTurns != 25 {
		t.Errorf("zero AUTOSAVE_TURNS should fall back, got %d", cfg.AutosaveTurns)
	}
	if cfg.TurnDelayMS != 0 {
		t.Errorf("zero TURN_DELAY_MS disables pacing, got %d", cfg.TurnDelayMS)
	}
	if cfg.DefaultDifficulty != domain.DifficultyHard || !cfg.LogJSON {
		t.Errorf("cfg = %+v", cfg)
	}
}
