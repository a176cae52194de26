package config

import (
	"os"
	"strconv"
	"strings"

	"liars_dice/internal/domain"
	"liars_dice/internal/logger"

	"github.com/joho/godotenv"
)

// Memory backends for persona memory and defeated lists.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MemoryBackend string
	MemoryFile    string
	DefeatedFile  string

	// Игровые параметры
	StartingGold      int64
	MinAnte           int64
	MaxAnte           int64
	AutosaveTurns     int
	DefaultDifficulty domain.Difficulty
	TurnDelayMS       int

	LogLevel string
	LogJSON  bool

	APIRateLimit   int
	APIRateWindow  int
	GameRateLimit  int
	GameRateWindow int
}

// Загрузка конфига из env. Обязательные переменные проверяет вызывающий код:
// консольной игре база не нужна, серверу нужен JWT_SECRET.
func Load() *Config {
	_ = godotenv.Load()

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("MEMORY_BACKEND")))
	switch backend {
	case BackendFile, BackendPostgres, BackendRedis, BackendMemory:
	case "":
		backend = BackendFile
	default:
		logger.Warn("unknown MEMORY_BACKEND, using file", "value", backend)
		backend = BackendFile
	}

	difficulty, err := domain.ParseDifficulty(os.Getenv("DEFAULT_DIFFICULTY"))
	if err != nil {
		difficulty = domain.DifficultyMedium
	}

	return &Config{
		AppPort:     port,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       intEnv("REDIS_DB", 0, true),

		MemoryBackend: backend,
		MemoryFile:    stringEnv("MEMORY_FILE", "persona_memory.json"),
		DefeatedFile:  stringEnv("DEFEATED_FILE", "defeated.json"),

		StartingGold:      int64Env("STARTING_GOLD", 100),
		MinAnte:           int64Env("MIN_ANTE", 1),
		MaxAnte:           int64Env("MAX_ANTE", 100000), // максимум 100к
		AutosaveTurns:     intEnv("AUTOSAVE_TURNS", 25, false),
		DefaultDifficulty: difficulty,
		TurnDelayMS:       intEnv("TURN_DELAY_MS", 1000, true),

		LogLevel: stringEnv("LOG_LEVEL", "info"),
		LogJSON:  os.Getenv("LOG_JSON") == "true",

		APIRateLimit:   intEnv("API_RATE_LIMIT", 10, false),
		APIRateWindow:  intEnv("API_RATE_WINDOW_SECONDS", 60, false),
		GameRateLimit:  intEnv("GAME_RATE_LIMIT", 60, false), // макс матчей за ->
		GameRateWindow: intEnv("GAME_RATE_WINDOW", 60, false), // -> 60 секунд
	}
}

func stringEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// intEnv reads a positive integer, or a non-negative one when zeroOK is set.
func intEnv(key string, def int, zeroOK bool) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 || (n == 0 && !zeroOK) {
		logger.Warn("ignoring invalid env value", "key", key, "value", v)
		return def
	}
	return n
}

func int64Env(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n <= 0 {
		logger.Warn("ignoring invalid env value", "key", key, "value", v)
		return def
	}
	return n
}
