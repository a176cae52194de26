package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"liars_dice/internal/config"
	"liars_dice/internal/console"
	"liars_dice/internal/db"
	"liars_dice/internal/domain"
	"liars_dice/internal/logger"
	"liars_dice/internal/repository"
	"liars_dice/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

const defaultNames = "Jerry,Bob,Mark,Lucy,Tom,Alice,Sam"

func main() {
	players := flag.Int("players", 8, "seats at the table, you included")
	ante := flag.Int64("ante", 0, "gold each player puts in the pot (asked when 0)")
	difficulty := flag.String("difficulty", "", "easy, medium or hard (asked when empty)")
	names := flag.String("names", defaultNames, "comma-separated opponent names")
	player := flag.String("player", "Knight", "your name at the table")
	flag.Parse()

	cfg := config.Load()
	level := cfg.LogLevel
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	logger.InitWriter(os.Stderr, level, cfg.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := openDB(ctx, cfg.DatabaseURL)
	if pool != nil {
		defer pool.Close()
	}
	rdb := openRedis(ctx, cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	personas, defeated, err := repository.NewStores(cfg.MemoryBackend, repository.Backends{
		DB: pool, Redis: rdb, MemoryFile: cfg.MemoryFile, DefeatedFile: cfg.DefeatedFile,
	})
	if err != nil {
		logger.Warn("falling back to file memory", "error", err)
		personas, defeated, _ = repository.NewStores(config.BackendFile, repository.Backends{
			MemoryFile: cfg.MemoryFile, DefeatedFile: cfg.DefeatedFile,
		})
	}

	opts := []service.MatchOption{
		service.WithLimits(service.Limits{MinAnte: cfg.MinAnte, MaxAnte: cfg.MaxAnte}),
		service.WithAutosaveTurns(cfg.AutosaveTurns),
	}
	wallet := service.Wallet(service.NewMemoryWallet(cfg.StartingGold))
	if pool != nil {
		if _, err := repository.NewPlayerRepository(pool).GetByName(ctx, *player); err == nil {
			wallet = service.NewBalanceService(pool)
			opts = append(opts, service.WithHistory(repository.NewMatchHistoryRepository(pool)))
		} else {
			logger.Warn("player not in database, playing with local gold", "player", *player, "error", err)
		}
	}
	svc := service.NewMatchService(wallet, personas, defeated, opts...)

	color := os.Getenv("NO_COLOR") == ""
	human := console.NewHuman(os.Stdin, os.Stdout, color)

	balance, err := wallet.GetBalance(ctx, *player)
	if err != nil {
		fail(err)
	}
	fmt.Printf("%s has %d gold.\n", *player, balance)

	if *ante <= 0 {
		*ante = askAnte(ctx, human)
	}
	d, err := domain.ParseDifficulty(*difficulty)
	if err != nil {
		d = askDifficulty(ctx, human, cfg.DefaultDifficulty)
	}
	fmt.Printf("\nDifficulty set to %s\n", d)
	fmt.Println("\n--REMINDER--")
	fmt.Println("Enter your bid as 'quantity face', e.g. 3 4 (at least 3 of the dice show a 4).")

	renderer := console.NewRenderer(os.Stdout, nil, console.WithColor(color), console.WithPacing(cfg.TurnDelayMS))
	out, err := svc.Play(ctx, service.MatchRequest{
		Player:     *player,
		Players:    *players,
		Ante:       *ante,
		Difficulty: d,
		Names:      splitNames(*names),
	}, human, renderer)
	if out == nil {
		fail(err)
	}

	fmt.Printf("\nAnte %d, payout %d, net %+d. %s now has %d gold.\n", out.Ante, out.Payout, out.Delta, *player, out.Balance)
	if len(out.Defeated) > 0 {
		fmt.Printf("Defeated at %s: %s\n", d, strings.Join(out.Defeated, ", "))
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fail(err)
	}
}

func askAnte(ctx context.Context, h *console.Human) int64 {
	for {
		line, err := h.Ask(ctx, "Enter your gold bet per player: ")
		if err != nil {
			os.Exit(0)
		}
		n, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			fmt.Println("That's not a number, try again.")
			continue
		}
		if n <= 0 {
			fmt.Println("Enter a positive integer.")
			continue
		}
		return n
	}
}

func askDifficulty(ctx context.Context, h *console.Human, def domain.Difficulty) domain.Difficulty {
	fmt.Println("Select difficulty:\n[1] Easy\n[2] Medium\n[3] Hard")
	line, err := h.Ask(ctx, "Enter: ")
	if err != nil {
		os.Exit(0)
	}
	d, err := domain.ParseDifficulty(line)
	if err != nil {
		return def
	}
	return d
}

func splitNames(s string) []string {
	var out []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func openDB(ctx context.Context, dsn string) *pgxpool.Pool {
	if dsn == "" {
		return nil
	}
	pool, err := db.Open(ctx, dsn)
	if err != nil {
		logger.Warn("database unavailable, using local storage", "error", err)
		return nil
	}
	return pool
}

func openRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable", "addr", cfg.RedisAddr, "error", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func fail(err error) {
	switch {
	case errors.Is(err, service.ErrInsufficientBalance):
		fmt.Fprintln(os.Stderr, "You don't have enough gold for that ante.")
	case errors.Is(err, service.ErrInvalidAnte):
		fmt.Fprintln(os.Stderr, "That ante is outside the table limits.")
	case errors.Is(err, service.ErrTooFewPlayers):
		fmt.Fprintln(os.Stderr, "A table needs at least 2 players.")
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(1)
}
