package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"liars_dice/internal/config"
	"liars_dice/internal/db"
	"liars_dice/internal/logger"
)

func main() {
	apply := flag.Bool("apply", false, "apply migrations instead of listing them")
	dir := flag.String("dir", filepath.Join("internal", "migrations"), "migrations directory")
	flag.Parse()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	files, err := os.ReadDir(*dir)
	if err != nil {
		logger.Fatal("read migrations dir", "dir", *dir, "error", err)
	}
	var names []string
	for _, f := range files {
		if !f.IsDir() && strings.HasSuffix(f.Name(), ".sql") {
			names = append(names, f.Name())
		}
	}
	sort.Strings(names)

	if !*apply {
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	pool := db.Connect(cfg.DatabaseURL)
	defer pool.Close()

	ctx := context.Background()
	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(*dir, name))
		if err != nil {
			logger.Fatal("read migration", "file", name, "error", err)
		}
		if _, err := pool.Exec(ctx, string(b)); err != nil {
			logger.Fatal("failed to apply migration", "file", name, "error", err)
		}
		fmt.Printf("applied %s\n", name)
	}
}
