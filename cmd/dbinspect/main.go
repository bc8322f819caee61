// Package main prints a read-only summary of a Placar store: score totals
// and the current leaderboard.
//
// Usage:
//
//	go run ./cmd/dbinspect -dsn ~/.placar/placar.db -lang en
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/placarapp/placar-server/internal/config"
	"github.com/placarapp/placar-server/internal/di/providers"
	"github.com/placarapp/placar-server/internal/i18n"
	"github.com/placarapp/placar-server/internal/ranking"
)

func main() {
	driver := flag.String("driver", config.DriverSQLite, "Store driver (sqlite, postgres)")
	dsn := flag.String("dsn", "", "SQLite file or Postgres URL (default: ~/.placar/placar.db)")
	lang := flag.String("lang", "", "Language for labels (pt-BR, en)")
	top := flag.Int("top", 0, "Show only the first N players")
	flag.Parse()

	cfg := config.StoreConfig{Driver: *driver, DatabaseURL: *dsn, SQLitePath: *dsn}
	if *driver == config.DriverSQLite && cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join(os.ExpandEnv("$HOME"), ".placar", "placar.db")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	quiet := slog.New(slog.DiscardHandler)
	s, err := providers.OpenStore(ctx, cfg, quiet)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	records, err := s.ListScores(ctx)
	if err != nil {
		log.Fatalf("Failed to list scores: %v", err)
	}

	tag := i18n.Default()
	if *lang != "" {
		tag, _ = i18n.ParseTag(*lang)
	}
	agg := ranking.New(i18n.RankingLabels(tag))

	fmt.Println("=== Store Inspection ===")
	fmt.Println()
	fmt.Printf("Driver:  %s\n", cfg.Driver)
	fmt.Printf("Scores:  %d\n", len(records))

	entries := agg.Leaderboard(records, "")
	if *top > 0 {
		entries = agg.TopN(records, "", *top)
	}
	fmt.Printf("Players: %d\n", len(entries))
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println(i18n.T(tag, i18n.KeyLeaderboardEmpty))
		return
	}

	fmt.Printf("%-6s %-28s %10s %7s  %s\n", "RANK", "PLAYER", "BEST", "GAMES", "LAST PLAYED")
	for i, e := range entries {
		fmt.Printf("%-6s %-28s %10d %7d  %s\n",
			fmt.Sprintf("%s%d", ranking.Medal(i), e.Rank),
			e.DisplayName,
			e.BestScore,
			e.TotalGames,
			e.LastPlayed.Local().Format(time.DateTime),
		)
	}
}
