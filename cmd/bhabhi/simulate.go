package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/bhabhi/cmd/bhabhi/shared"
	"github.com/lox/bhabhi/internal/game"
	"github.com/lox/bhabhi/internal/randutil"
	"github.com/lox/bhabhi/internal/simulator"
)

// SimulateCmd runs CPU-only games in bulk
type SimulateCmd struct {
	Games      int    `kong:"default='1000',help='Number of games to simulate'"`
	Seats      int    `kong:"default='4',help='Seats per game (3-6)'"`
	Seed       int64  `kong:"default='0',help='RNG seed (0 for random)'"`
	Workers    int    `kong:"default='0',help='Concurrent games (0 for GOMAXPROCS)'"`
	MaxTricks  int    `kong:"default='2000',help='Abandon a game after this many tricks'"`
	HistoryDir string `kong:"help='Write each finished game to this directory'"`
	Verbose    bool   `kong:"short='V',help='Verbose logging'"`
}

func (c *SimulateCmd) Run() error {
	level := log.WarnLevel
	if c.Verbose {
		level = log.DebugLevel
	}
	logger := shared.SetupLogger(os.Stderr, level, "")

	seed := randutil.ResolveSeed(c.Seed)
	fmt.Printf("Starting simulation: %d games, %d seats (seed: %d)\n", c.Games, c.Seats, seed)

	cfg := simulator.Config{
		Games:     c.Games,
		Seats:     c.Seats,
		Seed:      seed,
		Workers:   c.Workers,
		MaxTricks: c.MaxTricks,
		Logger:    logger,
	}
	if c.HistoryDir != "" {
		cfg.History = game.NewFileHistoryWriter(c.HistoryDir)
	}

	ctx := shared.SetupSignalHandler(logger, "simulation")
	startTime := time.Now()
	stats, err := simulator.New(cfg).Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	simulator.PrintSummary(os.Stdout, stats)
	elapsed := time.Since(startTime)
	fmt.Printf("\nCompleted in %s (%.0f games/sec)\n",
		elapsed.Round(time.Millisecond), float64(stats.Games+stats.Stalled)/elapsed.Seconds())
	return nil
}
