package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"

	"github.com/lox/bhabhi/cmd/bhabhi/shared"
	"github.com/lox/bhabhi/internal/config"
	"github.com/lox/bhabhi/internal/game"
	"github.com/lox/bhabhi/internal/randutil"
	"github.com/lox/bhabhi/internal/tui"
)

// PlayCmd runs an interactive game
type PlayCmd struct {
	Config     string        `kong:"default='bhabhi.hcl',help='Path to HCL config file (defaults apply if missing)'"`
	Seed       *int64        `kong:"help='Deterministic RNG seed (overrides config)'"`
	Seats      int           `kong:"help='Number of seats from 3 to 6 (overrides config; seat 1 is you)'"`
	Watch      bool          `kong:"help='CPU players take every seat'"`
	CPUDelay   time.Duration `kong:"name='cpu-delay',help='Pause before each CPU play (overrides config)'"`
	FPS        int           `kong:"help='Screen refresh rate (overrides config)'"`
	LogFile    string        `kong:"help='Log file (overrides config)'"`
	HistoryDir string        `kong:"help='Write each finished game to this directory'"`
	Debug      bool          `kong:"help='Enable debug logging'"`
	NoColor    bool          `kong:"help='Disable colours'"`
}

// load applies command-line overrides to the file config
func (c *PlayCmd) load() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.Seed != nil {
		cfg.Game.Seed = *c.Seed
	}
	if c.Seats > 0 {
		cfg.Seats = make([]config.SeatConfig, c.Seats)
		cfg.Seats[0] = config.SeatConfig{Name: "You", Human: true}
		for i := 1; i < c.Seats; i++ {
			cfg.Seats[i] = config.SeatConfig{Name: fmt.Sprintf("CPU-%d", i)}
		}
	}
	if c.Watch {
		for i := range cfg.Seats {
			cfg.Seats[i].Human = false
		}
	}
	if c.CPUDelay > 0 {
		cfg.Game.CPUDelay = c.CPUDelay.String()
	}
	if c.FPS > 0 {
		cfg.Game.FPS = c.FPS
	}
	if c.LogFile != "" {
		cfg.Log.File = c.LogFile
	}
	if c.HistoryDir != "" {
		cfg.Game.HistoryDir = c.HistoryDir
	}
	if c.Debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *PlayCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}

	logFile, err := shared.OpenLogFile(cfg.Log.File)
	if err != nil {
		return err
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()
	logger := shared.SetupLogger(logFile, cfg.LogLevel(), "bhabhi")

	if c.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	seed := randutil.ResolveSeed(cfg.Game.Seed)
	logger.Info("Starting interactive game", "seats", len(cfg.Seats), "seed", seed)

	clock := quartz.NewReal()
	engine := game.NewEngine(randutil.New(seed), logger, game.WithClock(clock))
	if cfg.Game.HistoryDir != "" {
		engine.EventBus().Subscribe(game.NewHistory(game.NewFileHistoryWriter(cfg.Game.HistoryDir), logger.WithPrefix("history")))
	}
	ctrl := game.NewController(engine, clock, cfg.ControllerConfig(), logger)

	seats := cfg.SeatConfigs()
	model := tui.New(ctrl, seats, cfg.TickInterval(), logger)
	if err := ctrl.Start(seats); err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	ctx := shared.SetupSignalHandler(logger, "game")
	if err := tui.Run(ctx, model); err != nil {
		return err
	}
	logger.Info("Session ended")
	return nil
}
