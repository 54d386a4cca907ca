package config

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/bhabhi/internal/game"
)

// Config represents the complete game configuration
type Config struct {
	Game  *GameSettings `hcl:"game,block"`
	Log   *LogSettings  `hcl:"log,block"`
	Seats []SeatConfig  `hcl:"seat,block"`
}

// GameSettings contains timing and dealing configuration. Durations are Go
// duration strings ("350ms", "3s").
type GameSettings struct {
	Seed         int64  `hcl:"seed,optional"`
	CPUDelay     string `hcl:"cpu_delay,optional"`
	TrickDisplay string `hcl:"trick_display,optional"`
	PlayHold     string `hcl:"play_hold,optional"`
	FPS          int    `hcl:"fps,optional"`
	HistoryDir   string `hcl:"history_dir,optional"`
}

// LogSettings contains logging configuration
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// SeatConfig defines one seat at the table
type SeatConfig struct {
	Name  string `hcl:"name,label"`
	Human bool   `hcl:"human,optional"`
}

const (
	defaultCPUDelay     = "1s"
	defaultTrickDisplay = "3s"
	defaultPlayHold     = "350ms"
	defaultFPS          = 30
	defaultLogLevel     = "info"
	defaultLogFile      = "bhabhi.log"
)

// Default returns the default configuration: one human against three CPUs
func Default() *Config {
	c := &Config{
		Seats: []SeatConfig{
			{Name: "You", Human: true},
			{Name: "CPU-1"},
			{Name: "CPU-2"},
			{Name: "CPU-3"},
		},
	}
	c.applyDefaults()
	return c
}

// Load loads configuration from an HCL file. A missing file yields Default().
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if len(config.Seats) == 0 {
		config.Seats = Default().Seats
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	if c.Log == nil {
		c.Log = &LogSettings{}
	}
	if c.Game.CPUDelay == "" {
		c.Game.CPUDelay = defaultCPUDelay
	}
	if c.Game.TrickDisplay == "" {
		c.Game.TrickDisplay = defaultTrickDisplay
	}
	if c.Game.PlayHold == "" {
		c.Game.PlayHold = defaultPlayHold
	}
	if c.Game.FPS == 0 {
		c.Game.FPS = defaultFPS
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.File == "" {
		c.Log.File = defaultLogFile
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Seats) < game.MinSeats || len(c.Seats) > game.MaxSeats {
		return fmt.Errorf("need %d to %d seats, got %d", game.MinSeats, game.MaxSeats, len(c.Seats))
	}

	names := make(map[string]bool)
	for _, s := range c.Seats {
		if s.Name == "" {
			return fmt.Errorf("seat name must not be empty")
		}
		if names[s.Name] {
			return fmt.Errorf("duplicate seat name %q", s.Name)
		}
		names[s.Name] = true
	}

	durations := map[string]string{
		"cpu_delay":     c.Game.CPUDelay,
		"trick_display": c.Game.TrickDisplay,
		"play_hold":     c.Game.PlayHold,
	}
	for field, value := range durations {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("game %s: %w", field, err)
		}
		if d < 0 {
			return fmt.Errorf("game %s must not be negative", field)
		}
	}

	if c.Game.FPS < 1 || c.Game.FPS > 120 {
		return fmt.Errorf("fps must be between 1 and 120, got %d", c.Game.FPS)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}

// ControllerConfig converts the game timings. Call Validate first.
func (c *Config) ControllerConfig() game.ControllerConfig {
	return game.ControllerConfig{
		CPUDelay:     duration(c.Game.CPUDelay),
		PlayHold:     duration(c.Game.PlayHold),
		TrickDisplay: duration(c.Game.TrickDisplay),
	}
}

// SeatConfigs returns the seats in table order
func (c *Config) SeatConfigs() []game.SeatConfig {
	seats := make([]game.SeatConfig, len(c.Seats))
	for i, s := range c.Seats {
		seats[i] = game.SeatConfig{Name: s.Name, Human: s.Human}
	}
	return seats
}

// LogLevel returns the parsed log level, defaulting to info
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// TickInterval is the presentation frame interval
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Game.FPS)
}

func duration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
