package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bhabhi.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Seats, 4)
	assert.True(t, cfg.Seats[0].Human)
	assert.False(t, cfg.Seats[1].Human)
	assert.Equal(t, 30, cfg.Game.FPS)
	assert.Equal(t, "bhabhi.log", cfg.Log.File)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
game {
  seed          = 42
  cpu_delay     = "500ms"
  trick_display = "2s"
  fps           = 60
}

log {
  level = "debug"
}

seat "Asha" {
  human = true
}
seat "Bot-1" {}
seat "Bot-2" {}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.Equal(t, 60, cfg.Game.FPS)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())
	assert.Equal(t, "bhabhi.log", cfg.Log.File)
	assert.Equal(t, time.Second/60, cfg.TickInterval())

	cc := cfg.ControllerConfig()
	assert.Equal(t, 500*time.Millisecond, cc.CPUDelay)
	assert.Equal(t, 2*time.Second, cc.TrickDisplay)
	assert.Equal(t, 350*time.Millisecond, cc.PlayHold)

	seats := cfg.SeatConfigs()
	require.Len(t, seats, 3)
	assert.Equal(t, "Asha", seats[0].Name)
	assert.True(t, seats[0].Human)
	assert.Equal(t, "Bot-2", seats[2].Name)
}

func TestLoadWithoutBlocks(t *testing.T) {
	cfg, err := Load(writeConfig(t, "seat \"A\" {}\nseat \"B\" {}\nseat \"C\" {}\n"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "1s", cfg.Game.CPUDelay)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadInvalidHCL(t *testing.T) {
	_, err := Load(writeConfig(t, "game {"))
	assert.ErrorContains(t, err, "failed to parse HCL file")

	_, err = Load(writeConfig(t, "game { unknown = 1 }"))
	assert.ErrorContains(t, err, "failed to decode HCL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default is valid", func(*Config) {}, ""},
		{"too few seats", func(c *Config) { c.Seats = c.Seats[:2] }, "need 3 to 6 seats"},
		{"too many seats", func(c *Config) {
			for i := 0; i < 3; i++ {
				c.Seats = append(c.Seats, SeatConfig{Name: string(rune('a' + i))})
			}
		}, "need 3 to 6 seats"},
		{"duplicate names", func(c *Config) { c.Seats[2].Name = c.Seats[1].Name }, "duplicate seat name"},
		{"bad duration", func(c *Config) { c.Game.PlayHold = "soon" }, "game play_hold"},
		{"negative duration", func(c *Config) { c.Game.CPUDelay = "-1s" }, "must not be negative"},
		{"bad fps", func(c *Config) { c.Game.FPS = 0 }, "fps must be between"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
