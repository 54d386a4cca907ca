package simulator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bhabhi/internal/game"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestPlayGameConservesAndRanks(t *testing.T) {
	for seats := game.MinSeats; seats <= game.MaxSeats; seats++ {
		sim := New(Config{Games: 1, Seats: seats, Logger: testLogger()})
		result, err := sim.PlayGame(int64(seats) * 1000)
		require.NoError(t, err)
		assert.NotEmpty(t, result.GameID)
		assert.Positive(t, result.Tricks)

		if result.Stalled {
			continue
		}
		require.Len(t, result.Ranks, seats)
		seen := make(map[int]bool)
		for _, r := range result.Ranks {
			assert.GreaterOrEqual(t, r, 1)
			assert.LessOrEqual(t, r, seats)
			assert.False(t, seen[r], "rank %d assigned twice", r)
			seen[r] = true
		}
		assert.LessOrEqual(t, result.Tochoos, result.Tricks)
	}
}

func TestPlayGameIsDeterministic(t *testing.T) {
	sim := New(Config{Games: 1, Seats: 4, Logger: testLogger()})

	a, err := sim.PlayGame(99)
	require.NoError(t, err)
	b, err := sim.PlayGame(99)
	require.NoError(t, err)

	assert.Equal(t, a.Ranks, b.Ranks)
	assert.Equal(t, a.Tricks, b.Tricks)
	assert.Equal(t, a.Tochoos, b.Tochoos)
	assert.Equal(t, a.Stalled, b.Stalled)
}

func TestRunIndependentOfWorkers(t *testing.T) {
	one, err := New(Config{Games: 12, Seats: 4, Seed: 5, Workers: 1, Logger: testLogger()}).Run(context.Background())
	require.NoError(t, err)
	many, err := New(Config{Games: 12, Seats: 4, Seed: 5, Workers: 4, Logger: testLogger()}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, one.Games+one.Stalled)
	assert.Equal(t, one.Games, many.Games)
	assert.Equal(t, one.Values, many.Values)
	assert.Equal(t, one.SeatResults, many.SeatResults)
	assert.NoError(t, one.Validate())
}

func TestRunStallGuard(t *testing.T) {
	stats, err := New(Config{Games: 3, Seats: 5, Seed: 1, MaxTricks: 1, Logger: testLogger()}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Stalled)
	assert.Zero(t, stats.Games)
}

func TestRunValidatesConfig(t *testing.T) {
	_, err := New(Config{Games: 0, Seats: 4}).Run(context.Background())
	assert.Error(t, err)
	_, err = New(Config{Games: 1, Seats: 2}).Run(context.Background())
	assert.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Config{Games: 10, Seats: 4, Logger: testLogger()}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type memoryHistory struct {
	mu    sync.Mutex
	games map[string]string
}

func (m *memoryHistory) WriteHistory(gameID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[gameID] = content
	return nil
}

func TestRunWritesHistory(t *testing.T) {
	h := &memoryHistory{games: make(map[string]string)}
	stats, err := New(Config{Games: 4, Seats: 3, Seed: 11, Workers: 2, Logger: testLogger(), History: h}).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, h.games, stats.Games)
	for _, content := range h.games {
		assert.Contains(t, content, "*** GAME OVER ***")
	}
}

func TestRunWithFileHistory(t *testing.T) {
	dir := t.TempDir()
	stats, err := New(Config{Games: 2, Seats: 4, Seed: 3, History: game.NewFileHistoryWriter(dir)}).Run(context.Background())
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(dir, "game_*.txt"))
	require.NoError(t, err)
	assert.Len(t, files, stats.Games)
	for _, f := range files {
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		assert.Contains(t, string(data), "*** RESULT ***")
	}
}

var errDiskFull = errors.New("disk full")

type failingHistory struct{}

func (failingHistory) WriteHistory(string, string) error { return errDiskFull }

func TestRunFailsWhenHistoryWriteFails(t *testing.T) {
	_, err := New(Config{Games: 3, Seats: 3, Seed: 11, Logger: testLogger(), History: failingHistory{}}).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errDiskFull)
	assert.ErrorContains(t, err, "failed to record history")
}

func TestRunFailsOnUnwritableHistoryDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := New(Config{Games: 2, Seats: 4, Seed: 3, Logger: testLogger(), History: game.NewFileHistoryWriter(filepath.Join(blocker, "history"))}).Run(context.Background())
	assert.ErrorContains(t, err, "failed to create history directory")
}

func TestPrintSummary(t *testing.T) {
	stats, err := RunSimulation(context.Background(), 5, 4, 21, testLogger())
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, stats)
	out := buf.String()
	assert.Contains(t, out, "=== FINAL RESULTS (4 seats) ===")
	assert.Contains(t, out, "=== TRICKS ===")
	assert.Contains(t, out, "Tochoo:")
}
