package game

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	gameID  string
	content string
	err     error
}

func (w *captureWriter) WriteHistory(gameID, content string) error {
	w.gameID = gameID
	w.content = content
	return w.err
}

func playThreeSeatGame(t *testing.T, bus EventBus) *Engine {
	t.Helper()
	e, err := StartTestGame([]string{"As", "2s 3h", "3s 4h"}, WithTestEventBus(bus))
	require.NoError(t, err)
	for i, card := range []string{"As", "2s", "3s"} {
		_, err := PlayCard(e, i, card)
		require.NoError(t, err)
	}
	_, ok := e.CommitResolution()
	require.True(t, ok)
	_, err = PlayCard(e, 1, "3h")
	require.NoError(t, err)
	require.Equal(t, Finished, e.Phase())
	return e
}

func TestHistoryRecordsGame(t *testing.T) {
	bus := NewEventBus()
	w := &captureWriter{}
	h := NewHistory(w, log.New(io.Discard))
	bus.Subscribe(h)

	e := playThreeSeatGame(t, bus)

	assert.Equal(t, e.GameID(), h.GameID)
	assert.Equal(t, 1, h.Tricks)
	assert.Zero(t, h.Tochoos)
	assert.Equal(t, []string{
		"*** NEW GAME *** P1(1) P2(2) P3(2); P1 leads",
		"P1: leads A♠",
		"P1 is out in position 1",
		"P2: plays 2♠",
		"P3: plays 3♠",
		"P1 wins the trick, 3 cards discarded",
		"P2: leads 3♥",
		"P2 is out in position 2",
		"P3 is out in position 3",
		"*** GAME OVER *** P3 is the bhabhi",
	}, h.Entries)
	require.Len(t, h.FinishOrder, 3)

	assert.Equal(t, e.GameID(), w.gameID)
	assert.Contains(t, w.content, "*** RESULT ***\n1. P1\n2. P2\n3. P3\n")
	assert.Contains(t, w.content, "Tricks: 1 (tochoo: 0)")
	assert.NoError(t, h.Err())
}

func TestHistoryResetsOnNewGame(t *testing.T) {
	bus := NewEventBus()
	h := NewHistory(nil, nil)
	bus.Subscribe(h)

	playThreeSeatGame(t, bus)
	first := h.GameID

	bus.Publish(GameStartEvent{GameID: "next", Seats: []string{"A", "B", "C"}, HandSizes: []int{1, 1, 1}})
	assert.NotEqual(t, first, h.GameID)
	assert.Equal(t, "next", h.GameID)
	assert.Len(t, h.Entries, 1)
	assert.Zero(t, h.Tricks)
	assert.Empty(t, h.FinishOrder)
}

func TestHistoryReportsWriteError(t *testing.T) {
	var buf bytes.Buffer
	bus := NewEventBus()
	h := NewHistory(&captureWriter{err: errors.New("disk full")}, log.New(&buf))
	bus.Subscribe(h)

	e := playThreeSeatGame(t, bus)
	assert.EqualError(t, h.Err(), "disk full")
	assert.Contains(t, buf.String(), "Failed to write game history")
	assert.Contains(t, buf.String(), e.GameID())
	assert.Contains(t, buf.String(), "disk full")
}

func TestFileHistoryWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history")
	w := NewFileHistoryWriter(dir)

	require.NoError(t, w.WriteHistory("abc", "Game abc\n"))

	data, err := os.ReadFile(filepath.Join(dir, "game_abc.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Game abc\n", string(data))
}
