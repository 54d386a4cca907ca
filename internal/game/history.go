package game

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/bhabhi/internal/fileutil"
)

// HistoryWriter receives the rendered history of every finished game
type HistoryWriter interface {
	WriteHistory(gameID string, content string) error
}

// FileHistoryWriter writes each game's history to <dir>/game_<id>.txt
type FileHistoryWriter struct {
	directory string
}

// NewFileHistoryWriter creates a new file-based history writer
func NewFileHistoryWriter(directory string) *FileHistoryWriter {
	return &FileHistoryWriter{directory: directory}
}

// WriteHistory writes content atomically
func (w *FileHistoryWriter) WriteHistory(gameID string, content string) error {
	if err := os.MkdirAll(w.directory, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	filename := filepath.Join(w.directory, fmt.Sprintf("game_%s.txt", gameID))
	if err := fileutil.WriteFileAtomic(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

// History records a game from its events. Subscribe it to the engine's bus.
type History struct {
	GameID      string
	Entries     []string
	FinishOrder []Finish
	Tricks      int
	Tochoos     int

	formatter *EventFormatter
	writer    HistoryWriter
	logger    *log.Logger
	err       error
}

// NewHistory creates a history. writer and logger may be nil. Write
// failures are logged and kept for Err.
func NewHistory(writer HistoryWriter, logger *log.Logger) *History {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &History{writer: writer, logger: logger, formatter: NewEventFormatter(nil)}
}

// OnEvent implements EventSubscriber
func (h *History) OnEvent(event GameEvent) {
	switch e := event.(type) {
	case GameStartEvent:
		*h = History{GameID: e.GameID, writer: h.writer, logger: h.logger, formatter: NewEventFormatter(e.Seats)}
	case TrickResolvedEvent:
		h.Tricks++
		if e.Outcome.Tochoo {
			h.Tochoos++
		}
	case GameEndEvent:
		h.FinishOrder = e.FinishOrder
	}

	if line := h.formatter.Format(event); line != "" {
		h.Entries = append(h.Entries, line)
	}

	if _, ok := event.(GameEndEvent); ok && h.writer != nil {
		h.err = h.writer.WriteHistory(h.GameID, h.Summary())
		if h.err != nil {
			h.logger.Error("Failed to write game history", "game", h.GameID, "error", h.err)
		}
	}
}

// Err returns the error from the last history write, if any
func (h *History) Err() error { return h.err }

// Summary renders the game as text
func (h *History) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Game %s\n", h.GameID)
	for _, line := range h.Entries {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if len(h.FinishOrder) > 0 {
		sb.WriteString("*** RESULT ***\n")
		for _, f := range h.FinishOrder {
			fmt.Fprintf(&sb, "%d. %s\n", f.Rank, f.Name)
		}
	}
	fmt.Fprintf(&sb, "Tricks: %d (tochoo: %d)\n", h.Tricks, h.Tochoos)
	return sb.String()
}
