package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/bhabhi/internal/deck"
	"github.com/lox/bhabhi/internal/game"
)

// tickMsg drives the controller at the configured frame rate
type tickMsg time.Time

// Model is the Bubble Tea model for a local game. It renders controller
// snapshots and turns key presses into human plays.
type Model struct {
	ctrl     *game.Controller
	seats    []game.SeatConfig
	interval time.Duration
	logger   *log.Logger

	// UI components
	logViewport viewport.Model
	help        help.Model
	keys        keyMap

	gameLog   []string
	formatter *game.EventFormatter
	cursor    int
	warning   string
	quitting  bool

	// Dimensions
	width  int
	height int
}

// New creates a model for ctrl. seats is used when a new game is dealt.
// interval is the tick period (1/fps).
func New(ctrl *game.Controller, seats []game.SeatConfig, interval time.Duration, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	names := make([]string, len(seats))
	for i, s := range seats {
		names[i] = s.Name
	}

	m := &Model{
		ctrl:        ctrl,
		seats:       seats,
		interval:    interval,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		help:        help.New(),
		keys:        defaultKeys,
		formatter:   game.NewEventFormatter(names),
	}
	ctrl.Engine().EventBus().Subscribe(m)
	return m
}

// Run starts a full-screen program and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// OnEvent implements game.EventSubscriber. Events arrive synchronously from
// Tick and HumanPlay, both called from Update.
func (m *Model) OnEvent(event game.GameEvent) {
	if e, ok := event.(game.GameStartEvent); ok {
		m.formatter = game.NewEventFormatter(e.Seats)
		m.ClearLog()
	}
	if line := m.formatter.Format(event); line != "" {
		m.AddLogEntry(line)
	}
}

// AddLogEntry adds an entry to the game log and scrolls to it
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	// Only call GotoBottom if viewport has valid dimensions
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// ClearLog clears the game log
func (m *Model) ClearLog() {
	m.gameLog = nil
	m.logViewport.SetContent("")
}

// Log returns the game log entries
func (m *Model) Log() []string {
	out := make([]string, len(m.gameLog))
	copy(out, m.gameLog)
	return out
}

// Warning returns the message shown for the last rejected action
func (m *Model) Warning() string { return m.warning }

// Cursor returns the selected hand index
func (m *Model) Cursor() int { return m.cursor }

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the tick loop
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.ctrl.Tick()
		m.clampCursor()
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Left):
			m.moveCursor(-1)
		case key.Matches(msg, m.keys.Right):
			m.moveCursor(1)
		case key.Matches(msg, m.keys.Play):
			m.playSelected()
		case key.Matches(msg, m.keys.Pause):
			m.ctrl.TogglePause()
		case key.Matches(msg, m.keys.Restart):
			m.restart()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		default:
			var cmd tea.Cmd
			m.logViewport, cmd = m.logViewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// viewSeat is the seat whose hand is shown: the human to move, else the first
// human, else -1 when only CPUs play.
func (m *Model) viewSeat(state game.TableState) int {
	if state.Phase == game.Play || state.Phase == game.ShowingTrick {
		if s := state.ActiveIndex; s >= 0 && s < len(state.Seats) && state.Seats[s].Human && state.Seats[s].Active {
			return s
		}
	}
	for _, s := range state.Seats {
		if s.Human {
			return s.Index
		}
	}
	return -1
}

func (m *Model) moveCursor(delta int) {
	state := m.ctrl.Engine().Snapshot()
	seat := m.viewSeat(state)
	if seat < 0 {
		return
	}
	n := len(state.Seats[seat].Hand)
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
}

func (m *Model) clampCursor() {
	state := m.ctrl.Engine().Snapshot()
	seat := m.viewSeat(state)
	if seat < 0 {
		m.cursor = 0
		return
	}
	if n := len(state.Seats[seat].Hand); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *Model) playSelected() {
	res, err := m.ctrl.HumanPlay(m.cursor)
	if err != nil {
		m.warning = warningFor(err)
		m.logger.Debug("Play rejected", "index", m.cursor, "error", err)
		return
	}
	m.warning = ""
	m.logger.Debug("Human played", "seat", res.Seat, "card", res.Card)
	m.clampCursor()
}

func (m *Model) restart() {
	m.ctrl.Restart()
	m.warning = ""
	m.cursor = 0
	if err := m.ctrl.Start(m.seats); err != nil {
		m.logger.Error("Failed to start game", "error", err)
		m.warning = err.Error()
	}
}

// warningFor is the message shown for a rejected human play
func warningFor(err error) string {
	switch {
	case errors.Is(err, game.ErrMustFollowSuit):
		return "You must follow suit!"
	case errors.Is(err, game.ErrMustOpenWithAce):
		return "Game must start with the " + deck.DesignatedAce.String() + "!"
	case errors.Is(err, game.ErrNotYourTurn):
		return "Wait for your turn."
	case errors.Is(err, game.ErrGamePaused):
		return "Game is paused."
	case errors.Is(err, game.ErrPresentationHold), errors.Is(err, game.ErrTrickPending):
		return "Wait for the table to settle."
	default:
		return err.Error()
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	state := m.ctrl.Engine().Snapshot()
	phase := m.ctrl.State()

	var b strings.Builder
	b.WriteString(m.renderHeader(state, phase))
	b.WriteString("\n\n")

	if phase == game.Finished {
		b.WriteString(m.renderResults(state))
		b.WriteString("\n")
	} else {
		seatsPane := PaneStyle.Render(m.renderSeats(state))
		trickPane := TrickStyle.Render(m.renderTrick(state))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, seatsPane, " ", trickPane))
		b.WriteString("\n")
		b.WriteString(m.renderHand(state))
		b.WriteString("\n")
	}

	if m.warning != "" {
		b.WriteString(WarningStyle.Render(m.warning))
	}
	b.WriteString("\n")

	logHeight := m.height - lipgloss.Height(b.String()) - 4
	if logHeight < 3 {
		logHeight = 3
	}
	logWidth := m.width - 2
	if logWidth < 20 {
		logWidth = 60
	}
	m.logViewport.Width = logWidth
	m.logViewport.Height = logHeight
	b.WriteString(PaneStyle.Width(logWidth).Render(GameLogStyle.Render(m.logViewport.View())))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderHeader(state game.TableState, phase game.Phase) string {
	title := HeaderStyle.Render("Bhabhi")
	status := fmt.Sprintf(" %s", phase)
	if phase == game.Paused {
		status = WarningStyle.Render(" PAUSED")
	}
	info := ""
	if state.GameID != "" {
		info = InfoStyle.Render(fmt.Sprintf("  game %s  trick %d  discard %d", state.GameID, state.Tricks+1, state.DiscardCount))
	}
	return title + status + info
}

func (m *Model) renderSeats(state game.TableState) string {
	var lines []string
	for _, s := range state.Seats {
		marker := "  "
		if s.Active && s.Index == state.ActiveIndex {
			marker = "▶ "
		}
		line := fmt.Sprintf("%s%-10s %2d cards", marker, s.Name, len(s.Hand))
		switch {
		case s.Rank > 0:
			lines = append(lines, FinishedSeatStyle.Render(fmt.Sprintf("%s%-10s out #%d", marker, s.Name, s.Rank)))
		case s.Index == state.ActiveIndex:
			lines = append(lines, ActiveSeatStyle.Render(line))
		default:
			lines = append(lines, PlayerInfoStyle.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderTrick(state game.TableState) string {
	if len(state.Trick) == 0 {
		if state.FirstMove {
			return InfoStyle.Render("Waiting for the " + deck.DesignatedAce.String())
		}
		return InfoStyle.Render("Waiting for a lead")
	}
	parts := make([]string, len(state.Trick))
	for i, pc := range state.Trick {
		parts[i] = fmt.Sprintf("%s %s", state.Seats[pc.Seat].Name, RenderCard(pc.Card))
	}
	out := strings.Join(parts, "\n")
	if state.Pending != nil && state.Pending.Tochoo {
		out += "\n" + TochooStyle.Render("Tochoo!")
	}
	return out
}

func (m *Model) renderHand(state game.TableState) string {
	seat := m.viewSeat(state)
	if seat < 0 {
		return InfoStyle.Render("Watching CPU players")
	}
	s := state.Seats[seat]
	if !s.Active {
		return SuccessStyle.Render(fmt.Sprintf("%s is out in position %d", s.Name, s.Rank))
	}

	var playable map[int]bool
	myTurn := state.Phase == game.Play && state.ActiveIndex == seat && !state.Held
	if myTurn {
		playable = make(map[int]bool)
		for _, i := range m.ctrl.PlayableIndices(seat) {
			playable[i] = true
		}
	}

	label := fmt.Sprintf("%s: ", s.Name)
	if myTurn {
		label = ActiveSeatStyle.Render(fmt.Sprintf("%s, your move: ", s.Name))
	}
	return label + RenderHand(s.Hand, playable, m.cursor)
}

func (m *Model) renderResults(state game.TableState) string {
	var b strings.Builder
	b.WriteString(SuccessStyle.Render("*** GAME OVER ***"))
	b.WriteString("\n")
	for _, f := range state.FinishOrder {
		line := fmt.Sprintf("%d. %s", f.Rank, f.Name)
		if f.Rank == len(state.Seats) {
			line += " (bhabhi)"
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(InfoStyle.Render("Press r for a new game, q to quit"))
	return b.String()
}

// RenderCard renders a card in its suit colour
func RenderCard(c deck.Card) string {
	if c.IsRed() {
		return RedCardStyle.Render(c.String())
	}
	return BlackCardStyle.Render(c.String())
}

// RenderHand renders hand with the cursor position bracketed. When playable
// is non-nil, cards not in it are dimmed.
func RenderHand(hand []deck.Card, playable map[int]bool, cursor int) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		var card string
		if playable != nil && !playable[i] {
			card = DimCardStyle.Render(c.String())
		} else {
			card = RenderCard(c)
		}
		if i == cursor {
			card = CursorStyle.Render("[") + card + CursorStyle.Render("]")
		} else {
			card = " " + card + " "
		}
		parts[i] = card
	}
	return strings.Join(parts, "")
}
