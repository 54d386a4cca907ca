package game

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/bhabhi/internal/deck"
)

// ErrGamePaused is returned for human plays while the game is paused
var ErrGamePaused = errors.New("game is paused")

// ControllerConfig holds the controller's timings. Zero durations make the
// corresponding step happen on the next tick.
type ControllerConfig struct {
	// CPUDelay is the minimum time since the last play before a CPU seat acts.
	CPUDelay time.Duration
	// PlayHold is how long each play is shown before input is accepted again.
	PlayHold time.Duration
	// TrickDisplay is how long a completed trick stays on the table.
	TrickDisplay time.Duration
}

// DefaultControllerConfig returns the interactive timings
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		CPUDelay:     time.Second,
		PlayHold:     350 * time.Millisecond,
		TrickDisplay: 3 * time.Second,
	}
}

// Controller sequences the engine into a tick-driven turn loop:
// setup → dealing → play ⇄ showing_trick → finished, with paused on top.
// Every call is expected from a single goroutine.
type Controller struct {
	engine *Engine
	clock  quartz.Clock
	cfg    ControllerConfig
	logger *log.Logger

	cpu    Agent
	agents map[int]Agent

	paused       bool
	pausedAt     time.Time
	lastAction   time.Time
	heldSince    time.Time
	showingSince time.Time
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithAgent overrides the agent used for a CPU seat
func WithAgent(seat int, agent Agent) ControllerOption {
	return func(c *Controller) { c.agents[seat] = agent }
}

// WithDefaultAgent replaces the CPU policy used for seats without an agent
func WithDefaultAgent(agent Agent) ControllerOption {
	return func(c *Controller) { c.cpu = agent }
}

// NewController wraps engine. The engine should share the controller's clock.
func NewController(engine *Engine, clock quartz.Clock, cfg ControllerConfig, logger *log.Logger, opts ...ControllerOption) *Controller {
	c := &Controller{
		engine: engine,
		clock:  clock,
		cfg:    cfg,
		logger: logger.WithPrefix("controller"),
		cpu:    NewCPUPolicy(),
		agents: make(map[int]Agent),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Engine returns the wrapped engine
func (c *Controller) Engine() *Engine { return c.engine }

// State returns the current phase, reporting Paused while paused
func (c *Controller) State() Phase {
	if c.paused {
		return Paused
	}
	return c.engine.Phase()
}

// Paused reports whether the tick is frozen
func (c *Controller) Paused() bool { return c.paused }

// Start deals a new game
func (c *Controller) Start(seats []SeatConfig) error {
	if err := c.engine.StartGame(seats); err != nil {
		return err
	}
	c.started()
	return nil
}

// StartWithHands starts a game from fixed hands
func (c *Controller) StartWithHands(seats []SeatConfig, hands [][]deck.Card) error {
	if err := c.engine.StartGameWithHands(seats, hands); err != nil {
		return err
	}
	c.started()
	return nil
}

func (c *Controller) started() {
	c.paused = false
	now := c.clock.Now()
	c.lastAction = now
	c.heldSince = now
	c.showingSince = now
}

// Restart discards the game unconditionally and returns to Setup
func (c *Controller) Restart() {
	c.engine.Reset()
	c.paused = false
	c.logger.Info("Restarted to setup")
}

func (c *Controller) pausable() bool {
	p := c.engine.Phase()
	return p == Play || p == ShowingTrick
}

// Pause freezes the tick. It is a no-op outside play and showing_trick.
func (c *Controller) Pause() {
	if c.paused || !c.pausable() {
		return
	}
	c.paused = true
	c.pausedAt = c.clock.Now()
	c.logger.Debug("Paused", "phase", c.engine.Phase())
	c.engine.EventBus().Publish(GamePauseEvent{Paused: true, Phase: c.engine.Phase(), timestamp: c.pausedAt})
}

// Resume unfreezes the tick. Timers continue from where they stopped, so a
// pending trick still gets its full display interval.
func (c *Controller) Resume() {
	if !c.paused {
		return
	}
	now := c.clock.Now()
	frozen := now.Sub(c.pausedAt)
	c.lastAction = c.lastAction.Add(frozen)
	c.heldSince = c.heldSince.Add(frozen)
	c.showingSince = c.showingSince.Add(frozen)
	c.paused = false
	c.logger.Debug("Resumed", "phase", c.engine.Phase(), "frozen", frozen)
	c.engine.EventBus().Publish(GamePauseEvent{Paused: false, Phase: c.engine.Phase(), timestamp: now})
}

// TogglePause pauses or resumes
func (c *Controller) TogglePause() {
	if c.paused {
		c.Resume()
	} else {
		c.Pause()
	}
}

// Tick advances the game by at most one step: release the presentation
// hold, commit a displayed trick, or make one CPU play.
func (c *Controller) Tick() {
	if c.paused || !c.pausable() {
		return
	}
	now := c.clock.Now()

	if c.engine.Held() {
		if now.Sub(c.heldSince) < c.cfg.PlayHold {
			return
		}
		c.engine.ReleaseHold()
		c.showingSince = now
	}

	switch c.engine.Phase() {
	case ShowingTrick:
		if now.Sub(c.showingSince) >= c.cfg.TrickDisplay {
			c.CommitResolution()
		}
	case Play:
		t := c.engine.Table()
		seat := t.Seats[t.ActiveIndex]
		if seat.Human || !seat.Active {
			return
		}
		if now.Sub(c.lastAction) < c.cfg.CPUDelay {
			return
		}
		c.playCPU(seat.Index)
	}
}

// ReleaseHold lets a presentation layer end the play hold early, e.g. when
// its animation reports completion.
func (c *Controller) ReleaseHold() {
	if !c.engine.Held() {
		return
	}
	c.engine.ReleaseHold()
	c.showingSince = c.clock.Now()
}

// CommitResolution resolves a displayed trick immediately. It does nothing
// while paused or when no trick is pending.
func (c *Controller) CommitResolution() (TrickOutcome, bool) {
	if c.paused {
		return TrickOutcome{}, false
	}
	return c.engine.CommitResolution()
}

// HumanPlay plays the card at idx for the human seat whose turn it is
func (c *Controller) HumanPlay(idx int) (PlayResult, error) {
	if c.paused {
		return PlayResult{}, ErrGamePaused
	}
	t := c.engine.Table()
	if c.engine.Phase() == Play && !t.Seats[t.ActiveIndex].Human {
		return PlayResult{}, ErrNotYourTurn
	}
	return c.play(t.ActiveIndex, idx)
}

// IsPlayable reports whether seat may legally play idx
func (c *Controller) IsPlayable(seat, idx int) bool {
	return c.engine.IsPlayable(seat, idx)
}

// PlayableIndices returns the legal indices for seat
func (c *Controller) PlayableIndices(seat int) []int {
	return c.engine.PlayableIndices(seat)
}

func (c *Controller) agentFor(seat int) Agent {
	if a, ok := c.agents[seat]; ok {
		return a
	}
	return c.cpu
}

func (c *Controller) playCPU(seat int) {
	idx, ok := c.agentFor(seat).ChooseCard(c.engine.Snapshot(), seat)
	if !ok {
		return
	}
	if !c.engine.IsPlayable(seat, idx) {
		playable := c.engine.PlayableIndices(seat)
		if len(playable) == 0 {
			c.logger.Error("CPU seat has no legal card", "seat", seat)
			return
		}
		c.logger.Warn("CPU choice is not legal, using first legal card", "seat", seat, "chosen", idx, "fallback", playable[0])
		idx = playable[0]
	}
	if _, err := c.play(seat, idx); err != nil {
		c.logger.Error("CPU play rejected", "seat", seat, "index", idx, "error", err)
	}
}

func (c *Controller) play(seat, idx int) (PlayResult, error) {
	res, err := c.engine.AcceptPlay(seat, idx)
	if err != nil {
		return res, err
	}
	now := c.clock.Now()
	c.lastAction = now
	c.heldSince = now
	c.showingSince = now
	return res, nil
}
