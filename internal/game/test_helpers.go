package game

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/bhabhi/internal/deck"
	"github.com/lox/bhabhi/internal/randutil"
)

// TestEngineOption configures test engine creation
type TestEngineOption func(*testEngineBuilder)

type testEngineBuilder struct {
	seed   int64
	seats  []SeatConfig
	bus    EventBus
	clock  quartz.Clock
	logger *log.Logger
}

// WithSeed sets the RNG seed
func WithSeed(seed int64) TestEngineOption {
	return func(b *testEngineBuilder) { b.seed = seed }
}

// WithSeats sets n CPU seats named P1..Pn
func WithSeats(n int) TestEngineOption {
	return func(b *testEngineBuilder) {
		b.seats = make([]SeatConfig, n)
		for i := range b.seats {
			b.seats[i] = SeatConfig{Name: fmt.Sprintf("P%d", i+1)}
		}
	}
}

// WithHumans marks the given seats as human
func WithHumans(seats ...int) TestEngineOption {
	return func(b *testEngineBuilder) {
		for _, s := range seats {
			b.seats[s].Human = true
		}
	}
}

// WithTestEventBus sets the event bus
func WithTestEventBus(bus EventBus) TestEngineOption {
	return func(b *testEngineBuilder) { b.bus = bus }
}

// WithTestClock sets the engine clock
func WithTestClock(clock quartz.Clock) TestEngineOption {
	return func(b *testEngineBuilder) { b.clock = clock }
}

func newTestBuilder(opts []TestEngineOption) *testEngineBuilder {
	b := &testEngineBuilder{
		seed:   42,
		bus:    NewEventBus(),
		clock:  quartz.NewReal(),
		logger: log.New(io.Discard),
	}
	WithSeats(4)(b)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewTestEngine creates an engine in Setup with sensible defaults: seed 42,
// four CPU seats, discarded logs.
func NewTestEngine(opts ...TestEngineOption) (*Engine, []SeatConfig) {
	b := newTestBuilder(opts)
	e := NewEngine(randutil.New(b.seed), b.logger, WithClock(b.clock), WithEventBus(b.bus))
	return e, b.seats
}

// StartTestGame creates an engine and deals the given hands, one card list
// per seat ("As Kh 2c").
func StartTestGame(hands []string, opts ...TestEngineOption) (*Engine, error) {
	opts = append([]TestEngineOption{WithSeats(len(hands))}, opts...)
	e, seats := NewTestEngine(opts...)
	dealt := make([][]deck.Card, len(hands))
	for i, h := range hands {
		cards, err := deck.ParseCards(h)
		if err != nil {
			return nil, err
		}
		dealt[i] = cards
	}
	if err := e.StartGameWithHands(seats, dealt); err != nil {
		return nil, err
	}
	return e, nil
}

// PlayCard plays a specific card for seat and releases the hold, failing if
// the card is not in hand.
func PlayCard(e *Engine, seat int, card string) (PlayResult, error) {
	c, err := deck.ParseCard(card)
	if err != nil {
		return PlayResult{}, err
	}
	idx := e.Table().Seats[seat].IndexOf(c)
	if idx < 0 {
		return PlayResult{}, fmt.Errorf("seat %d does not hold %s", seat, c)
	}
	res, err := e.AcceptPlay(seat, idx)
	e.ReleaseHold()
	return res, err
}

// NewTestController creates a controller on a fresh test engine
func NewTestController(clock quartz.Clock, cfg ControllerConfig, opts ...TestEngineOption) (*Controller, []SeatConfig) {
	opts = append(opts, WithTestClock(clock))
	b := newTestBuilder(opts)
	e := NewEngine(randutil.New(b.seed), b.logger, WithClock(b.clock), WithEventBus(b.bus))
	return NewController(e, clock, cfg, b.logger), b.seats
}
