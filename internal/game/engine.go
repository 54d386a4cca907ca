package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/bhabhi/internal/deck"
	"github.com/lox/bhabhi/internal/gameid"
)

// Seat limits for a game
const (
	MinSeats = 3
	MaxSeats = 6
)

// PlayResult describes an accepted play
type PlayResult struct {
	Seat int
	Card deck.Card
	Lead bool
	// Tochoo is set when the seat could not follow and played off-suit.
	Tochoo bool
	// TrickComplete is set when the play triggered resolution.
	TrickComplete bool
	SeatFinished  bool
	GameOver      bool
}

// PendingResolution is a trick captured by TriggerResolution and not yet
// committed.
type PendingResolution struct {
	Tochoo bool
	Suit   deck.Suit
	Cards  []PlayedCard
}

// TrickOutcome is what CommitResolution did with a trick
type TrickOutcome struct {
	Tochoo bool
	Suit   deck.Suit
	Cards  []PlayedCard
	// Recipient is the winner of a clean trick or the seat that picked up a
	// tochoo.
	Recipient int
	// NextToMove is -1 when the resolution ended the game.
	NextToMove int
}

// Engine is the trick engine: it owns a Table and is the only code that
// mutates it. An Engine is not safe for concurrent use; run one per game.
type Engine struct {
	table   *Table
	phase   Phase
	held    bool
	pending *PendingResolution
	tricks  int
	gameID  string

	rng    *rand.Rand
	clock  quartz.Clock
	ids    *gameid.Generator
	logger *log.Logger
	bus    EventBus
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithClock sets the clock used for event timestamps and game IDs
func WithClock(clock quartz.Clock) EngineOption {
	return func(e *Engine) { e.clock = clock }
}

// WithEventBus sets the bus the engine publishes to
func WithEventBus(bus EventBus) EngineOption {
	return func(e *Engine) { e.bus = bus }
}

// NewEngine creates an engine in the Setup phase. rng drives the shuffle,
// the fallback leader and pickup shuffles.
func NewEngine(rng *rand.Rand, logger *log.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		table:  NewTable(nil),
		phase:  Setup,
		rng:    rng,
		clock:  quartz.NewReal(),
		logger: logger.WithPrefix("engine"),
		bus:    NewEventBus(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.ids = gameid.NewGenerator(e.clock, rng)
	return e
}

// Table returns the live table. Callers outside the engine must treat it as
// read-only.
func (e *Engine) Table() *Table { return e.table }

// Phase returns the current phase
func (e *Engine) Phase() Phase { return e.phase }

// EventBus returns the bus for subscribing to game events
func (e *Engine) EventBus() EventBus { return e.bus }

// GameID returns the identifier of the current game
func (e *Engine) GameID() string { return e.gameID }

// Tricks returns how many tricks have been resolved this game
func (e *Engine) Tricks() int { return e.tricks }

// Held reports whether the presentation hold from the last play is active
func (e *Engine) Held() bool { return e.held }

// ReleaseHold is called by the presentation layer once the last play has
// been shown.
func (e *Engine) ReleaseHold() { e.held = false }

// Pending returns the trick awaiting CommitResolution, if any
func (e *Engine) Pending() (PendingResolution, bool) {
	if e.pending == nil {
		return PendingResolution{}, false
	}
	return *e.pending, true
}

// IsPlayable reports whether seat may legally play the card at idx
func (e *Engine) IsPlayable(seat, idx int) bool {
	return IsPlayable(e.table, seat, idx)
}

// PlayableIndices returns every hand index seat may legally play
func (e *Engine) PlayableIndices(seat int) []int {
	return PlayableIndices(e.table, seat)
}

// StartGame shuffles a full deck, deals it and determines the leader
func (e *Engine) StartGame(seats []SeatConfig) error {
	d := deck.NewDeck(e.rng)
	d.Shuffle()
	return e.StartGameWithDeck(seats, d)
}

// StartGameWithDeck deals d as-is (no shuffle). Any in-progress game is
// discarded.
func (e *Engine) StartGameWithDeck(seats []SeatConfig, d *deck.Deck) error {
	if len(seats) < MinSeats || len(seats) > MaxSeats {
		return fmt.Errorf("need %d to %d seats, got %d", MinSeats, MaxSeats, len(seats))
	}
	if d.CardsRemaining() < len(seats) {
		return fmt.Errorf("deck of %d cards cannot deal %d seats", d.CardsRemaining(), len(seats))
	}
	hands, err := d.Deal(len(seats))
	if err != nil {
		return fmt.Errorf("failed to deal: %w", err)
	}
	return e.StartGameWithHands(seats, hands)
}

// StartGameWithHands starts a game from hands fixed in advance. Every seat
// needs at least one card.
func (e *Engine) StartGameWithHands(seats []SeatConfig, hands [][]deck.Card) error {
	if len(seats) < MinSeats || len(seats) > MaxSeats {
		return fmt.Errorf("need %d to %d seats, got %d", MinSeats, MaxSeats, len(seats))
	}
	if len(hands) != len(seats) {
		return fmt.Errorf("got %d hands for %d seats", len(hands), len(seats))
	}
	for i, h := range hands {
		if len(h) == 0 {
			return fmt.Errorf("seat %d was dealt no cards", i)
		}
	}

	e.phase = Dealing
	e.table = NewTable(seats)
	e.held = false
	e.pending = nil
	e.tricks = 0

	for i, s := range e.table.Seats {
		s.reset(append([]deck.Card(nil), hands[i]...))
	}

	leader := -1
	for _, s := range e.table.Seats {
		if s.IndexOf(deck.DesignatedAce) >= 0 {
			leader = s.Index
			break
		}
	}
	if leader < 0 {
		leader = e.rng.IntN(len(seats))
		e.logger.Warn("No seat holds the designated ace, picking a random leader", "leader", leader)
	}

	t := e.table
	t.Leader = leader
	t.ActiveIndex = leader
	t.RequiredSuit = deck.NoSuit
	t.FirstMove = true

	e.gameID = e.ids.Generate()
	e.phase = Play

	names := make([]string, len(t.Seats))
	sizes := make([]int, len(t.Seats))
	for i, s := range t.Seats {
		names[i] = s.Name
		sizes[i] = len(s.Hand)
	}
	e.logger.Info("Game started", "game", e.gameID, "seats", len(seats), "leader", t.Seats[leader].Name)
	e.bus.Publish(GameStartEvent{
		GameID:    e.gameID,
		Seats:     names,
		HandSizes: sizes,
		Leader:    leader,
		timestamp: e.clock.Now(),
	})
	return nil
}

// Reset discards all game state and returns to Setup
func (e *Engine) Reset() {
	e.table = NewTable(nil)
	e.phase = Setup
	e.held = false
	e.pending = nil
	e.tricks = 0
	e.gameID = ""
}

func (e *Engine) checkAccept(seat, idx int) error {
	switch {
	case e.phase == ShowingTrick:
		return ErrTrickPending
	case e.phase != Play:
		return ErrNotInPlay
	case e.held:
		return ErrPresentationHold
	case seat != e.table.ActiveIndex:
		return ErrNotYourTurn
	}
	return CheckPlay(e.table, seat, idx)
}

// AcceptPlay plays the card at idx for seat. A rejected play returns one of
// the errors in rules.go and changes nothing.
func (e *Engine) AcceptPlay(seat, idx int) (PlayResult, error) {
	if err := e.checkAccept(seat, idx); err != nil {
		e.logger.Debug("Play rejected", "seat", seat, "index", idx, "reason", err)
		e.bus.Publish(PlayRejectedEvent{Seat: seat, CardIndex: idx, Reason: err, timestamp: e.clock.Now()})
		return PlayResult{}, err
	}

	t := e.table
	s := t.Seats[seat]
	leading := t.IsLeading()
	hadRequired := !leading && s.HasSuit(t.RequiredSuit)

	card := s.playCard(idx)
	t.Trick = append(t.Trick, PlayedCard{Seat: seat, Card: card})
	if leading {
		t.RequiredSuit = card.Suit
		t.FirstMove = false
	}
	e.held = true

	res := PlayResult{
		Seat:   seat,
		Card:   card,
		Lead:   leading,
		Tochoo: !leading && !hadRequired,
	}
	e.logger.Debug("Card played", "seat", s.Name, "card", card, "lead", res.Lead, "tochoo", res.Tochoo)
	e.bus.Publish(CardPlayedEvent{
		Seat:      seat,
		Name:      s.Name,
		Card:      card,
		Lead:      res.Lead,
		Tochoo:    res.Tochoo,
		timestamp: e.clock.Now(),
	})

	finished := len(t.FinishOrder)
	if t.assignRank(s) {
		res.SeatFinished = true
		over := t.settleLast()
		e.publishFinishes(finished)
		if over {
			e.endGame()
			res.GameOver = true
			return res, nil
		}
	}

	if res.Tochoo {
		e.TriggerResolution(true)
		res.TrickComplete = true
		return res, nil
	}

	t.ActiveIndex = t.NextActive(seat)
	// Back to a seat that already played: everyone still in has played.
	if t.HasPlayed(t.ActiveIndex) {
		e.TriggerResolution(false)
		res.TrickComplete = true
	}
	return res, nil
}

// TriggerResolution captures the current trick and moves to ShowingTrick.
// Nothing moves until CommitResolution.
func (e *Engine) TriggerResolution(tochoo bool) {
	t := e.table
	invariant(len(t.Trick) > 0, "resolving a trick with zero cards")
	invariant(e.pending == nil, "trick resolution triggered twice")
	invariant(e.phase == Play, "trick resolution triggered in phase %s", e.phase)

	cards := make([]PlayedCard, len(t.Trick))
	copy(cards, t.Trick)
	e.pending = &PendingResolution{Tochoo: tochoo, Suit: t.RequiredSuit, Cards: cards}
	e.phase = ShowingTrick

	e.logger.Debug("Trick complete", "suit", t.RequiredSuit.Name(), "cards", len(cards), "tochoo", tochoo)
	e.bus.Publish(TrickCompleteEvent{Suit: t.RequiredSuit, Cards: cards, Tochoo: tochoo, timestamp: e.clock.Now()})
}

// CommitResolution applies the pending trick. It returns false, and changes
// nothing, when no trick is pending.
func (e *Engine) CommitResolution() (TrickOutcome, bool) {
	if e.pending == nil {
		return TrickOutcome{}, false
	}
	p := e.pending
	e.pending = nil

	t := e.table
	invariant(len(t.Trick) > 0, "resolving a trick with zero cards")

	cards := make([]deck.Card, len(t.Trick))
	for i, pc := range t.Trick {
		cards[i] = pc.Card
	}
	out := TrickOutcome{Tochoo: p.Tochoo, Suit: p.Suit, Cards: p.Cards}

	if p.Tochoo {
		r := e.pickupRecipient(p)
		deck.Shuffle(e.rng, cards)
		t.Seats[r].pickUp(cards, p.Suit)
		out.Recipient = r
		t.Leader, t.ActiveIndex = r, r
	} else {
		winner := t.Leader
		if best, ok := highestOfSuit(t.Trick, p.Suit, anyPlay); ok {
			winner = best.Seat
		}
		t.Discard = append(t.Discard, cards...)
		out.Recipient = winner
		next := winner
		if !t.Seats[winner].Active && t.ActiveCount() > 0 {
			next = t.NextActive(winner)
		}
		t.Leader, t.ActiveIndex = next, next
	}

	t.Trick = nil
	t.RequiredSuit = deck.NoSuit
	e.tricks++

	finished := len(t.FinishOrder)
	for _, s := range t.Seats {
		t.assignRank(s)
	}
	over := t.settleLast()

	out.NextToMove = t.ActiveIndex
	if over {
		out.NextToMove = -1
	}

	e.logger.Debug("Trick resolved",
		"tochoo", out.Tochoo,
		"recipient", t.Seats[out.Recipient].Name,
		"cards", len(out.Cards),
		"next", out.NextToMove)
	e.bus.Publish(TrickResolvedEvent{Outcome: out, timestamp: e.clock.Now()})
	e.publishFinishes(finished)

	if over {
		e.endGame()
	} else {
		e.phase = Play
	}
	return out, true
}

// pickupRecipient is the seat holding the highest card of the trick's suit
// among seats still in the game, falling back to the leader.
func (e *Engine) pickupRecipient(p *PendingResolution) int {
	t := e.table
	stillIn := func(pc PlayedCard) bool { return t.Seats[pc.Seat].Active }
	if best, ok := highestOfSuit(p.Cards, p.Suit, stillIn); ok {
		return best.Seat
	}
	if t.Seats[t.Leader].Active {
		return t.Leader
	}
	return t.NextActive(t.Leader)
}

func anyPlay(PlayedCard) bool { return true }

func (e *Engine) publishFinishes(from int) {
	for _, f := range e.table.FinishOrder[from:] {
		e.logger.Info("Seat finished", "seat", f.Name, "rank", f.Rank)
		e.bus.Publish(SeatFinishedEvent{Finish: f, timestamp: e.clock.Now()})
	}
}

func (e *Engine) endGame() {
	e.phase = Finished
	e.held = false
	e.pending = nil

	order := make([]Finish, len(e.table.FinishOrder))
	copy(order, e.table.FinishOrder)
	e.logger.Info("Game over", "game", e.gameID, "tricks", e.tricks)
	e.bus.Publish(GameEndEvent{GameID: e.gameID, FinishOrder: order, Tricks: e.tricks, timestamp: e.clock.Now()})
}
