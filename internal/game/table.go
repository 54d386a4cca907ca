package game

import (
	"fmt"

	"github.com/lox/bhabhi/internal/deck"
)

// Phase is the controller-visible stage of a game
type Phase int

const (
	Setup Phase = iota
	Dealing
	Play
	ShowingTrick
	Finished
	// Paused is never stored as the engine phase; the controller reports it
	// while the tick is frozen.
	Paused
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case Setup:
		return "setup"
	case Dealing:
		return "dealing"
	case Play:
		return "play"
	case ShowingTrick:
		return "showing_trick"
	case Finished:
		return "finished"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// PlayedCard is one entry of the current trick
type PlayedCard struct {
	Seat int
	Card deck.Card
}

// Finish records a seat emptying its hand
type Finish struct {
	Seat int
	Name string
	Rank int
}

// Table is the single owned aggregate of a game's mutable state. Only the
// Engine mutates it.
type Table struct {
	Seats   []*Seat
	Trick   []PlayedCard
	Discard []deck.Card

	Leader      int
	ActiveIndex int
	// RequiredSuit is deck.NoSuit exactly while a fresh trick is being led.
	RequiredSuit deck.Suit
	FirstMove    bool

	FinishOrder   []Finish
	ranksAssigned int
}

// NewTable seats players in the given order with empty hands
func NewTable(configs []SeatConfig) *Table {
	seats := make([]*Seat, len(configs))
	for i, cfg := range configs {
		if cfg.Name == "" {
			cfg.Name = fmt.Sprintf("P%d", i+1)
		}
		seats[i] = newSeat(i, cfg)
	}
	return &Table{
		Seats:        seats,
		RequiredSuit: deck.NoSuit,
	}
}

// IsLeading reports whether the seat to move opens a fresh trick
func (t *Table) IsLeading() bool {
	return t.RequiredSuit == deck.NoSuit
}

// ActiveCount returns the number of seats still holding cards
func (t *Table) ActiveCount() int {
	n := 0
	for _, s := range t.Seats {
		if s.Active {
			n++
		}
	}
	return n
}

// NextActive returns the next active seat after from, wrapping around.
func (t *Table) NextActive(from int) int {
	n := len(t.Seats)
	invariant(t.ActiveCount() > 0, "advancing turn with no active seats")
	i := (from + 1) % n
	for !t.Seats[i].Active {
		i = (i + 1) % n
	}
	return i
}

// HasPlayed reports whether seat already has a card in the current trick
func (t *Table) HasPlayed(seat int) bool {
	for _, pc := range t.Trick {
		if pc.Seat == seat {
			return true
		}
	}
	return false
}

// CardsInPlay counts every card in hands, the discard pile and the trick.
func (t *Table) CardsInPlay() int {
	n := len(t.Discard) + len(t.Trick)
	for _, s := range t.Seats {
		n += len(s.Hand)
	}
	return n
}

// highestOfSuit returns the trick entry with the highest card of suit among
// entries accepted by keep, or false if there is none.
func highestOfSuit(trick []PlayedCard, suit deck.Suit, keep func(PlayedCard) bool) (PlayedCard, bool) {
	var best PlayedCard
	found := false
	for _, pc := range trick {
		if pc.Card.Suit != suit || !keep(pc) {
			continue
		}
		if !found || pc.Card.Value() > best.Card.Value() {
			best = pc
			found = true
		}
	}
	return best, found
}

// assignRank ranks an emptied seat and removes it from play. It is a no-op for
// seats that are already ranked or still hold cards.
func (t *Table) assignRank(s *Seat) bool {
	if !s.Active || len(s.Hand) > 0 {
		return false
	}
	t.finish(s)
	return true
}

func (t *Table) finish(s *Seat) {
	invariant(s.Rank == 0, "seat %d ranked twice", s.Index)
	t.ranksAssigned++
	s.Rank = t.ranksAssigned
	s.Active = false
	t.FinishOrder = append(t.FinishOrder, Finish{Seat: s.Index, Name: s.Name, Rank: s.Rank})
}

// settleLast ranks the sole remaining active seat, if at most one remains.
// It returns true when the game is over.
func (t *Table) settleLast() bool {
	if t.ActiveCount() > 1 {
		return false
	}
	for _, s := range t.Seats {
		if s.Active && s.Rank == 0 {
			t.finish(s)
		}
	}
	return true
}

func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("game: invariant violated: "+format, args...))
	}
}
