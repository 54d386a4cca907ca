package game

import "github.com/lox/bhabhi/internal/deck"

// SeatState is a read-only copy of a seat
type SeatState struct {
	Index        int
	Name         string
	Human        bool
	Hand         []deck.Card
	Active       bool
	Rank         int
	JustPickedUp bool
	AvoidSuit    deck.Suit
}

// TableState is a read-only snapshot of the table used by agents and the
// presentation layer. Mutating it has no effect on the game.
type TableState struct {
	GameID       string
	Phase        Phase
	Held         bool
	Seats        []SeatState
	Trick        []PlayedCard
	DiscardCount int
	Leader       int
	ActiveIndex  int
	RequiredSuit deck.Suit
	FirstMove    bool
	FinishOrder  []Finish
	Tricks       int
	Pending      *PendingResolution
}

// Snapshot copies the engine's state
func (e *Engine) Snapshot() TableState {
	t := e.table
	st := TableState{
		GameID:       e.gameID,
		Phase:        e.phase,
		Held:         e.held,
		Seats:        make([]SeatState, len(t.Seats)),
		Trick:        append([]PlayedCard(nil), t.Trick...),
		DiscardCount: len(t.Discard),
		Leader:       t.Leader,
		ActiveIndex:  t.ActiveIndex,
		RequiredSuit: t.RequiredSuit,
		FirstMove:    t.FirstMove,
		FinishOrder:  append([]Finish(nil), t.FinishOrder...),
		Tricks:       e.tricks,
	}
	for i, s := range t.Seats {
		avoid, _ := s.AvoidSuit()
		st.Seats[i] = SeatState{
			Index:        s.Index,
			Name:         s.Name,
			Human:        s.Human,
			Hand:         append([]deck.Card(nil), s.Hand...),
			Active:       s.Active,
			Rank:         s.Rank,
			JustPickedUp: s.JustPickedUp(),
			AvoidSuit:    avoid,
		}
	}
	if e.pending != nil {
		p := *e.pending
		p.Cards = append([]PlayedCard(nil), p.Cards...)
		st.Pending = &p
	}
	return st
}

// IsLeading reports whether the seat to move opens a fresh trick
func (ts TableState) IsLeading() bool {
	return ts.RequiredSuit == deck.NoSuit
}
