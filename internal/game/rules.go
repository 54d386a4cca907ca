package game

import (
	"errors"

	"github.com/lox/bhabhi/internal/deck"
)

// Rejections returned by AcceptPlay. None of them change any state.
var (
	ErrMustFollowSuit   = errors.New("you must follow suit")
	ErrMustOpenWithAce  = errors.New("game must start with the " + deck.DesignatedAce.String())
	ErrNotYourTurn      = errors.New("not this seat's turn")
	ErrSeatInactive     = errors.New("seat has already finished")
	ErrPresentationHold = errors.New("previous play still being shown")
	ErrTrickPending     = errors.New("trick is waiting to be resolved")
	ErrNotInPlay        = errors.New("game is not in play")
	ErrBadCardIndex     = errors.New("no such card in hand")
)

// openingRestricted reports whether seat is bound by the first-move rule: it
// is opening the game and holds the designated ace. A leader without the ace
// (only possible with a partial deck) may open with anything.
func openingRestricted(t *Table, seat int) bool {
	return t.FirstMove && t.IsLeading() && seat == t.ActiveIndex &&
		t.Seats[seat].IndexOf(deck.DesignatedAce) >= 0
}

// CheckPlay explains why seat may not play the card at idx, or returns nil if
// the play is legal under follow-suit rules. Turn order and holds are checked
// by the engine.
func CheckPlay(t *Table, seat, idx int) error {
	if seat < 0 || seat >= len(t.Seats) {
		return ErrNotYourTurn
	}
	s := t.Seats[seat]
	if !s.Active {
		return ErrSeatInactive
	}
	if idx < 0 || idx >= len(s.Hand) {
		return ErrBadCardIndex
	}
	card := s.Hand[idx]

	if openingRestricted(t, seat) {
		if !card.IsDesignatedAce() {
			return ErrMustOpenWithAce
		}
		return nil
	}
	if t.IsLeading() {
		return nil
	}
	if s.HasSuit(t.RequiredSuit) && card.Suit != t.RequiredSuit {
		return ErrMustFollowSuit
	}
	// Holding no card of the required suit, anything goes (tochoo).
	return nil
}

// IsPlayable reports whether seat may legally play the card at idx
func IsPlayable(t *Table, seat, idx int) bool {
	return CheckPlay(t, seat, idx) == nil
}

// PlayableIndices returns every hand index seat may legally play
func PlayableIndices(t *Table, seat int) []int {
	if seat < 0 || seat >= len(t.Seats) {
		return nil
	}
	var out []int
	for i := range t.Seats[seat].Hand {
		if IsPlayable(t, seat, i) {
			out = append(out, i)
		}
	}
	return out
}
