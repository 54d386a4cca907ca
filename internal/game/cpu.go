package game

import (
	"github.com/lox/bhabhi/internal/deck"
)

// CPUPolicy is the deterministic computer player. It never looks at other
// seats' hands.
type CPUPolicy struct{}

// NewCPUPolicy creates the CPU policy
func NewCPUPolicy() *CPUPolicy {
	return &CPUPolicy{}
}

// ChooseCard implements Agent
func (p *CPUPolicy) ChooseCard(state TableState, seat int) (int, bool) {
	return p.ChooseCardIndex(state, seat)
}

// ChooseCardIndex picks the card seat should play:
//   - opening the game: the designated ace
//   - leading after a pickup: lowest card not of the picked-up suit
//   - leading otherwise: lowest card
//   - following: lowest card of the required suit
//   - unable to follow: highest card, preferring suits other than the one
//     last picked up
func (p *CPUPolicy) ChooseCardIndex(state TableState, seat int) (int, bool) {
	if seat < 0 || seat >= len(state.Seats) {
		return 0, false
	}
	s := state.Seats[seat]
	hand := s.Hand
	if len(hand) == 0 {
		return 0, false
	}

	avoid := deck.NoSuit
	if s.JustPickedUp {
		avoid = s.AvoidSuit
	}
	all := func(deck.Card) bool { return true }
	notAvoid := func(c deck.Card) bool { return c.Suit != avoid }

	if state.IsLeading() {
		if state.FirstMove && seat == state.ActiveIndex {
			for i, c := range hand {
				if c.IsDesignatedAce() {
					return i, true
				}
			}
		}
		if avoid != deck.NoSuit {
			if i, ok := lowest(hand, notAvoid); ok {
				return i, true
			}
		}
		return lowest(hand, all)
	}

	required := state.RequiredSuit
	if i, ok := lowest(hand, func(c deck.Card) bool { return c.Suit == required }); ok {
		return i, true
	}

	// Forced tochoo: dump the most dangerous card.
	if avoid != deck.NoSuit {
		if i, ok := highest(hand, notAvoid); ok {
			return i, true
		}
	}
	return highest(hand, all)
}

// lowest returns the first index holding the lowest-value card matching keep
func lowest(hand []deck.Card, keep func(deck.Card) bool) (int, bool) {
	best := -1
	for i, c := range hand {
		if keep(c) && (best < 0 || c.Value() < hand[best].Value()) {
			best = i
		}
	}
	return best, best >= 0
}

// highest returns the first index holding the highest-value card matching keep
func highest(hand []deck.Card, keep func(deck.Card) bool) (int, bool) {
	best := -1
	for i, c := range hand {
		if keep(c) && (best < 0 || c.Value() > hand[best].Value()) {
			best = i
		}
	}
	return best, best >= 0
}
