package game

import (
	"github.com/lox/bhabhi/internal/deck"
)

// SeatConfig is what the setup collaborator supplies for each seat before
// the first deal.
type SeatConfig struct {
	Name  string
	Human bool
}

// pickupMemory remembers the suit of the last trick a seat was forced to pick
// up. It is cleared the next time that seat plays any card.
type pickupMemory struct {
	set  bool
	suit deck.Suit
}

// Seat is one player at the table
type Seat struct {
	Index int
	Name  string
	Human bool
	Hand  []deck.Card
	// Active is false once the seat has emptied its hand (or was ranked last).
	Active bool
	// Rank is the finishing position, 0 while unranked.
	Rank int

	pickup pickupMemory
}

func newSeat(index int, cfg SeatConfig) *Seat {
	return &Seat{
		Index:  index,
		Name:   cfg.Name,
		Human:  cfg.Human,
		Active: true,
	}
}

// CardCount returns the number of cards in hand
func (s *Seat) CardCount() int {
	return len(s.Hand)
}

// HasSuit reports whether the seat holds at least one card of suit
func (s *Seat) HasSuit(suit deck.Suit) bool {
	for _, c := range s.Hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

// IndexOf returns the hand index of card, or -1
func (s *Seat) IndexOf(card deck.Card) int {
	for i, c := range s.Hand {
		if c == card {
			return i
		}
	}
	return -1
}

// JustPickedUp reports whether the seat picked up a trick and has not played
// since.
func (s *Seat) JustPickedUp() bool {
	return s.pickup.set
}

// AvoidSuit returns the suit of the trick the seat last picked up, if the
// seat has not played since.
func (s *Seat) AvoidSuit() (deck.Suit, bool) {
	if !s.pickup.set {
		return deck.NoSuit, false
	}
	return s.pickup.suit, true
}

func (s *Seat) playCard(i int) deck.Card {
	card := s.Hand[i]
	s.Hand = append(s.Hand[:i:i], s.Hand[i+1:]...)
	s.pickup = pickupMemory{}
	return card
}

func (s *Seat) pickUp(cards []deck.Card, suit deck.Suit) {
	invariant(s.Active, "seat %d picking up while inactive", s.Index)
	s.Hand = append(s.Hand, cards...)
	deck.SortHand(s.Hand)
	s.pickup = pickupMemory{set: true, suit: suit}
}

func (s *Seat) reset(hand []deck.Card) {
	s.Hand = hand
	deck.SortHand(s.Hand)
	s.Active = true
	s.Rank = 0
	s.pickup = pickupMemory{}
}
