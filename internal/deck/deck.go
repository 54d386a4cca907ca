package deck

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

// Size is the number of cards in a standard deck
const Size = 52

// Deck is a multiset of cards consumed once at deal time
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck creates a standard 52-card deck using the provided RNG for shuffling.
func NewDeck(rng *rand.Rand) *Deck {
	cards := make([]Card, 0, Size)
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return &Deck{cards: cards, rng: rng}
}

// NewDeckFrom creates a deck holding exactly the given cards. Used for partial
// or stacked decks.
func NewDeckFrom(cards []Card, rng *rand.Rand) *Deck {
	c := make([]Card, len(cards))
	copy(c, cards)
	return &Deck{cards: c, rng: rng}
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal partitions every remaining card across seats. Each seat receives
// len/seats cards and the remainder goes one extra card per seat starting
// from seat 0. The deck is empty afterwards.
func (d *Deck) Deal(seats int) ([][]Card, error) {
	if seats <= 0 {
		return nil, fmt.Errorf("cannot deal to %d seats", seats)
	}

	counts := make([]int, seats)
	base, extra := len(d.cards)/seats, len(d.cards)%seats
	for i := range counts {
		counts[i] = base
		if i < extra {
			counts[i]++
		}
	}

	hands := make([][]Card, seats)
	pos := 0
	for i, n := range counts {
		hands[i] = make([]Card, n)
		copy(hands[i], d.cards[pos:pos+n])
		pos += n
	}
	d.cards = d.cards[:0]
	return hands, nil
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Shuffle randomizes a slice of cards in place with the given RNG
func Shuffle(rng *rand.Rand, cards []Card) {
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// SortHand orders cards suit-major (♠ ♥ ♦ ♣) then by ascending value. The
// ordering is cosmetic.
func SortHand(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Suit != cards[j].Suit {
			return cards[i].Suit < cards[j].Suit
		}
		return cards[i].Value() < cards[j].Value()
	})
}
