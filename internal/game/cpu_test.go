package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/bhabhi/internal/deck"
)

func cpuState(hand string, required deck.Suit, firstMove bool, avoid deck.Suit) TableState {
	cards := deck.MustParseCards(hand)
	deck.SortHand(cards)
	return TableState{
		Phase:        Play,
		RequiredSuit: required,
		FirstMove:    firstMove,
		ActiveIndex:  0,
		Seats: []SeatState{{
			Index:        0,
			Hand:         cards,
			Active:       true,
			JustPickedUp: avoid != deck.NoSuit,
			AvoidSuit:    avoid,
		}},
	}
}

func TestCPUPolicy(t *testing.T) {
	tests := []struct {
		name      string
		hand      string
		required  deck.Suit
		firstMove bool
		avoid     deck.Suit
		want      string
	}{
		{"opens with the ace", "2c 9h As Kd", deck.NoSuit, true, deck.NoSuit, "As"},
		{"leads lowest", "9h 3c Kd 5s", deck.NoSuit, false, deck.NoSuit, "3c"},
		{"leads lowest outside picked-up suit", "2s 3s 9h Qd", deck.NoSuit, false, deck.Spades, "9h"},
		{"leads picked-up suit when nothing else", "2s 9s", deck.NoSuit, false, deck.Spades, "2s"},
		{"follows lowest of suit", "Kh 4h Ac 2d", deck.Hearts, false, deck.NoSuit, "4h"},
		{"follows even after pickup", "Kh 4h 2s", deck.Hearts, false, deck.Hearts, "4h"},
		{"tochoo dumps highest", "5c Kd 9c", deck.Hearts, false, deck.NoSuit, "Kd"},
		{"tochoo avoids picked-up suit", "As 5c 9d", deck.Hearts, false, deck.Spades, "9d"},
		{"tochoo falls back to picked-up suit", "As 5s", deck.Hearts, false, deck.Spades, "As"},
	}

	p := NewCPUPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := cpuState(tt.hand, tt.required, tt.firstMove, tt.avoid)
			idx, ok := p.ChooseCardIndex(st, 0)
			assert.True(t, ok)
			want, err := deck.ParseCard(tt.want)
			assert.NoError(t, err)
			assert.Equal(t, want, st.Seats[0].Hand[idx])
		})
	}
}

func TestCPUPolicyPicksFirstOnTies(t *testing.T) {
	// Sorted suit-major, the 5♠ comes first.
	st := cpuState("5h 5s", deck.NoSuit, false, deck.NoSuit)
	idx, ok := NewCPUPolicy().ChooseCardIndex(st, 0)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestCPUPolicyEmptyHand(t *testing.T) {
	st := cpuState("", deck.NoSuit, false, deck.NoSuit)
	_, ok := NewCPUPolicy().ChooseCardIndex(st, 0)
	assert.False(t, ok)
	_, ok = NewCPUPolicy().ChooseCardIndex(st, 3)
	assert.False(t, ok)
}

func TestCPUPolicyIsAnAgent(t *testing.T) {
	var a Agent = NewCPUPolicy()
	st := cpuState("As 2h", deck.NoSuit, true, deck.NoSuit)
	idx, ok := a.ChooseCard(st, 0)
	assert.True(t, ok)
	assert.Equal(t, deck.DesignatedAce, st.Seats[0].Hand[idx])
}
