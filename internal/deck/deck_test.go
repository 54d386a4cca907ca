package deck

import (
	"testing"

	"github.com/lox/bhabhi/internal/randutil"
)

func TestNewDeckHasEveryCardOnce(t *testing.T) {
	d := NewDeck(randutil.New(1))
	if d.CardsRemaining() != Size {
		t.Fatalf("CardsRemaining() = %d, want %d", d.CardsRemaining(), Size)
	}

	d.Shuffle()
	hands, err := d.Deal(1)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[Card]bool)
	for _, c := range hands[0] {
		if seen[c] {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = true
	}
	if len(seen) != Size {
		t.Errorf("got %d distinct cards, want %d", len(seen), Size)
	}
}

func TestDealPartitionsWholeDeck(t *testing.T) {
	tests := []struct {
		seats int
		sizes []int
	}{
		{3, []int{18, 17, 17}},
		{4, []int{13, 13, 13, 13}},
		{5, []int{11, 11, 10, 10, 10}},
		{6, []int{9, 9, 9, 9, 8, 8}},
	}

	for _, tt := range tests {
		d := NewDeck(randutil.New(int64(tt.seats)))
		d.Shuffle()
		hands, err := d.Deal(tt.seats)
		if err != nil {
			t.Fatal(err)
		}
		if !d.IsEmpty() {
			t.Errorf("%d seats: deck not empty after deal", tt.seats)
		}
		total := 0
		for i, h := range hands {
			if len(h) != tt.sizes[i] {
				t.Errorf("%d seats: seat %d got %d cards, want %d", tt.seats, i, len(h), tt.sizes[i])
			}
			total += len(h)
		}
		if total != Size {
			t.Errorf("%d seats: dealt %d cards, want %d", tt.seats, total, Size)
		}
	}
}

func TestDealRejectsNoSeats(t *testing.T) {
	d := NewDeck(randutil.New(1))
	if _, err := d.Deal(0); err == nil {
		t.Error("Deal(0) should fail")
	}
}

func TestShuffleIsDeterministicForSeed(t *testing.T) {
	a := NewDeck(randutil.New(42))
	b := NewDeck(randutil.New(42))
	a.Shuffle()
	b.Shuffle()
	ha, _ := a.Deal(1)
	hb, _ := b.Deal(1)
	if !cardsEqual(ha[0], hb[0]) {
		t.Error("same seed should produce the same shuffle")
	}
}

func TestSortHand(t *testing.T) {
	cards := MustParseCards("3c Ah 2s Kd 10s 2h")
	SortHand(cards)
	want := MustParseCards("2s 10s 2h Ah Kd 3c")
	if !cardsEqual(cards, want) {
		t.Errorf("SortHand() = %v, want %v", cards, want)
	}
}
