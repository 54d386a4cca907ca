package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bhabhi/internal/deck"
)

func TestFirstMoveOnlyAceOfSpades(t *testing.T) {
	e, err := StartTestGame([]string{
		"2c 7h As Kd",
		"Ks 7c 8d",
		"Qs 9h 10d",
		"2s Jh Qd",
	})
	require.NoError(t, err)

	table := e.Table()
	require.Equal(t, 0, table.Leader)
	require.True(t, table.FirstMove)

	playable := e.PlayableIndices(0)
	require.Len(t, playable, 1)
	assert.Equal(t, deck.DesignatedAce, table.Seats[0].Hand[playable[0]])

	for i := range table.Seats[0].Hand {
		if i == playable[0] {
			continue
		}
		assert.ErrorIs(t, CheckPlay(table, 0, i), ErrMustOpenWithAce)
	}
}

func TestFirstMoveUnrestrictedWithoutAce(t *testing.T) {
	e, err := StartTestGame([]string{
		"Ks 2h",
		"Qs 3h",
		"Js 4h",
	}, WithSeed(7))
	require.NoError(t, err)

	table := e.Table()
	assert.True(t, table.FirstMove)
	assert.GreaterOrEqual(t, table.Leader, 0)
	assert.Less(t, table.Leader, 3)
	assert.Equal(t, table.Leader, table.ActiveIndex)
	assert.Equal(t, []int{0, 1}, e.PlayableIndices(table.Leader))
}

func TestFollowSuitWhenHoldingIt(t *testing.T) {
	e, err := StartTestGame([]string{
		"As 5h 6d",
		"Ks 7h 8d",
		"9h 10d Jc",
		"Qs Jh Qd",
	})
	require.NoError(t, err)

	_, err = PlayCard(e, 0, "As")
	require.NoError(t, err)

	table := e.Table()
	assert.Equal(t, deck.Spades, table.RequiredSuit)
	assert.False(t, table.FirstMove)

	// Seat 1 holds a spade: only the spade is playable.
	hand := table.Seats[1].Hand
	for i, c := range hand {
		if c.Suit == deck.Spades {
			assert.NoError(t, CheckPlay(table, 1, i), c.String())
		} else {
			assert.ErrorIs(t, CheckPlay(table, 1, i), ErrMustFollowSuit, c.String())
		}
	}

	_, err = PlayCard(e, 1, "Ks")
	require.NoError(t, err)

	// Seat 2 is void in spades: every card is playable.
	assert.Len(t, e.PlayableIndices(2), len(table.Seats[2].Hand))
}

func TestPlayabilityMatchesFollowSuitRule(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		e, seats := NewTestEngine(WithSeed(seed), WithSeats(5))
		require.NoError(t, e.StartGame(seats))
		cpu := NewCPUPolicy()

		for step := 0; step < 200 && e.Phase() != Finished; step++ {
			if e.Phase() == ShowingTrick {
				e.CommitResolution()
				continue
			}
			table := e.Table()
			seat := table.ActiveIndex
			s := table.Seats[seat]
			if !table.IsLeading() && !table.FirstMove && s.HasSuit(table.RequiredSuit) {
				for i, c := range s.Hand {
					assert.Equal(t, c.Suit == table.RequiredSuit, e.IsPlayable(seat, i))
				}
			}
			for other := range table.Seats {
				if !table.Seats[other].Active {
					assert.Empty(t, e.PlayableIndices(other))
				}
			}
			idx, ok := cpu.ChooseCardIndex(e.Snapshot(), seat)
			require.True(t, ok)
			_, err := e.AcceptPlay(seat, idx)
			require.NoError(t, err)
			e.ReleaseHold()
		}
	}
}

func TestCheckPlayRejectsBadInput(t *testing.T) {
	e, err := StartTestGame([]string{"As 2h", "3s 4h", "5s 6h"})
	require.NoError(t, err)
	table := e.Table()

	assert.ErrorIs(t, CheckPlay(table, 0, 5), ErrBadCardIndex)
	assert.ErrorIs(t, CheckPlay(table, 0, -1), ErrBadCardIndex)
	assert.ErrorIs(t, CheckPlay(table, 9, 0), ErrNotYourTurn)
	assert.Nil(t, PlayableIndices(table, 9))

	table.Seats[2].Active = false
	assert.ErrorIs(t, CheckPlay(table, 2, 0), ErrSeatInactive)
}
