package services

import (
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckystake/pool-engine/domain/entities"
)

func TestSelectWinner_SingleDepositorAlwaysWins(t *testing.T) {
	depositors := []*entities.Depositor{
		{Address: "alice", Tickets: decimal.NewFromInt(700)},
	}
	winner, _, err := SelectWinner(depositors, decimal.NewFromInt(700), 12345)
	require.NoError(t, err)
	assert.Equal(t, "alice", winner)
}

func TestSelectWinner_EmptyTicketsFails(t *testing.T) {
	_, _, err := SelectWinner(nil, decimal.Zero, 1)
	assert.ErrorIs(t, err, entities.ErrNoTickets)
}

func TestSelectWinner_BoundaryIndicesResolveToExactlyOneAddress(t *testing.T) {
	depositors := []*entities.Depositor{
		{Address: "alice", Tickets: decimal.NewFromInt(3)},
		{Address: "bob", Tickets: decimal.NewFromInt(5)},
	}
	total := decimal.NewFromInt(8)

	// winning_index 2 is alice's last slot (range [0,3))
	w, idx, err := SelectWinner(depositors, total, 2)
	require.NoError(t, err)
	assert.Equal(t, "alice", w)
	assert.True(t, idx.Equal(decimal.NewFromInt(2)))

	// winning_index 3 is bob's first slot (range [3,8))
	w, idx, err = SelectWinner(depositors, total, 3)
	require.NoError(t, err)
	assert.Equal(t, "bob", w)
	assert.True(t, idx.Equal(decimal.NewFromInt(3)))
}

// TestSelectWinner_Fairness is the selection-fairness property (spec
// section 8, property 6): over many independent seeds, empirical selection
// frequency approaches Tickets[addr]/TotalTickets.
func TestSelectWinner_Fairness(t *testing.T) {
	depositors := []*entities.Depositor{
		{Address: "alice", Tickets: decimal.NewFromInt(700)},  // 100 * 7
		{Address: "bob", Tickets: decimal.NewFromInt(2100)},   // 300 * 7
	}
	total := decimal.NewFromInt(2800)

	const draws = 20000
	wins := map[string]int{}
	var buf [8]byte
	for i := 0; i < draws; i++ {
		_, err := rand.Read(buf[:])
		require.NoError(t, err)
		seed := binary.BigEndian.Uint64(buf[:])

		w, _, err := SelectWinner(depositors, total, seed)
		require.NoError(t, err)
		wins[w]++
	}

	aliceFreq := float64(wins["alice"]) / float64(draws)
	bobFreq := float64(wins["bob"]) / float64(draws)

	assert.InDelta(t, 0.25, aliceFreq, 0.03)
	assert.InDelta(t, 0.75, bobFreq, 0.03)
}

func TestComputeSeed_Deterministic(t *testing.T) {
	a := ComputeSeed(1000, 5, 2)
	b := ComputeSeed(1000, 5, 2)
	assert.Equal(t, a, b)

	c := ComputeSeed(1000, 5, 3)
	assert.NotEqual(t, a, c)
}
