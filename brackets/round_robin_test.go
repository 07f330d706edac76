package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairingsRejectsTooFewPlayers(t *testing.T) {
	for _, n := range []int{-1, 0, 1} {
		_, err := Pairings(n)
		assert.ErrorIs(t, err, ErrNotEnoughPlayers, "n=%d", n)
	}
}

func TestPairingsCoversEveryPairOnce(t *testing.T) {
	for n := 2; n <= 14; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			pairs, err := Pairings(n)
			require.NoError(t, err)
			require.Len(t, pairs, n*(n-1)/2)

			seen := make(map[[2]int]bool, len(pairs))
			for _, p := range pairs {
				require.GreaterOrEqual(t, p[0], 1)
				require.LessOrEqual(t, p[1], n)
				require.Less(t, p[0], p[1], "pairs are stored low-high")
				key := [2]int{p[0], p[1]}
				require.False(t, seen[key], "pair %v repeated", p)
				seen[key] = true
			}
		})
	}
}

func TestPairingsTableOrderIsStable(t *testing.T) {
	// Жеребьёвка для N=4 — исторический порядок, на него завязаны фикстуры.
	pairs, err := Pairings(4)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 4}, {2, 3}, {1, 3}, {2, 4}, {1, 2}, {3, 4}}, pairs)
}

func TestPairingsReturnsCopy(t *testing.T) {
	first, err := Pairings(4)
	require.NoError(t, err)
	first[0] = [2]int{9, 9}

	second, err := Pairings(4)
	require.NoError(t, err)
	assert.Equal(t, [2]int{1, 4}, second[0])
}
