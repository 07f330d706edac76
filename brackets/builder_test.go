package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-lab/league-system/models"
)

func TestBuildShape(t *testing.T) {
	for rounds := 1; rounds <= 6; rounds++ {
		b, err := Build(rounds)
		require.NoError(t, err)

		require.Len(t, b.Nodes, (1<<uint(rounds))-1)
		assert.Len(t, b.Leaves(), 1<<uint(rounds-1))

		for round := 1; round <= rounds; round++ {
			nodes := b.RoundNodes(round)
			require.Len(t, nodes, 1<<uint(round-1), "round %d", round)
			for i, idx := range nodes {
				assert.Equal(t, round, b.Nodes[idx].Round)
				assert.Equal(t, i+1, b.Nodes[idx].Order)
				assert.Equal(t, models.MatchStatusScheduled, b.Nodes[idx].Status)
			}
		}
	}
}

func TestBuildRejectsZeroRounds(t *testing.T) {
	_, err := Build(0)
	assert.Error(t, err)
}

func TestBuildLinksSiblingsToParentSlots(t *testing.T) {
	b, err := Build(3)
	require.NoError(t, err)

	final := b.Final()
	assert.Equal(t, NoNext, b.Nodes[final].Next, "final has no parent")

	for round := b.Rounds; round > 1; round-- {
		current := b.RoundNodes(round)
		parents := b.RoundNodes(round - 1)
		for i := 0; i < len(current); i += 2 {
			left, right := b.Nodes[current[i]], b.Nodes[current[i+1]]
			assert.Equal(t, parents[i/2], left.Next)
			assert.Equal(t, 1, left.NextSlot)
			assert.Equal(t, parents[i/2], right.Next)
			assert.Equal(t, 2, right.NextSlot)
		}
	}
}

func TestChildrenInvertsNextLinks(t *testing.T) {
	b, err := Build(3)
	require.NoError(t, err)

	children := b.Children()
	assert.Empty(t, children[b.Leaves()[0]], "leaves have no feeders")

	final := b.Final()
	require.Len(t, children[final], 2)
	for _, c := range children[final] {
		assert.Equal(t, final, b.Nodes[c].Next)
	}
}

func TestRoundName(t *testing.T) {
	assert.Equal(t, "Final", RoundName(1))
	assert.Equal(t, "Semifinal", RoundName(2))
	assert.Equal(t, "Quarterfinal", RoundName(3))
	assert.Equal(t, "Round of 16", RoundName(4))
	assert.Equal(t, "Round of 32", RoundName(5))
}
