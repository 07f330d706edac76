package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-lab/league-system/models"
)

func TestStandardSeedOrderCanonicalTables(t *testing.T) {
	assert.Equal(t, []int{1, 2}, StandardSeedOrder(2))
	assert.Equal(t, []int{1, 4, 2, 3}, StandardSeedOrder(4))
	assert.Equal(t, []int{1, 8, 5, 4, 3, 6, 7, 2}, StandardSeedOrder(8))
	assert.Equal(t,
		[]int{1, 16, 9, 8, 5, 12, 13, 4, 3, 14, 11, 6, 7, 10, 15, 2},
		StandardSeedOrder(16))
	assert.Len(t, StandardSeedOrder(32), 32)
}

func TestStandardSeedOrderGenerated(t *testing.T) {
	order := StandardSeedOrder(64)
	require.Len(t, order, 64)

	seen := make(map[int]bool, 64)
	for _, slot := range order {
		require.GreaterOrEqual(t, slot, 1)
		require.LessOrEqual(t, slot, 64)
		require.False(t, seen[slot])
		seen[slot] = true
	}

	// Сид 1 — слот 1, сид 64 — соседний слот того же листового матча,
	// сид 2 открывает нижнюю половину.
	assert.Equal(t, 1, order[0])
	assert.Equal(t, 2, order[63])
	assert.Equal(t, 33, order[1])
}

func TestSeedListFromGroupsBlocksByRank(t *testing.T) {
	groups := []GroupRanking{
		{GroupID: 11, GroupNumber: 1, Players: []RankedPlayer{
			{PlayerID: 101, Rank: 1}, {PlayerID: 102, Rank: 2}, {PlayerID: 103, Rank: 3},
		}},
		{GroupID: 12, GroupNumber: 2, Players: []RankedPlayer{
			{PlayerID: 201, Rank: 1}, {PlayerID: 202, Rank: 2}, {PlayerID: 203, Rank: 3},
		}},
	}

	seeds := SeedListFromGroups(groups, 1, 2)
	require.Len(t, seeds, 4)

	// Блок ранга 1 по возрастанию номера группы, затем блок ранга 2.
	assert.Equal(t, []int{101, 201, 102, 202}, seedPlayerIDs(seeds))
	assert.Equal(t, models.PlayerOrigin{GroupID: 12, GroupNumber: 2, Rank: 2}, seeds[3].Origin)
}

func TestSeedListFromGroupsDropsDuplicatePlayers(t *testing.T) {
	groups := []GroupRanking{
		{GroupID: 11, GroupNumber: 1, Players: []RankedPlayer{{PlayerID: 101, Rank: 1}}},
		{GroupID: 12, GroupNumber: 2, Players: []RankedPlayer{{PlayerID: 101, Rank: 1}, {PlayerID: 202, Rank: 1}}},
	}

	seeds := SeedListFromGroups(groups, 1, 1)
	assert.Equal(t, []int{101, 202}, seedPlayerIDs(seeds))
}

func TestAssignSeedsFourIntoEight(t *testing.T) {
	b, err := Build(3)
	require.NoError(t, err)

	seeds := make([]Seed, 4)
	for i := range seeds {
		seeds[i] = Seed{PlayerID: 100 + i + 1}
	}
	require.NoError(t, AssignSeeds(b, seeds))

	leaves := b.Leaves()
	// order(8) = {1,8,5,4,...}: сид1 → слот1, сид2 → слот8, сид3 → слот5,
	// сид4 → слот4. Каждый лист получает одного участника и становится bye.
	assert.Equal(t, 101, *b.Nodes[leaves[0]].Player1ID)
	assert.Equal(t, 104, *b.Nodes[leaves[1]].Player2ID)
	assert.Equal(t, 103, *b.Nodes[leaves[2]].Player1ID)
	assert.Equal(t, 102, *b.Nodes[leaves[3]].Player2ID)

	for _, idx := range leaves {
		assert.Equal(t, 1, b.Nodes[idx].OccupantCount())
		assert.Equal(t, models.MatchStatusBye, b.Nodes[idx].Status)
	}

	assert.Equal(t, 1, b.Nodes[leaves[0]].Player1Origin.Seed)
	assert.Equal(t, 2, b.Nodes[leaves[3]].Player2Origin.Seed)
}

func TestAssignSeedsBracketTooSmall(t *testing.T) {
	b, err := Build(1)
	require.NoError(t, err)

	seeds := []Seed{{PlayerID: 1}, {PlayerID: 2}, {PlayerID: 3}}
	assert.ErrorIs(t, AssignSeeds(b, seeds), ErrBracketTooSmall)
}

func seedPlayerIDs(seeds []Seed) []int {
	ids := make([]int, len(seeds))
	for i, s := range seeds {
		ids[i] = s.PlayerID
	}
	return ids
}
