package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeFor(t *testing.T) {
	tests := []struct {
		qualifiers    int
		rounds        int
		slots         int
		forcedMinimum bool
	}{
		{qualifiers: 1, rounds: 1, slots: 2},
		{qualifiers: 2, rounds: 1, slots: 2},
		{qualifiers: 3, rounds: 2, slots: 4},
		{qualifiers: 4, rounds: 2, slots: 4},
		// 5..8 всегда дают три раунда, принудительный минимум сетки.
		{qualifiers: 5, rounds: 3, slots: 8},
		{qualifiers: 6, rounds: 3, slots: 8},
		{qualifiers: 7, rounds: 3, slots: 8},
		{qualifiers: 8, rounds: 3, slots: 8},
		{qualifiers: 9, rounds: 4, slots: 16},
		{qualifiers: 10, rounds: 4, slots: 16},
		{qualifiers: 16, rounds: 4, slots: 16},
		{qualifiers: 17, rounds: 5, slots: 32},
		{qualifiers: 32, rounds: 5, slots: 32},
		{qualifiers: 33, rounds: 6, slots: 64},

		{qualifiers: 0, rounds: 1, slots: 2, forcedMinimum: true},
		{qualifiers: -3, rounds: 1, slots: 2, forcedMinimum: true},
	}

	for _, tc := range tests {
		got := SizeFor(tc.qualifiers)
		assert.Equal(t, tc.rounds, got.Rounds, "qualifiers=%d rounds", tc.qualifiers)
		assert.Equal(t, tc.slots, got.Slots, "qualifiers=%d slots", tc.qualifiers)
		assert.Equal(t, tc.forcedMinimum, got.ForcedMinimum, "qualifiers=%d forced", tc.qualifiers)
	}
}
