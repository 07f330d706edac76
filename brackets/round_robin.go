package brackets

import (
	"errors"
	"fmt"
)

var ErrNotEnoughPlayers = errors.New("at least 2 players are required for a round-robin schedule")

// pairingTables — канонические таблицы жеребьёвки кругового турнира для
// N=2..12. Порядок подобран по круговому методу так, чтобы игрок не встречал
// подряд двух соперников из одной половины состава. Таблицы исторические:
// тестовые фикстуры и старые данные зависят от этого порядка бит-в-бит.
var pairingTables = map[int][][2]int{
	2: {{1, 2}},
	3: {{1, 3}, {2, 3}, {1, 2}},
	4: {{1, 4}, {2, 3}, {1, 3}, {2, 4}, {1, 2}, {3, 4}},
	5: {{1, 5}, {2, 4}, {1, 3}, {2, 5}, {3, 4}, {1, 2}, {3, 5}, {1, 4}, {2, 3}, {4, 5}},
	6: {{1, 6}, {2, 5}, {3, 4}, {1, 5}, {4, 6}, {2, 3}, {1, 4}, {3, 5}, {2, 6}, {1, 3}, {2, 4}, {5, 6}, {1, 2}, {3, 6}, {4, 5}},
	7: {{1, 7}, {2, 6}, {3, 5}, {1, 4}, {2, 7}, {3, 6}, {4, 5}, {1, 2}, {3, 7}, {4, 6}, {1, 5}, {2, 3}, {4, 7}, {5, 6}, {1, 3}, {2, 4}, {5, 7}, {1, 6}, {3, 4}, {2, 5}, {6, 7}},
	8: {{1, 8}, {2, 7}, {3, 6}, {4, 5}, {1, 7}, {6, 8}, {2, 5}, {3, 4}, {1, 6}, {5, 7}, {4, 8}, {2, 3}, {1, 5}, {4, 6}, {3, 7}, {2, 8}, {1, 4}, {3, 5}, {2, 6}, {7, 8}, {1, 3}, {2, 4}, {5, 8}, {6, 7}, {1, 2}, {3, 8}, {4, 7}, {5, 6}},
	9: {{1, 9}, {2, 8}, {3, 7}, {4, 6}, {1, 5}, {2, 9}, {3, 8}, {4, 7}, {5, 6}, {1, 2}, {3, 9}, {4, 8}, {5, 7}, {1, 6}, {2, 3}, {4, 9}, {5, 8}, {6, 7}, {1, 3}, {2, 4}, {5, 9}, {6, 8}, {1, 7}, {3, 4}, {2, 5}, {6, 9}, {7, 8}, {1, 4}, {3, 5}, {2, 6}, {7, 9}, {1, 8}, {4, 5}, {3, 6}, {2, 7}, {8, 9}},
	10: {{1, 10}, {2, 9}, {3, 8}, {4, 7}, {5, 6}, {1, 9}, {8, 10}, {2, 7}, {3, 6}, {4, 5}, {1, 8}, {7, 9}, {6, 10}, {2, 5}, {3, 4}, {1, 7}, {6, 8}, {5, 9}, {4, 10}, {2, 3}, {1, 6}, {5, 7}, {4, 8}, {3, 9}, {2, 10}, {1, 5}, {4, 6}, {3, 7}, {2, 8}, {9, 10}, {1, 4}, {3, 5}, {2, 6}, {7, 10}, {8, 9}, {1, 3}, {2, 4}, {5, 10}, {6, 9}, {7, 8}, {1, 2}, {3, 10}, {4, 9}, {5, 8}, {6, 7}},
	11: {{1, 11}, {2, 10}, {3, 9}, {4, 8}, {5, 7}, {1, 6}, {2, 11}, {3, 10}, {4, 9}, {5, 8}, {6, 7}, {1, 2}, {3, 11}, {4, 10}, {5, 9}, {6, 8}, {1, 7}, {2, 3}, {4, 11}, {5, 10}, {6, 9}, {7, 8}, {1, 3}, {2, 4}, {5, 11}, {6, 10}, {7, 9}, {1, 8}, {3, 4}, {2, 5}, {6, 11}, {7, 10}, {8, 9}, {1, 4}, {3, 5}, {2, 6}, {7, 11}, {8, 10}, {1, 9}, {4, 5}, {3, 6}, {2, 7}, {8, 11}, {9, 10}, {1, 5}, {4, 6}, {3, 7}, {2, 8}, {9, 11}, {1, 10}, {5, 6}, {4, 7}, {3, 8}, {2, 9}, {10, 11}},
	12: {{1, 12}, {2, 11}, {3, 10}, {4, 9}, {5, 8}, {6, 7}, {1, 11}, {10, 12}, {2, 9}, {3, 8}, {4, 7}, {5, 6}, {1, 10}, {9, 11}, {8, 12}, {2, 7}, {3, 6}, {4, 5}, {1, 9}, {8, 10}, {7, 11}, {6, 12}, {2, 5}, {3, 4}, {1, 8}, {7, 9}, {6, 10}, {5, 11}, {4, 12}, {2, 3}, {1, 7}, {6, 8}, {5, 9}, {4, 10}, {3, 11}, {2, 12}, {1, 6}, {5, 7}, {4, 8}, {3, 9}, {2, 10}, {11, 12}, {1, 5}, {4, 6}, {3, 7}, {2, 8}, {9, 12}, {10, 11}, {1, 4}, {3, 5}, {2, 6}, {7, 12}, {8, 11}, {9, 10}, {1, 3}, {2, 4}, {5, 12}, {6, 11}, {7, 10}, {8, 9}, {1, 2}, {3, 12}, {4, 11}, {5, 10}, {6, 9}, {7, 8}},
}

// Pairings returns the match order for a group of n players as 1-based index
// pairs against the caller's player ordering. Every unordered pair appears
// exactly once, n*(n-1)/2 pairs total. For n in 2..12 the fixed tables above
// are returned; larger groups fall back to lexicographic enumeration.
func Pairings(n int) ([][2]int, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrNotEnoughPlayers, n)
	}
	if table, ok := pairingTables[n]; ok {
		out := make([][2]int, len(table))
		copy(out, table)
		return out, nil
	}
	out := make([][2]int, 0, n*(n-1)/2)
	for i := 1; i <= n; i++ {
		for j := i + 1; j <= n; j++ {
			out = append(out, [2]int{i, j})
		}
	}
	return out, nil
}
