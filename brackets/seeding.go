package brackets

import (
	"errors"

	"github.com/haneul-lab/league-system/models"
)

// ErrBracketTooSmall: листовых матчей не хватает на всех кандидатов. Вызывающий
// обязан перестроить сетку большего размера; повторная неудача после одной
// перестройки — структурная несогласованность, а не повод для тихого ретрая.
var ErrBracketTooSmall = errors.New("bracket has fewer leaf slots than seeded candidates")

// Seed — кандидат с уже назначенным порядком: позиция в срезе и есть номер
// сида (первый элемент — сид 1).
type Seed struct {
	PlayerID int
	Origin   models.PlayerOrigin
}

// RankedPlayer — игрок с итоговым рангом внутри своей группы.
type RankedPlayer struct {
	PlayerID int
	Rank     int
}

// GroupRanking — итоговая таблица одной группы, игроки по возрастанию ранга.
type GroupRanking struct {
	GroupID     int
	GroupNumber int
	Players     []RankedPlayer
}

// seedOrders — канонические перестановки жеребьёвки: seedOrders[size][i] —
// слот (1-based) сида i+1. Сид 1 и сид size делят один листовой матч; каждый
// следующий уровень зеркалит предыдущий блок, чтобы сильные сиды не
// сталкивались рано. Таблицы исторические, воспроизводятся бит-в-бит.
var seedOrders = map[int][]int{
	2:  {1, 2},
	4:  {1, 4, 2, 3},
	8:  {1, 8, 5, 4, 3, 6, 7, 2},
	16: {1, 16, 9, 8, 5, 12, 13, 4, 3, 14, 11, 6, 7, 10, 15, 2},
	32: {
		1, 32, 17, 16, 9, 24, 25, 8, 5, 28, 21, 12, 13, 20, 29, 4,
		3, 30, 19, 14, 11, 22, 27, 6, 7, 26, 23, 10, 15, 18, 31, 2,
	},
}

// StandardSeedOrder returns, for each seed number i+1, its 1-based slot in
// the leaf row. Canonical tables cover slots in {2,4,8,16,32}; other
// power-of-two sizes are generated by recursive mirroring (slot 0 = seed 1,
// last slot = seed slots) and inverted into the same seed→slot form.
func StandardSeedOrder(slots int) []int {
	if order, ok := seedOrders[slots]; ok {
		out := make([]int, len(order))
		copy(out, order)
		return out
	}

	seedAtSlot := []int{1}
	for len(seedAtSlot) < slots {
		mirrored := make([]int, 0, len(seedAtSlot)*2)
		m := len(seedAtSlot)*2 + 1
		for _, s := range seedAtSlot {
			mirrored = append(mirrored, s, m-s)
		}
		seedAtSlot = mirrored
	}

	order := make([]int, slots)
	for pos, seed := range seedAtSlot {
		order[seed-1] = pos + 1
	}
	return order
}

// SeedListFromGroups собирает общий список сидов из групповых таблиц:
// блок 1 — все игроки ранга minRank по всем группам, блок 2 — ранга
// minRank+1 и так далее; внутри блока — по возрастанию номера группы.
// Дубликаты по игроку отбрасываются: два сида одному игроку не выдаются.
func SeedListFromGroups(groups []GroupRanking, minRank, maxRank int) []Seed {
	seeds := make([]Seed, 0)
	seen := make(map[int]struct{})

	for rank := minRank; rank <= maxRank; rank++ {
		for _, g := range groups {
			for _, p := range g.Players {
				if p.Rank != rank {
					continue
				}
				if _, dup := seen[p.PlayerID]; dup {
					continue
				}
				seen[p.PlayerID] = struct{}{}
				seeds = append(seeds, Seed{
					PlayerID: p.PlayerID,
					Origin: models.PlayerOrigin{
						GroupID:     g.GroupID,
						GroupNumber: g.GroupNumber,
						Rank:        p.Rank,
					},
				})
			}
		}
	}
	return seeds
}

// AssignSeeds раскладывает сидов по листовым матчам сетки через стандартную
// перестановку: сид i → слот order[i-1] → (матч slot/2, позиция slot%2+1).
// Листовой матч с единственным реальным участником сразу получает статус BYE.
func AssignSeeds(b *Bracket, seeds []Seed) error {
	leaves := b.Leaves()
	if len(leaves)*2 < len(seeds) {
		return ErrBracketTooSmall
	}

	order := StandardSeedOrder(len(leaves) * 2)
	for i := range seeds {
		seedNumber := i + 1
		slot := order[i] - 1
		node := &b.Nodes[leaves[slot/2]]

		playerID := seeds[i].PlayerID
		origin := seeds[i].Origin
		origin.Seed = seedNumber

		if slot%2 == 0 {
			node.Player1ID = &playerID
			node.Player1Origin = &origin
		} else {
			node.Player2ID = &playerID
			node.Player2Origin = &origin
		}
	}

	for _, idx := range leaves {
		if b.Nodes[idx].OccupantCount() == 1 {
			b.Nodes[idx].Status = models.MatchStatusBye
		}
	}
	return nil
}
