package brackets

import (
	"fmt"

	"github.com/haneul-lab/league-system/models"
)

// NoNext marks the final: the only node without a parent.
const NoNext = -1

// Node — один матч сетки. Узлы живут в арене Bracket.Nodes и ссылаются друг
// на друга индексами, а не указателями: при удалении этапа достаточно
// занулить индекс, циклов и висячих ссылок не возникает.
type Node struct {
	Round int // 1 = final, higher = earlier
	Order int // 1-based position within the round

	Player1ID     *int
	Player2ID     *int
	Player1Origin *models.PlayerOrigin
	Player2Origin *models.PlayerOrigin

	Status models.MatchStatus

	Next     int // arena index of the parent match, NoNext for the final
	NextSlot int // 1 or 2; which parent slot this match feeds
}

// HasBothPlayers reports whether the node holds two real occupants.
func (n *Node) HasBothPlayers() bool {
	return n.Player1ID != nil && n.Player2ID != nil
}

// OccupantCount returns how many real players the node holds (0, 1 or 2).
func (n *Node) OccupantCount() int {
	c := 0
	if n.Player1ID != nil {
		c++
	}
	if n.Player2ID != nil {
		c++
	}
	return c
}

// Bracket — дерево матчей single elimination в виде арены. Узлы лежат по
// раундам: сначала раунд Rounds (первый игровой), затем к финалу.
type Bracket struct {
	Rounds int
	Nodes  []Node

	roundOffsets []int // index of the first node of each round, [rounds+1]
}

// Build создаёт пустую сетку на rounds раундов. Раунд rounds содержит
// slots/2 матчей; каждый следующий раунд к финалу вдвое меньше. Для каждой
// пары соседних матчей (m0, m1) раунда r назначается общий родитель в
// раунде r-1: m0 кормит слот 1, m1 — слот 2.
func Build(rounds int) (*Bracket, error) {
	if rounds < 1 {
		return nil, fmt.Errorf("bracket requires at least 1 round, got %d", rounds)
	}

	total := (1 << uint(rounds)) - 1
	b := &Bracket{
		Rounds:       rounds,
		Nodes:        make([]Node, 0, total),
		roundOffsets: make([]int, rounds+1),
	}

	for round := rounds; round >= 1; round-- {
		b.roundOffsets[round] = len(b.Nodes)
		count := 1 << uint(round-1)
		for i := 0; i < count; i++ {
			b.Nodes = append(b.Nodes, Node{
				Round:  round,
				Order:  i + 1,
				Status: models.MatchStatusScheduled,
				Next:   NoNext,
			})
		}
	}

	for round := rounds; round > 1; round-- {
		current := b.RoundNodes(round)
		parents := b.RoundNodes(round - 1)
		for i := 0; i < len(current); i += 2 {
			parent := parents[i/2]
			b.Nodes[current[i]].Next = parent
			b.Nodes[current[i]].NextSlot = 1
			b.Nodes[current[i+1]].Next = parent
			b.Nodes[current[i+1]].NextSlot = 2
		}
	}

	return b, nil
}

// RoundNodes returns the arena indices of a round's matches in order.
func (b *Bracket) RoundNodes(round int) []int {
	if round < 1 || round > b.Rounds {
		return nil
	}
	count := 1 << uint(round-1)
	start := b.roundOffsets[round]
	out := make([]int, count)
	for i := range out {
		out[i] = start + i
	}
	return out
}

// Leaves returns the first played round's matches (round == Rounds).
func (b *Bracket) Leaves() []int {
	return b.RoundNodes(b.Rounds)
}

// Final returns the arena index of the final match.
func (b *Bracket) Final() int {
	return b.roundOffsets[1]
}

// Children returns the arena indices feeding each node, keyed by parent index.
func (b *Bracket) Children() map[int][]int {
	children := make(map[int][]int, len(b.Nodes))
	for i := range b.Nodes {
		if next := b.Nodes[i].Next; next != NoNext {
			children[next] = append(children[next], i)
		}
	}
	return children
}

// RoundName даёт человекочитаемое имя раунда: финал, полуфинал и т.д.
func RoundName(round int) string {
	switch players := 1 << uint(round); players {
	case 2:
		return "Final"
	case 4:
		return "Semifinal"
	case 8:
		return "Quarterfinal"
	default:
		return fmt.Sprintf("Round of %d", players)
	}
}
