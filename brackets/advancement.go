package brackets

import (
	"errors"

	"github.com/haneul-lab/league-system/models"
)

// maxCascadePasses страхует от испорченного дерева. Сетке на rounds уровней
// хватает rounds проходов; лимит — запас, а не рабочий предел.
const maxCascadePasses = 10

// ErrCascadeBound: каскад не достиг неподвижной точки за отведённые проходы.
// Сетка в неопределённом состоянии; ошибку нельзя глотать.
var ErrCascadeBound = errors.New("bye cascade exceeded the pass bound without reaching a fixed point")

// Cascade продвигает единственных участников bye-матчей вверх по сетке до
// неподвижной точки. Матч каскадируется только когда его пустой слот уже
// никогда не будет заполнен: оба питающих матча разрешены (bye либо пусты).
// Матч с двумя участниками становится SCHEDULED и ждёт игры. Возвращает
// число продвинутых участников.
func Cascade(b *Bracket) (int, error) {
	children := b.Children()

	// resolved: матч больше не произведёт нового участника для родителя
	// (bye уже продвинут или производить некого). Матч с двумя игроками
	// не разрешён — он ждёт результата.
	resolved := make([]bool, len(b.Nodes))
	pushed := make([]bool, len(b.Nodes))

	feedersResolved := func(idx int) bool {
		feeds := children[idx]
		for _, c := range feeds {
			if !resolved[c] {
				return false
			}
		}
		return true
	}

	advanced := 0
	for pass := 0; pass < maxCascadePasses; pass++ {
		changed := false

		for idx := range b.Nodes {
			node := &b.Nodes[idx]
			if resolved[idx] || node.Status == models.MatchStatusCompleted {
				continue
			}
			if !feedersResolved(idx) {
				continue
			}

			switch node.OccupantCount() {
			case 2:
				if node.Status != models.MatchStatusScheduled {
					node.Status = models.MatchStatusScheduled
					changed = true
				}
			case 1:
				if node.Status != models.MatchStatusBye {
					node.Status = models.MatchStatusBye
					changed = true
				}
				if !pushed[idx] {
					if node.Next != NoNext && !slotOccupied(&b.Nodes[node.Next], node.NextSlot) {
						playerID, origin := soleOccupant(node)
						placeOccupant(&b.Nodes[node.Next], node.NextSlot, playerID, origin)
						advanced++
					}
					pushed[idx] = true
					resolved[idx] = true
					changed = true
				}
			case 0:
				// Некого продвигать: слот родителя останется пустым.
				if node.Status != models.MatchStatusBye {
					node.Status = models.MatchStatusBye
					changed = true
				}
				if !resolved[idx] {
					resolved[idx] = true
					changed = true
				}
			}
		}

		if !changed {
			return advanced, nil
		}
	}

	return advanced, ErrCascadeBound
}

func slotOccupied(parent *Node, slot int) bool {
	if slot == 1 {
		return parent.Player1ID != nil
	}
	return parent.Player2ID != nil
}

func soleOccupant(n *Node) (int, *models.PlayerOrigin) {
	if n.Player1ID != nil {
		return *n.Player1ID, n.Player1Origin
	}
	return *n.Player2ID, n.Player2Origin
}

func placeOccupant(parent *Node, slot int, playerID int, origin *models.PlayerOrigin) {
	id := playerID
	if slot == 1 {
		parent.Player1ID = &id
		parent.Player1Origin = origin
	} else {
		parent.Player2ID = &id
		parent.Player2Origin = origin
	}
}
