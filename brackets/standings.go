package brackets

import (
	"math"
	"sort"

	"github.com/haneul-lab/league-system/models"
)

// setRatioEpsilon: доли сетов сравниваются с допуском, чтобы порядок не
// зависел от погрешности плавающей точки.
const setRatioEpsilon = 0.001

// GroupPlayerInput — игрок группы с позицией, назначенной при формировании.
type GroupPlayerInput struct {
	PlayerID        int
	InitialPosition int
}

// CompletedMatch — завершённый матч группы для пересчёта таблицы.
type CompletedMatch struct {
	Player1ID int
	Player2ID int
	WinnerID  int
	Sets      []models.SetScore
}

// Standing — строка таблицы после пересчёта. HeadToHead: соперник → победил
// ли я его в личной встрече.
type Standing struct {
	PlayerID        int
	Wins            int
	SetsWon         int
	SetsLost        int
	InitialPosition int
	HeadToHead      map[int]bool
	Rank            int
}

func (s *Standing) setRatio() float64 {
	total := s.SetsWon + s.SetsLost
	if total == 0 {
		return 0
	}
	return float64(s.SetsWon) / float64(total)
}

// ComputeStandings пересчитывает таблицу группы целиком по завершённым
// матчам. Цепочка тай-брейков:
//  1. больше побед;
//  2. при равенстве ровно двух — личная встреча;
//  3. выше доля выигранных сетов (с допуском setRatioEpsilon);
//  4. меньше исходная позиция в группе.
//
// Полный пересчёт (не инкрементальный) гарантирует корректность при
// исправлении результатов; повторный вызов на тех же данных детерминированно
// даёт те же ранги.
func ComputeStandings(players []GroupPlayerInput, matches []CompletedMatch) []Standing {
	byPlayer := make(map[int]*Standing, len(players))
	order := make([]*Standing, 0, len(players))
	for _, p := range players {
		s := &Standing{
			PlayerID:        p.PlayerID,
			InitialPosition: p.InitialPosition,
			HeadToHead:      make(map[int]bool),
		}
		byPlayer[p.PlayerID] = s
		order = append(order, s)
	}

	for _, m := range matches {
		winner, loser := m.Player1ID, m.Player2ID
		winnerSets, loserSets := models.CountSets(m.Sets)
		if m.WinnerID == m.Player2ID {
			winner, loser = m.Player2ID, m.Player1ID
			winnerSets, loserSets = loserSets, winnerSets
		}

		w, wok := byPlayer[winner]
		l, lok := byPlayer[loser]
		if !wok || !lok {
			// Результат с игроком вне группы игнорируется: таблица
			// описывает только текущий состав.
			continue
		}

		w.Wins++
		w.SetsWon += winnerSets
		w.SetsLost += loserSets
		w.HeadToHead[loser] = true

		l.SetsWon += loserSets
		l.SetsLost += winnerSets
		l.HeadToHead[winner] = false
	}

	sort.SliceStable(order, func(i, j int) bool {
		return standingLess(order[i], order[j])
	})

	// Личная встреча применяется только когда по победам равны ровно двое.
	for i := 0; i+1 < len(order); i++ {
		a, b := order[i], order[i+1]
		if a.Wins != b.Wins {
			continue
		}
		tied := 2
		if i > 0 && order[i-1].Wins == a.Wins {
			tied++
		}
		if i+2 < len(order) && order[i+2].Wins == a.Wins {
			tied++
		}
		if tied != 2 {
			continue
		}
		if beaten, met := b.HeadToHead[a.PlayerID]; met && beaten {
			order[i], order[i+1] = b, a
		}
	}

	out := make([]Standing, len(order))
	for i, s := range order {
		s.Rank = i + 1
		out[i] = *s
	}
	return out
}

func standingLess(a, b *Standing) bool {
	if a.Wins != b.Wins {
		return a.Wins > b.Wins
	}
	ra, rb := a.setRatio(), b.setRatio()
	if math.Abs(ra-rb) > setRatioEpsilon {
		return ra > rb
	}
	return a.InitialPosition < b.InitialPosition
}
