package brackets

import "math"

// Исторически при 5–8 участниках сетка принудительно расширяется до 8 слотов
// (три раунда), даже когда ceil(log2) дал бы меньше. Правило оставлено как
// намеренное поведение продукта; константы экспортированы, чтобы вызывающий
// код и тесты видели его явно.
const (
	ForcedFloorMinPlayers = 5
	ForcedFloorMaxPlayers = 8
	ForcedFloorRounds     = 3
)

// BracketSize описывает размер сетки single elimination.
type BracketSize struct {
	Rounds int
	Slots  int

	// ForcedMinimum: число квалифицировавшихся было <= 0 и размер посчитан
	// от минимальных двух участников. Решение — за вызывающим: наш сервис
	// пробрасывает предупреждение в ответ, а не падает.
	ForcedMinimum bool
}

// SizeFor computes the bracket size for the given qualified-player count.
func SizeFor(qualifiers int) BracketSize {
	size := BracketSize{}
	if qualifiers <= 0 {
		qualifiers = 2
		size.ForcedMinimum = true
	}

	rounds := 1
	if qualifiers > 2 {
		rounds = int(math.Ceil(math.Log2(float64(qualifiers))))
	}
	if qualifiers >= ForcedFloorMinPlayers && qualifiers <= ForcedFloorMaxPlayers && rounds < ForcedFloorRounds {
		rounds = ForcedFloorRounds
	}

	size.Rounds = rounds
	size.Slots = 1 << uint(rounds)
	return size
}
