package models

import "time"

// SetScore — счёт одного сета.
type SetScore struct {
	Player1Score int `json:"player1_score"`
	Player2Score int `json:"player2_score"`
}

type FinalScore struct {
	Player1Sets int `json:"player1_sets"`
	Player2Sets int `json:"player2_sets"`
}

// ScoreDetails хранится в match_results.score_details как JSON.
type ScoreDetails struct {
	Sets  []SetScore `json:"sets"`
	Final FinalScore `json:"final_score"`
}

// MatchResult — производная запись, один к одному с завершённым матчем.
// Никогда не редактируется по месту: при корректировке старая строка
// удаляется и записывается новая.
type MatchResult struct {
	ID        int          `json:"id" db:"id"`
	MatchID   int          `json:"match_id" db:"match_id"`
	WinnerID  int          `json:"winner_id" db:"winner_id"`
	Score     ScoreDetails `json:"score_details" db:"score_details"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// CountSets tallies set wins for both sides. Drawn sets count for neither.
func CountSets(sets []SetScore) (player1Sets, player2Sets int) {
	for _, s := range sets {
		switch {
		case s.Player1Score > s.Player2Score:
			player1Sets++
		case s.Player2Score > s.Player1Score:
			player2Sets++
		}
	}
	return player1Sets, player2Sets
}
