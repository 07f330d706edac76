package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusBye        MatchStatus = "bye"
	MatchStatusCancelled  MatchStatus = "cancelled"
)

// PlayerOrigin — информационная пометка о том, откуда игрок попал в слот
// (группа/ранг предварительного этапа либо номер сида). Не авторитетна.
type PlayerOrigin struct {
	GroupID     int `json:"group_id,omitempty"`
	GroupNumber int `json:"group_number,omitempty"`
	Rank        int `json:"rank,omitempty"`
	Seed        int `json:"seed,omitempty"`
}

// Match принадлежит ровно одному этапу; для группового этапа заполнен
// GroupID, для плей-офф — Round. Нумерация раундов: 1 = финал, чем больше
// номер, тем раньше раунд. Каждый нефинальный матч плей-офф знает свой
// родительский матч (NextMatchID) и слот в нём (NextMatchPosition, 1 или 2).
type Match struct {
	ID          int         `json:"id" db:"id"`
	StageID     int         `json:"stage_id" db:"stage_id"`
	GroupID     *int        `json:"group_id,omitempty" db:"group_id"`
	Round       int         `json:"round" db:"round"`
	GroupNumber int         `json:"group_number" db:"group_number"`
	Description string      `json:"description" db:"description"`
	Order       int         `json:"order" db:"order"`
	Status      MatchStatus `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`

	Player1ID     *int          `json:"player1_id,omitempty" db:"player1_id"`
	Player2ID     *int          `json:"player2_id,omitempty" db:"player2_id"`
	Player1Origin *PlayerOrigin `json:"player1_origin,omitempty" db:"player1_origin"`
	Player2Origin *PlayerOrigin `json:"player2_origin,omitempty" db:"player2_origin"`

	NextMatchID       *int `json:"next_match_id,omitempty" db:"next_match_id"`
	NextMatchPosition *int `json:"next_match_position,omitempty" db:"next_match_position"`

	Player1 *Player      `json:"player1,omitempty" db:"-"`
	Player2 *Player      `json:"player2,omitempty" db:"-"`
	Result  *MatchResult `json:"result,omitempty" db:"-"`
}

// HasBothPlayers: результат можно фиксировать только для такого матча.
func (m *Match) HasBothPlayers() bool {
	return m.Player1ID != nil && m.Player2ID != nil
}

// SoleOccupant returns the single real occupant of a bye candidate, or nil
// when the match has zero or two occupants.
func (m *Match) SoleOccupant() (playerID *int, origin *PlayerOrigin) {
	switch {
	case m.Player1ID != nil && m.Player2ID == nil:
		return m.Player1ID, m.Player1Origin
	case m.Player1ID == nil && m.Player2ID != nil:
		return m.Player2ID, m.Player2Origin
	default:
		return nil, nil
	}
}
