package models

import "time"

// GroupStanding — строка таблицы группы для одного игрока. Пересчитывается
// целиком после каждого изменения результата, не инкрементально.
type GroupStanding struct {
	ID              int       `json:"id" db:"id"`
	GroupID         int       `json:"group_id" db:"group_id"`
	PlayerID        int       `json:"player_id" db:"player_id"`
	Wins            int       `json:"wins" db:"wins"`
	SetsWon         int       `json:"sets_won" db:"sets_won"`
	SetsLost        int       `json:"sets_lost" db:"sets_lost"`
	InitialPosition int       `json:"initial_position" db:"initial_position"`
	Rank            int       `json:"rank" db:"rank"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	Player *Player `json:"player,omitempty" db:"-"`
}
