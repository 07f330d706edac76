package models

// Group — пронумерованная группа предварительного этапа. Number стабилен и
// начинается с 1; переподтверждение состава заменяет группы целиком.
type Group struct {
	ID      int    `json:"id" db:"id"`
	StageID int    `json:"stage_id" db:"stage_id"`
	Name    string `json:"name" db:"name"`
	Number  int    `json:"number" db:"number"`

	Players []GroupPlayer `json:"players,omitempty" db:"-"`
	Matches []Match       `json:"matches,omitempty" db:"-"`
}

// GroupPlayer — членство игрока в группе. InitialPosition — позиция при
// формировании группы, последний критерий тай-брейка.
type GroupPlayer struct {
	ID              int `json:"id" db:"id"`
	GroupID         int `json:"group_id" db:"group_id"`
	PlayerID        int `json:"player_id" db:"player_id"`
	InitialPosition int `json:"initial_position" db:"initial_position"`
	Rank            int `json:"rank" db:"rank"`

	Player *Player `json:"player,omitempty" db:"-"`
}
