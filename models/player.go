package models

import "time"

// Player — участник лиги.
type Player struct {
	ID         int       `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	SkillLevel *int      `json:"skill_level,omitempty" db:"skill_level"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type ParticipantStatus string

const (
	ParticipantStatusPending  ParticipantStatus = "pending"
	ParticipantStatusApproved ParticipantStatus = "approved"
	ParticipantStatusRejected ParticipantStatus = "rejected"
)

// LeaguePlayer связывает игрока с лигой; источник состава для formGroups.
type LeaguePlayer struct {
	ID       int               `json:"id" db:"id"`
	LeagueID int               `json:"league_id" db:"league_id"`
	PlayerID int               `json:"player_id" db:"player_id"`
	Status   ParticipantStatus `json:"status" db:"status"`

	Player *Player `json:"player,omitempty" db:"-"`
}
