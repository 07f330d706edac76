package models

import "time"

// StageType распознаёт два вида этапов лиги.
type StageType string

const (
	StageTypeGroup      StageType = "GROUP"
	StageTypeTournament StageType = "TOURNAMENT"
)

// MatchFormat задаёт формат матча для всех матчей этапа.
type MatchFormat struct {
	GamesRequired int `json:"games_required"` // total games, e.g. 5
	SetsRequired  int `json:"sets_required"`  // sets needed to win, e.g. 3
}

// QualificationCriteria — окно рангов внутри каждой группы, дающее выход в
// плей-офф.
type QualificationCriteria struct {
	RankCutoff int `json:"rank_cutoff"`        // top-N per group advance
	MinRank    int `json:"min_rank,omitempty"` // defaults to 1
	MaxRank    int `json:"max_rank,omitempty"` // defaults to RankCutoff
}

// EffectiveRange resolves the optional boundaries the way stored configs have
// historically used them: MaxRank wins over RankCutoff when present.
func (q QualificationCriteria) EffectiveRange() (minRank, maxRank int) {
	minRank = q.MinRank
	if minRank <= 0 {
		minRank = 1
	}
	maxRank = q.MaxRank
	if maxRank <= 0 {
		maxRank = q.RankCutoff
	}
	if maxRank < minRank {
		maxRank = minRank
	}
	return minRank, maxRank
}

type SeedingOptions struct {
	Type          string                `json:"type"` // "GROUP_RANK"
	Qualification QualificationCriteria `json:"qualification_criteria"`
}

// StageOptions хранится в stages.options как JSON. Групповые поля заполняются
// для GROUP-этапов, Seeding — для TOURNAMENT.
type StageOptions struct {
	MatchFormat MatchFormat `json:"match_format"`

	GroupCount            int `json:"group_count,omitempty"`
	PlayersPerGroup       int `json:"players_per_group,omitempty"`
	AdvancingPlayersCount int `json:"advancing_players_count,omitempty"`

	Seeding *SeedingOptions `json:"seeding,omitempty"`
}

// Stage — один этап лиги. После создания первого матча этап считается
// неизменяемым (guard в сервисном слое).
type Stage struct {
	ID               int          `json:"id" db:"id"`
	LeagueID         int          `json:"league_id" db:"league_id"`
	Name             string       `json:"name" db:"name"`
	Order            int          `json:"order" db:"order"`
	Type             StageType    `json:"type" db:"type"`
	Options          StageOptions `json:"options" db:"options"`
	IsGroupConfirmed bool         `json:"is_group_confirmed" db:"is_group_confirmed"`
	CreatedAt        time.Time    `json:"created_at" db:"created_at"`

	// Связанные сущности, подгружаются сервисом по необходимости.
	Groups  []Group `json:"groups,omitempty" db:"-"`
	Matches []Match `json:"matches,omitempty" db:"-"`
}
