package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/haneul-lab/league-system/models"
)

var ErrLeaguePlayerNotFound = errors.New("league player not found")

// RosterRepository отдаёт состав лиги. Сам состав ведёт внешняя система;
// здесь только чтение подтверждённых участников.
type RosterRepository interface {
	ListApprovedByLeague(ctx context.Context, exec SQLExecutor, leagueID int) ([]*models.LeaguePlayer, error)
}

type postgresRosterRepository struct {
	db *sql.DB
}

func NewPostgresRosterRepository(db *sql.DB) RosterRepository {
	return &postgresRosterRepository{db: db}
}

func (r *postgresRosterRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRosterRepository) ListApprovedByLeague(ctx context.Context, exec SQLExecutor, leagueID int) ([]*models.LeaguePlayer, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT lp.id, lp.league_id, lp.player_id, lp.status,
		       p.id, p.name, p.skill_level, p.created_at
		FROM league_players lp
		JOIN players p ON p.id = lp.player_id
		WHERE lp.league_id = $1 AND lp.status = $2
		ORDER BY lp.id ASC`

	rows, err := executor.QueryContext(ctx, query, leagueID, models.ParticipantStatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roster := make([]*models.LeaguePlayer, 0)
	for rows.Next() {
		var (
			lp models.LeaguePlayer
			p  models.Player
		)
		if err := rows.Scan(
			&lp.ID, &lp.LeagueID, &lp.PlayerID, &lp.Status,
			&p.ID, &p.Name, &p.SkillLevel, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		lp.Player = &p
		roster = append(roster, &lp)
	}
	return roster, rows.Err()
}
