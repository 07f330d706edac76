package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/haneul-lab/league-system/models"
)

var ErrGroupStandingNotFound = errors.New("group standing not found")

type GroupStandingRepository interface {
	// ReplaceForGroup заменяет таблицу группы целиком: пересчёт всегда
	// полный, частичных апдейтов не бывает.
	ReplaceForGroup(ctx context.Context, exec SQLExecutor, groupID int, standings []*models.GroupStanding) error
	ListByGroup(ctx context.Context, exec SQLExecutor, groupID int) ([]*models.GroupStanding, error)
	DeleteByStageID(ctx context.Context, exec SQLExecutor, stageID int) error
}

type postgresGroupStandingRepository struct {
	db *sql.DB
}

func NewPostgresGroupStandingRepository(db *sql.DB) GroupStandingRepository {
	return &postgresGroupStandingRepository{db: db}
}

func (r *postgresGroupStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGroupStandingRepository) ReplaceForGroup(ctx context.Context, exec SQLExecutor, groupID int, standings []*models.GroupStanding) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM group_standings WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to clear standings for group %d: %w", groupID, err)
	}

	query := `
		INSERT INTO group_standings
			(group_id, player_id, wins, sets_won, sets_lost, initial_position, rank, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	for _, s := range standings {
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = time.Now()
		}
		err := executor.QueryRowContext(ctx, query,
			groupID, s.PlayerID, s.Wins, s.SetsWon, s.SetsLost,
			s.InitialPosition, s.Rank, s.UpdatedAt,
		).Scan(&s.ID)
		if err != nil {
			return fmt.Errorf("failed to insert standing for player %d: %w", s.PlayerID, err)
		}
	}
	return nil
}

func (r *postgresGroupStandingRepository) ListByGroup(ctx context.Context, exec SQLExecutor, groupID int) ([]*models.GroupStanding, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT gs.id, gs.group_id, gs.player_id, gs.wins, gs.sets_won, gs.sets_lost,
		       gs.initial_position, gs.rank, gs.updated_at,
		       p.id, p.name, p.skill_level, p.created_at
		FROM group_standings gs
		JOIN players p ON p.id = gs.player_id
		WHERE gs.group_id = $1
		ORDER BY gs.rank ASC`

	rows, err := executor.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]*models.GroupStanding, 0)
	for rows.Next() {
		var (
			s models.GroupStanding
			p models.Player
		)
		if err := rows.Scan(
			&s.ID, &s.GroupID, &s.PlayerID, &s.Wins, &s.SetsWon, &s.SetsLost,
			&s.InitialPosition, &s.Rank, &s.UpdatedAt,
			&p.ID, &p.Name, &p.SkillLevel, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		s.Player = &p
		standings = append(standings, &s)
	}
	return standings, rows.Err()
}

func (r *postgresGroupStandingRepository) DeleteByStageID(ctx context.Context, exec SQLExecutor, stageID int) error {
	executor := r.getExecutor(exec)
	query := `
		DELETE FROM group_standings
		WHERE group_id IN (SELECT id FROM groups WHERE stage_id = $1)`
	_, err := executor.ExecContext(ctx, query, stageID)
	return err
}
