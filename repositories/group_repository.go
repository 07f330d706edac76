package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/haneul-lab/league-system/models"
)

var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrGroupInvalidStage   = errors.New("group stage conflict or invalid")
	ErrGroupPlayerConflict = errors.New("player already assigned to this group")
	ErrGroupPlayerInvalid  = errors.New("group player reference invalid")
)

type GroupRepository interface {
	Create(ctx context.Context, exec SQLExecutor, group *models.Group) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Group, error)
	ListByStage(ctx context.Context, exec SQLExecutor, stageID int) ([]*models.Group, error)
	DeleteByStageID(ctx context.Context, exec SQLExecutor, stageID int) error

	AddPlayer(ctx context.Context, exec SQLExecutor, player *models.GroupPlayer) error
	ListPlayersByGroup(ctx context.Context, exec SQLExecutor, groupID int) ([]*models.GroupPlayer, error)
	ListPlayersByStage(ctx context.Context, exec SQLExecutor, stageID int) ([]*models.GroupPlayer, error)
	UpdatePlayerRank(ctx context.Context, exec SQLExecutor, groupID, playerID, rank int) error
	DeletePlayersByStageID(ctx context.Context, exec SQLExecutor, stageID int) error
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGroupRepository) Create(ctx context.Context, exec SQLExecutor, group *models.Group) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO groups (stage_id, name, number)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := executor.QueryRowContext(ctx, query, group.StageID, group.Name, group.Number).Scan(&group.ID)
	return r.handleGroupError(err)
}

func (r *postgresGroupRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Group, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, stage_id, name, number FROM groups WHERE id = $1`

	var g models.Group
	err := executor.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.StageID, &g.Name, &g.Number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *postgresGroupRepository) ListByStage(ctx context.Context, exec SQLExecutor, stageID int) ([]*models.Group, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, stage_id, name, number FROM groups WHERE stage_id = $1 ORDER BY number ASC`

	rows, err := executor.QueryContext(ctx, query, stageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]*models.Group, 0)
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.StageID, &g.Name, &g.Number); err != nil {
			return nil, err
		}
		groups = append(groups, &g)
	}
	return groups, rows.Err()
}

func (r *postgresGroupRepository) DeleteByStageID(ctx context.Context, exec SQLExecutor, stageID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM groups WHERE stage_id = $1`, stageID)
	return r.handleGroupError(err)
}

func (r *postgresGroupRepository) AddPlayer(ctx context.Context, exec SQLExecutor, player *models.GroupPlayer) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO group_players (group_id, player_id, initial_position, rank)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := executor.QueryRowContext(ctx, query,
		player.GroupID, player.PlayerID, player.InitialPosition, player.Rank,
	).Scan(&player.ID)
	return r.handleGroupError(err)
}

func (r *postgresGroupRepository) ListPlayersByGroup(ctx context.Context, exec SQLExecutor, groupID int) ([]*models.GroupPlayer, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT gp.id, gp.group_id, gp.player_id, gp.initial_position, gp.rank,
		       p.id, p.name, p.skill_level, p.created_at
		FROM group_players gp
		JOIN players p ON p.id = gp.player_id
		WHERE gp.group_id = $1
		ORDER BY gp.initial_position ASC`
	return r.listPlayers(ctx, executor, query, groupID)
}

func (r *postgresGroupRepository) ListPlayersByStage(ctx context.Context, exec SQLExecutor, stageID int) ([]*models.GroupPlayer, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT gp.id, gp.group_id, gp.player_id, gp.initial_position, gp.rank,
		       p.id, p.name, p.skill_level, p.created_at
		FROM group_players gp
		JOIN players p ON p.id = gp.player_id
		JOIN groups g ON g.id = gp.group_id
		WHERE g.stage_id = $1
		ORDER BY gp.group_id ASC, gp.initial_position ASC`
	return r.listPlayers(ctx, executor, query, stageID)
}

func (r *postgresGroupRepository) listPlayers(ctx context.Context, executor SQLExecutor, query string, arg interface{}) ([]*models.GroupPlayer, error) {
	rows, err := executor.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.GroupPlayer, 0)
	for rows.Next() {
		var (
			gp models.GroupPlayer
			p  models.Player
		)
		if err := rows.Scan(
			&gp.ID, &gp.GroupID, &gp.PlayerID, &gp.InitialPosition, &gp.Rank,
			&p.ID, &p.Name, &p.SkillLevel, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		gp.Player = &p
		players = append(players, &gp)
	}
	return players, rows.Err()
}

func (r *postgresGroupRepository) UpdatePlayerRank(ctx context.Context, exec SQLExecutor, groupID, playerID, rank int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE group_players SET rank = $1 WHERE group_id = $2 AND player_id = $3`
	result, err := executor.ExecContext(ctx, query, rank, groupID, playerID)
	if err != nil {
		return r.handleGroupError(err)
	}
	return checkAffectedRows(result, ErrGroupPlayerInvalid)
}

func (r *postgresGroupRepository) DeletePlayersByStageID(ctx context.Context, exec SQLExecutor, stageID int) error {
	executor := r.getExecutor(exec)
	query := `
		DELETE FROM group_players
		WHERE group_id IN (SELECT id FROM groups WHERE stage_id = $1)`
	_, err := executor.ExecContext(ctx, query, stageID)
	return err
}

func (r *postgresGroupRepository) handleGroupError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "group_players_group_id_player_id_key" {
				return ErrGroupPlayerConflict
			}
		case "23503":
			switch pqErr.Constraint {
			case "groups_stage_id_fkey":
				return ErrGroupInvalidStage
			case "group_players_group_id_fkey", "group_players_player_id_fkey":
				return ErrGroupPlayerInvalid
			}
		}
	}
	return err
}
