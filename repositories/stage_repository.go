package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/haneul-lab/league-system/models"
)

var (
	ErrStageNotFound      = errors.New("stage not found")
	ErrStageOrderConflict = errors.New("stage order already taken in this league")
	ErrStageInvalidLeague = errors.New("invalid league reference")
	ErrStageInUse         = errors.New("stage is referenced by groups or matches")
)

type StageRepository interface {
	Create(ctx context.Context, exec SQLExecutor, stage *models.Stage) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Stage, error)
	ListByLeague(ctx context.Context, exec SQLExecutor, leagueID int) ([]*models.Stage, error)
	SetGroupConfirmed(ctx context.Context, exec SQLExecutor, id int, confirmed bool) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresStageRepository struct {
	db *sql.DB
}

func NewPostgresStageRepository(db *sql.DB) StageRepository {
	return &postgresStageRepository{db: db}
}

func (r *postgresStageRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStageRepository) Create(ctx context.Context, exec SQLExecutor, stage *models.Stage) error {
	executor := r.getExecutor(exec)
	options, err := json.Marshal(stage.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal stage options: %w", err)
	}

	query := `
		INSERT INTO stages (league_id, name, "order", type, options, is_group_confirmed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err = executor.QueryRowContext(ctx, query,
		stage.LeagueID, stage.Name, stage.Order, stage.Type, options, stage.IsGroupConfirmed,
	).Scan(&stage.ID, &stage.CreatedAt)

	return r.handleStageError(err)
}

func (r *postgresStageRepository) scanStage(rowScanner interface{ Scan(...interface{}) error }) (*models.Stage, error) {
	var (
		stage   models.Stage
		options []byte
	)
	err := rowScanner.Scan(
		&stage.ID, &stage.LeagueID, &stage.Name, &stage.Order, &stage.Type,
		&options, &stage.IsGroupConfirmed, &stage.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}
	if len(options) > 0 {
		if err := json.Unmarshal(options, &stage.Options); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stage options: %w", err)
		}
	}
	return &stage, nil
}

func (r *postgresStageRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Stage, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, league_id, name, "order", type, options, is_group_confirmed, created_at
		FROM stages
		WHERE id = $1`
	return r.scanStage(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresStageRepository) ListByLeague(ctx context.Context, exec SQLExecutor, leagueID int) ([]*models.Stage, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, league_id, name, "order", type, options, is_group_confirmed, created_at
		FROM stages
		WHERE league_id = $1
		ORDER BY "order" ASC`

	rows, err := executor.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stages := make([]*models.Stage, 0)
	for rows.Next() {
		stage, errScan := r.scanStage(rows)
		if errScan != nil {
			return nil, errScan
		}
		stages = append(stages, stage)
	}
	return stages, rows.Err()
}

func (r *postgresStageRepository) SetGroupConfirmed(ctx context.Context, exec SQLExecutor, id int, confirmed bool) error {
	executor := r.getExecutor(exec)
	query := `UPDATE stages SET is_group_confirmed = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, confirmed, id)
	if err != nil {
		return r.handleStageError(err)
	}
	return checkAffectedRows(result, ErrStageNotFound)
}

func (r *postgresStageRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM stages WHERE id = $1`, id)
	if err != nil {
		return r.handleStageError(err)
	}
	return checkAffectedRows(result, ErrStageNotFound)
}

func (r *postgresStageRepository) handleStageError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "stages_league_id_order_key" {
				return ErrStageOrderConflict
			}
		case "23503":
			if pqErr.Constraint == "stages_league_id_fkey" {
				return ErrStageInvalidLeague
			}
			// FK из groups/matches на stages: этап нельзя удалить, пока
			// сервис не разобрал его содержимое.
			return ErrStageInUse
		}
	}
	return err
}
