package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/haneul-lab/league-system/models"
)

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchInvalidStage  = errors.New("match stage conflict or invalid")
	ErrMatchInvalidPlayer = errors.New("match player reference invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByStage(ctx context.Context, exec SQLExecutor, stageID int) ([]*models.Match, error)
	ListByGroup(ctx context.Context, exec SQLExecutor, groupID int) ([]*models.Match, error)
	CountByStage(ctx context.Context, exec SQLExecutor, stageID int) (int, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error
	UpdateParticipants(ctx context.Context, exec SQLExecutor, id int, player1ID, player2ID *int, origin1, origin2 *models.PlayerOrigin) error
	UpdateNextMatchInfo(ctx context.Context, exec SQLExecutor, id int, nextMatchID, nextMatchPosition *int) error
	ClearNextMatchLinks(ctx context.Context, exec SQLExecutor, stageID int) error
	DeleteByStageID(ctx context.Context, exec SQLExecutor, stageID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)

	origin1, err := marshalOrigin(match.Player1Origin)
	if err != nil {
		return err
	}
	origin2, err := marshalOrigin(match.Player2Origin)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO matches
			(stage_id, group_id, round, group_number, description, "order", status,
			 player1_id, player2_id, player1_origin, player2_origin,
			 next_match_id, next_match_position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`

	err = executor.QueryRowContext(ctx, query,
		match.StageID, match.GroupID, match.Round, match.GroupNumber,
		match.Description, match.Order, match.Status,
		match.Player1ID, match.Player2ID, origin1, origin2,
		match.NextMatchID, match.NextMatchPosition,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

const matchColumns = `
	id, stage_id, group_id, round, group_number, description, "order", status,
	player1_id, player2_id, player1_origin, player2_origin,
	next_match_id, next_match_position, created_at
`

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var (
		m                models.Match
		origin1, origin2 []byte
	)
	err := rowScanner.Scan(
		&m.ID, &m.StageID, &m.GroupID, &m.Round, &m.GroupNumber,
		&m.Description, &m.Order, &m.Status,
		&m.Player1ID, &m.Player2ID, &origin1, &origin2,
		&m.NextMatchID, &m.NextMatchPosition, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if m.Player1Origin, err = unmarshalOrigin(origin1); err != nil {
		return nil, err
	}
	if m.Player2Origin, err = unmarshalOrigin(origin2); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + matchColumns + `FROM matches WHERE id = $1`
	return r.scanMatch(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByStage(ctx context.Context, exec SQLExecutor, stageID int) ([]*models.Match, error) {
	executor := r.getExecutor(exec)
	// Раунды от ранних к финалу (финал = 1), внутри раунда по порядку.
	query := `SELECT` + matchColumns + `FROM matches WHERE stage_id = $1 ORDER BY round DESC, "order" ASC`
	return r.listMatches(ctx, executor, query, stageID)
}

func (r *postgresMatchRepository) ListByGroup(ctx context.Context, exec SQLExecutor, groupID int) ([]*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + matchColumns + `FROM matches WHERE group_id = $1 ORDER BY "order" ASC`
	return r.listMatches(ctx, executor, query, groupID)
}

func (r *postgresMatchRepository) listMatches(ctx context.Context, executor SQLExecutor, query string, arg interface{}) ([]*models.Match, error) {
	rows, err := executor.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, errScan := r.scanMatch(rows)
		if errScan != nil {
			return nil, errScan
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) CountByStage(ctx context.Context, exec SQLExecutor, stageID int) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE stage_id = $1`, stageID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches for stage %d: %w", stageID, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateParticipants(ctx context.Context, exec SQLExecutor, id int, player1ID, player2ID *int, origin1, origin2 *models.PlayerOrigin) error {
	executor := r.getExecutor(exec)

	o1, err := marshalOrigin(origin1)
	if err != nil {
		return err
	}
	o2, err := marshalOrigin(origin2)
	if err != nil {
		return err
	}

	query := `
		UPDATE matches
		SET player1_id = $1, player2_id = $2, player1_origin = $3, player2_origin = $4
		WHERE id = $5`
	result, err := executor.ExecContext(ctx, query, player1ID, player2ID, o1, o2, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateNextMatchInfo(ctx context.Context, exec SQLExecutor, id int, nextMatchID, nextMatchPosition *int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET next_match_id = $1, next_match_position = $2 WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, nextMatchID, nextMatchPosition, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// ClearNextMatchLinks обнуляет рёбра сетки этапа. Вызывается первым шагом
// удаления этапа: сначала рвём ссылки, потом удаляем строки.
func (r *postgresMatchRepository) ClearNextMatchLinks(ctx context.Context, exec SQLExecutor, stageID int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET next_match_id = NULL, next_match_position = NULL WHERE stage_id = $1`
	_, err := executor.ExecContext(ctx, query, stageID)
	return err
}

func (r *postgresMatchRepository) DeleteByStageID(ctx context.Context, exec SQLExecutor, stageID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE stage_id = $1`, stageID)
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "matches_stage_id_fkey", "matches_group_id_fkey":
				return ErrMatchInvalidStage
			case "matches_player1_id_fkey", "matches_player2_id_fkey":
				return ErrMatchInvalidPlayer
			}
		}
	}
	return err
}
