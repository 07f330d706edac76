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
	ErrMatchResultNotFound     = errors.New("match result not found")
	ErrMatchResultConflict     = errors.New("match already has a result")
	ErrMatchResultInvalidMatch = errors.New("match result references unknown match")
)

// CompletedGroupMatch — срез завершённого матча группы для пересчёта таблицы.
type CompletedGroupMatch struct {
	MatchID   int
	Player1ID int
	Player2ID int
	WinnerID  int
	Sets      []models.SetScore
}

type MatchResultRepository interface {
	Create(ctx context.Context, exec SQLExecutor, result *models.MatchResult) error
	GetByMatchID(ctx context.Context, exec SQLExecutor, matchID int) (*models.MatchResult, error)
	ListByMatchIDs(ctx context.Context, exec SQLExecutor, matchIDs []int) ([]*models.MatchResult, error)
	// DeleteByMatchID: отсутствие строки не ошибка, коррекция может идти
	// по матчу без прежнего результата.
	DeleteByMatchID(ctx context.Context, exec SQLExecutor, matchID int) error
	ListCompletedByGroup(ctx context.Context, exec SQLExecutor, groupID int) ([]CompletedGroupMatch, error)
	DeleteByStageID(ctx context.Context, exec SQLExecutor, stageID int) error
}

type postgresMatchResultRepository struct {
	db *sql.DB
}

func NewPostgresMatchResultRepository(db *sql.DB) MatchResultRepository {
	return &postgresMatchResultRepository{db: db}
}

func (r *postgresMatchResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchResultRepository) Create(ctx context.Context, exec SQLExecutor, result *models.MatchResult) error {
	executor := r.getExecutor(exec)

	score, err := json.Marshal(result.Score)
	if err != nil {
		return fmt.Errorf("failed to marshal score details: %w", err)
	}

	query := `
		INSERT INTO match_results (match_id, winner_id, score_details)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err = executor.QueryRowContext(ctx, query, result.MatchID, result.WinnerID, score).
		Scan(&result.ID, &result.CreatedAt)
	return r.handleResultError(err)
}

func (r *postgresMatchResultRepository) scanResult(rowScanner interface{ Scan(...interface{}) error }) (*models.MatchResult, error) {
	var (
		res   models.MatchResult
		score []byte
	)
	err := rowScanner.Scan(&res.ID, &res.MatchID, &res.WinnerID, &score, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchResultNotFound
		}
		return nil, err
	}
	if len(score) > 0 {
		if err := json.Unmarshal(score, &res.Score); err != nil {
			return nil, fmt.Errorf("failed to unmarshal score details: %w", err)
		}
	}
	return &res, nil
}

func (r *postgresMatchResultRepository) GetByMatchID(ctx context.Context, exec SQLExecutor, matchID int) (*models.MatchResult, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, match_id, winner_id, score_details, created_at
		FROM match_results
		WHERE match_id = $1`
	return r.scanResult(executor.QueryRowContext(ctx, query, matchID))
}

func (r *postgresMatchResultRepository) ListByMatchIDs(ctx context.Context, exec SQLExecutor, matchIDs []int) ([]*models.MatchResult, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}
	executor := r.getExecutor(exec)
	query := `
		SELECT id, match_id, winner_id, score_details, created_at
		FROM match_results
		WHERE match_id = ANY($1)`

	rows, err := executor.QueryContext(ctx, query, pq.Array(matchIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*models.MatchResult, 0)
	for rows.Next() {
		res, errScan := r.scanResult(rows)
		if errScan != nil {
			return nil, errScan
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *postgresMatchResultRepository) DeleteByMatchID(ctx context.Context, exec SQLExecutor, matchID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM match_results WHERE match_id = $1`, matchID)
	return err
}

func (r *postgresMatchResultRepository) ListCompletedByGroup(ctx context.Context, exec SQLExecutor, groupID int) ([]CompletedGroupMatch, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT m.id, m.player1_id, m.player2_id, mr.winner_id, mr.score_details
		FROM matches m
		JOIN match_results mr ON mr.match_id = m.id
		WHERE m.group_id = $1 AND m.status = $2
		ORDER BY m."order" ASC`

	rows, err := executor.QueryContext(ctx, query, groupID, models.MatchStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completed := make([]CompletedGroupMatch, 0)
	for rows.Next() {
		var (
			c     CompletedGroupMatch
			score []byte
		)
		if err := rows.Scan(&c.MatchID, &c.Player1ID, &c.Player2ID, &c.WinnerID, &score); err != nil {
			return nil, err
		}
		var details models.ScoreDetails
		if len(score) > 0 {
			if err := json.Unmarshal(score, &details); err != nil {
				return nil, fmt.Errorf("failed to unmarshal score details for match %d: %w", c.MatchID, err)
			}
		}
		c.Sets = details.Sets
		completed = append(completed, c)
	}
	return completed, rows.Err()
}

func (r *postgresMatchResultRepository) DeleteByStageID(ctx context.Context, exec SQLExecutor, stageID int) error {
	executor := r.getExecutor(exec)
	query := `
		DELETE FROM match_results
		WHERE match_id IN (SELECT id FROM matches WHERE stage_id = $1)`
	_, err := executor.ExecContext(ctx, query, stageID)
	return err
}

func (r *postgresMatchResultRepository) handleResultError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "match_results_match_id_key" {
				return ErrMatchResultConflict
			}
		case "23503":
			if pqErr.Constraint == "match_results_match_id_fkey" {
				return ErrMatchResultInvalidMatch
			}
		}
	}
	return err
}
