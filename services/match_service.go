package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/haneul-lab/league-system/brackets"
	"github.com/haneul-lab/league-system/models"
	"github.com/haneul-lab/league-system/repositories"
	"github.com/haneul-lab/league-system/storage"
)

// propagationBound ограничивает подъём победителя по сетке; согласован с
// лимитом каскада в brackets.
const propagationBound = 10

type RecordResultInput struct {
	Sets []models.SetScore `json:"sets"`
}

type MatchService interface {
	// RecordMatchResult фиксирует (или корректирует) результат матча.
	// Групповой матч тянет за собой пересчёт таблицы, матч плей-офф —
	// продвижение победителя.
	RecordMatchResult(ctx context.Context, matchID int, input RecordResultInput) (*models.Match, error)
}

type matchService struct {
	db         *sql.DB
	stageRepo  repositories.StageRepository
	matchRepo  repositories.MatchRepository
	resultRepo repositories.MatchResultRepository
	strategies *strategySet
	hub        *brackets.Hub
	uploader   storage.FileUploader
	logger     *slog.Logger
	locks      *StageLocks
}

func NewMatchService(
	db *sql.DB,
	stageRepo repositories.StageRepository,
	groupRepo repositories.GroupRepository,
	standingRepo repositories.GroupStandingRepository,
	matchRepo repositories.MatchRepository,
	resultRepo repositories.MatchResultRepository,
	hub *brackets.Hub,
	uploader storage.FileUploader,
	locks *StageLocks,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:         db,
		stageRepo:  stageRepo,
		matchRepo:  matchRepo,
		resultRepo: resultRepo,
		strategies: newStrategySet(groupRepo, standingRepo, matchRepo, resultRepo),
		hub:        hub,
		uploader:   uploader,
		logger:     logger,
		locks:      locks,
	}
}

func (s *matchService) RecordMatchResult(ctx context.Context, matchID int, input RecordResultInput) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	unlock := s.locks.lock(match.StageID)
	defer unlock()

	stage, err := s.stageRepo.GetByID(ctx, nil, match.StageID)
	if err != nil {
		return nil, mapStageRepoError(err)
	}

	switch match.Status {
	case models.MatchStatusBye, models.MatchStatusCancelled:
		return nil, ErrMatchNotPlayable
	}
	if !match.HasBothPlayers() {
		return nil, ErrMatchMissingOccupants
	}

	strat, err := s.strategies.forType(stage.Type)
	if err != nil {
		return nil, err
	}

	winnerID, score, err := resolveScore(input.Sets, stage.Options.MatchFormat)
	if err != nil {
		return nil, err
	}
	winner := *match.Player1ID
	winnerOrigin := match.Player1Origin
	if winnerID == 2 {
		winner = *match.Player2ID
		winnerOrigin = match.Player2Origin
	}

	if err := strat.guardCorrection(ctx, match, winner); err != nil {
		return nil, err
	}

	stageComplete := false
	err = withTransientRetry(ctx, func() error {
		return runInTx(ctx, s.db, func(tx *sql.Tx) error {
			if err := s.resultRepo.DeleteByMatchID(ctx, tx, matchID); err != nil {
				return fmt.Errorf("failed to drop previous result: %w", err)
			}
			result := &models.MatchResult{
				MatchID:  matchID,
				WinnerID: winner,
				Score:    score,
			}
			if err := s.resultRepo.Create(ctx, tx, result); err != nil {
				return fmt.Errorf("failed to store result: %w", err)
			}
			if err := s.matchRepo.UpdateStatus(ctx, tx, matchID, models.MatchStatusCompleted); err != nil {
				return err
			}
			match.Status = models.MatchStatusCompleted
			match.Result = result

			var perr error
			stageComplete, perr = strat.recordResult(ctx, tx, match, winner, winnerOrigin)
			return perr
		})
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(ctx, stage, match, stageComplete)
	return match, nil
}

// resolveScore валидирует сеты и определяет победителя (1 или 2).
// Победителя даёт строгое большинство выигранных сетов; ничьи по сетам и
// ничейные сеты результата не образуют.
func resolveScore(sets []models.SetScore, format models.MatchFormat) (int, models.ScoreDetails, error) {
	var details models.ScoreDetails
	if len(sets) == 0 {
		return 0, details, fmt.Errorf("%w: no sets submitted", ErrInvalidScore)
	}
	for i, set := range sets {
		if set.Player1Score < 0 || set.Player2Score < 0 {
			return 0, details, fmt.Errorf("%w: negative score in set %d", ErrInvalidScore, i+1)
		}
		if set.Player1Score == set.Player2Score {
			return 0, details, fmt.Errorf("%w: set %d is drawn", ErrInvalidScore, i+1)
		}
	}

	p1Sets, p2Sets := models.CountSets(sets)
	if p1Sets == p2Sets {
		return 0, details, fmt.Errorf("%w: equal set counts", ErrInvalidScore)
	}
	if format.SetsRequired > 0 {
		won := p1Sets
		if p2Sets > p1Sets {
			won = p2Sets
		}
		if won != format.SetsRequired {
			return 0, details, fmt.Errorf("%w: winner must take exactly %d sets", ErrInvalidScore, format.SetsRequired)
		}
	}

	details = models.ScoreDetails{
		Sets:  sets,
		Final: models.FinalScore{Player1Sets: p1Sets, Player2Sets: p2Sets},
	}
	if p1Sets > p2Sets {
		return 1, details, nil
	}
	return 2, details, nil
}

func (s *matchService) broadcast(ctx context.Context, stage *models.Stage, match *models.Match, stageComplete bool) {
	room := stageRoom(stage.ID)
	s.hub.BroadcastToRoom(room, brackets.StageEvent{
		Type:    brackets.EventMatchUpdated,
		Payload: match,
	})
	if match.GroupID != nil {
		s.hub.BroadcastToRoom(room, brackets.StageEvent{
			Type:    brackets.EventStandingsUpdated,
			Payload: map[string]int{"group_id": *match.GroupID},
		})
		return
	}

	s.hub.BroadcastToRoom(room, brackets.StageEvent{
		Type:    brackets.EventBracketUpdated,
		Payload: map[string]int{"stage_id": stage.ID},
	})
	if stageComplete {
		s.archiveBracketSnapshot(ctx, stage.ID)
	}
}

// archiveBracketSnapshot выгружает финальное состояние сетки в R2. Ошибка
// архивации не ломает запрос: результат уже зафиксирован.
func (s *matchService) archiveBracketSnapshot(ctx context.Context, stageID int) {
	if s.uploader == nil {
		return
	}

	matches, err := s.matchRepo.ListByStage(ctx, nil, stageID)
	if err != nil {
		s.logger.Error("snapshot load failed", slog.Int("stage_id", stageID), slog.Any("error", err))
		return
	}
	snapshot := map[string]interface{}{
		"stage_id": stageID,
		"matches":  matches,
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Error("snapshot marshal failed", slog.Int("stage_id", stageID), slog.Any("error", err))
		return
	}

	key := fmt.Sprintf("brackets/stage_%d.json", stageID)
	if _, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(payload)); err != nil {
		s.logger.Error("snapshot upload failed", slog.Int("stage_id", stageID), slog.Any("error", err))
		return
	}
	s.logger.Info("bracket snapshot archived", slog.Int("stage_id", stageID), slog.String("key", key))
}
