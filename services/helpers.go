package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/haneul-lab/league-system/brackets"
	"github.com/haneul-lab/league-system/models"
	"github.com/haneul-lab/league-system/repositories"
)

// runInTx выполняет fn в транзакции с откатом при ошибке или панике.
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	err = fn(tx)
	return err
}

// refreshGroupStandings пересчитывает таблицу группы с нуля по завершённым
// матчам и синхронизирует ранги в group_players. Вызывается внутри той же
// транзакции, что и изменение результата.
func refreshGroupStandings(
	ctx context.Context,
	tx *sql.Tx,
	groupRepo repositories.GroupRepository,
	standingRepo repositories.GroupStandingRepository,
	resultRepo repositories.MatchResultRepository,
	groupID int,
) error {
	groupPlayers, err := groupRepo.ListPlayersByGroup(ctx, tx, groupID)
	if err != nil {
		return fmt.Errorf("failed to load players of group %d: %w", groupID, err)
	}
	completed, err := resultRepo.ListCompletedByGroup(ctx, tx, groupID)
	if err != nil {
		return fmt.Errorf("failed to load completed matches of group %d: %w", groupID, err)
	}

	players := make([]brackets.GroupPlayerInput, len(groupPlayers))
	for i, gp := range groupPlayers {
		players[i] = brackets.GroupPlayerInput{
			PlayerID:        gp.PlayerID,
			InitialPosition: gp.InitialPosition,
		}
	}
	matches := make([]brackets.CompletedMatch, len(completed))
	for i, c := range completed {
		matches[i] = brackets.CompletedMatch{
			Player1ID: c.Player1ID,
			Player2ID: c.Player2ID,
			WinnerID:  c.WinnerID,
			Sets:      c.Sets,
		}
	}

	computed := brackets.ComputeStandings(players, matches)
	rows := make([]*models.GroupStanding, len(computed))
	for i, st := range computed {
		rows[i] = &models.GroupStanding{
			GroupID:         groupID,
			PlayerID:        st.PlayerID,
			Wins:            st.Wins,
			SetsWon:         st.SetsWon,
			SetsLost:        st.SetsLost,
			InitialPosition: st.InitialPosition,
			Rank:            st.Rank,
		}
	}
	if err := standingRepo.ReplaceForGroup(ctx, tx, groupID, rows); err != nil {
		return fmt.Errorf("failed to replace standings for group %d: %w", groupID, err)
	}
	for _, st := range computed {
		if err := groupRepo.UpdatePlayerRank(ctx, tx, groupID, st.PlayerID, st.Rank); err != nil {
			return fmt.Errorf("failed to persist rank for player %d: %w", st.PlayerID, err)
		}
	}
	return nil
}
