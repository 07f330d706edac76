package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-lab/league-system/models"
)

func newTestStrategySet() *strategySet {
	groups := newFakeGroupRepo()
	matches := newFakeMatchRepo()
	return newStrategySet(groups, newFakeStandingRepo(groups), matches, newFakeResultRepo(matches))
}

func TestStrategySet_ForType(t *testing.T) {
	set := newTestStrategySet()

	group, err := set.forType(models.StageTypeGroup)
	require.NoError(t, err)
	assert.IsType(t, &groupStageStrategy{}, group)

	tournament, err := set.forType(models.StageTypeTournament)
	require.NoError(t, err)
	assert.IsType(t, &tournamentStageStrategy{}, tournament)

	_, err = set.forType(models.StageType("LADDER"))
	assert.ErrorIs(t, err, ErrStageTypeMismatch)
}

func TestTournamentStrategy_NoAdvancers(t *testing.T) {
	set := newTestStrategySet()

	strat, err := set.forType(models.StageTypeTournament)
	require.NoError(t, err)

	// Посев выходящих даёт только групповой этап.
	_, err = strat.computeAdvancers(context.Background(), 1, 1, 2)
	assert.ErrorIs(t, err, ErrStageTypeMismatch)
}
