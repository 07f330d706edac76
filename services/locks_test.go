package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/haneul-lab/league-system/brackets"
)

// Структурные мутации этапа и запись результатов должны исключать друг
// друга, поэтому оба сервиса собираются вокруг общего инстанса StageLocks.
func TestStageLocks_SharedBetweenServices(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stages := newFakeStageRepo()
	groups := newFakeGroupRepo()
	standings := newFakeStandingRepo(groups)
	matches := newFakeMatchRepo()
	results := newFakeResultRepo(matches)

	locks := NewStageLocks()
	hub := brackets.NewHub(logger)
	stageSvc := NewStageService(
		newStubDB(t), stages, groups, standings, matches, results,
		&fakeRosterRepo{}, hub, locks, logger,
	).(*stageService)
	matchSvc := NewMatchService(
		newStubDB(t), stages, groups, standings, matches, results,
		hub, nil, locks, logger,
	).(*matchService)

	require.Same(t, stageSvc.locks, matchSvc.locks)

	// Пока один сервис держит этап, второй не входит.
	unlock := stageSvc.locks.lock(7)
	acquired := make(chan struct{})
	go func() {
		u := matchSvc.locks.lock(7)
		u()
		close(acquired)
	}()
	select {
	case <-acquired:
		t.Fatal("stage 7 lock acquired while the other service holds it")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("stage 7 lock was not handed over after release")
	}
}

func TestStageLocks_IndependentStages(t *testing.T) {
	locks := NewStageLocks()

	unlock := locks.lock(1)
	defer unlock()

	acquired := make(chan struct{})
	go func() {
		u := locks.lock(2)
		u()
		close(acquired)
	}()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock on an unrelated stage blocked")
	}
}
