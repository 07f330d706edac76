package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/haneul-lab/league-system/brackets"
	"github.com/haneul-lab/league-system/models"
	"github.com/haneul-lab/league-system/repositories"
)

type CreateGroupStageInput struct {
	LeagueID int                 `json:"league_id"`
	Name     string              `json:"name"`
	Order    int                 `json:"order"`
	Options  models.StageOptions `json:"options"`
}

type ConfirmGroupsInput struct {
	// Groups[i] — полный список ID игроков группы i+1. Состав этапа
	// заменяется целиком, частичных правок нет.
	Groups [][]int `json:"groups"`
}

type CreateTournamentStageInput struct {
	LeagueID int                 `json:"league_id"`
	Name     string              `json:"name"`
	Order    int                 `json:"order"`
	Options  models.StageOptions `json:"options"`
}

type TournamentStageResult struct {
	Stage   *models.Stage `json:"stage"`
	Warning string        `json:"warning,omitempty"`
}

type RoundView struct {
	Round   int             `json:"round"`
	Name    string          `json:"name"`
	Matches []*models.Match `json:"matches"`
}

type BracketView struct {
	StageID int         `json:"stage_id"`
	Rounds  []RoundView `json:"rounds"`
}

type StageService interface {
	CreateGroupStage(ctx context.Context, input CreateGroupStageInput) (*models.Stage, error)
	ConfirmGroups(ctx context.Context, stageID int, input ConfirmGroupsInput) (*models.Stage, error)
	CreateTournamentStage(ctx context.Context, input CreateTournamentStageInput) (*TournamentStageResult, error)
	GetStage(ctx context.Context, stageID int) (*models.Stage, error)
	GetBracket(ctx context.Context, stageID int) (*BracketView, error)
	GetGroupStandings(ctx context.Context, groupID int) ([]*models.GroupStanding, error)
	DeleteStage(ctx context.Context, stageID int) error
}

type stageService struct {
	db           *sql.DB
	stageRepo    repositories.StageRepository
	groupRepo    repositories.GroupRepository
	standingRepo repositories.GroupStandingRepository
	matchRepo    repositories.MatchRepository
	resultRepo   repositories.MatchResultRepository
	rosterRepo   repositories.RosterRepository
	strategies   *strategySet
	hub          *brackets.Hub
	logger       *slog.Logger
	locks        *StageLocks

	// shuffle подменяется в тестах детерминированной перестановкой.
	shuffle func(n int, swap func(i, j int))
}

func NewStageService(
	db *sql.DB,
	stageRepo repositories.StageRepository,
	groupRepo repositories.GroupRepository,
	standingRepo repositories.GroupStandingRepository,
	matchRepo repositories.MatchRepository,
	resultRepo repositories.MatchResultRepository,
	rosterRepo repositories.RosterRepository,
	hub *brackets.Hub,
	locks *StageLocks,
	logger *slog.Logger,
) StageService {
	return &stageService{
		db:           db,
		stageRepo:    stageRepo,
		groupRepo:    groupRepo,
		standingRepo: standingRepo,
		matchRepo:    matchRepo,
		resultRepo:   resultRepo,
		rosterRepo:   rosterRepo,
		strategies:   newStrategySet(groupRepo, standingRepo, matchRepo, resultRepo),
		hub:          hub,
		logger:       logger,
		locks:        locks,
		shuffle:      rand.Shuffle,
	}
}

func stageRoom(stageID int) string {
	return "stage_" + strconv.Itoa(stageID)
}

// --- Group stage ---

func (s *stageService) CreateGroupStage(ctx context.Context, input CreateGroupStageInput) (*models.Stage, error) {
	opts := input.Options
	if opts.GroupCount <= 0 && opts.PlayersPerGroup <= 0 {
		return nil, ErrInvalidGroupLayout
	}

	roster, err := s.rosterRepo.ListApprovedByLeague(ctx, nil, input.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load league roster: %w", err)
	}
	if len(roster) == 0 {
		return nil, ErrLeagueEmpty
	}

	groupCount := opts.GroupCount
	if groupCount <= 0 {
		groupCount = (len(roster) + opts.PlayersPerGroup - 1) / opts.PlayersPerGroup
	}
	// Каждая группа должна сыграть хотя бы один матч.
	if len(roster) < groupCount*2 {
		return nil, fmt.Errorf("%w: %d players into %d groups", ErrInsufficientPlayers, len(roster), groupCount)
	}

	playerIDs := make([]int, len(roster))
	for i, lp := range roster {
		playerIDs[i] = lp.PlayerID
	}
	s.shuffle(len(playerIDs), func(i, j int) {
		playerIDs[i], playerIDs[j] = playerIDs[j], playerIDs[i]
	})

	// Раздача по кругу: размеры групп отличаются не больше чем на одного.
	assignments := make([][]int, groupCount)
	for i, id := range playerIDs {
		assignments[i%groupCount] = append(assignments[i%groupCount], id)
	}

	stage := &models.Stage{
		LeagueID: input.LeagueID,
		Name:     input.Name,
		Order:    input.Order,
		Type:     models.StageTypeGroup,
		Options:  opts,
	}

	strat, err := s.strategies.forType(stage.Type)
	if err != nil {
		return nil, err
	}
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.stageRepo.Create(ctx, tx, stage); err != nil {
			return mapStageRepoError(err)
		}
		if err := strat.formGroupsOrSkip(ctx, tx, stage, assignments); err != nil {
			return err
		}
		return strat.generateMatches(ctx, tx, stage, nil)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("group stage created",
		slog.Int("stage_id", stage.ID),
		slog.Int("league_id", stage.LeagueID),
		slog.Int("groups", groupCount),
		slog.Int("players", len(playerIDs)))
	return stage, nil
}

func (s *stageService) ConfirmGroups(ctx context.Context, stageID int, input ConfirmGroupsInput) (*models.Stage, error) {
	unlock := s.locks.lock(stageID)
	defer unlock()

	stage, err := s.stageRepo.GetByID(ctx, nil, stageID)
	if err != nil {
		return nil, mapStageRepoError(err)
	}
	if stage.Type != models.StageTypeGroup {
		return nil, ErrStageTypeMismatch
	}

	if len(input.Groups) == 0 {
		return nil, fmt.Errorf("%w: at least one group required", ErrValidationFailed)
	}
	seen := make(map[int]struct{})
	for i, ids := range input.Groups {
		if len(ids) < 2 {
			return nil, fmt.Errorf("%w: group %d has fewer than 2 players", ErrInsufficientPlayers, i+1)
		}
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				return nil, fmt.Errorf("%w: player %d listed twice", ErrValidationFailed, id)
			}
			seen[id] = struct{}{}
		}
	}

	matches, err := s.matchRepo.ListByStage(ctx, nil, stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stage matches: %w", err)
	}
	for _, m := range matches {
		if m.Status == models.MatchStatusCompleted {
			return nil, ErrStageAlreadyStarted
		}
	}

	strat, err := s.strategies.forType(stage.Type)
	if err != nil {
		return nil, err
	}
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.tearDownStageContent(ctx, tx, stageID); err != nil {
			return err
		}
		stage.Groups = nil
		stage.Matches = nil
		if err := strat.formGroupsOrSkip(ctx, tx, stage, input.Groups); err != nil {
			return err
		}
		if err := strat.generateMatches(ctx, tx, stage, nil); err != nil {
			return err
		}
		if err := s.stageRepo.SetGroupConfirmed(ctx, tx, stageID, true); err != nil {
			return mapStageRepoError(err)
		}
		stage.IsGroupConfirmed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(stageRoom(stageID), brackets.StageEvent{
		Type:    brackets.EventStandingsUpdated,
		Payload: stage,
	})
	s.logger.Info("groups confirmed", slog.Int("stage_id", stageID), slog.Int("groups", len(input.Groups)))
	return stage, nil
}

func (s *stageService) tearDownStageContent(ctx context.Context, tx *sql.Tx, stageID int) error {
	// Сначала рвём рёбра сетки, затем удаляем строки от зависимых к базовым.
	if err := s.matchRepo.ClearNextMatchLinks(ctx, tx, stageID); err != nil {
		return fmt.Errorf("failed to clear bracket links: %w", err)
	}
	if err := s.resultRepo.DeleteByStageID(ctx, tx, stageID); err != nil {
		return fmt.Errorf("failed to delete results: %w", err)
	}
	if err := s.standingRepo.DeleteByStageID(ctx, tx, stageID); err != nil {
		return fmt.Errorf("failed to delete standings: %w", err)
	}
	if err := s.matchRepo.DeleteByStageID(ctx, tx, stageID); err != nil {
		return fmt.Errorf("failed to delete matches: %w", err)
	}
	if err := s.groupRepo.DeletePlayersByStageID(ctx, tx, stageID); err != nil {
		return fmt.Errorf("failed to delete group players: %w", err)
	}
	if err := s.groupRepo.DeleteByStageID(ctx, tx, stageID); err != nil {
		return fmt.Errorf("failed to delete groups: %w", err)
	}
	return nil
}

// --- Tournament stage ---

func (s *stageService) CreateTournamentStage(ctx context.Context, input CreateTournamentStageInput) (*TournamentStageResult, error) {
	if input.Options.Seeding == nil {
		return nil, fmt.Errorf("%w: seeding options are required for a tournament stage", ErrValidationFailed)
	}

	source, err := s.findSourceGroupStage(ctx, input.LeagueID, input.Order)
	if err != nil {
		return nil, err
	}

	// Посев считает вариант исходного этапа: выходящих даёт групповая
	// таблица.
	sourceStrat, err := s.strategies.forType(source.Type)
	if err != nil {
		return nil, err
	}
	minRank, maxRank := input.Options.Seeding.Qualification.EffectiveRange()
	seeds, err := sourceStrat.computeAdvancers(ctx, source.ID, minRank, maxRank)
	if err != nil {
		return nil, err
	}

	size := brackets.SizeFor(len(seeds))
	warning := ""
	if size.ForcedMinimum {
		warning = "qualifier count was not positive; bracket sized for the minimum of two players"
		s.logger.Warn("tournament stage sized with no qualifiers",
			slog.Int("league_id", input.LeagueID),
			slog.Int("source_stage_id", source.ID))
	}

	bracket, err := s.buildSeededBracket(size.Rounds, seeds)
	if err != nil {
		return nil, err
	}
	if _, err := brackets.Cascade(bracket); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStructuralInconsistency, err)
	}

	stage := &models.Stage{
		LeagueID: input.LeagueID,
		Name:     input.Name,
		Order:    input.Order,
		Type:     models.StageTypeTournament,
		Options:  input.Options,
	}

	strat, err := s.strategies.forType(stage.Type)
	if err != nil {
		return nil, err
	}
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.stageRepo.Create(ctx, tx, stage); err != nil {
			return mapStageRepoError(err)
		}
		if err := strat.formGroupsOrSkip(ctx, tx, stage, nil); err != nil {
			return err
		}
		return strat.generateMatches(ctx, tx, stage, bracket)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tournament stage created",
		slog.Int("stage_id", stage.ID),
		slog.Int("qualifiers", len(seeds)),
		slog.Int("rounds", bracket.Rounds))
	return &TournamentStageResult{Stage: stage, Warning: warning}, nil
}

// buildSeededBracket строит сетку и рассаживает сидов, с одной попыткой
// перестройки на размер больше. Вторая неудача — структурная ошибка.
func (s *stageService) buildSeededBracket(rounds int, seeds []brackets.Seed) (*brackets.Bracket, error) {
	bracket, err := brackets.Build(rounds)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStructuralInconsistency, err)
	}
	if err := brackets.AssignSeeds(bracket, seeds); err != nil {
		if !errors.Is(err, brackets.ErrBracketTooSmall) {
			return nil, fmt.Errorf("%w: %s", ErrStructuralInconsistency, err)
		}
		s.logger.Warn("bracket undersized, rebuilding once", slog.Int("rounds", rounds))
		bracket, err = brackets.Build(rounds + 1)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrStructuralInconsistency, err)
		}
		if err := brackets.AssignSeeds(bracket, seeds); err != nil {
			return nil, fmt.Errorf("%w: rebuild did not fit %d seeds", ErrStructuralInconsistency, len(seeds))
		}
	}
	return bracket, nil
}

func (s *stageService) findSourceGroupStage(ctx context.Context, leagueID, beforeOrder int) (*models.Stage, error) {
	stages, err := s.stageRepo.ListByLeague(ctx, nil, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list league stages: %w", err)
	}

	var source *models.Stage
	for _, st := range stages {
		if st.Type != models.StageTypeGroup || !st.IsGroupConfirmed {
			continue
		}
		if st.Order >= beforeOrder {
			continue
		}
		if source == nil || st.Order > source.Order {
			source = st
		}
	}
	if source == nil {
		return nil, ErrSourceStageNotFound
	}
	return source, nil
}

// --- Reads ---

func (s *stageService) GetStage(ctx context.Context, stageID int) (*models.Stage, error) {
	stage, err := s.stageRepo.GetByID(ctx, nil, stageID)
	if err != nil {
		return nil, mapStageRepoError(err)
	}

	var (
		groups  []*models.Group
		players []*models.GroupPlayer
		matches []*models.Match
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = s.groupRepo.ListByStage(gctx, nil, stageID)
		return err
	})
	g.Go(func() error {
		var err error
		players, err = s.groupRepo.ListPlayersByStage(gctx, nil, stageID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByStage(gctx, nil, stageID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load stage %d: %w", stageID, err)
	}

	matchIDs := make([]int, len(matches))
	for i, m := range matches {
		matchIDs[i] = m.ID
	}
	results, err := s.resultRepo.ListByMatchIDs(ctx, nil, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load match results: %w", err)
	}
	resultByMatch := make(map[int]*models.MatchResult, len(results))
	for _, r := range results {
		resultByMatch[r.MatchID] = r
	}

	playersByGroup := make(map[int][]models.GroupPlayer)
	for _, p := range players {
		playersByGroup[p.GroupID] = append(playersByGroup[p.GroupID], *p)
	}
	matchesByGroup := make(map[int][]models.Match)
	for _, m := range matches {
		m.Result = resultByMatch[m.ID]
		stage.Matches = append(stage.Matches, *m)
		if m.GroupID != nil {
			matchesByGroup[*m.GroupID] = append(matchesByGroup[*m.GroupID], *m)
		}
	}
	for _, grp := range groups {
		grp.Players = playersByGroup[grp.ID]
		grp.Matches = matchesByGroup[grp.ID]
		stage.Groups = append(stage.Groups, *grp)
	}
	return stage, nil
}

func (s *stageService) GetBracket(ctx context.Context, stageID int) (*BracketView, error) {
	stage, err := s.stageRepo.GetByID(ctx, nil, stageID)
	if err != nil {
		return nil, mapStageRepoError(err)
	}
	if stage.Type != models.StageTypeTournament {
		return nil, ErrStageTypeMismatch
	}

	matches, err := s.matchRepo.ListByStage(ctx, nil, stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bracket matches: %w", err)
	}

	matchIDs := make([]int, len(matches))
	for i, m := range matches {
		matchIDs[i] = m.ID
	}
	results, err := s.resultRepo.ListByMatchIDs(ctx, nil, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load bracket results: %w", err)
	}
	resultByMatch := make(map[int]*models.MatchResult, len(results))
	for _, r := range results {
		resultByMatch[r.MatchID] = r
	}

	view := &BracketView{StageID: stageID}
	var current *RoundView
	for _, m := range matches {
		m.Result = resultByMatch[m.ID]
		if current == nil || current.Round != m.Round {
			view.Rounds = append(view.Rounds, RoundView{
				Round: m.Round,
				Name:  brackets.RoundName(m.Round),
			})
			current = &view.Rounds[len(view.Rounds)-1]
		}
		current.Matches = append(current.Matches, m)
	}
	return view, nil
}

func (s *stageService) GetGroupStandings(ctx context.Context, groupID int) ([]*models.GroupStanding, error) {
	if _, err := s.groupRepo.GetByID(ctx, nil, groupID); err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return s.standingRepo.ListByGroup(ctx, nil, groupID)
}

// --- Delete ---

func (s *stageService) DeleteStage(ctx context.Context, stageID int) error {
	unlock := s.locks.lock(stageID)
	defer unlock()

	if _, err := s.stageRepo.GetByID(ctx, nil, stageID); err != nil {
		return mapStageRepoError(err)
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.tearDownStageContent(ctx, tx, stageID); err != nil {
			return err
		}
		return mapStageRepoError(s.stageRepo.Delete(ctx, tx, stageID))
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastToRoom(stageRoom(stageID), brackets.StageEvent{
		Type:    brackets.EventStageDeleted,
		Payload: map[string]int{"stage_id": stageID},
	})
	s.logger.Info("stage deleted", slog.Int("stage_id", stageID))
	return nil
}

func mapStageRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrStageNotFound):
		return ErrStageNotFound
	case errors.Is(err, repositories.ErrStageOrderConflict):
		return ErrStageOrderConflict
	default:
		return err
	}
}
