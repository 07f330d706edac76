package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/haneul-lab/league-system/brackets"
	"github.com/haneul-lab/league-system/models"
	"github.com/haneul-lab/league-system/repositories"
)

// stageStrategy — поведение, различающееся между групповым и турнирным
// этапом. Вариант выбирается один раз по Stage.Type, дальше код операций
// тип этапа не инспектирует.
type stageStrategy interface {
	// formGroupsOrSkip создаёт группы этапа с составами; турнирный этап
	// групп не имеет и шаг пропускает.
	formGroupsOrSkip(ctx context.Context, tx *sql.Tx, stage *models.Stage, assignments [][]int) error
	// generateMatches создаёт матчи этапа: круговые по уже созданным
	// группам либо сохраняет заранее собранную сетку.
	generateMatches(ctx context.Context, tx *sql.Tx, stage *models.Stage, bracket *brackets.Bracket) error
	// computeAdvancers собирает посев выходящих из этапа игроков в
	// диапазоне рангов.
	computeAdvancers(ctx context.Context, stageID, minRank, maxRank int) ([]brackets.Seed, error)
	// guardCorrection решает до открытия транзакции, допустима ли
	// коррекция результата с новым победителем.
	guardCorrection(ctx context.Context, match *models.Match, newWinner int) error
	// recordResult применяет уже сохранённый результат: пересчёт таблицы
	// либо продвижение победителя. Возвращает признак завершения этапа.
	recordResult(ctx context.Context, tx *sql.Tx, match *models.Match, winner int, origin *models.PlayerOrigin) (bool, error)
}

// strategySet держит оба варианта; собирается один раз в конструкторе
// сервиса.
type strategySet struct {
	group      *groupStageStrategy
	tournament *tournamentStageStrategy
}

func newStrategySet(
	groupRepo repositories.GroupRepository,
	standingRepo repositories.GroupStandingRepository,
	matchRepo repositories.MatchRepository,
	resultRepo repositories.MatchResultRepository,
) *strategySet {
	return &strategySet{
		group: &groupStageStrategy{
			groupRepo:    groupRepo,
			standingRepo: standingRepo,
			matchRepo:    matchRepo,
			resultRepo:   resultRepo,
		},
		tournament: &tournamentStageStrategy{
			matchRepo:  matchRepo,
			resultRepo: resultRepo,
		},
	}
}

func (s *strategySet) forType(t models.StageType) (stageStrategy, error) {
	switch t {
	case models.StageTypeGroup:
		return s.group, nil
	case models.StageTypeTournament:
		return s.tournament, nil
	default:
		return nil, fmt.Errorf("%w: unknown stage type %q", ErrStageTypeMismatch, t)
	}
}

// --- Групповой этап ---

type groupStageStrategy struct {
	groupRepo    repositories.GroupRepository
	standingRepo repositories.GroupStandingRepository
	matchRepo    repositories.MatchRepository
	resultRepo   repositories.MatchResultRepository
}

func (g *groupStageStrategy) formGroupsOrSkip(ctx context.Context, tx *sql.Tx, stage *models.Stage, assignments [][]int) error {
	for gi, playerIDs := range assignments {
		group := &models.Group{
			StageID: stage.ID,
			Name:    fmt.Sprintf("Group %d", gi+1),
			Number:  gi + 1,
		}
		if err := g.groupRepo.Create(ctx, tx, group); err != nil {
			return fmt.Errorf("failed to create group %d: %w", gi+1, err)
		}

		for pi, playerID := range playerIDs {
			gp := &models.GroupPlayer{
				GroupID:         group.ID,
				PlayerID:        playerID,
				InitialPosition: pi + 1,
			}
			if err := g.groupRepo.AddPlayer(ctx, tx, gp); err != nil {
				return fmt.Errorf("failed to add player %d to group %d: %w", playerID, gi+1, err)
			}
			group.Players = append(group.Players, *gp)
		}
		stage.Groups = append(stage.Groups, *group)
	}
	return nil
}

// generateMatches создаёт круговые расписания по группам из
// formGroupsOrSkip и нулевые таблицы. Аргумент сетки групповому этапу не
// нужен.
func (g *groupStageStrategy) generateMatches(ctx context.Context, tx *sql.Tx, stage *models.Stage, _ *brackets.Bracket) error {
	matchOrder := 0
	for gi := range stage.Groups {
		group := &stage.Groups[gi]
		playerIDs := make([]int, len(group.Players))
		for i, gp := range group.Players {
			playerIDs[i] = gp.PlayerID
		}

		pairings, err := brackets.Pairings(len(playerIDs))
		if err != nil {
			return fmt.Errorf("%w: group %d", ErrInsufficientPlayers, group.Number)
		}
		groupID := group.ID
		for mi, pair := range pairings {
			matchOrder++
			p1 := playerIDs[pair[0]-1]
			p2 := playerIDs[pair[1]-1]
			match := &models.Match{
				StageID:     stage.ID,
				GroupID:     &groupID,
				GroupNumber: group.Number,
				Description: fmt.Sprintf("Group %d Match %d", group.Number, mi+1),
				Order:       matchOrder,
				Status:      models.MatchStatusScheduled,
				Player1ID:   &p1,
				Player2ID:   &p2,
			}
			if err := g.matchRepo.Create(ctx, tx, match); err != nil {
				return fmt.Errorf("failed to create match %q: %w", match.Description, err)
			}
			group.Matches = append(group.Matches, *match)
			stage.Matches = append(stage.Matches, *match)
		}

		if err := refreshGroupStandings(ctx, tx, g.groupRepo, g.standingRepo, g.resultRepo, group.ID); err != nil {
			return err
		}
	}
	return nil
}

func (g *groupStageStrategy) computeAdvancers(ctx context.Context, stageID, minRank, maxRank int) ([]brackets.Seed, error) {
	groups, err := g.groupRepo.ListByStage(ctx, nil, stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	rankings := make([]brackets.GroupRanking, 0, len(groups))
	for _, grp := range groups {
		standings, err := g.standingRepo.ListByGroup(ctx, nil, grp.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load standings for group %d: %w", grp.ID, err)
		}
		ranking := brackets.GroupRanking{GroupID: grp.ID, GroupNumber: grp.Number}
		for _, st := range standings {
			ranking.Players = append(ranking.Players, brackets.RankedPlayer{
				PlayerID: st.PlayerID,
				Rank:     st.Rank,
			})
		}
		rankings = append(rankings, ranking)
	}
	return brackets.SeedListFromGroups(rankings, minRank, maxRank), nil
}

// Коррекция группового результата всегда допустима: таблица пересчитывается
// с нуля по всем завершённым матчам.
func (g *groupStageStrategy) guardCorrection(_ context.Context, _ *models.Match, _ int) error {
	return nil
}

func (g *groupStageStrategy) recordResult(ctx context.Context, tx *sql.Tx, match *models.Match, _ int, _ *models.PlayerOrigin) (bool, error) {
	if match.GroupID == nil {
		return false, fmt.Errorf("%w: group match %d has no group", ErrStructuralInconsistency, match.ID)
	}
	return false, refreshGroupStandings(ctx, tx, g.groupRepo, g.standingRepo, g.resultRepo, *match.GroupID)
}

// --- Турнирный этап ---

type tournamentStageStrategy struct {
	matchRepo  repositories.MatchRepository
	resultRepo repositories.MatchResultRepository
}

func (t *tournamentStageStrategy) formGroupsOrSkip(_ context.Context, _ *sql.Tx, _ *models.Stage, _ [][]int) error {
	return nil
}

// generateMatches сохраняет арену двумя проходами: сначала все матчи, затем
// ссылки next_match_id по карте индекс арены → ID в БД.
func (t *tournamentStageStrategy) generateMatches(ctx context.Context, tx *sql.Tx, stage *models.Stage, bracket *brackets.Bracket) error {
	if bracket == nil {
		return fmt.Errorf("%w: tournament stage requires a prebuilt bracket", ErrStructuralInconsistency)
	}
	dbIDs := make([]int, len(bracket.Nodes))

	for idx := range bracket.Nodes {
		node := &bracket.Nodes[idx]
		match := &models.Match{
			StageID:       stage.ID,
			Round:         node.Round,
			Description:   fmt.Sprintf("%s %d", brackets.RoundName(node.Round), node.Order),
			Order:         node.Order,
			Status:        node.Status,
			Player1ID:     node.Player1ID,
			Player2ID:     node.Player2ID,
			Player1Origin: node.Player1Origin,
			Player2Origin: node.Player2Origin,
		}
		if err := t.matchRepo.Create(ctx, tx, match); err != nil {
			return fmt.Errorf("failed to create bracket match %q: %w", match.Description, err)
		}
		dbIDs[idx] = match.ID
		stage.Matches = append(stage.Matches, *match)
	}

	for idx := range bracket.Nodes {
		node := &bracket.Nodes[idx]
		if node.Next == brackets.NoNext {
			continue
		}
		nextID := dbIDs[node.Next]
		slot := node.NextSlot
		if err := t.matchRepo.UpdateNextMatchInfo(ctx, tx, dbIDs[idx], &nextID, &slot); err != nil {
			return fmt.Errorf("failed to link bracket match %d: %w", dbIDs[idx], err)
		}
		stage.Matches[idx].NextMatchID = &nextID
		stage.Matches[idx].NextMatchPosition = &slot
	}
	return nil
}

func (t *tournamentStageStrategy) computeAdvancers(_ context.Context, _, _, _ int) ([]brackets.Seed, error) {
	return nil, fmt.Errorf("%w: tournament stage does not produce group seeding", ErrStageTypeMismatch)
}

// guardCorrection запрещает коррекцию, меняющую победителя, когда дальше по
// сетке уже есть сыгранный матч. Цепочка bye-матчей прозрачна для
// продвижения, поэтому guard идёт по ней до первого «живого» потомка.
func (t *tournamentStageStrategy) guardCorrection(ctx context.Context, match *models.Match, newWinner int) error {
	if match.NextMatchID == nil || match.Status != models.MatchStatusCompleted {
		return nil
	}
	old, err := t.resultRepo.GetByMatchID(ctx, nil, match.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchResultNotFound) {
			return nil
		}
		return err
	}
	if old.WinnerID == newWinner {
		return nil
	}

	nextID := *match.NextMatchID
	for hop := 0; hop < propagationBound; hop++ {
		next, err := t.matchRepo.GetByID(ctx, nil, nextID)
		if err != nil {
			return fmt.Errorf("%w: next match missing", ErrStructuralInconsistency)
		}
		switch next.Status {
		case models.MatchStatusCompleted:
			return ErrDownstreamCompleted
		case models.MatchStatusBye:
			if next.NextMatchID == nil {
				return nil
			}
			nextID = *next.NextMatchID
		default:
			return nil
		}
	}
	return fmt.Errorf("%w: correction guard exceeded %d hops", ErrStructuralInconsistency, propagationBound)
}

// recordResult поднимает победителя в родительский матч и дальше по цепочке
// bye-матчей. Возвращает true, когда завершился финал.
func (t *tournamentStageStrategy) recordResult(ctx context.Context, tx *sql.Tx, match *models.Match, winner int, origin *models.PlayerOrigin) (bool, error) {
	if match.NextMatchID == nil {
		// Финал: продвигать некуда, этап завершён.
		return true, nil
	}

	all, err := t.matchRepo.ListByStage(ctx, tx, match.StageID)
	if err != nil {
		return false, fmt.Errorf("failed to load bracket for propagation: %w", err)
	}
	byID := make(map[int]*models.Match, len(all))
	feeders := make(map[int][]*models.Match)
	for _, m := range all {
		byID[m.ID] = m
		if m.NextMatchID != nil {
			feeders[*m.NextMatchID] = append(feeders[*m.NextMatchID], m)
		}
	}

	cur := byID[match.ID]
	if cur == nil || cur.NextMatchID == nil || cur.NextMatchPosition == nil {
		return false, fmt.Errorf("%w: match %d lost its bracket links", ErrStructuralInconsistency, match.ID)
	}

	for hop := 0; hop < propagationBound; hop++ {
		parent := byID[*cur.NextMatchID]
		if parent == nil {
			return false, fmt.Errorf("%w: match %d points to unknown next match", ErrStructuralInconsistency, cur.ID)
		}

		// Коррекция перезаписывает слот: путь победителя по сетке
		// детерминирован, старый occupant этого слота вытесняется.
		if *cur.NextMatchPosition == 1 {
			parent.Player1ID = &winner
			parent.Player1Origin = origin
		} else {
			parent.Player2ID = &winner
			parent.Player2Origin = origin
		}

		status := parent.Status
		if parent.HasBothPlayers() {
			if status != models.MatchStatusCompleted {
				status = models.MatchStatusScheduled
			}
		} else if t.otherFeederExhausted(feeders[parent.ID], cur.ID) {
			status = models.MatchStatusBye
		}

		if err := t.matchRepo.UpdateParticipants(ctx, tx, parent.ID, parent.Player1ID, parent.Player2ID, parent.Player1Origin, parent.Player2Origin); err != nil {
			return false, err
		}
		if status != parent.Status {
			if err := t.matchRepo.UpdateStatus(ctx, tx, parent.ID, status); err != nil {
				return false, err
			}
			parent.Status = status
		}

		if parent.Status != models.MatchStatusBye || parent.NextMatchID == nil {
			return false, nil
		}
		// Родитель оказался bye: второго участника у него не будет,
		// победитель идёт дальше.
		cur = parent
	}
	return false, fmt.Errorf("%w: propagation exceeded %d hops", ErrStructuralInconsistency, propagationBound)
}

// otherFeederExhausted: все прочие питающие матчи — пустые bye, нового
// участника родитель не дождётся.
func (t *tournamentStageStrategy) otherFeederExhausted(feeders []*models.Match, currentID int) bool {
	for _, f := range feeders {
		if f.ID == currentID {
			continue
		}
		if f.Status != models.MatchStatusBye {
			return false
		}
		if id, _ := f.SoleOccupant(); id != nil {
			// Bye с участником уже доставил его родителю; раз родитель
			// всё ещё с одним occupant, дерево в странном состоянии —
			// не каскадируем.
			return false
		}
	}
	return true
}
