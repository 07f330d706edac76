package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/haneul-lab/league-system/models"
	"github.com/haneul-lab/league-system/repositories"
)

// --- Заглушка database/sql ---
//
// Сервисы открывают транзакции через *sql.DB, а всю работу с данными делают
// репозитории. В тестах репозитории in-memory, поэтому достаточно драйвера,
// у которого Begin/Commit/Rollback — no-op.

type stubDriver struct{}

func (stubDriver) Open(name string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("stub driver does not execute queries")
}
func (stubConn) Close() error              { return nil }
func (stubConn) Begin() (driver.Tx, error) { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

var registerStubDriver sync.Once

func newStubDB(t *testing.T) *sql.DB {
	t.Helper()
	registerStubDriver.Do(func() {
		sql.Register("servicestub", stubDriver{})
	})
	db, err := sql.Open("servicestub", "")
	if err != nil {
		t.Fatalf("failed to open stub db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// --- In-memory репозитории ---

type fakeStageRepo struct {
	nextID int
	stages map[int]*models.Stage
}

func newFakeStageRepo() *fakeStageRepo {
	return &fakeStageRepo{stages: make(map[int]*models.Stage)}
}

func (f *fakeStageRepo) Create(ctx context.Context, exec repositories.SQLExecutor, stage *models.Stage) error {
	for _, st := range f.stages {
		if st.LeagueID == stage.LeagueID && st.Order == stage.Order {
			return repositories.ErrStageOrderConflict
		}
	}
	f.nextID++
	stage.ID = f.nextID
	cp := *stage
	cp.Groups = nil
	cp.Matches = nil
	f.stages[stage.ID] = &cp
	return nil
}

func (f *fakeStageRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Stage, error) {
	st, ok := f.stages[id]
	if !ok {
		return nil, repositories.ErrStageNotFound
	}
	cp := *st
	return &cp, nil
}

func (f *fakeStageRepo) ListByLeague(ctx context.Context, exec repositories.SQLExecutor, leagueID int) ([]*models.Stage, error) {
	var out []*models.Stage
	for _, st := range f.stages {
		if st.LeagueID == leagueID {
			cp := *st
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *fakeStageRepo) SetGroupConfirmed(ctx context.Context, exec repositories.SQLExecutor, id int, confirmed bool) error {
	st, ok := f.stages[id]
	if !ok {
		return repositories.ErrStageNotFound
	}
	st.IsGroupConfirmed = confirmed
	return nil
}

func (f *fakeStageRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := f.stages[id]; !ok {
		return repositories.ErrStageNotFound
	}
	delete(f.stages, id)
	return nil
}

type fakeGroupRepo struct {
	nextGroupID  int
	nextPlayerID int
	groups       map[int]*models.Group
	players      []*models.GroupPlayer
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[int]*models.Group)}
}

func (f *fakeGroupRepo) Create(ctx context.Context, exec repositories.SQLExecutor, group *models.Group) error {
	f.nextGroupID++
	group.ID = f.nextGroupID
	cp := *group
	cp.Players = nil
	cp.Matches = nil
	f.groups[group.ID] = &cp
	return nil
}

func (f *fakeGroupRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, repositories.ErrGroupNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGroupRepo) ListByStage(ctx context.Context, exec repositories.SQLExecutor, stageID int) ([]*models.Group, error) {
	var out []*models.Group
	for _, g := range f.groups {
		if g.StageID == stageID {
			cp := *g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakeGroupRepo) DeleteByStageID(ctx context.Context, exec repositories.SQLExecutor, stageID int) error {
	for id, g := range f.groups {
		if g.StageID == stageID {
			delete(f.groups, id)
		}
	}
	return nil
}

func (f *fakeGroupRepo) AddPlayer(ctx context.Context, exec repositories.SQLExecutor, player *models.GroupPlayer) error {
	f.nextPlayerID++
	player.ID = f.nextPlayerID
	cp := *player
	f.players = append(f.players, &cp)
	return nil
}

func (f *fakeGroupRepo) ListPlayersByGroup(ctx context.Context, exec repositories.SQLExecutor, groupID int) ([]*models.GroupPlayer, error) {
	var out []*models.GroupPlayer
	for _, p := range f.players {
		if p.GroupID == groupID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InitialPosition < out[j].InitialPosition })
	return out, nil
}

func (f *fakeGroupRepo) ListPlayersByStage(ctx context.Context, exec repositories.SQLExecutor, stageID int) ([]*models.GroupPlayer, error) {
	var out []*models.GroupPlayer
	for _, p := range f.players {
		g, ok := f.groups[p.GroupID]
		if ok && g.StageID == stageID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeGroupRepo) UpdatePlayerRank(ctx context.Context, exec repositories.SQLExecutor, groupID, playerID, rank int) error {
	for _, p := range f.players {
		if p.GroupID == groupID && p.PlayerID == playerID {
			p.Rank = rank
			return nil
		}
	}
	return repositories.ErrGroupPlayerInvalid
}

func (f *fakeGroupRepo) DeletePlayersByStageID(ctx context.Context, exec repositories.SQLExecutor, stageID int) error {
	kept := f.players[:0]
	for _, p := range f.players {
		g, ok := f.groups[p.GroupID]
		if ok && g.StageID == stageID {
			continue
		}
		kept = append(kept, p)
	}
	f.players = kept
	return nil
}

type fakeStandingRepo struct {
	groups  *fakeGroupRepo
	byGroup map[int][]*models.GroupStanding
}

func newFakeStandingRepo(groups *fakeGroupRepo) *fakeStandingRepo {
	return &fakeStandingRepo{groups: groups, byGroup: make(map[int][]*models.GroupStanding)}
}

func (f *fakeStandingRepo) ReplaceForGroup(ctx context.Context, exec repositories.SQLExecutor, groupID int, standings []*models.GroupStanding) error {
	rows := make([]*models.GroupStanding, len(standings))
	for i, st := range standings {
		cp := *st
		rows[i] = &cp
	}
	f.byGroup[groupID] = rows
	return nil
}

func (f *fakeStandingRepo) ListByGroup(ctx context.Context, exec repositories.SQLExecutor, groupID int) ([]*models.GroupStanding, error) {
	rows := f.byGroup[groupID]
	out := make([]*models.GroupStanding, len(rows))
	for i, st := range rows {
		cp := *st
		out[i] = &cp
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}

func (f *fakeStandingRepo) DeleteByStageID(ctx context.Context, exec repositories.SQLExecutor, stageID int) error {
	for groupID := range f.byGroup {
		g, ok := f.groups.groups[groupID]
		if ok && g.StageID == stageID {
			delete(f.byGroup, groupID)
		}
	}
	return nil
}

type fakeMatchRepo struct {
	nextID  int
	matches map[int]*models.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match)}
}

func (f *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	f.nextID++
	match.ID = f.nextID
	cp := *match
	cp.Result = nil
	f.matches[match.ID] = &cp
	return nil
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMatchRepo) ListByStage(ctx context.Context, exec repositories.SQLExecutor, stageID int) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range f.matches {
		if m.StageID == stageID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round > out[j].Round
		}
		return out[i].Order < out[j].Order
	})
	return out, nil
}

func (f *fakeMatchRepo) ListByGroup(ctx context.Context, exec repositories.SQLExecutor, groupID int) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range f.matches {
		if m.GroupID != nil && *m.GroupID == groupID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *fakeMatchRepo) CountByStage(ctx context.Context, exec repositories.SQLExecutor, stageID int) (int, error) {
	count := 0
	for _, m := range f.matches {
		if m.StageID == stageID {
			count++
		}
	}
	return count, nil
}

func (f *fakeMatchRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.MatchStatus) error {
	m, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Status = status
	return nil
}

func (f *fakeMatchRepo) UpdateParticipants(ctx context.Context, exec repositories.SQLExecutor, id int, player1ID, player2ID *int, origin1, origin2 *models.PlayerOrigin) error {
	m, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Player1ID = player1ID
	m.Player2ID = player2ID
	m.Player1Origin = origin1
	m.Player2Origin = origin2
	return nil
}

func (f *fakeMatchRepo) UpdateNextMatchInfo(ctx context.Context, exec repositories.SQLExecutor, id int, nextMatchID, nextMatchPosition *int) error {
	m, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.NextMatchID = nextMatchID
	m.NextMatchPosition = nextMatchPosition
	return nil
}

func (f *fakeMatchRepo) ClearNextMatchLinks(ctx context.Context, exec repositories.SQLExecutor, stageID int) error {
	for _, m := range f.matches {
		if m.StageID == stageID {
			m.NextMatchID = nil
			m.NextMatchPosition = nil
		}
	}
	return nil
}

func (f *fakeMatchRepo) DeleteByStageID(ctx context.Context, exec repositories.SQLExecutor, stageID int) error {
	for id, m := range f.matches {
		if m.StageID == stageID {
			delete(f.matches, id)
		}
	}
	return nil
}

type fakeResultRepo struct {
	matchRepo *fakeMatchRepo
	nextID    int
	byMatch   map[int]*models.MatchResult
}

func newFakeResultRepo(matchRepo *fakeMatchRepo) *fakeResultRepo {
	return &fakeResultRepo{matchRepo: matchRepo, byMatch: make(map[int]*models.MatchResult)}
}

func (f *fakeResultRepo) Create(ctx context.Context, exec repositories.SQLExecutor, result *models.MatchResult) error {
	if _, exists := f.byMatch[result.MatchID]; exists {
		return repositories.ErrMatchResultConflict
	}
	f.nextID++
	result.ID = f.nextID
	cp := *result
	f.byMatch[result.MatchID] = &cp
	return nil
}

func (f *fakeResultRepo) GetByMatchID(ctx context.Context, exec repositories.SQLExecutor, matchID int) (*models.MatchResult, error) {
	r, ok := f.byMatch[matchID]
	if !ok {
		return nil, repositories.ErrMatchResultNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeResultRepo) ListByMatchIDs(ctx context.Context, exec repositories.SQLExecutor, matchIDs []int) ([]*models.MatchResult, error) {
	var out []*models.MatchResult
	for _, id := range matchIDs {
		if r, ok := f.byMatch[id]; ok {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) DeleteByMatchID(ctx context.Context, exec repositories.SQLExecutor, matchID int) error {
	delete(f.byMatch, matchID)
	return nil
}

func (f *fakeResultRepo) ListCompletedByGroup(ctx context.Context, exec repositories.SQLExecutor, groupID int) ([]repositories.CompletedGroupMatch, error) {
	var out []repositories.CompletedGroupMatch
	for _, m := range f.matchRepo.matches {
		if m.GroupID == nil || *m.GroupID != groupID || m.Status != models.MatchStatusCompleted {
			continue
		}
		r, ok := f.byMatch[m.ID]
		if !ok {
			continue
		}
		out = append(out, repositories.CompletedGroupMatch{
			MatchID:   m.ID,
			Player1ID: *m.Player1ID,
			Player2ID: *m.Player2ID,
			WinnerID:  r.WinnerID,
			Sets:      r.Score.Sets,
		})
	}
	return out, nil
}

func (f *fakeResultRepo) DeleteByStageID(ctx context.Context, exec repositories.SQLExecutor, stageID int) error {
	for matchID := range f.byMatch {
		m, ok := f.matchRepo.matches[matchID]
		if ok && m.StageID == stageID {
			delete(f.byMatch, matchID)
		}
	}
	return nil
}

type fakeRosterRepo struct {
	players []*models.LeaguePlayer
}

func (f *fakeRosterRepo) ListApprovedByLeague(ctx context.Context, exec repositories.SQLExecutor, leagueID int) ([]*models.LeaguePlayer, error) {
	var out []*models.LeaguePlayer
	for _, lp := range f.players {
		if lp.LeagueID == leagueID && lp.Status == models.ParticipantStatusApproved {
			cp := *lp
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	byEmail map[string]*models.User
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}
