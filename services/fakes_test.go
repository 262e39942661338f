package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeTeamRepo struct {
	ListFn       func(ctx context.Context) ([]models.Team, error)
	GetByIDFn    func(ctx context.Context, id int) (*models.Team, error)
	CreateFn     func(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error
	UpdateNameFn func(ctx context.Context, exec repositories.SQLExecutor, id int, name string) error
	UpdateLogoFn func(ctx context.Context, exec repositories.SQLExecutor, id int, logoKey *string) error
}

func (f *fakeTeamRepo) List(ctx context.Context) ([]models.Team, error) {
	if f.ListFn == nil {
		return nil, nil
	}
	return f.ListFn(ctx)
}

func (f *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	if f.GetByIDFn == nil {
		return nil, repositories.ErrTeamNotFound
	}
	return f.GetByIDFn(ctx, id)
}

func (f *fakeTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	if f.CreateFn == nil {
		return nil
	}
	return f.CreateFn(ctx, exec, team)
}

func (f *fakeTeamRepo) UpdateName(ctx context.Context, exec repositories.SQLExecutor, id int, name string) error {
	if f.UpdateNameFn == nil {
		return nil
	}
	return f.UpdateNameFn(ctx, exec, id, name)
}

func (f *fakeTeamRepo) UpdateLogo(ctx context.Context, exec repositories.SQLExecutor, id int, logoKey *string) error {
	if f.UpdateLogoFn == nil {
		return nil
	}
	return f.UpdateLogoFn(ctx, exec, id, logoKey)
}

type fakeMatchRepo struct {
	ListFn          func(ctx context.Context) ([]models.Match, error)
	GetByIDFn       func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error)
	InsertBatchFn   func(ctx context.Context, exec repositories.SQLExecutor, matches []models.Match) ([]models.Match, error)
	UpdateResultFn  func(ctx context.Context, exec repositories.SQLExecutor, u models.ResultUpdate) error
	DeleteByTypesFn func(ctx context.Context, exec repositories.SQLExecutor, types []models.MatchType) (int64, error)
	DeleteAllFn     func(ctx context.Context, exec repositories.SQLExecutor) error
}

func (f *fakeMatchRepo) List(ctx context.Context) ([]models.Match, error) {
	if f.ListFn == nil {
		return nil, nil
	}
	return f.ListFn(ctx)
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	if f.GetByIDFn == nil {
		return nil, repositories.ErrMatchNotFound
	}
	return f.GetByIDFn(ctx, exec, id)
}

// InsertBatch assigns ids from 1 unless overridden.
func (f *fakeMatchRepo) InsertBatch(ctx context.Context, exec repositories.SQLExecutor, matches []models.Match) ([]models.Match, error) {
	if f.InsertBatchFn != nil {
		return f.InsertBatchFn(ctx, exec, matches)
	}
	out := make([]models.Match, len(matches))
	for i, m := range matches {
		m.ID = i + 1
		out[i] = m
	}
	return out, nil
}

func (f *fakeMatchRepo) UpdateResult(ctx context.Context, exec repositories.SQLExecutor, u models.ResultUpdate) error {
	if f.UpdateResultFn == nil {
		return nil
	}
	return f.UpdateResultFn(ctx, exec, u)
}

func (f *fakeMatchRepo) DeleteByTypes(ctx context.Context, exec repositories.SQLExecutor, types []models.MatchType) (int64, error) {
	if f.DeleteByTypesFn == nil {
		return 0, nil
	}
	return f.DeleteByTypesFn(ctx, exec, types)
}

func (f *fakeMatchRepo) DeleteAll(ctx context.Context, exec repositories.SQLExecutor) error {
	if f.DeleteAllFn == nil {
		return nil
	}
	return f.DeleteAllFn(ctx, exec)
}

type fakePlayerRepo struct {
	ListFn   func(ctx context.Context) ([]models.Player, error)
	CreateFn func(ctx context.Context, exec repositories.SQLExecutor, player *models.Player) error
	DeleteFn func(ctx context.Context, exec repositories.SQLExecutor, id int) error
}

func (f *fakePlayerRepo) List(ctx context.Context) ([]models.Player, error) {
	if f.ListFn == nil {
		return nil, nil
	}
	return f.ListFn(ctx)
}

func (f *fakePlayerRepo) Create(ctx context.Context, exec repositories.SQLExecutor, player *models.Player) error {
	if f.CreateFn == nil {
		return nil
	}
	return f.CreateFn(ctx, exec, player)
}

func (f *fakePlayerRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if f.DeleteFn == nil {
		return nil
	}
	return f.DeleteFn(ctx, exec, id)
}

type fakeGoalRepo struct {
	ListFn            func(ctx context.Context) ([]models.Goal, error)
	ReplaceForMatchFn func(ctx context.Context, exec repositories.SQLExecutor, matchID int, goals []models.Goal) error
	DeleteByPlayerFn  func(ctx context.Context, exec repositories.SQLExecutor, playerID int) error
	DeleteAllFn       func(ctx context.Context, exec repositories.SQLExecutor) error
}

func (f *fakeGoalRepo) List(ctx context.Context) ([]models.Goal, error) {
	if f.ListFn == nil {
		return nil, nil
	}
	return f.ListFn(ctx)
}

func (f *fakeGoalRepo) ReplaceForMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int, goals []models.Goal) error {
	if f.ReplaceForMatchFn == nil {
		return nil
	}
	return f.ReplaceForMatchFn(ctx, exec, matchID, goals)
}

func (f *fakeGoalRepo) DeleteByPlayer(ctx context.Context, exec repositories.SQLExecutor, playerID int) error {
	if f.DeleteByPlayerFn == nil {
		return nil
	}
	return f.DeleteByPlayerFn(ctx, exec, playerID)
}

func (f *fakeGoalRepo) DeleteAll(ctx context.Context, exec repositories.SQLExecutor) error {
	if f.DeleteAllFn == nil {
		return nil
	}
	return f.DeleteAllFn(ctx, exec)
}

type fakeSettingsRepo struct {
	AllFn       func(ctx context.Context) (map[string]string, error)
	UpsertFn    func(ctx context.Context, exec repositories.SQLExecutor, key, value string) error
	DeleteFn    func(ctx context.Context, exec repositories.SQLExecutor, key string) error
	DeleteAllFn func(ctx context.Context, exec repositories.SQLExecutor) error
}

func (f *fakeSettingsRepo) All(ctx context.Context) (map[string]string, error) {
	if f.AllFn == nil {
		return map[string]string{}, nil
	}
	return f.AllFn(ctx)
}

func (f *fakeSettingsRepo) Get(ctx context.Context, key string) (string, error) {
	all, err := f.All(ctx)
	if err != nil {
		return "", err
	}
	v, ok := all[key]
	if !ok {
		return "", repositories.ErrSettingNotFound
	}
	return v, nil
}

func (f *fakeSettingsRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, key, value string) error {
	if f.UpsertFn == nil {
		return nil
	}
	return f.UpsertFn(ctx, exec, key, value)
}

func (f *fakeSettingsRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, key string) error {
	if f.DeleteFn == nil {
		return nil
	}
	return f.DeleteFn(ctx, exec, key)
}

func (f *fakeSettingsRepo) DeleteAll(ctx context.Context, exec repositories.SQLExecutor) error {
	if f.DeleteAllFn == nil {
		return nil
	}
	return f.DeleteAllFn(ctx, exec)
}

// fakeTx runs fn without a real transaction and counts the calls.
type fakeTx struct {
	calls int
}

func (t *fakeTx) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	t.calls++
	return fn(nil)
}

type published struct {
	Type    string
	Payload interface{}
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
}

func (p *fakePublisher) Publish(msgType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{Type: msgType, Payload: payload})
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.msgs))
	for i, m := range p.msgs {
		out[i] = m.Type
	}
	return out
}

type fakeUploader struct {
	UploadFn func(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error)
	deleted  []string
}

func (u *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if u.UploadFn != nil {
		return u.UploadFn(ctx, key, contentType, reader)
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return nil, err
	}
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

// testEnv wires the admin service to a real league service over fakes.
type testEnv struct {
	teams    *fakeTeamRepo
	matches  *fakeMatchRepo
	players  *fakePlayerRepo
	goals    *fakeGoalRepo
	settings *fakeSettingsRepo
	tx       *fakeTx
	pub      *fakePublisher
	uploader *fakeUploader
}

func newTestEnv() *testEnv {
	return &testEnv{
		teams:    &fakeTeamRepo{},
		matches:  &fakeMatchRepo{},
		players:  &fakePlayerRepo{},
		goals:    &fakeGoalRepo{},
		settings: &fakeSettingsRepo{},
		tx:       &fakeTx{},
		pub:      &fakePublisher{},
		uploader: &fakeUploader{},
	}
}

func (e *testEnv) withSnapshot(snap models.Snapshot) *testEnv {
	e.teams.ListFn = func(context.Context) ([]models.Team, error) {
		return append([]models.Team(nil), snap.Teams...), nil
	}
	e.matches.ListFn = func(context.Context) ([]models.Match, error) {
		return append([]models.Match(nil), snap.Matches...), nil
	}
	e.players.ListFn = func(context.Context) ([]models.Player, error) {
		return append([]models.Player(nil), snap.Players...), nil
	}
	e.goals.ListFn = func(context.Context) ([]models.Goal, error) {
		return append([]models.Goal(nil), snap.Goals...), nil
	}
	return e
}

func (e *testEnv) fileUploader() storage.FileUploader {
	if e.uploader == nil {
		return nil
	}
	return e.uploader
}

func (e *testEnv) league() LeagueService {
	return NewLeagueService(e.teams, e.matches, e.players, e.goals, e.settings, e.fileUploader(), e.pub, discardLogger)
}

func (e *testEnv) admin() AdminService {
	return NewAdminService(AdminDeps{
		League:       e.league(),
		Tx:           e.tx,
		TeamRepo:     e.teams,
		MatchRepo:    e.matches,
		PlayerRepo:   e.players,
		GoalRepo:     e.goals,
		SettingsRepo: e.settings,
		Uploader:     e.fileUploader(),
		Publisher:    e.pub,
		Matchdays:    7,
		Logger:       discardLogger,
	})
}

func teamsN(n int) []models.Team {
	out := make([]models.Team, n)
	for i := range out {
		out[i] = models.Team{ID: i + 1, Name: "Team " + string(rune('A'+i)), SortOrder: i}
	}
	return out
}

// finishedGroup returns a complete single round robin where the lower id
// always wins 1:0, so team i finishes i-th.
func finishedGroup(n int) []models.Match {
	var out []models.Match
	id := 1
	for h := 1; h <= n; h++ {
		for a := h + 1; a <= n; a++ {
			out = append(out, models.Match{
				ID: id, Type: models.MatchTypeGroup, Round: models.IntPtr(1),
				HomeID: h, AwayID: a,
				HomeGoals: models.IntPtr(1), AwayGoals: models.IntPtr(0), Played: true,
			})
			id++
		}
	}
	return out
}
