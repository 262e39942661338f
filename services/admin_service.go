package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/results"
	"github.com/Dosada05/league-system/standings"
	"github.com/Dosada05/league-system/storage"
)

type ScheduleResult struct {
	Seed      int            `json:"seed"`
	Generator string         `json:"generator"`
	Matches   []models.Match `json:"matches"`
}

type StageResult struct {
	Stage   models.MatchType `json:"stage"`
	Matches []models.Match   `json:"matches"`
}

type ManualMatchInput struct {
	HomeID    int  `json:"home_id"`
	AwayID    int  `json:"away_id"`
	HomeGoals *int `json:"home_goals"`
	AwayGoals *int `json:"away_goals"`
	Round     *int `json:"round,omitempty"`
}

type PlayerInput struct {
	TeamID    int    `json:"team_id"`
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Number    *int   `json:"number,omitempty"`
}

type LogoUpload struct {
	ContentType string
	Size        int64
	Body        io.Reader
}

type AdminService interface {
	GenerateSchedule(ctx context.Context, seed int) (*ScheduleResult, error)
	CreateStage(ctx context.Context, stage models.MatchType) (*StageResult, error)
	RecordResult(ctx context.Context, matchID int, sub results.Submission) (*results.Recorded, error)
	ClearResult(ctx context.Context, matchID int) (*models.ClearResult, error)
	AddManualMatch(ctx context.Context, input ManualMatchInput) (*models.Match, error)

	AddTeam(ctx context.Context, name string) (*models.Team, error)
	RenameTeam(ctx context.Context, teamID int, name string) error
	UploadTeamLogo(ctx context.Context, teamID int, logo LogoUpload) (*models.Team, error)
	AddPlayer(ctx context.Context, input PlayerInput) (*models.Player, error)
	RemovePlayer(ctx context.Context, playerID int) error

	ImportTable(ctx context.Context, rows []standings.CustomRowInput) ([]models.StandingRow, error)
	ClearCustomTable(ctx context.Context) error
	ImportMatches(ctx context.Context, records []MatchRecord) (int, error)
	ExportMatches(ctx context.Context) ([]MatchRecord, error)
	ExportTable(ctx context.Context) ([]TableRecord, error)
	ResetData(ctx context.Context) error
}

type adminService struct {
	league       LeagueService
	tx           Transactor
	teamRepo     repositories.TeamRepository
	matchRepo    repositories.MatchRepository
	playerRepo   repositories.PlayerRepository
	goalRepo     repositories.GoalRepository
	settingsRepo repositories.SettingsRepository
	generator    brackets.ScheduleGenerator
	uploader     storage.FileUploader
	publisher    Publisher
	matchdays    int
	logger       *slog.Logger

	// Writes are read-modify-write over a snapshot; only one runs at a time.
	mu sync.Mutex
}

type AdminDeps struct {
	League       LeagueService
	Tx           Transactor
	TeamRepo     repositories.TeamRepository
	MatchRepo    repositories.MatchRepository
	PlayerRepo   repositories.PlayerRepository
	GoalRepo     repositories.GoalRepository
	SettingsRepo repositories.SettingsRepository
	Generator    brackets.ScheduleGenerator
	Uploader     storage.FileUploader
	Publisher    Publisher
	Matchdays    int
	Logger       *slog.Logger
}

func NewAdminService(deps AdminDeps) AdminService {
	if deps.Generator == nil {
		deps.Generator = brackets.NewRoundRobinGenerator()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Publisher == nil {
		deps.Publisher = nopPublisher{}
	}
	return &adminService{
		league:       deps.League,
		tx:           deps.Tx,
		teamRepo:     deps.TeamRepo,
		matchRepo:    deps.MatchRepo,
		playerRepo:   deps.PlayerRepo,
		goalRepo:     deps.GoalRepo,
		settingsRepo: deps.SettingsRepo,
		generator:    deps.Generator,
		uploader:     deps.Uploader,
		publisher:    deps.Publisher,
		matchdays:    deps.Matchdays,
		logger:       deps.Logger.With("service", "admin"),
	}
}

// changed pushes the new state to clients once a write has committed.
func (s *adminService) changed(ctx context.Context, action string) {
	s.logger.Info("league data changed", "action", action)
	if err := s.league.Refresh(ctx); err != nil {
		s.logger.Warn("failed to publish live view", "action", action, "error", err)
	}
}

// GenerateSchedule replaces every match with a fresh group stage drawn from
// seed and stores the seed. Knockout matches and all goals go with it.
func (s *adminService) GenerateSchedule(ctx context.Context, seed int) (*ScheduleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.league.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := s.generator.Generate(ctx, brackets.GenerateScheduleParams{
		TeamIDs:   snap.TeamIDs(),
		Seed:      seed,
		Matchdays: s.matchdays,
	})
	if err != nil {
		if errors.Is(err, brackets.ErrOddTeamCount) || errors.Is(err, brackets.ErrInvalidMatchdays) || errors.Is(err, brackets.ErrDuplicateTeamID) {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		return nil, err
	}

	var inserted []models.Match
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.goalRepo.DeleteAll(ctx, exec); err != nil {
			return err
		}
		if err := s.matchRepo.DeleteAll(ctx, exec); err != nil {
			return err
		}
		if inserted, err = s.matchRepo.InsertBatch(ctx, exec, plan.Matches); err != nil {
			return err
		}
		return s.settingsRepo.Upsert(ctx, exec, repositories.SettingSeed, strconv.Itoa(seed))
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	s.changed(ctx, "generate_schedule")
	return &ScheduleResult{Seed: seed, Generator: s.generator.GetName(), Matches: inserted}, nil
}

// CreateStage inserts the next knockout stage. Both "not ready" and "already
// exists" leave storage untouched and are reported through sentinel errors.
func (s *adminService) CreateStage(ctx context.Context, stage models.MatchType) (*StageResult, error) {
	if !stage.IsKnockout() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStage, stage)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.league.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	plan := brackets.NewResolver(snap).Plan(stage)
	switch {
	case plan.Exists:
		return nil, fmt.Errorf("%w: %s", ErrStageExists, stage)
	case !plan.Ready:
		return nil, fmt.Errorf("%w: %s", ErrStageNotReady, plan.Reason)
	}

	var inserted []models.Match
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) (err error) {
		inserted, err = s.matchRepo.InsertBatch(ctx, exec, plan.Insert.Matches)
		return err
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	res := &StageResult{Stage: stage, Matches: inserted}
	s.publisher.Publish(brackets.MessageBracketUpdated, res)
	s.changed(ctx, "create_stage_"+string(stage))
	return res, nil
}

// RecordResult validates sub against the stored match and replaces its score
// and goal events in one transaction.
func (s *adminService) RecordResult(ctx context.Context, matchID int, sub results.Submission) (*results.Recorded, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rec results.Recorded
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			return err
		}
		if rec, err = results.Record(*m, sub); err != nil {
			return err
		}
		if err := s.matchRepo.UpdateResult(ctx, exec, rec.Update); err != nil {
			return err
		}
		return s.goalRepo.ReplaceForMatch(ctx, exec, matchID, rec.Update.Goals)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	for _, w := range rec.Warnings {
		s.logger.Info("result saved with warning", "match_id", matchID, "warning", w.Code, "detail", w.Message)
	}
	s.publisher.Publish(brackets.MessageResultRecorded, rec.Match)
	s.changed(ctx, "record_result")
	return &rec, nil
}

// ClearResult resets the match and deletes every later knockout stage.
func (s *adminService) ClearResult(ctx context.Context, matchID int) (*models.ClearResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var intent models.ClearResult
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			return err
		}
		intent = results.Clear(*m)
		if err := s.matchRepo.UpdateResult(ctx, exec, intent.Reset); err != nil {
			return err
		}
		if err := s.goalRepo.ReplaceForMatch(ctx, exec, matchID, intent.Reset.Goals); err != nil {
			return err
		}
		removed, err := s.matchRepo.DeleteByTypes(ctx, exec, intent.Cascade.Types)
		if err != nil {
			return err
		}
		if removed > 0 {
			s.logger.Info("downstream stages removed", "match_id", matchID, "stages", intent.Cascade.Types, "matches", removed)
		}
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	s.changed(ctx, "clear_result")
	return &intent, nil
}

// AddManualMatch inserts an extra group match, played when both scores are
// given.
func (s *adminService) AddManualMatch(ctx context.Context, input ManualMatchInput) (*models.Match, error) {
	if input.HomeID == input.AwayID {
		return nil, ErrSameTeams
	}
	m := models.Match{
		Type:   models.MatchTypeGroup,
		Round:  input.Round,
		HomeID: input.HomeID,
		AwayID: input.AwayID,
	}
	if input.HomeGoals != nil && input.AwayGoals != nil {
		if *input.HomeGoals < 0 || *input.AwayGoals < 0 {
			return nil, fmt.Errorf("%w: goals must not be negative", ErrValidationFailed)
		}
		m.HomeGoals, m.AwayGoals, m.Played = input.HomeGoals, input.AwayGoals, true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var inserted []models.Match
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) (err error) {
		inserted, err = s.matchRepo.InsertBatch(ctx, exec, []models.Match{m})
		return err
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	s.changed(ctx, "add_manual_match")
	return &inserted[0], nil
}

func cleanName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func (s *adminService) AddTeam(ctx context.Context, name string) (*models.Team, error) {
	team := &models.Team{Name: cleanName(name)}
	if team.Name == "" {
		return nil, ErrTeamNameRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.teamRepo.Create(ctx, nil, team); err != nil {
		return nil, handleRepositoryError(err)
	}
	s.changed(ctx, "add_team")
	return team, nil
}

func (s *adminService) RenameTeam(ctx context.Context, teamID int, name string) error {
	clean := cleanName(name)
	if clean == "" {
		return ErrTeamNameRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.teamRepo.UpdateName(ctx, nil, teamID, clean); err != nil {
		return handleRepositoryError(err)
	}
	s.changed(ctx, "rename_team")
	return nil
}

// UploadTeamLogo stores a new logo object and points the team at it. The
// previous object is removed afterwards on a best-effort basis.
func (s *adminService) UploadTeamLogo(ctx context.Context, teamID int, logo LogoUpload) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}
	if logo.Size > storage.MaxLogoSize {
		return nil, handleRepositoryError(storage.ErrLogoTooLarge)
	}
	key, err := storage.LogoKey(teamID, logo.ContentType, time.Now().UnixNano())
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	oldKey := team.LogoKey

	res, err := s.uploader.Upload(ctx, key, logo.ContentType, io.LimitReader(logo.Body, storage.MaxLogoSize))
	if err != nil {
		return nil, fmt.Errorf("failed to upload logo for team %d: %w", teamID, err)
	}
	if err := s.teamRepo.UpdateLogo(ctx, nil, teamID, &res.Key); err != nil {
		if delErr := s.uploader.Delete(ctx, res.Key); delErr != nil {
			s.logger.Warn("failed to remove orphaned logo", "key", res.Key, "error", delErr)
		}
		return nil, handleRepositoryError(err)
	}
	if oldKey != nil && *oldKey != "" && *oldKey != res.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to remove previous logo", "key", *oldKey, "error", err)
		}
	}

	team.LogoKey = &res.Key
	team.LogoURL = &res.Location
	s.changed(ctx, "upload_logo")
	return team, nil
}

// AddPlayer stores the player as "Last First".
func (s *adminService) AddPlayer(ctx context.Context, input PlayerInput) (*models.Player, error) {
	last, first := cleanName(input.LastName), cleanName(input.FirstName)
	if last == "" {
		return nil, ErrPlayerNameMissing
	}
	name := last
	if first != "" {
		name = last + " " + first
	}
	if input.Number != nil && *input.Number <= 0 {
		input.Number = nil
	}
	player := &models.Player{TeamID: input.TeamID, Name: name, Number: input.Number}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.teamRepo.GetByID(ctx, input.TeamID); err != nil {
		return nil, handleRepositoryError(err)
	}
	if err := s.playerRepo.Create(ctx, nil, player); err != nil {
		return nil, handleRepositoryError(err)
	}
	s.changed(ctx, "add_player")
	return player, nil
}

// RemovePlayer deletes the player together with the goals they scored.
func (s *adminService) RemovePlayer(ctx context.Context, playerID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.goalRepo.DeleteByPlayer(ctx, exec, playerID); err != nil {
			return err
		}
		return s.playerRepo.Delete(ctx, exec, playerID)
	})
	if err != nil {
		return handleRepositoryError(err)
	}
	s.changed(ctx, "remove_player")
	return nil
}

// ImportTable stores an uploaded table that replaces the computed one on the
// public page. Bracket seeding keeps using computed standings.
func (s *adminService) ImportTable(ctx context.Context, rows []standings.CustomRowInput) ([]models.StandingRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.league.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	table, err := standings.NormalizeCustomTable(rows, snap.Teams)
	switch {
	case errors.Is(err, standings.ErrEmptyCustomTable):
		return nil, ErrImportEmpty
	case errors.Is(err, standings.ErrUnknownTeams):
		return nil, fmt.Errorf("%w: %v", ErrUnknownTeams, err)
	case err != nil:
		return nil, err
	}

	raw, err := json.Marshal(table)
	if err != nil {
		return nil, fmt.Errorf("failed to encode custom table: %w", err)
	}
	if err := s.settingsRepo.Upsert(ctx, nil, repositories.SettingCustomTable, string(raw)); err != nil {
		return nil, err
	}
	s.changed(ctx, "import_table")
	return table, nil
}

func (s *adminService) ClearCustomTable(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.settingsRepo.Delete(ctx, nil, repositories.SettingCustomTable); err != nil {
		return err
	}
	s.changed(ctx, "clear_custom_table")
	return nil
}

// ImportMatches replaces every match with the imported ones.
func (s *adminService) ImportMatches(ctx context.Context, records []MatchRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.league.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	matches, err := importMatchRecords(records, snap.Teams)
	if err != nil {
		return 0, err
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.goalRepo.DeleteAll(ctx, exec); err != nil {
			return err
		}
		if err := s.matchRepo.DeleteAll(ctx, exec); err != nil {
			return err
		}
		_, err := s.matchRepo.InsertBatch(ctx, exec, matches)
		return err
	})
	if err != nil {
		return 0, handleRepositoryError(err)
	}
	s.changed(ctx, "import_matches")
	return len(matches), nil
}

func (s *adminService) ExportMatches(ctx context.Context) ([]MatchRecord, error) {
	snap, err := s.league.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return exportMatchRecords(snap), nil
}

// ExportTable exports the displayed table: the custom one when set.
func (s *adminService) ExportTable(ctx context.Context) ([]TableRecord, error) {
	view, err := s.league.Standings(ctx)
	if err != nil {
		return nil, err
	}
	return exportTableRecords(view.Rows), nil
}

// ResetData removes matches, goals and settings. Teams and players stay.
func (s *adminService) ResetData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.goalRepo.DeleteAll(ctx, exec); err != nil {
			return err
		}
		if err := s.matchRepo.DeleteAll(ctx, exec); err != nil {
			return err
		}
		return s.settingsRepo.DeleteAll(ctx, exec)
	})
	if err != nil {
		return handleRepositoryError(err)
	}
	s.changed(ctx, "reset")
	return nil
}
