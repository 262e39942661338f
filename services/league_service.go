package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/standings"
	"github.com/Dosada05/league-system/stats"
	"github.com/Dosada05/league-system/storage"
	"golang.org/x/sync/errgroup"
)

// StandingsView is the table the public page shows. Custom is set when an
// uploaded table replaces the computed one.
type StandingsView struct {
	Rows   []models.StandingRow `json:"rows"`
	Custom bool                 `json:"custom"`
}

// MatchView is a match with display names and its goal events.
type MatchView struct {
	models.Match
	HomeName string        `json:"home_name"`
	AwayName string        `json:"away_name"`
	Goals    []models.Goal `json:"goals"`
}

type MatchFilter struct {
	Type  *models.MatchType
	Round *int
}

// LiveView is what websocket clients receive after every change.
type LiveView struct {
	Standings StandingsView        `json:"standings"`
	Bracket   brackets.BracketView `json:"bracket"`
	Overview  stats.Overview       `json:"overview"`
}

type LeagueService interface {
	Snapshot(ctx context.Context) (*models.Snapshot, error)
	Standings(ctx context.Context) (*StandingsView, error)
	ComputedStandings(ctx context.Context) ([]models.StandingRow, error)
	Matches(ctx context.Context, filter MatchFilter) ([]MatchView, error)
	Bracket(ctx context.Context) (*brackets.BracketView, error)
	PlayerStats(ctx context.Context, filter stats.Filter, key stats.SortKey) ([]stats.Line, error)
	HallOfFame(ctx context.Context) (*stats.HallOfFame, error)
	Overview(ctx context.Context) (*stats.Overview, error)
	LiveView(ctx context.Context) (*LiveView, error)
	Refresh(ctx context.Context) error
}

type leagueService struct {
	teamRepo     repositories.TeamRepository
	matchRepo    repositories.MatchRepository
	playerRepo   repositories.PlayerRepository
	goalRepo     repositories.GoalRepository
	settingsRepo repositories.SettingsRepository
	uploader     storage.FileUploader
	publisher    Publisher
	logger       *slog.Logger
}

func NewLeagueService(
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	goalRepo repositories.GoalRepository,
	settingsRepo repositories.SettingsRepository,
	uploader storage.FileUploader,
	publisher Publisher,
	logger *slog.Logger,
) LeagueService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &leagueService{
		teamRepo:     teamRepo,
		matchRepo:    matchRepo,
		playerRepo:   playerRepo,
		goalRepo:     goalRepo,
		settingsRepo: settingsRepo,
		uploader:     uploader,
		publisher:    publisher,
		logger:       logger.With("service", "league"),
	}
}

// Snapshot loads the whole read model in parallel.
func (s *leagueService) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	snap := &models.Snapshot{}
	var settings map[string]string

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Teams, err = s.teamRepo.List(gCtx)
		return err
	})
	g.Go(func() (err error) {
		snap.Matches, err = s.matchRepo.List(gCtx)
		return err
	})
	g.Go(func() (err error) {
		snap.Players, err = s.playerRepo.List(gCtx)
		return err
	})
	g.Go(func() (err error) {
		snap.Goals, err = s.goalRepo.List(gCtx)
		return err
	})
	g.Go(func() (err error) {
		settings, err = s.settingsRepo.All(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load league snapshot: %w", err)
	}

	s.applySettings(snap, settings)
	s.populateLogoURLs(snap.Teams)
	return snap.Normalize(), nil
}

// applySettings decodes the seed and custom table. A corrupt value is logged
// and ignored so the public pages stay up.
func (s *leagueService) applySettings(snap *models.Snapshot, settings map[string]string) {
	if raw, ok := settings[repositories.SettingSeed]; ok {
		if seed, err := strconv.Atoi(raw); err == nil {
			snap.Seed = &seed
		} else {
			s.logger.Warn("ignoring malformed seed setting", "value", raw)
		}
	}
	if raw, ok := settings[repositories.SettingCustomTable]; ok && raw != "" {
		var rows []models.StandingRow
		if err := json.Unmarshal([]byte(raw), &rows); err != nil {
			s.logger.Warn("ignoring malformed custom table", "error", err)
		} else {
			snap.CustomTable = rows
		}
	}
}

func (s *leagueService) populateLogoURLs(teams []models.Team) {
	if s.uploader == nil {
		return
	}
	for i := range teams {
		if teams[i].LogoKey != nil && *teams[i].LogoKey != "" {
			url := s.uploader.GetPublicURL(*teams[i].LogoKey)
			teams[i].LogoURL = &url
		}
	}
}

func standingsView(snap *models.Snapshot) StandingsView {
	computed := standings.Compute(snap.Teams, snap.Matches)
	return StandingsView{
		Rows:   standings.Display(snap.CustomTable, computed),
		Custom: len(snap.CustomTable) > 0,
	}
}

func (s *leagueService) Standings(ctx context.Context) (*StandingsView, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	view := standingsView(snap)
	return &view, nil
}

func (s *leagueService) ComputedStandings(ctx context.Context) ([]models.StandingRow, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return standings.Compute(snap.Teams, snap.Matches), nil
}

// Matches lists matches by stage order, then round and id.
func (s *leagueService) Matches(ctx context.Context, filter MatchFilter) ([]MatchView, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return buildMatchViews(snap, filter), nil
}

func buildMatchViews(snap *models.Snapshot, filter MatchFilter) []MatchView {
	goalsByMatch := make(map[int][]models.Goal)
	for _, g := range snap.Goals {
		goalsByMatch[g.MatchID] = append(goalsByMatch[g.MatchID], g)
	}

	out := make([]MatchView, 0, len(snap.Matches))
	for _, m := range snap.Matches {
		if filter.Type != nil && m.Type != *filter.Type {
			continue
		}
		if filter.Round != nil && m.RoundOrZero() != *filter.Round {
			continue
		}
		goals := goalsByMatch[m.ID]
		if goals == nil {
			goals = []models.Goal{}
		}
		sort.SliceStable(goals, func(i, j int) bool { return minuteOrZero(goals[i]) < minuteOrZero(goals[j]) })
		out = append(out, MatchView{
			Match:    m,
			HomeName: snap.TeamName(m.HomeID),
			AwayName: snap.TeamName(m.AwayID),
			Goals:    goals,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Match, out[j].Match
		if a.Type.Order() != b.Type.Order() {
			return a.Type.Order() < b.Type.Order()
		}
		if a.RoundOrZero() != b.RoundOrZero() {
			return a.RoundOrZero() < b.RoundOrZero()
		}
		return a.ID < b.ID
	})
	return out
}

func minuteOrZero(g models.Goal) int {
	if g.Minute == nil {
		return 0
	}
	return *g.Minute
}

func (s *leagueService) Bracket(ctx context.Context) (*brackets.BracketView, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	view := brackets.NewResolver(snap).Bracket()
	return &view, nil
}

func (s *leagueService) PlayerStats(ctx context.Context, filter stats.Filter, key stats.SortKey) ([]stats.Line, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return stats.Table(snap, filter, key), nil
}

func (s *leagueService) HallOfFame(ctx context.Context) (*stats.HallOfFame, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	hof := stats.BuildHallOfFame(snap.Goals, snap.Players, stats.HallOfFameSize)
	return &hof, nil
}

func (s *leagueService) Overview(ctx context.Context) (*stats.Overview, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	ov := stats.BuildOverview(snap)
	return &ov, nil
}

func (s *leagueService) LiveView(ctx context.Context) (*LiveView, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &LiveView{
		Standings: standingsView(snap),
		Bracket:   brackets.NewResolver(snap).Bracket(),
		Overview:  stats.BuildOverview(snap),
	}, nil
}

// Refresh rebuilds the live view from a fresh snapshot and pushes it to
// every connected client.
func (s *leagueService) Refresh(ctx context.Context) error {
	view, err := s.LiveView(ctx)
	if err != nil {
		return err
	}
	s.publisher.Publish(brackets.MessageSnapshotChanged, view)
	s.logger.Debug("live view published")
	return nil
}
