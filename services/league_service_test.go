package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/stats"
)

func TestSnapshotAppliesSettings(t *testing.T) {
	logoKey := "logos/teams/1-5.png"
	teams := teamsN(2)
	teams[0].LogoKey = &logoKey

	tests := []struct {
		name       string
		settings   map[string]string
		wantSeed   *int
		wantCustom int
	}{
		{"empty", map[string]string{}, nil, 0},
		{"seed and table", map[string]string{
			repositories.SettingSeed:        "2024",
			repositories.SettingCustomTable: `[{"id":2,"name":"Team B","pts":3},{"id":1,"name":"Team A"}]`,
		}, models.IntPtr(2024), 2},
		{"malformed values are ignored", map[string]string{
			repositories.SettingSeed:        "abc",
			repositories.SettingCustomTable: "{not json",
		}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv().withSnapshot(models.Snapshot{Teams: teams})
			env.settings.AllFn = func(context.Context) (map[string]string, error) { return tt.settings, nil }

			snap, err := env.league().Snapshot(context.Background())
			if err != nil {
				t.Fatalf("Snapshot() error = %v", err)
			}
			switch {
			case tt.wantSeed == nil && snap.Seed != nil:
				t.Errorf("seed = %d, want none", *snap.Seed)
			case tt.wantSeed != nil && (snap.Seed == nil || *snap.Seed != *tt.wantSeed):
				t.Errorf("seed = %v, want %d", snap.Seed, *tt.wantSeed)
			}
			if len(snap.CustomTable) != tt.wantCustom {
				t.Errorf("custom rows = %d, want %d", len(snap.CustomTable), tt.wantCustom)
			}
			if snap.Teams[0].LogoURL == nil || *snap.Teams[0].LogoURL != "https://cdn.example.com/"+logoKey {
				t.Errorf("logo url = %v", snap.Teams[0].LogoURL)
			}
			if snap.Teams[1].LogoURL != nil {
				t.Errorf("team without logo got url %q", *snap.Teams[1].LogoURL)
			}
		})
	}
}

func TestSnapshotError(t *testing.T) {
	boom := errors.New("connection refused")
	env := newTestEnv()
	env.goals.ListFn = func(context.Context) ([]models.Goal, error) { return nil, boom }

	if _, err := env.league().Snapshot(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Snapshot() error = %v, want %v", err, boom)
	}
	if err := env.league().Refresh(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Refresh() error = %v, want %v", err, boom)
	}
	if len(env.pub.types()) != 0 {
		t.Errorf("published = %v after a failed refresh", env.pub.types())
	}
}

func TestStandingsCustomTable(t *testing.T) {
	env := newTestEnv().withSnapshot(models.Snapshot{
		Teams: teamsN(2),
		Matches: []models.Match{
			{ID: 1, Type: models.MatchTypeGroup, HomeID: 1, AwayID: 2, HomeGoals: models.IntPtr(3), AwayGoals: models.IntPtr(0), Played: true},
		},
	})
	svc := env.league()

	view, err := svc.Standings(context.Background())
	if err != nil {
		t.Fatalf("Standings() error = %v", err)
	}
	if view.Custom || view.Rows[0].TeamID != 1 || view.Rows[0].Points != 3 {
		t.Errorf("computed view = %+v", view)
	}

	env.settings.AllFn = func(context.Context) (map[string]string, error) {
		return map[string]string{repositories.SettingCustomTable: `[{"id":2,"name":"Team B","pts":10}]`}, nil
	}
	view, err = svc.Standings(context.Background())
	if err != nil {
		t.Fatalf("Standings() error = %v", err)
	}
	if !view.Custom || len(view.Rows) != 1 || view.Rows[0].TeamID != 2 {
		t.Errorf("custom view = %+v", view)
	}

	computed, err := svc.ComputedStandings(context.Background())
	if err != nil {
		t.Fatalf("ComputedStandings() error = %v", err)
	}
	if len(computed) != 2 || computed[0].TeamID != 1 {
		t.Errorf("computed = %+v, the custom table must not leak in", computed)
	}
}

func TestMatchesOrderAndFilter(t *testing.T) {
	slot := models.Slot{Stage: models.MatchTypeQual, Position: 1}
	env := newTestEnv().withSnapshot(models.Snapshot{
		Teams: teamsN(4),
		Matches: []models.Match{
			{ID: 1, Type: models.MatchTypeQual, Slot: &slot, HomeID: 3, AwayID: 4},
			{ID: 2, Type: models.MatchTypeGroup, Round: models.IntPtr(2), HomeID: 1, AwayID: 3},
			{ID: 3, Type: models.MatchTypeGroup, Round: models.IntPtr(1), HomeID: 1, AwayID: 2, HomeGoals: models.IntPtr(1), AwayGoals: models.IntPtr(1), Played: true},
			{ID: 4, Type: models.MatchTypeGroup, Round: models.IntPtr(1), HomeID: 3, AwayID: 4},
		},
		Goals: []models.Goal{
			{ID: 1, MatchID: 3, PlayerID: models.IntPtr(1), TeamID: 2, Minute: models.IntPtr(70)},
			{ID: 2, MatchID: 3, PlayerID: models.IntPtr(2), TeamID: 1, Minute: models.IntPtr(5)},
		},
	})
	svc := env.league()

	all, err := svc.Matches(context.Background(), MatchFilter{})
	if err != nil {
		t.Fatalf("Matches() error = %v", err)
	}
	var ids []int
	for _, m := range all {
		ids = append(ids, m.ID)
	}
	if want := []int{3, 4, 2, 1}; !equalInts(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
	first := all[0]
	if first.HomeName != "Team A" || first.AwayName != "Team B" {
		t.Errorf("names = %q, %q", first.HomeName, first.AwayName)
	}
	if len(first.Goals) != 2 || *first.Goals[0].Minute != 5 {
		t.Errorf("goals = %+v, want sorted by minute", first.Goals)
	}
	if all[1].Goals == nil {
		t.Error("match without goals must carry an empty list")
	}

	group := models.MatchTypeGroup
	round1, err := svc.Matches(context.Background(), MatchFilter{Type: &group, Round: models.IntPtr(1)})
	if err != nil {
		t.Fatalf("Matches() error = %v", err)
	}
	if len(round1) != 2 {
		t.Errorf("round 1 = %d matches, want 2", len(round1))
	}
}

func TestRefreshPublishesLiveView(t *testing.T) {
	env := newTestEnv().withSnapshot(models.Snapshot{Teams: teamsN(2)})

	if err := env.league().Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if len(env.pub.msgs) != 1 || env.pub.msgs[0].Type != brackets.MessageSnapshotChanged {
		t.Fatalf("published = %v", env.pub.types())
	}
	view, ok := env.pub.msgs[0].Payload.(*LiveView)
	if !ok {
		t.Fatalf("payload = %T, want *LiveView", env.pub.msgs[0].Payload)
	}
	if len(view.Standings.Rows) != 2 || view.Overview.Teams != 2 {
		t.Errorf("live view = %+v", view)
	}
}

func TestPlayerStatsAndHallOfFame(t *testing.T) {
	env := newTestEnv().withSnapshot(models.Snapshot{
		Teams: teamsN(2),
		Players: []models.Player{
			{ID: 1, TeamID: 1, Name: "Ivanov Alex"},
			{ID: 2, TeamID: 2, Name: "Petrov Ivan"},
		},
		Matches: []models.Match{
			{ID: 1, Type: models.MatchTypeGroup, HomeID: 1, AwayID: 2, HomeGoals: models.IntPtr(2), AwayGoals: models.IntPtr(0), Played: true},
		},
		Goals: []models.Goal{
			{ID: 1, MatchID: 1, PlayerID: models.IntPtr(1), TeamID: 1},
			{ID: 2, MatchID: 1, PlayerID: models.IntPtr(1), TeamID: 1, AssistPlayerID: models.IntPtr(9)},
		},
	})
	svc := env.league()

	lines, err := svc.PlayerStats(context.Background(), stats.Filter{}, stats.SortGoals)
	if err != nil {
		t.Fatalf("PlayerStats() error = %v", err)
	}
	if len(lines) != 2 || lines[0].PlayerID != 1 || lines[0].Goals != 2 {
		t.Errorf("lines = %+v", lines)
	}

	hof, err := svc.HallOfFame(context.Background())
	if err != nil {
		t.Fatalf("HallOfFame() error = %v", err)
	}
	if len(hof.Scorers) == 0 || hof.Scorers[0].PlayerID != 1 {
		t.Errorf("hall of fame = %+v", hof)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
