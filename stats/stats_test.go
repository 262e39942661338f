package stats

import (
	"reflect"
	"testing"

	"github.com/Dosada05/league-system/models"
)

func fixture() *models.Snapshot {
	p := models.IntPtr
	return &models.Snapshot{
		Teams: []models.Team{{ID: 1, Name: "Lions"}, {ID: 2, Name: "Tigers"}},
		Players: []models.Player{
			{ID: 1, TeamID: 1, Name: "Ivanov Alexander", Number: p(9)},
			{ID: 2, TeamID: 1, Name: "Petrov Boris"},
			{ID: 3, TeamID: 2, Name: "Sidorov Anton"},
			{ID: 4, TeamID: 2, Name: "Kuznetsov Dmitry"},
		},
		Matches: []models.Match{
			{ID: 1, Type: models.MatchTypeGroup, HomeID: 1, AwayID: 2, HomeGoals: p(2), AwayGoals: p(2), Played: true},
			{ID: 2, Type: models.MatchTypeGroup, HomeID: 2, AwayID: 1, HomeGoals: p(3), AwayGoals: p(0), Played: true, IsTechnical: true},
			{ID: 3, Type: models.MatchTypeGroup, HomeID: 1, AwayID: 2},
			{ID: 4, Type: models.MatchTypeQF, HomeID: 1, AwayID: 2, HomeGoals: p(1), AwayGoals: p(0), Played: true},
		},
		Goals: []models.Goal{
			{ID: 1, MatchID: 1, TeamID: 1, PlayerID: p(1), AssistPlayerID: p(2)},
			{ID: 2, MatchID: 1, TeamID: 1, PlayerID: p(1)},
			{ID: 3, MatchID: 1, TeamID: 2, PlayerID: p(3), AssistPlayerID: p(4)},
			{ID: 4, MatchID: 1, TeamID: 1, PlayerID: p(2), IsOwnGoal: true},
			// Technical match: ignored by the scoring table.
			{ID: 5, MatchID: 2, TeamID: 2, PlayerID: p(4), AssistPlayerID: p(3)},
			// Unknown match.
			{ID: 6, MatchID: 99, TeamID: 2, PlayerID: p(4)},
			{ID: 7, MatchID: 4, TeamID: 1, PlayerID: p(2), AssistPlayerID: p(1)},
		},
	}
}

func counts(lines []Line) map[int][2]int {
	out := make(map[int][2]int)
	for _, l := range lines {
		out[l.PlayerID] = [2]int{l.Goals, l.Assists}
	}
	return out
}

func TestAggregate(t *testing.T) {
	snap := fixture()
	got := counts(Aggregate(snap.Goals, snap.Matches, snap.Players))
	want := map[int][2]int{
		1: {2, 1},
		2: {1, 1}, // own goal not counted
		3: {1, 0},
		4: {0, 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func names(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Name
	}
	return out
}

func TestRank(t *testing.T) {
	lines := []Line{
		{Name: "Delta", Goals: 1, Assists: 3},
		{Name: "Alpha", Goals: 2, Assists: 0},
		{Name: "Charlie", Goals: 2, Assists: 1},
		{Name: "Bravo", Goals: 1, Assists: 3},
		{Name: "Echo", Goals: 0, Assists: 0},
	}
	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortGoals, []string{"Charlie", "Alpha", "Bravo", "Delta", "Echo"}},
		{SortAssists, []string{"Bravo", "Delta", "Charlie", "Alpha", "Echo"}},
		{SortGA, []string{"Bravo", "Delta", "Charlie", "Alpha", "Echo"}},
	}
	for _, tc := range tests {
		cp := append([]Line(nil), lines...)
		Rank(cp, tc.key)
		if got := names(cp); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]SortKey{"": SortGoals, "GA": SortGA, " assists ": SortAssists} {
		if got, err := ParseSortKey(in); err != nil || got != want {
			t.Errorf("ParseSortKey(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseSortKey("points"); err == nil {
		t.Error("unknown key must fail")
	}
}

func TestMatchName(t *testing.T) {
	tests := []struct {
		name, query string
		want        bool
	}{
		{"Ivanov Alexander", "", true},
		{"Ivanov Alexander", "ALEX", true},
		{"Ivanov Alexander", "ivan al", false},
		{"Ivanov Alexander", "ivanov al", true},
		{"Ivanov Alexander", "ivanova lex", true},
		{"Ivanov Alexander", "ivanovalex", true},
		{"Ivanov Alexander", "petrov", false},
	}
	for _, tc := range tests {
		if got := MatchName(tc.name, tc.query); got != tc.want {
			t.Errorf("MatchName(%q, %q) = %v, want %v", tc.name, tc.query, got, tc.want)
		}
	}
}

func TestTable(t *testing.T) {
	snap := fixture()

	all := Table(snap, Filter{}, SortGoals)
	if got := names(all); !reflect.DeepEqual(got, []string{"Ivanov Alexander", "Petrov Boris", "Sidorov Anton", "Kuznetsov Dmitry"}) {
		t.Errorf("full table order: %v", got)
	}

	tigers := Table(snap, Filter{TeamID: 2}, SortAssists)
	if got := names(tigers); !reflect.DeepEqual(got, []string{"Kuznetsov Dmitry", "Sidorov Anton"}) {
		t.Errorf("team filter: %v", got)
	}

	search := Table(snap, Filter{Search: "ov a"}, SortGoals)
	if got := names(search); !reflect.DeepEqual(got, []string{"Ivanov Alexander", "Sidorov Anton"}) {
		t.Errorf("search: %v", got)
	}
}

func TestBuildHallOfFame(t *testing.T) {
	snap := fixture()
	hof := BuildHallOfFame(snap.Goals, snap.Players, 0)

	// All-time counts include the technical match and unknown-match events.
	wantScorers := []FameEntry{
		{PlayerID: 1, TeamID: 1, Name: "Ivanov Alexander", Count: 2},
		{PlayerID: 4, TeamID: 2, Name: "Kuznetsov Dmitry", Count: 2},
		{PlayerID: 2, TeamID: 1, Name: "Petrov Boris", Count: 1},
		{PlayerID: 3, TeamID: 2, Name: "Sidorov Anton", Count: 1},
	}
	if !reflect.DeepEqual(hof.Scorers, wantScorers) {
		t.Errorf("scorers:\n got %+v\nwant %+v", hof.Scorers, wantScorers)
	}
	if len(hof.Assistants) != 4 || hof.Assistants[0].PlayerID != 1 {
		t.Errorf("assistants: %+v", hof.Assistants)
	}

	top1 := BuildHallOfFame(snap.Goals, snap.Players, 1)
	if len(top1.Scorers) != 1 || top1.Scorers[0].PlayerID != 1 {
		t.Errorf("limit: %+v", top1.Scorers)
	}

	ghost := BuildHallOfFame([]models.Goal{{PlayerID: models.IntPtr(77)}}, snap.Players, 10)
	if len(ghost.Scorers) != 0 {
		t.Error("players missing from the roster are dropped")
	}
}

func TestBuildOverview(t *testing.T) {
	ov := BuildOverview(fixture())
	want := Overview{Teams: 2, Played: 2, Goals: 5, Remaining: 1}
	if ov != want {
		t.Errorf("got %+v, want %+v", ov, want)
	}
	if empty := BuildOverview(&models.Snapshot{}); empty != (Overview{}) {
		t.Errorf("empty league: %+v", empty)
	}
}
