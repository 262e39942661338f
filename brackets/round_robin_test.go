package brackets

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/Dosada05/league-system/models"
)

func rows(matches []models.Match) [][3]int {
	out := make([][3]int, len(matches))
	for i, m := range matches {
		out[i] = [3]int{m.RoundOrZero(), m.HomeID, m.AwayID}
	}
	return out
}

func seq(from, to, step int) []int {
	var ids []int
	for id := from; id <= to; id += step {
		ids = append(ids, id)
	}
	return ids
}

func TestGenerateScheduleKnownSeeds(t *testing.T) {
	tests := []struct {
		name      string
		teams     []int
		seed      int
		matchdays int
		want      [][3]int
	}{
		{
			name: "four teams seed 42", teams: []int{1, 2, 3, 4}, seed: 42, matchdays: 3,
			want: [][3]int{{1, 2, 1}, {1, 4, 3}, {2, 4, 1}, {2, 3, 2}, {3, 3, 1}, {3, 4, 2}},
		},
		{
			name: "six teams seed 7", teams: seq(10, 60, 10), seed: 7, matchdays: 2,
			want: [][3]int{{1, 20, 10}, {1, 60, 30}, {1, 50, 40}, {2, 60, 10}, {2, 20, 50}, {2, 40, 30}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := GenerateSchedule(tc.teams, tc.seed, tc.matchdays)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(rows(got), tc.want) {
				t.Errorf("schedule mismatch\n got: %v\nwant: %v", rows(got), tc.want)
			}
		})
	}
}

func TestGenerateScheduleSixteenTeams(t *testing.T) {
	got, err := GenerateSchedule(seq(1, 16, 1), 2024, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 matches, got %d", len(got))
	}

	first := [][3]int{{1, 1, 8}, {1, 7, 9}, {1, 10, 6}, {1, 5, 11}, {1, 12, 4}, {1, 13, 3}, {1, 14, 2}, {1, 15, 16}}
	last := [][3]int{{8, 12, 1}, {8, 11, 13}, {8, 10, 14}, {8, 15, 9}, {8, 16, 8}, {8, 7, 2}, {8, 3, 6}, {8, 5, 4}}
	all := rows(got)
	if !reflect.DeepEqual(all[:8], first) {
		t.Errorf("round 1 mismatch\n got: %v\nwant: %v", all[:8], first)
	}
	if !reflect.DeepEqual(all[56:], last) {
		t.Errorf("round 8 mismatch\n got: %v\nwant: %v", all[56:], last)
	}

	// No pair meets twice and everyone plays once per round.
	pairs := make(map[[2]int]bool)
	for r := 1; r <= 8; r++ {
		seen := make(map[int]bool)
		for _, m := range got[(r-1)*8 : r*8] {
			if m.RoundOrZero() != r || m.Type != models.MatchTypeGroup || m.Played {
				t.Fatalf("unexpected match %+v in round %d", m, r)
			}
			if seen[m.HomeID] || seen[m.AwayID] {
				t.Fatalf("team plays twice in round %d", r)
			}
			seen[m.HomeID], seen[m.AwayID] = true, true
			key := [2]int{min(m.HomeID, m.AwayID), max(m.HomeID, m.AwayID)}
			if pairs[key] {
				t.Fatalf("pair %v meets twice", key)
			}
			pairs[key] = true
		}
		if len(seen) != 16 {
			t.Fatalf("round %d covers %d teams", r, len(seen))
		}
	}
}

func TestGenerateScheduleDeterministic(t *testing.T) {
	teams := seq(1, 12, 1)
	a, _ := GenerateSchedule(teams, 99, 5)
	b, _ := GenerateSchedule(teams, 99, 5)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same input produced different schedules")
	}
	c, _ := GenerateSchedule(teams, 100, 5)
	if reflect.DeepEqual(rows(a), rows(c)) {
		t.Error("different seeds produced identical schedules")
	}
}

func TestGenerateScheduleClampsMatchdays(t *testing.T) {
	got, err := GenerateSchedule([]int{1, 2, 3, 4}, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 6 {
		t.Errorf("expected a full single round-robin of 6 matches, got %d", len(got))
	}
}

func TestGenerateScheduleErrors(t *testing.T) {
	tests := []struct {
		name      string
		teams     []int
		matchdays int
		want      error
	}{
		{"odd", []int{1, 2, 3}, 2, ErrOddTeamCount},
		{"zero matchdays", []int{1, 2}, 0, ErrInvalidMatchdays},
		{"duplicate", []int{1, 2, 2, 3}, 2, ErrDuplicateTeamID},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := GenerateSchedule(tc.teams, 1, tc.matchdays)
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}

	got, err := GenerateSchedule([]int{1}, 1, 3)
	if err != nil || len(got) != 0 {
		t.Errorf("single team: got %v, %v; want empty schedule", got, err)
	}
}

func TestCircleRoundsCoversEveryPairOnce(t *testing.T) {
	for _, n := range []int{2, 4, 6, 10, 16} {
		rounds := CircleRounds(seq(1, n, 1))
		if len(rounds) != n-1 {
			t.Fatalf("n=%d: %d rounds", n, len(rounds))
		}
		pairs := make(map[[2]int]bool)
		for _, round := range rounds {
			for _, p := range round {
				if p[0] == p[1] {
					t.Fatalf("n=%d: team %d paired with itself", n, p[0])
				}
				key := [2]int{min(p[0], p[1]), max(p[0], p[1])}
				if pairs[key] {
					t.Fatalf("n=%d: pair %v repeated", n, key)
				}
				pairs[key] = true
			}
		}
		if len(pairs) != n*(n-1)/2 {
			t.Errorf("n=%d: %d distinct pairs", n, len(pairs))
		}
	}
}

func TestRoundRobinGenerator(t *testing.T) {
	g := NewRoundRobinGenerator()
	plan, err := g.Generate(context.Background(), GenerateScheduleParams{TeamIDs: []int{1, 2, 3, 4}, Seed: 42, Matchdays: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Stage != models.MatchTypeGroup || len(plan.Matches) != 6 {
		t.Errorf("unexpected plan %+v", plan)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Generate(ctx, GenerateScheduleParams{TeamIDs: []int{1, 2}, Seed: 1, Matchdays: 1}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
