package brackets

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrOddTeamCount     = errors.New("round-robin requires an even number of teams")
	ErrInvalidMatchdays = errors.New("number of matchdays must be positive")
	ErrDuplicateTeamID  = errors.New("team list contains a duplicate id")
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() ScheduleGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

func (g *RoundRobinGenerator) Generate(ctx context.Context, params GenerateScheduleParams) (*models.InsertMatches, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches, err := GenerateSchedule(params.TeamIDs, params.Seed, params.Matchdays)
	if err != nil {
		return nil, fmt.Errorf("RoundRobinGenerator: %w", err)
	}
	return &models.InsertMatches{Stage: models.MatchTypeGroup, Matches: matches}, nil
}

// CircleRounds splits teamIDs into n-1 rounds with the circle method: the
// first team stays fixed, the rest rotate one position per round. Every
// unordered pair appears exactly once across the rounds.
func CircleRounds(teamIDs []int) [][][2]int {
	n := len(teamIDs)
	if n < 2 || n%2 != 0 {
		return nil
	}
	fixed := teamIDs[0]
	rot := make([]int, n-1)
	copy(rot, teamIDs[1:])

	rounds := make([][][2]int, 0, n-1)
	for r := 0; r < n-1; r++ {
		pairs := make([][2]int, 0, n/2)
		pairs = append(pairs, [2]int{fixed, rot[0]})
		for i := 1; i < n/2; i++ {
			pairs = append(pairs, [2]int{rot[i], rot[n-1-i]})
		}
		rounds = append(rounds, pairs)
		rot = append(rot[1:], rot[0])
	}
	return rounds
}

// GenerateSchedule builds the group stage for teamIDs. The rounds produced by
// CircleRounds are shuffled with the seeded LCG (Fisher-Yates, one draw per
// index from the top), the first matchdays of them are kept, and one more
// draw per pair decides home and away. Identical input always gives an
// identical schedule.
func GenerateSchedule(teamIDs []int, seed int, matchdays int) ([]models.Match, error) {
	n := len(teamIDs)
	if n < 2 {
		return []models.Match{}, nil
	}
	if n%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrOddTeamCount, n)
	}
	if matchdays <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMatchdays, matchdays)
	}
	seen := make(map[int]struct{}, n)
	for _, id := range teamIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateTeamID, id)
		}
		seen[id] = struct{}{}
	}

	rng := NewLCG(seed)
	rounds := CircleRounds(teamIDs)

	order := make([]int, len(rounds))
	for i := range order {
		order[i] = i
	}
	for i := len(order) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}

	if matchdays > len(order) {
		matchdays = len(order)
	}
	chosen := order[:matchdays]

	matches := make([]models.Match, 0, matchdays*n/2)
	for tour, ri := range chosen {
		for _, pair := range rounds[ri] {
			home, away := pair[0], pair[1]
			if rng.Next() > 0.5 {
				home, away = away, home
			}
			matches = append(matches, models.Match{
				Type:   models.MatchTypeGroup,
				Round:  models.IntPtr(tour + 1),
				HomeID: home,
				AwayID: away,
			})
		}
	}
	return matches, nil
}
