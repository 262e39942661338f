package brackets

import (
	"context"

	"github.com/Dosada05/league-system/models"
)

type GenerateScheduleParams struct {
	TeamIDs   []int
	Seed      int
	Matchdays int
}

// ScheduleGenerator builds group-stage fixtures. Implementations must be
// deterministic in (TeamIDs, Seed, Matchdays).
type ScheduleGenerator interface {
	Generate(ctx context.Context, params GenerateScheduleParams) (*models.InsertMatches, error)

	GetName() string
}
