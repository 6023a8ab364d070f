package brackets

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/reklub/kumitsu-app/models"
)

var ErrUnsupportedBracketType = errors.New("unsupported bracket type")

// Round is the ordered set of matches of one category sharing a round number.
type Round struct {
	Number        int             `json:"number"`
	IsPreliminary bool            `json:"is_preliminary"`
	Matches       []*models.Match `json:"matches"`
}

// BuiltBracket is the output of a generator for one category, before or after
// global numbering.
type BuiltBracket struct {
	TournamentID int                `json:"tournament_id"`
	CategoryID   int                `json:"category_id"`
	BracketType  models.BracketType `json:"bracket_type"`
	EntrantCount int                `json:"entrant_count"`
	Rounds       []Round            `json:"rounds"`
}

func (b BuiltBracket) Matches() []*models.Match {
	out := make([]*models.Match, 0, b.MatchCount())
	for _, r := range b.Rounds {
		out = append(out, r.Matches...)
	}
	return out
}

func (b BuiltBracket) MatchCount() int {
	total := 0
	for _, r := range b.Rounds {
		total += len(r.Matches)
	}
	return total
}

func (b BuiltBracket) HasPreliminary() bool {
	return len(b.Rounds) > 0 && b.Rounds[0].IsPreliminary
}

type GenerateBracketParams struct {
	TournamentID int
	CategoryID   int
	Entrants     []models.Entrant
	StartNumber  int
}

type BracketGenerator interface {
	// GenerateBracket builds the category bracket and returns the next free
	// match number for chaining.
	GenerateBracket(params GenerateBracketParams) (BuiltBracket, int)

	GetName() string
}

// NewGenerator picks the generator for a category. rng is only used by
// generators that seed randomly and must not be shared between goroutines.
func NewGenerator(category *models.Category, rng *rand.Rand) (BracketGenerator, error) {
	switch category.BracketType {
	case models.BracketSingleElimination:
		return NewSingleEliminationGenerator(rng), nil
	case models.BracketRoundRobin:
		settings, err := category.GetRoundRobinSettings()
		if err != nil {
			return nil, fmt.Errorf("category %d has invalid round robin settings: %w", category.ID, err)
		}
		return NewRoundRobinGenerator(settings.Legs), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBracketType, category.BracketType)
	}
}

func stampMatches(rounds []Round, tournamentID, categoryID int) {
	for _, r := range rounds {
		for _, m := range r.Matches {
			m.TournamentID = tournamentID
			m.CategoryID = categoryID
		}
	}
}

func newScheduledMatch(round, number int, p1, p2 *int) *models.Match {
	return &models.Match{
		Round:          round,
		MatchNumber:    number,
		Participant1ID: p1,
		Participant2ID: p2,
		Status:         models.MatchStatusScheduled,
	}
}

func intPtr(v int) *int {
	return &v
}
