package brackets

import (
	"math/bits"
	"math/rand/v2"

	"github.com/reklub/kumitsu-app/models"
)

// SingleEliminationGenerator builds a knockout bracket in two phases: a
// preliminary round trims the field to a power of two, then the main bracket
// halves it down to the final.
type SingleEliminationGenerator struct {
	rng *rand.Rand
}

func NewSingleEliminationGenerator(rng *rand.Rand) *SingleEliminationGenerator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &SingleEliminationGenerator{rng: rng}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator) GenerateBracket(params GenerateBracketParams) (BuiltBracket, int) {
	rounds, next := g.Build(params.Entrants, params.StartNumber)
	stampMatches(rounds, params.TournamentID, params.CategoryID)
	return BuiltBracket{
		TournamentID: params.TournamentID,
		CategoryID:   params.CategoryID,
		BracketType:  models.BracketSingleElimination,
		EntrantCount: len(params.Entrants),
		Rounds:       rounds,
	}, next
}

// Build shuffles the entrants and lays out every round of the bracket.
// Matches are numbered from startNumber in round order, then slot order.
//
// The first `excess` leaf slots of the main bracket are left empty, one per
// preliminary match, so preliminary match p feeds main match p/2 in slot
// p%2+1. Byes fill the remaining leaf slots.
func (g *SingleEliminationGenerator) Build(entrants []models.Entrant, startNumber int) ([]Round, int) {
	n := len(entrants)
	if n < 2 {
		return nil, startNumber
	}

	shuffled := make([]models.Entrant, n)
	copy(shuffled, entrants)
	g.rng.Shuffle(n, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	firstPhaseSize := largestPowerOfTwo(n)
	excess := n - firstPhaseSize

	rounds := make([]Round, 0, bits.Len(uint(n)))
	number := startNumber
	roundNumber := 1

	if excess > 0 {
		prelim := Round{Number: roundNumber, IsPreliminary: true, Matches: make([]*models.Match, 0, excess)}
		for i := 0; i < excess; i++ {
			p1 := intPtr(shuffled[2*i].ID)
			p2 := intPtr(shuffled[2*i+1].ID)
			prelim.Matches = append(prelim.Matches, newScheduledMatch(roundNumber, number, p1, p2))
			number++
		}
		rounds = append(rounds, prelim)
		roundNumber++
	}

	slots := make([]*int, firstPhaseSize)
	for i, bye := range shuffled[2*excess:] {
		slots[excess+i] = intPtr(bye.ID)
	}

	for len(slots) > 1 {
		matchCount := (len(slots) + 1) / 2
		round := Round{Number: roundNumber, Matches: make([]*models.Match, 0, matchCount)}
		for i := 0; i < len(slots); i += 2 {
			var p2 *int
			if i+1 < len(slots) {
				p2 = slots[i+1]
			}
			round.Matches = append(round.Matches, newScheduledMatch(roundNumber, number, slots[i], p2))
			number++
		}
		rounds = append(rounds, round)
		slots = make([]*int, matchCount)
		roundNumber++
	}

	return rounds, number
}

// largestPowerOfTwo returns 2^floor(log2(n)) for n >= 1.
func largestPowerOfTwo(n int) int {
	return 1 << (bits.Len(uint(n)) - 1)
}
