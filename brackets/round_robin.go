package brackets

import (
	"github.com/reklub/kumitsu-app/models"
)

type RoundRobinGenerator struct {
	legs int
}

// NewRoundRobinGenerator creates a generator for a single (legs=1) or double
// (legs=2) round robin. Other values fall back to a single leg.
func NewRoundRobinGenerator(legs int) *RoundRobinGenerator {
	if legs != 2 {
		legs = 1
	}
	return &RoundRobinGenerator{legs: legs}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

func (g *RoundRobinGenerator) GenerateBracket(params GenerateBracketParams) (BuiltBracket, int) {
	matches, next := g.Build(params.Entrants, params.StartNumber)
	var rounds []Round
	if len(matches) > 0 {
		rounds = []Round{{Number: 1, Matches: matches}}
	}
	stampMatches(rounds, params.TournamentID, params.CategoryID)
	return BuiltBracket{
		TournamentID: params.TournamentID,
		CategoryID:   params.CategoryID,
		BracketType:  models.BracketRoundRobin,
		EntrantCount: len(params.Entrants),
		Rounds:       rounds,
	}, next
}

// Build pairs every entrant with every other one in input order. All matches
// belong to round 1; the second leg, if any, follows the first with slots swapped.
func (g *RoundRobinGenerator) Build(entrants []models.Entrant, startNumber int) ([]*models.Match, int) {
	n := len(entrants)
	if n < 2 {
		return nil, startNumber
	}

	pairs := n * (n - 1) / 2
	matches := make([]*models.Match, 0, pairs*g.legs)
	number := startNumber

	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			matches = append(matches, newScheduledMatch(1, number, intPtr(entrants[i].ID), intPtr(entrants[j].ID)))
			number++
		}
	}

	if g.legs == 2 {
		for _, first := range matches[:pairs] {
			matches = append(matches, newScheduledMatch(1, number, intPtr(*first.Participant2ID), intPtr(*first.Participant1ID)))
			number++
		}
	}

	return matches, number
}
