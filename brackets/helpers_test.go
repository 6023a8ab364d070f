package brackets

import (
	"fmt"
	"math/rand/v2"

	"github.com/reklub/kumitsu-app/models"
)

func makeEntrants(n int) []models.Entrant {
	entrants := make([]models.Entrant, n)
	for i := range entrants {
		entrants[i] = models.Entrant{ID: i + 1, FirstName: fmt.Sprintf("Entrant%d", i+1)}
	}
	return entrants
}

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func flatten(rounds []Round) []*models.Match {
	var out []*models.Match
	for _, r := range rounds {
		out = append(out, r.Matches...)
	}
	return out
}

// playThrough completes every match of a single elimination bracket round by
// round, always letting slot 1 win, and returns the advance outcomes.
func playThrough(rounds []Round) ([]Outcome, error) {
	var outcomes []Outcome
	for ri, round := range rounds {
		var next []*models.Match
		if ri+1 < len(rounds) {
			next = rounds[ri+1].Matches
		}
		for _, m := range round.Matches {
			if !m.IsReady() {
				return outcomes, fmt.Errorf("match %d in round %d is not ready", m.MatchNumber, m.Round)
			}
			winner := *m.Participant1ID
			m.WinnerID = &winner
			m.Status = models.MatchStatusCompleted
			res := Advance(AdvanceInput{
				Completed:        m,
				BracketType:      models.BracketSingleElimination,
				RoundMatches:     round.Matches,
				NextRoundMatches: next,
			})
			outcomes = append(outcomes, res.Outcome)
		}
	}
	return outcomes, nil
}
