package brackets

import (
	"github.com/reklub/kumitsu-app/models"
)

// Outcome describes what Advance did with a completed match. Everything other
// than OutcomeAdvanced leaves all matches untouched.
type Outcome string

const (
	OutcomeAdvanced        Outcome = "advanced"
	OutcomeNotCompleted    Outcome = "not_completed"
	OutcomeNoWinner        Outcome = "no_winner"
	OutcomeNonAdvancing    Outcome = "non_advancing"
	OutcomeInvalidRound    Outcome = "invalid_round"
	OutcomeNotInRound      Outcome = "not_in_round"
	OutcomeFinal           Outcome = "final"
	OutcomeSlotTaken       Outcome = "slot_taken"
	OutcomeAlreadyAdvanced Outcome = "already_advanced"
)

type AdvanceInput struct {
	Completed   *models.Match
	BracketType models.BracketType
	// RoundMatches are all matches of the completed match's category and round.
	RoundMatches []*models.Match
	// NextRoundMatches are all matches of the same category in round+1.
	NextRoundMatches []*models.Match
}

type AdvanceResult struct {
	Outcome  Outcome
	Position int
	Target   *models.Match
	Slot     models.Slot
}

func (r AdvanceResult) Advanced() bool {
	return r.Outcome == OutcomeAdvanced
}

// Advance moves the winner of a completed knockout match into its slot in the
// next round. The completed match at position p (by match number) of its round
// feeds match p/2 of the next round, slot 1 for even p and slot 2 for odd p.
//
// The slot is written only when empty, so delivering the same completion twice
// changes nothing the second time. On success the target match in
// NextRoundMatches is updated in memory; persisting it is up to the caller.
func Advance(in AdvanceInput) AdvanceResult {
	m := in.Completed
	if m == nil || m.Status != models.MatchStatusCompleted {
		return AdvanceResult{Outcome: OutcomeNotCompleted, Position: -1}
	}
	if m.WinnerID == nil {
		return AdvanceResult{Outcome: OutcomeNoWinner, Position: -1}
	}
	if !in.BracketType.IsAdvancing() {
		return AdvanceResult{Outcome: OutcomeNonAdvancing, Position: -1}
	}
	if m.Round <= 0 {
		return AdvanceResult{Outcome: OutcomeInvalidRound, Position: -1}
	}

	position := positionInRound(m, in.RoundMatches)
	if position < 0 {
		return AdvanceResult{Outcome: OutcomeNotInRound, Position: -1}
	}

	next := sameCategoryRound(in.NextRoundMatches, m.CategoryID, m.Round+1)
	targetIdx := position / 2
	if targetIdx >= len(next) {
		return AdvanceResult{Outcome: OutcomeFinal, Position: position}
	}

	target := next[targetIdx]
	slot := models.Slot1
	if position%2 == 1 {
		slot = models.Slot2
	}
	result := AdvanceResult{Position: position, Target: target, Slot: slot}

	if !target.SetSlotParticipant(slot, *m.WinnerID) {
		result.Outcome = OutcomeSlotTaken
		if occupant := target.SlotParticipant(slot); occupant != nil && *occupant == *m.WinnerID {
			result.Outcome = OutcomeAlreadyAdvanced
		}
		return result
	}
	result.Outcome = OutcomeAdvanced
	return result
}

func positionInRound(m *models.Match, round []*models.Match) int {
	ordered := sameCategoryRound(round, m.CategoryID, m.Round)
	for i, candidate := range ordered {
		if candidate == m || (m.ID != 0 && candidate.ID == m.ID) {
			return i
		}
	}
	return -1
}

// sameCategoryRound filters and sorts a copy, so the caller's slice order is kept.
func sameCategoryRound(matches []*models.Match, categoryID, round int) []*models.Match {
	out := make([]*models.Match, 0, len(matches))
	for _, c := range matches {
		if c != nil && c.CategoryID == categoryID && c.Round == round {
			out = append(out, c)
		}
	}
	SortByMatchNumber(out)
	return out
}
