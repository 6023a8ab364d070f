package brackets

import (
	"sort"

	"github.com/reklub/kumitsu-app/models"
)

// Schedule assigns tournament-wide match numbers so that the whole venue plays
// phase by phase: every category's first round, then every second round, and
// so on, with finals last. Within a phase, categories with more entrants go
// first. Numbers start at 1 and previous numbering is discarded; the matches
// are renumbered in place and returned in call order.
func Schedule(brackets map[int]BuiltBracket) []*models.Match {
	order := OrderCategories(brackets)

	maxPhase := 0
	total := 0
	for _, b := range brackets {
		phases := len(b.Rounds)
		if b.BracketType == models.BracketRoundRobin && phases > 1 {
			phases = 1
		}
		if phases > maxPhase {
			maxPhase = phases
		}
		total += b.MatchCount()
	}

	scheduled := make([]*models.Match, 0, total)
	counter := 1
	for phase := 1; phase <= maxPhase; phase++ {
		for _, categoryID := range order {
			b := brackets[categoryID]
			if phase > len(b.Rounds) {
				continue
			}
			if b.BracketType == models.BracketRoundRobin && phase != 1 {
				continue
			}
			for _, m := range b.Rounds[phase-1].Matches {
				m.MatchNumber = counter
				counter++
				scheduled = append(scheduled, m)
			}
		}
	}
	return scheduled
}

// OrderCategories returns category IDs by descending entrant count, ties by ID.
func OrderCategories(brackets map[int]BuiltBracket) []int {
	ids := make([]int, 0, len(brackets))
	for id := range brackets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := brackets[ids[i]].EntrantCount, brackets[ids[j]].EntrantCount
		if ci != cj {
			return ci > cj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// FromMatches rebuilds the bracket shape of a category from its stored
// matches, grouping by round. Used to re-run Schedule over categories that
// were not rebuilt. The entrant count is taken from the bracket itself, not
// from current registrations, since a built bracket is a snapshot.
func FromMatches(category *models.Category, matches []*models.Match) BuiltBracket {
	b := BuiltBracket{
		TournamentID: category.TournamentID,
		CategoryID:   category.ID,
		BracketType:  category.BracketType,
	}

	byRound := make(map[int][]*models.Match)
	entrants := make(map[int]struct{})
	count := 0
	maxRound := 0
	for _, m := range matches {
		if m.CategoryID != category.ID {
			continue
		}
		count++
		byRound[m.Round] = append(byRound[m.Round], m)
		if m.Round > maxRound {
			maxRound = m.Round
		}
		for _, id := range []*int{m.Participant1ID, m.Participant2ID} {
			if id != nil {
				entrants[*id] = struct{}{}
			}
		}
	}
	if count == 0 {
		return b
	}

	for r := 1; r <= maxRound; r++ {
		roundMatches, ok := byRound[r]
		if !ok {
			continue
		}
		SortByMatchNumber(roundMatches)
		b.Rounds = append(b.Rounds, Round{Number: r, Matches: roundMatches})
	}

	switch category.BracketType {
	case models.BracketSingleElimination:
		// n entrants always produce n-1 knockout matches.
		b.EntrantCount = count + 1
		// Without a preliminary round the first round covers exactly half the field.
		if len(b.Rounds) > 1 && b.EntrantCount != 2*len(b.Rounds[0].Matches) {
			b.Rounds[0].IsPreliminary = true
		}
	default:
		b.EntrantCount = len(entrants)
	}
	return b
}

// SortByMatchNumber orders matches in place by match number, then by ID.
func SortByMatchNumber(matches []*models.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].MatchNumber != matches[j].MatchNumber {
			return matches[i].MatchNumber < matches[j].MatchNumber
		}
		return matches[i].ID < matches[j].ID
	})
}
