package brackets

import (
	"sort"

	"github.com/reklub/kumitsu-app/models"
)

// ComputeStandings tallies the completed matches of a category and ranks the
// entrants by points, score difference, score for and entrant ID. Entrants
// without a completed match are listed with an empty record.
func ComputeStandings(entrants []models.Entrant, matches []*models.Match) []models.Standing {
	rows := make(map[int]*models.Standing, len(entrants))
	row := func(id int) *models.Standing {
		s, ok := rows[id]
		if !ok {
			s = &models.Standing{EntrantID: id}
			rows[id] = s
		}
		return s
	}
	for i := range entrants {
		row(entrants[i].ID).Entrant = &entrants[i]
	}

	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted || m.WinnerID == nil || !m.IsReady() {
			continue
		}
		p1, p2 := row(*m.Participant1ID), row(*m.Participant2ID)
		tally(p1, m.Score1, m.Score2, *m.WinnerID == p1.EntrantID)
		tally(p2, m.Score2, m.Score1, *m.WinnerID == p2.EntrantID)
	}

	out := make([]models.Standing, 0, len(rows))
	for _, s := range rows {
		s.ScoreDifference = s.ScoreFor - s.ScoreAgainst
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.Points != b.Points:
			return a.Points > b.Points
		case a.ScoreDifference != b.ScoreDifference:
			return a.ScoreDifference > b.ScoreDifference
		case a.ScoreFor != b.ScoreFor:
			return a.ScoreFor > b.ScoreFor
		default:
			return a.EntrantID < b.EntrantID
		}
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func tally(s *models.Standing, scored, conceded int, won bool) {
	s.MatchesPlayed++
	s.ScoreFor += scored
	s.ScoreAgainst += conceded
	if won {
		s.Wins++
		s.Points += models.PointsPerWin
	} else {
		s.Losses++
	}
}
