package models

// PointsPerWin is what a won match is worth in category standings.
const PointsPerWin = 2

// Standing is an entrant's record in one category, derived from its
// completed matches.
type Standing struct {
	EntrantID       int      `json:"entrant_id"`
	Entrant         *Entrant `json:"entrant,omitempty"`
	Points          int      `json:"points"`
	MatchesPlayed   int      `json:"matches_played"`
	Wins            int      `json:"wins"`
	Losses          int      `json:"losses"`
	ScoreFor        int      `json:"score_for"`
	ScoreAgainst    int      `json:"score_against"`
	ScoreDifference int      `json:"score_difference"`
	Rank            int      `json:"rank"`
}
