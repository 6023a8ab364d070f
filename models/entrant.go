package models

import "time"

// Entrant is a competitor registered in exactly one category of a tournament.
type Entrant struct {
	ID           int       `json:"id"`
	TournamentID int       `json:"tournament_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	ClubName     *string   `json:"club_name,omitempty"`
	BeltRank     *string   `json:"belt_rank,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (e Entrant) DisplayName() string {
	switch {
	case e.FirstName != "" && e.LastName != "":
		return e.FirstName + " " + e.LastName
	case e.FirstName != "":
		return e.FirstName
	default:
		return e.LastName
	}
}
