package models

import "time"

// Tournament is the minimal view of a tournament the bracket engine needs.
// CRUD for tournaments lives elsewhere.
type Tournament struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	Location  *string   `json:"location,omitempty"`
}

type TournamentStats struct {
	TournamentID      int `json:"tournament_id"`
	TotalMatches      int `json:"total_matches"`
	CompletedMatches  int `json:"completed_matches"`
	InProgressMatches int `json:"in_progress_matches"`
	ScheduledMatches  int `json:"scheduled_matches"`
	CancelledMatches  int `json:"cancelled_matches"`
	TotalEntrants     int `json:"total_entrants"`
	CategoriesCount   int `json:"categories_count"`
}
