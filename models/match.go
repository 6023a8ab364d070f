package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusCancelled  MatchStatus = "cancelled"
)

// Slot identifies one of the two entrant positions of a match.
type Slot int

const (
	SlotNone Slot = 0
	Slot1    Slot = 1
	Slot2    Slot = 2
)

// Match is one pairing of a category bracket. Participant IDs are nil while the
// slot waits for a preliminary or previous-round winner.
type Match struct {
	ID              int         `json:"id"`
	TournamentID    int         `json:"tournament_id"`
	CategoryID      int         `json:"category_id"`
	Round           int         `json:"round"`
	MatchNumber     int         `json:"match_number"`
	Participant1ID  *int        `json:"participant1_id,omitempty"`
	Participant2ID  *int        `json:"participant2_id,omitempty"`
	WinnerID        *int        `json:"winner_id,omitempty"`
	Status          MatchStatus `json:"status"`
	Score1          int         `json:"score1"`
	Score2          int         `json:"score2"`
	Court           *string     `json:"court,omitempty"`
	ScheduledTime   *time.Time  `json:"scheduled_time,omitempty"`
	ActualStartTime *time.Time  `json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time  `json:"actual_end_time,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// SlotParticipant returns the entrant occupying the given slot, or nil.
func (m *Match) SlotParticipant(slot Slot) *int {
	switch slot {
	case Slot1:
		return m.Participant1ID
	case Slot2:
		return m.Participant2ID
	default:
		return nil
	}
}

// SetSlotParticipant writes id into the slot only when the slot is empty and
// reports whether it did.
func (m *Match) SetSlotParticipant(slot Slot, id int) bool {
	v := id
	switch slot {
	case Slot1:
		if m.Participant1ID != nil {
			return false
		}
		m.Participant1ID = &v
	case Slot2:
		if m.Participant2ID != nil {
			return false
		}
		m.Participant2ID = &v
	default:
		return false
	}
	return true
}

// HasParticipant reports whether the entrant plays in this match.
func (m *Match) HasParticipant(id int) bool {
	return (m.Participant1ID != nil && *m.Participant1ID == id) ||
		(m.Participant2ID != nil && *m.Participant2ID == id)
}

// IsReady reports whether both slots are occupied.
func (m *Match) IsReady() bool {
	return m.Participant1ID != nil && m.Participant2ID != nil
}

var allowedMatchTransitions = map[MatchStatus][]MatchStatus{
	MatchStatusScheduled:  {MatchStatusInProgress, MatchStatusCompleted, MatchStatusCancelled},
	MatchStatusInProgress: {MatchStatusCompleted, MatchStatusCancelled},
	MatchStatusCompleted:  {},
	MatchStatusCancelled:  {},
}

// CanTransition checks the match lifecycle. Results may be recorded straight
// from scheduled when nobody pressed "start" on the court table.
func CanTransition(current, next MatchStatus) bool {
	for _, allowed := range allowedMatchTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

func IsValidMatchStatus(s MatchStatus) bool {
	_, ok := allowedMatchTransitions[s]
	return ok
}
