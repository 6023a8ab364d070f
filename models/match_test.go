package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to MatchStatus
		want     bool
	}{
		{MatchStatusScheduled, MatchStatusInProgress, true},
		{MatchStatusScheduled, MatchStatusCompleted, true},
		{MatchStatusScheduled, MatchStatusCancelled, true},
		{MatchStatusInProgress, MatchStatusCompleted, true},
		{MatchStatusInProgress, MatchStatusCancelled, true},
		{MatchStatusInProgress, MatchStatusScheduled, false},
		{MatchStatusCompleted, MatchStatusInProgress, false},
		{MatchStatusCompleted, MatchStatusCancelled, false},
		{MatchStatusCancelled, MatchStatusScheduled, false},
		{MatchStatusCancelled, MatchStatusCompleted, false},
		{"unknown", MatchStatusCompleted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestIsValidMatchStatus(t *testing.T) {
	assert.True(t, IsValidMatchStatus(MatchStatusInProgress))
	assert.False(t, IsValidMatchStatus("paused"))
}

func TestMatchSlots(t *testing.T) {
	m := &Match{}
	assert.False(t, m.IsReady())

	assert.True(t, m.SetSlotParticipant(Slot2, 8))
	assert.False(t, m.SetSlotParticipant(Slot2, 9), "occupied slot must not be overwritten")
	assert.False(t, m.SetSlotParticipant(SlotNone, 9))
	assert.Equal(t, 8, *m.SlotParticipant(Slot2))
	assert.Nil(t, m.SlotParticipant(Slot1))
	assert.Nil(t, m.SlotParticipant(SlotNone))
	assert.False(t, m.IsReady())

	assert.True(t, m.SetSlotParticipant(Slot1, 3))
	assert.True(t, m.IsReady())
	assert.True(t, m.HasParticipant(3))
	assert.True(t, m.HasParticipant(8))
	assert.False(t, m.HasParticipant(9))
}
