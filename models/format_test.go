package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRoundRobinSettings(t *testing.T) {
	str := func(s string) *string { return &s }
	tests := []struct {
		name     string
		category Category
		legs     int
		wantErr  bool
	}{
		{"no settings", Category{BracketType: BracketRoundRobin}, 1, false},
		{"double", Category{BracketType: BracketRoundRobin, SettingsJSON: str(`{"legs":2}`)}, 2, false},
		{"out of range", Category{BracketType: BracketRoundRobin, SettingsJSON: str(`{"legs":5}`)}, 1, false},
		{"other bracket type", Category{BracketType: BracketSingleElimination, SettingsJSON: str(`{"legs":2}`)}, 1, false},
		{"broken json", Category{BracketType: BracketRoundRobin, SettingsJSON: str(`{legs`)}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings, err := tt.category.GetRoundRobinSettings()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.legs, settings.Legs)
		})
	}
}

func TestBracketTypeIsAdvancing(t *testing.T) {
	assert.True(t, BracketSingleElimination.IsAdvancing())
	assert.False(t, BracketRoundRobin.IsAdvancing())
	assert.False(t, BracketDoubleElimination.IsAdvancing())
}

func TestEntrantDisplayName(t *testing.T) {
	assert.Equal(t, "Jan Kowalski", Entrant{FirstName: "Jan", LastName: "Kowalski"}.DisplayName())
	assert.Equal(t, "Jan", Entrant{FirstName: "Jan"}.DisplayName())
	assert.Equal(t, "Kowalski", Entrant{LastName: "Kowalski"}.DisplayName())
}
