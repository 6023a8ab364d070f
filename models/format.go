package models

import "encoding/json"

type BracketType string

const (
	BracketSingleElimination BracketType = "single_elimination"
	BracketRoundRobin        BracketType = "round_robin"
	// BracketDoubleElimination is accepted by the schema but no builder exists for it.
	BracketDoubleElimination BracketType = "double_elimination"
)

// IsAdvancing reports whether winners of this bracket type move on to a next round.
func (b BracketType) IsAdvancing() bool {
	return b == BracketSingleElimination
}

// RoundRobinSettings are stored in categories.settings_json.
type RoundRobinSettings struct {
	Legs int `json:"legs"` // 1 - single round robin, 2 - everyone meets twice
}

// GetRoundRobinSettings parses the category settings. Missing or out-of-range
// values fall back to a single leg.
func (c *Category) GetRoundRobinSettings() (*RoundRobinSettings, error) {
	settings := &RoundRobinSettings{Legs: 1}
	if c.BracketType != BracketRoundRobin || c.SettingsJSON == nil || *c.SettingsJSON == "" {
		return settings, nil
	}
	if err := json.Unmarshal([]byte(*c.SettingsJSON), settings); err != nil {
		return &RoundRobinSettings{Legs: 1}, err
	}
	if settings.Legs < 1 || settings.Legs > 2 {
		settings.Legs = 1
	}
	return settings, nil
}
