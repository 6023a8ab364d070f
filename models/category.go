package models

type CategoryGender string

const (
	GenderMale   CategoryGender = "male"
	GenderFemale CategoryGender = "female"
	GenderMixed  CategoryGender = "mixed"
)

// Category groups entrants by age, weight, gender and belt. Membership is
// decided before brackets are built; only the belt range is checked here.
type Category struct {
	ID           int             `json:"id"`
	TournamentID int             `json:"tournament_id"`
	Name         string          `json:"name"`
	BracketType  BracketType     `json:"bracket_type"`
	AgeMin       *int            `json:"age_min,omitempty"`
	AgeMax       *int            `json:"age_max,omitempty"`
	WeightMin    *float64        `json:"weight_min,omitempty"`
	WeightMax    *float64        `json:"weight_max,omitempty"`
	Gender       *CategoryGender `json:"gender,omitempty"`
	BeltFrom     *string         `json:"belt_from,omitempty"`
	BeltTo       *string         `json:"belt_to,omitempty"`
	SettingsJSON *string         `json:"-"`
	IsActive     bool            `json:"is_active"`

	EntrantCount int `json:"entrant_count"`
}

// BeltRangeValid reports whether BeltFrom is not above BeltTo on the belt
// ladder. Open ranges and ranks missing from the ladder are accepted.
func (c *Category) BeltRangeValid() bool {
	if c.BeltFrom == nil || c.BeltTo == nil {
		return true
	}
	_, fromKnown := LookupBeltRank(*c.BeltFrom)
	_, toKnown := LookupBeltRank(*c.BeltTo)
	if !fromKnown || !toKnown {
		return true
	}
	return CompareBelts(*c.BeltFrom, *c.BeltTo) <= 0
}
