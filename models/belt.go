package models

import "strings"

type BeltRank struct {
	Rank  string `json:"rank"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

// beltLadder is the kyu/dan progression used by the federation, lowest first.
var beltLadder = []BeltRank{
	{"10.1 kyu", "#FFFFFF", 1}, {"10.2 kyu", "#FFFFFF", 2}, {"10.3 kyu", "#FFFFFF", 3},
	{"9.1 kyu", "#FFFFFF", 4}, {"9.2 kyu", "#FFFFFF", 5}, {"9.3 kyu", "#FFFFFF", 6},
	{"8.1 kyu", "#FFFFFF", 7}, {"8.2 kyu", "#FFFFFF", 8}, {"8.3 kyu", "#FFFFFF", 9},
	{"7.1 kyu", "#FFFFFF", 10}, {"7.2 kyu", "#FFFFFF", 11}, {"7.3 kyu", "#FFFFFF", 12},
	{"6.1 kyu", "#FFFFFF", 13}, {"6.2 kyu", "#FFFFFF", 14}, {"6.3 kyu", "#FFFFFF", 15},
	{"5.1 kyu", "#FFFFFF", 16}, {"5.2 kyu", "#FFFFFF", 17}, {"5.3 kyu", "#FFFFFF", 18},
	{"10 kyu", "#FFFFFF", 19}, {"9 kyu", "#FFFFFF", 20}, {"8 kyu", "#FFFFFF", 21},
	{"7 kyu", "#FFFFFF", 22}, {"6 kyu", "#FFFFFF", 23}, {"5 kyu", "#FFFFFF", 24},
	{"4 kyu", "#FFFFFF", 25}, {"3 kyu", "#FFFFFF", 26}, {"2 kyu", "#FFFFFF", 27},
	{"1 kyu", "#FFFFFF", 28},
	{"1 dan", "#000000", 29}, {"2 dan", "#000000", 30}, {"3 dan", "#000000", 31},
	{"4 dan", "#000000", 32}, {"5 dan", "#000000", 33}, {"6 dan", "#000000", 34},
}

// BeltRanks returns a copy of the ladder ordered from lowest to highest rank.
func BeltRanks() []BeltRank {
	out := make([]BeltRank, len(beltLadder))
	copy(out, beltLadder)
	return out
}

// LookupBeltRank finds a rank by name, ignoring case and surrounding spaces.
func LookupBeltRank(rank string) (BeltRank, bool) {
	needle := strings.ToLower(strings.TrimSpace(rank))
	for _, b := range beltLadder {
		if strings.ToLower(b.Rank) == needle {
			return b, true
		}
	}
	return BeltRank{}, false
}

// CompareBelts returns -1, 0 or 1 when a is lower than, equal to or higher than b.
// Unknown ranks sort below every known rank.
func CompareBelts(a, b string) int {
	ra, _ := LookupBeltRank(a)
	rb, _ := LookupBeltRank(b)
	switch {
	case ra.Order < rb.Order:
		return -1
	case ra.Order > rb.Order:
		return 1
	default:
		return 0
	}
}
