package models

import (
	"strconv"
	"strings"
)

// FormatRoundLabel renders a round number for people at the venue.
// totalRounds counts every round of the category including the preliminary one.
func FormatRoundLabel(round, totalRounds int, hasPreliminary bool, bracketType BracketType) string {
	if bracketType == BracketRoundRobin {
		return "Round Robin"
	}
	if round <= 0 {
		return "Unknown round"
	}
	if hasPreliminary && round == 1 && totalRounds > 1 {
		return "Preliminary"
	}
	switch totalRounds - round {
	case 0:
		return "Final"
	case 1:
		return "Semi-final"
	case 2:
		return "Quarter-final"
	}
	return "Round " + strconv.Itoa(round)
}

// ParseRoundLabel accepts the labels older clients send ("Round 2", "2",
// "round robin", "preliminary") and returns the stored round number.
func ParseRoundLabel(label string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(label))
	switch s {
	case "":
		return 0, false
	case "round robin", "round_robin", "preliminary":
		return 1, true
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, "round"))
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
