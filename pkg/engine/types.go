// Package engine holds the shared types of the command interpretation
// pipeline: the result envelope every stage produces and the per-user
// context every stage consumes.
package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Result is the outcome of one processed command. Updates carries system
// gauge writes, Response is the line spoken back to the crew member.
// RankUp, Alert and RequiredLocation are only set on promotion and on
// structured denials respectively.
type Result struct {
	Updates          map[string]int `json:"updates"`
	Response         string         `json:"response"`
	MissionSuccess   bool           `json:"mission_success,omitempty"`
	RankUp           string         `json:"rank_up,omitempty"`
	Alert            string         `json:"alert,omitempty"`
	RequiredLocation string         `json:"required_location,omitempty"`
}

// NewResult returns a Result with an initialized Updates map.
func NewResult(response string) *Result {
	return &Result{Updates: map[string]int{}, Response: response}
}

// UserContext is the slice of a user profile the pipeline needs: rank,
// mission progress and physical location. It is assembled from the user
// hash joined with the rank table.
type UserContext struct {
	ID           string
	Name         string
	RankLevel    int
	RankTitle    string
	Permissions  string
	MissionStage int
	Location     string
	XP           int
}

// LeaderboardEntry is one row of the top-N XP view.
type LeaderboardEntry struct {
	Name string `json:"name"`
	Rank string `json:"rank"`
	XP   int    `json:"xp"`
}

// FormatStatus renders a ship-systems snapshot in a stable key order so
// status responses and prompts are deterministic.
func FormatStatus(systems map[string]int) string {
	keys := make([]string, 0, len(systems))
	for k := range systems {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %d", k, systems[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
