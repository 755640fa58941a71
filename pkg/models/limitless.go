package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Tournament is the cached representation of a completed tournament.
// The JSON layout matches the files under tournament_cache/.
type Tournament struct {
	ID          string           `json:"tournament_id"`
	Name        string           `json:"name"`
	Timestamp   int64            `json:"timestamp"`
	PlayerCount int              `json:"player_count"`
	Players     []PlayerStanding `json:"players"`
}

// PlayerStanding is one row of a tournament standings table.
type PlayerStanding struct {
	Placement  int    `json:"placement"`
	PlayerName string `json:"player_name"`
	Record     string `json:"record"`
	Archetype  string `json:"archetype"`
}

// TournamentIndex tracks which tournaments are cached and when the
// cache was last refreshed. Persisted as tournament_cache/index.json.
type TournamentIndex struct {
	Tournaments []string `json:"tournaments"`
	LastUpdated int64    `json:"last_updated"`
}

// Contains reports whether the tournament is already cached.
func (i *TournamentIndex) Contains(id string) bool {
	for _, t := range i.Tournaments {
		if t == id {
			return true
		}
	}
	return false
}

// Add appends a tournament ID if not already present.
func (i *TournamentIndex) Add(id string) {
	if !i.Contains(id) {
		i.Tournaments = append(i.Tournaments, id)
	}
}

// Record is a parsed W-L-T match record.
type Record struct {
	Wins   int
	Losses int
	Ties   int
}

// Games returns the total number of games in the record.
func (r Record) Games() int {
	return r.Wins + r.Losses + r.Ties
}

var (
	winPattern  = regexp.MustCompile(`^(\d+)`)
	lossPattern = regexp.MustCompile(`-\s*(\d+)\s*-`)
	tiePattern  = regexp.MustCompile(`-\s*(\d+)$`)
)

// ParseRecord parses standings record text like "6 - 1 - 0".
// Drop/extra annotations after the tie count are ignored.
func ParseRecord(text string) (Record, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Record{}, fmt.Errorf("empty record")
	}

	var rec Record
	matched := false

	if m := winPattern.FindStringSubmatch(text); m != nil {
		rec.Wins, _ = strconv.Atoi(m[1])
		matched = true
	}
	if m := lossPattern.FindStringSubmatch(text); m != nil {
		rec.Losses, _ = strconv.Atoi(m[1])
	}
	if m := tiePattern.FindStringSubmatch(text); m != nil {
		rec.Ties, _ = strconv.Atoi(m[1])
	}

	if !matched {
		return Record{}, fmt.Errorf("unrecognized record format: %q", text)
	}
	return rec, nil
}
