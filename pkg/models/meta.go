package models

import "math"

// ArchetypeStats aggregates how one deck archetype performed across
// all cached tournaments.
type ArchetypeStats struct {
	Archetype         string  `json:"archetype"`
	DisplayName       string  `json:"display_name"`
	Appearances       int     `json:"appearances"`
	TournamentsPlayed int     `json:"tournaments_played"`
	Wins              int     `json:"total_wins"`
	Losses            int     `json:"total_losses"`
	Ties              int     `json:"total_ties"`
	Share             float64 `json:"share"`
	WinRate           float64 `json:"win_rate"`
	PowerIndex        float64 `json:"power_index"`
}

// MetaSnapshot is the published meta analysis artifact, persisted as
// meta_analysis/meta_summary.json.
type MetaSnapshot struct {
	GeneratedAt     int64            `json:"generated_at"`
	TournamentCount int              `json:"tournament_count"`
	TotalPlayers    int              `json:"total_players"`
	Archetypes      []ArchetypeStats `json:"archetypes"`
}

// PowerIndex ranks archetypes by (wins - losses) / sqrt(wins + losses).
// Ties are excluded from the ranking.
func PowerIndex(wins, losses int) float64 {
	total := wins + losses
	if total == 0 {
		return 0
	}
	return float64(wins-losses) / math.Sqrt(float64(total))
}

// WinRate returns the win percentage with ties counted as half a win.
func WinRate(wins, losses, ties int) float64 {
	total := wins + losses + ties
	if total == 0 {
		return 0
	}
	return (float64(wins) + 0.5*float64(ties)) / float64(total) * 100
}
