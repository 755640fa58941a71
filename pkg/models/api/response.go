package api

import "time"

// HealthResponse is the /health endpoint payload
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// TournamentSummary is the list-view projection of a cached tournament
type TournamentSummary struct {
	ID          string `json:"tournament_id"`
	Name        string `json:"name"`
	Timestamp   int64  `json:"timestamp"`
	PlayerCount int    `json:"player_count"`
}

// TournamentListResponse wraps the tournament list endpoint payload
type TournamentListResponse struct {
	Count       int                 `json:"count"`
	LastUpdated int64               `json:"last_updated"`
	Tournaments []TournamentSummary `json:"tournaments"`
}
