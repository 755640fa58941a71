package services

import (
	"context"
	"time"

	"github.com/pocket-lens/core/internal/config"
	"github.com/pocket-lens/core/pkg/cache"
	"github.com/pocket-lens/core/pkg/logger"
)

// SyncResult summarizes one tournament sync run.
type SyncResult struct {
	Listed    int
	New       int
	Skipped   int
	Failed    int
	CachedIDs []string
}

// TournamentSyncService refreshes the tournament cache from the
// Limitless completed-tournaments listing.
type TournamentSyncService struct {
	client *LimitlessClient
	store  *cache.Store
	cfg    config.SyncConfig
}

func NewTournamentSyncService(client *LimitlessClient, store *cache.Store, cfg config.SyncConfig) *TournamentSyncService {
	return &TournamentSyncService{
		client: client,
		store:  store,
		cfg:    cfg,
	}
}

// Sync lists recent tournaments and caches the ones not seen before.
// Individual tournament failures are logged and skipped; only listing
// or cache-index failures abort the run.
func (s *TournamentSyncService) Sync(ctx context.Context) (*SyncResult, error) {
	log := logger.WithContext(ctx, "tournament-sync")

	index, err := s.store.LoadIndex()
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("action", "sync_start").
		Int("cached_tournaments", len(index.Tournaments)).
		Msg("Starting tournament cache sync")

	ids, err := s.client.RecentTournamentIDs(ctx, s.cfg.MaxFetch)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Listed: len(ids)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if result.New >= s.cfg.MaxNewPerRun {
			break
		}
		if index.Contains(id) {
			continue
		}

		tournament, err := s.client.FetchTournament(ctx, id)
		if err != nil {
			log.Warn().
				Err(err).
				Str("action", "tournament_failed").
				Str("tournament_id", id).
				Msg("Failed to scrape tournament, skipping")
			result.Failed++
			continue
		}

		if tournament.PlayerCount < s.cfg.MinPlayers {
			log.Debug().
				Str("action", "tournament_skipped").
				Str("tournament_id", id).
				Int("player_count", tournament.PlayerCount).
				Int("min_players", s.cfg.MinPlayers).
				Msg("Tournament below player threshold")
			result.Skipped++
			continue
		}

		if err := s.store.SaveTournament(tournament); err != nil {
			return result, err
		}
		index.Add(id)
		result.New++
		result.CachedIDs = append(result.CachedIDs, id)
		log.LogCacheWrite(id, tournament.PlayerCount)

		if err := s.politePause(ctx); err != nil {
			return result, err
		}
	}

	// Rewrite the index only when the cache actually changed, so an
	// unchanged run leaves a clean worktree and produces no commit.
	if result.New > 0 {
		index.LastUpdated = time.Now().Unix()
		if err := s.store.SaveIndex(index); err != nil {
			return result, err
		}
	}

	// Diagnostic listing of what the cache now holds.
	if files, err := s.store.ListFiles(); err == nil {
		log.Info().
			Str("action", "sync_complete").
			Int("listed", result.Listed).
			Int("new", result.New).
			Int("skipped", result.Skipped).
			Int("failed", result.Failed).
			Int("cache_files", len(files)).
			Msg("Tournament cache sync completed")
	}

	return result, nil
}

// politePause waits the configured delay between tournament scrapes.
func (s *TournamentSyncService) politePause(ctx context.Context) error {
	if s.cfg.FetchDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(s.cfg.FetchDelay) * time.Second):
		return nil
	}
}
