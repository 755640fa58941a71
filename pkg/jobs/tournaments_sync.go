package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/pocket-lens/core/pkg/logger"
	"github.com/pocket-lens/core/pkg/publisher"
	"github.com/pocket-lens/core/pkg/services"
)

// TournamentSyncJob is the scheduled sync: scrape new tournaments,
// rebuild the meta analysis, then commit and push the artifacts.
// A scrape failure aborts the run before any commit is attempted.
type TournamentSyncJob struct {
	syncService *services.TournamentSyncService
	metaService *services.MetaService
	publisher   *publisher.Publisher
	paths       []string
}

// NewTournamentSyncJob creates the hourly tournament sync job.
// paths are the artifact directories staged for commit.
func NewTournamentSyncJob(syncService *services.TournamentSyncService, metaService *services.MetaService, pub *publisher.Publisher, paths []string) Job {
	return &TournamentSyncJob{
		syncService: syncService,
		metaService: metaService,
		publisher:   pub,
		paths:       paths,
	}
}

func (j *TournamentSyncJob) Execute(ctx context.Context) error {
	log := logger.WithContext(ctx, "tournament-sync")
	start := time.Now()

	result, err := j.syncService.Sync(ctx)
	if err != nil {
		return fmt.Errorf("tournament sync failed: %w", err)
	}

	snapshot, err := j.metaService.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("meta refresh failed: %w", err)
	}

	message := fmt.Sprintf("Update tournament cache: %d new, %d total (%s)",
		result.New, snapshot.TournamentCount, time.Now().UTC().Format("2006-01-02 15:04"))

	hash, err := j.publisher.Publish(ctx, j.paths, message)
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	event := log.Info().
		Str("action", "sync_job_complete").
		Int("new_tournaments", result.New).
		Int("failed_tournaments", result.Failed).
		Dur("duration", time.Since(start))
	if hash != "" {
		event = event.Str("commit", hash)
	}
	event.Msg("Tournament sync job completed")

	return nil
}

func (j *TournamentSyncJob) Name() string {
	return "tournament_sync"
}

func (j *TournamentSyncJob) Schedule() string {
	// Hourly, on the hour
	return "0 * * * *"
}
