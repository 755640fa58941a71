package jobs

import (
	"context"
	"fmt"

	"github.com/pocket-lens/core/pkg/publisher"
	"github.com/pocket-lens/core/pkg/services"
)

// MetaRefreshJob rebuilds the meta analysis from the full cache and
// publishes only the snapshot JSON. The hourly sync already refreshes
// incrementally; this nightly pass repairs any drift after manual
// cache edits or schema changes.
type MetaRefreshJob struct {
	metaService  *services.MetaService
	publisher    *publisher.Publisher
	snapshotPath string
}

// NewMetaRefreshJob creates the nightly meta rebuild job.
func NewMetaRefreshJob(metaService *services.MetaService, pub *publisher.Publisher, snapshotPath string) Job {
	return &MetaRefreshJob{
		metaService:  metaService,
		publisher:    pub,
		snapshotPath: snapshotPath,
	}
}

func (j *MetaRefreshJob) Execute(ctx context.Context) error {
	snapshot, err := j.metaService.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("meta refresh failed: %w", err)
	}

	message := fmt.Sprintf("Rebuild meta analysis: %d archetypes across %d tournaments",
		len(snapshot.Archetypes), snapshot.TournamentCount)

	if _, err := j.publisher.Publish(ctx, []string{j.snapshotPath}, message); err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}
	return nil
}

func (j *MetaRefreshJob) Name() string {
	return "meta_refresh"
}

func (j *MetaRefreshJob) Schedule() string {
	// Nightly full rebuild at 03:30 UTC, off the hourly sync ticks
	return "30 3 * * *"
}
