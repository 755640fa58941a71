package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pocket-lens/core/internal/config"
	"github.com/pocket-lens/core/pkg/cache"
	"github.com/pocket-lens/core/pkg/database"
	"github.com/pocket-lens/core/pkg/jobs"
	"github.com/pocket-lens/core/pkg/logger"
	"github.com/pocket-lens/core/pkg/publisher"
	"github.com/pocket-lens/core/pkg/services"
)

func main() {
	var (
		jobName = flag.String("job", "", "Run specific job once (sync, meta, report)")
		once    = flag.Bool("once", false, "Run job once and exit")
	)
	flag.Parse()

	logger.SetupLogger()
	log := logger.New("cron-service")

	cfg := config.Load()

	store := cache.NewStore(cfg.Sync.CacheDir)
	metaStore, err := database.OpenMetaStore(cfg.MetaDatabasePath())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open meta database")
	}
	defer func() { _ = metaStore.Close() }()

	client := services.NewLimitlessClient(cfg)
	syncService := services.NewTournamentSyncService(client, store, cfg.Sync)
	metaService := services.NewMetaService(store, metaStore, cfg.MetaSnapshotPath(), cfg.Sync)
	pub := publisher.New(cfg.Git)

	// The meta database is a local working file; only the JSON
	// artifacts are published so unchanged runs stay commit-free.
	artifactPaths := []string{cfg.Sync.CacheDir, cfg.MetaSnapshotPath()}
	syncJob := jobs.NewTournamentSyncJob(syncService, metaService, pub, artifactPaths)
	metaJob := jobs.NewMetaRefreshJob(metaService, pub, cfg.MetaSnapshotPath())

	// Handle single job execution
	if *once && *jobName != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		switch *jobName {
		case "sync":
			if err := syncJob.Execute(ctx); err != nil {
				log.Fatal().Err(err).Msg("Tournament sync failed")
			}
			log.Info().Msg("Tournament sync completed successfully")
		case "meta":
			if err := metaJob.Execute(ctx); err != nil {
				log.Fatal().Err(err).Msg("Meta refresh failed")
			}
			log.Info().Msg("Meta refresh completed successfully")
		case "report":
			snapshot, err := metaService.LoadSnapshot()
			if err != nil {
				log.Fatal().Err(err).Msg("No meta snapshot available, run sync first")
			}
			fmt.Println(services.RenderTable(snapshot))
		default:
			log.Fatalf("Unknown job: %s. Available jobs: sync, meta, report", *jobName)
		}
		return
	}

	lockManager := jobs.NewFileLockManager(os.TempDir())
	jobManager := jobs.NewJobManager(lockManager)

	if err := jobManager.RegisterJob(syncJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register tournament sync job")
	}
	if err := jobManager.RegisterJob(metaJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register meta refresh job")
	}

	jobManager.Start()
	log.Info().
		Int("job_count", len(jobManager.GetJobs())).
		Msg("Cron job service started")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down cron job service")
	jobManager.Stop()
	log.Info().Msg("Cron job service stopped")
}
