package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/pocket-lens/core/pkg/logger"
)

// defaultJobTimeout bounds a single run; the site is slow but an hour
// long scrape means something is wrong.
const defaultJobTimeout = 30 * time.Minute

type cronJobManager struct {
	cron        *cron.Cron
	jobs        []Job
	logger      *logger.Logger
	lockManager JobLockManager
}

// NewJobManager creates a job manager. When lockManager is non-nil,
// runs skip silently while another instance holds the job lock.
func NewJobManager(lockManager JobLockManager) JobManager {
	return &cronJobManager{
		cron:        cron.New(cron.WithLocation(time.UTC)),
		jobs:        make([]Job, 0),
		logger:      logger.New("job-manager"),
		lockManager: lockManager,
	}
}

func (m *cronJobManager) RegisterJob(job Job) error {
	if job == nil {
		return fmt.Errorf("job cannot be nil")
	}

	m.logger.Info().
		Str("action", "register_job").
		Str("job_name", job.Name()).
		Str("schedule", job.Schedule()).
		Msg("Registering job")

	_, err := m.cron.AddFunc(job.Schedule(), func() {
		m.runJob(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", job.Name(), err)
	}

	m.jobs = append(m.jobs, job)
	return nil
}

func (m *cronJobManager) runJob(job Job) {
	requestID := uuid.New().String()
	jobLogger := m.logger.WithRequestID(requestID).WithJob(job.Name())

	ctx, cancel := context.WithTimeout(context.Background(), defaultJobTimeout)
	defer cancel()
	ctx = jobLogger.ToContext(ctx)

	if m.lockManager != nil {
		acquired, err := m.lockManager.AcquireLock(ctx, job.Name())
		if err != nil {
			jobLogger.Error().
				Err(err).
				Str("action", "lock_error").
				Msg("Failed to acquire job lock")
			return
		}
		if !acquired {
			jobLogger.Info().
				Str("action", "job_skipped_locked").
				Msg("Job skipped, previous run still in progress")
			return
		}
		defer func() {
			if err := m.lockManager.ReleaseLock(ctx, job.Name()); err != nil {
				jobLogger.Error().
					Err(err).
					Str("action", "lock_release_failed").
					Msg("Failed to release job lock")
			}
		}()
	}

	jobLogger.LogJobStart(job.Name(), job.Schedule())
	start := time.Now()

	if err := job.Execute(ctx); err != nil {
		jobLogger.Error().
			Err(err).
			Str("action", "job_failed").
			Dur("duration", time.Since(start)).
			Msg("Job execution failed")
		return
	}

	jobLogger.LogJobComplete(job.Name(), time.Since(start), 0, 0)
}

func (m *cronJobManager) Start() {
	m.logger.Info().
		Str("action", "manager_start").
		Int("job_count", len(m.jobs)).
		Msg("Starting job manager")
	m.cron.Start()
}

func (m *cronJobManager) Stop() {
	m.logger.Info().Str("action", "manager_stop").Msg("Stopping job manager")
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.logger.Info().Str("action", "manager_stopped").Msg("Job manager stopped")
}

func (m *cronJobManager) GetJobs() []Job {
	return append([]Job(nil), m.jobs...)
}
