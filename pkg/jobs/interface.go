package jobs

import "context"

// Job is a unit of scheduled work run by the cron service
type Job interface {
	// Execute runs the job with the given context
	Execute(ctx context.Context) error

	// Name returns a stable identifier for the job
	Name() string

	// Schedule returns the cron expression for this job
	// Format: "minute hour day month weekday" or "@every duration"
	Schedule() string
}

// JobManager schedules and runs registered jobs
type JobManager interface {
	// RegisterJob adds a job to the manager
	RegisterJob(job Job) error

	// Start begins executing registered jobs on their schedules
	Start()

	// Stop gracefully shuts down the manager, waiting for running jobs
	Stop()

	// GetJobs returns all registered jobs
	GetJobs() []Job
}
