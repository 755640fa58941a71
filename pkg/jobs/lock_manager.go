package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pocket-lens/core/pkg/logger"
)

// JobLockManager prevents overlapping runs of the same job
type JobLockManager interface {
	// AcquireLock attempts to acquire the lock for the given job.
	// Returns false when the lock is held by a live run.
	AcquireLock(ctx context.Context, jobName string) (bool, error)

	// ReleaseLock releases the lock for the given job
	ReleaseLock(ctx context.Context, jobName string) error

	// IsLocked checks whether a job is currently locked
	IsLocked(ctx context.Context, jobName string) (bool, error)
}

type lockInfo struct {
	PID        int   `json:"pid"`
	AcquiredAt int64 `json:"acquired_at"`
}

// FileLockManager implements locking with exclusive lock files. Each
// run of the service is a single process, so a lock file per job name
// under a shared directory is enough to serialize runs.
type FileLockManager struct {
	dir string
	// staleAfter is how old a lock file can be before it is treated
	// as left behind by a crashed run and stolen.
	staleAfter time.Duration
	logger     *logger.Logger
}

// NewFileLockManager creates a lock manager rooted at dir.
func NewFileLockManager(dir string) *FileLockManager {
	return &FileLockManager{
		dir:        dir,
		staleAfter: time.Hour,
		logger:     logger.New("job-lock-manager"),
	}
}

func (f *FileLockManager) AcquireLock(ctx context.Context, jobName string) (bool, error) {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create lock dir: %w", err)
	}

	path := f.lockPath(jobName)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		if f.isStale(path) {
			f.logger.Warn().
				Str("job_name", jobName).
				Str("action", "stale_lock_removed").
				Msg("Removing stale job lock")
			if err := os.Remove(path); err != nil {
				return false, fmt.Errorf("failed to remove stale lock for %s: %w", jobName, err)
			}
			return f.AcquireLock(ctx, jobName)
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create lock for %s: %w", jobName, err)
	}
	defer func() { _ = file.Close() }()

	info := lockInfo{PID: os.Getpid(), AcquiredAt: time.Now().Unix()}
	if err := json.NewEncoder(file).Encode(info); err != nil {
		_ = os.Remove(path)
		return false, fmt.Errorf("failed to write lock for %s: %w", jobName, err)
	}

	f.logger.Debug().
		Str("job_name", jobName).
		Str("action", "lock_acquired").
		Msg("Acquired job lock")
	return true, nil
}

func (f *FileLockManager) ReleaseLock(ctx context.Context, jobName string) error {
	err := os.Remove(f.lockPath(jobName))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to release lock for %s: %w", jobName, err)
	}
	return nil
}

func (f *FileLockManager) IsLocked(ctx context.Context, jobName string) (bool, error) {
	_, err := os.Stat(f.lockPath(jobName))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat lock for %s: %w", jobName, err)
	}
	return true, nil
}

func (f *FileLockManager) isStale(path string) bool {
	stat, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(stat.ModTime()) > f.staleAfter
}

func (f *FileLockManager) lockPath(jobName string) string {
	return filepath.Join(f.dir, jobName+".lock")
}
