package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExpirationJobName is the name of the contract expiration scan job
const ExpirationJobName = "expiration_scan"

// DefaultScanTimeout bounds a single expiration scan run
const DefaultScanTimeout = 5 * time.Minute

// ExpirationScanner defines the interface for scanning active contracts and
// generating expiration alerts. The job calls the service through this
// interface instead of importing the service package directly.
type ExpirationScanner interface {
	// ScanActiveContracts evaluates all active contracts against the current
	// notification settings and returns the number of alerts created.
	ScanActiveContracts(ctx context.Context) (int, error)
}

// ExpirationJob periodically scans active contracts and creates expiration
// alerts for contracts entering a configured threshold window.
type ExpirationJob struct {
	scanner ExpirationScanner
	logger  *zap.Logger
	timeout time.Duration
}

// NewExpirationJob creates a new expiration scan job.
// The timeout controls how long a single scan is allowed to run.
func NewExpirationJob(scanner ExpirationScanner, logger *zap.Logger, timeout time.Duration) *ExpirationJob {
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}
	return &ExpirationJob{
		scanner: scanner,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes one expiration scan.
// This is called by the scheduler according to the cron expression.
func (j *ExpirationJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	created, err := j.scanner.ScanActiveContracts(ctx)
	if err != nil {
		j.logger.Error("expiration scan failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if created > 0 {
		j.logger.Info("expiration scan completed",
			zap.Int("alerts_created", created),
			zap.Duration("duration", time.Since(start)))
	}
}

// RegisterExpirationJob registers the expiration scan with the scheduler.
// The cronExpr should be a valid cron expression (e.g., "0 0 * * * *" for the
// top of every hour). If runOnStartup is true, one scan runs immediately in a
// background goroutine so it doesn't block API startup.
func RegisterExpirationJob(scheduler *Scheduler, scanner ExpirationScanner, logger *zap.Logger, cronExpr string, timeout time.Duration, runOnStartup bool) error {
	job := NewExpirationJob(scanner, logger, timeout)

	if runOnStartup {
		go job.Run()
	}

	return scheduler.AddJob(ExpirationJobName, cronExpr, job.Run)
}
