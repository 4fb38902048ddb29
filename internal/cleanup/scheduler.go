package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Job is a named periodic task. Run must be idempotent: the scheduler
// gives no exactly-once guarantee across restarts.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) (int, error)
}

// Scheduler invokes jobs on fixed intervals until shut down.
type Scheduler struct {
	jobs   []Job
	logger *zap.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a scheduler for the given jobs.
func NewScheduler(logger *zap.Logger, jobs ...Job) *Scheduler {
	return &Scheduler{
		jobs:   jobs,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start launches one ticker loop per job. The first run of each job
// happens after its interval, not immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	running := make(chan struct{}, len(s.jobs))

	for _, job := range s.jobs {
		go func(job Job) {
			defer func() { running <- struct{}{} }()

			s.runLoop(ctx, job)
		}(job)
	}

	go func() {
		for range s.jobs {
			<-running
		}

		close(s.done)
	}()

	s.logger.Info("cleanup scheduler started", zap.Int("jobs", len(s.jobs)))

	return nil
}

func (s *Scheduler) runLoop(ctx context.Context, job Job) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := job.Run(ctx); err != nil {
				s.logger.Error("cleanup job failed",
					zap.String("job", job.Name),
					zap.Error(err),
				)
			}
		}
	}
}

// Shutdown stops all job loops and waits for in-flight runs to finish.
func (s *Scheduler) Shutdown() error {
	if s.cancel != nil {
		s.cancel()
	}

	<-s.done

	return nil
}
