package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	log     zerolog.Logger
	jobs    int
}

func NewScheduler(timeout time.Duration, log zerolog.Logger) *Scheduler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout: timeout,
		log:     log.With().Str("component", "scheduler").Logger(),
	}
}

// Add registers job under a standard five-field spec or a descriptor such as
// "@every 5m". An empty spec leaves the job disabled.
func (s *Scheduler) Add(spec, name string, job Job) error {
	if spec == "" {
		s.log.Debug().Str("job", name).Msg("job disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(spec, func() { s.run(name, job) }); err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.jobs++
	return nil
}

func (s *Scheduler) Start() {
	if s.jobs == 0 {
		return
	}
	s.cron.Start()
}

// Stop halts the scheduler and returns a context that is done once any
// running job has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := job(ctx); err != nil {
		s.log.Warn().Err(err).Str("job", name).Msg("scheduled job failed")
	}
}
