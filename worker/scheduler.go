package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work.
type Job struct {
	Name string
	Spec string // cron spec, e.g. "@every 30m" or "0 * * * *"
	Run  func(ctx context.Context)
}

// Scheduler fires jobs on their cron specs. A job whose previous run is
// still in progress is skipped, so each job has at most one live run.
type Scheduler struct {
	cron *cron.Cron
	jobs []Job
}

// NewScheduler validates every cron expression up front.
func NewScheduler(jobs ...Job) (*Scheduler, error) {
	logger := cronLogger{}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger)))
	s := &Scheduler{cron: c, jobs: jobs}
	for _, j := range jobs {
		if _, err := cron.ParseStandard(j.Spec); err != nil {
			return nil, fmt.Errorf("schedule %s: invalid spec %q: %w", j.Name, j.Spec, err)
		}
	}
	return s, nil
}

// Start registers the jobs bound to ctx and blocks until ctx is cancelled,
// then waits for running jobs to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	for _, j := range s.jobs {
		j := j
		job := cron.NewChain(cron.SkipIfStillRunning(cronLogger{})).Then(cron.FuncJob(func() {
			slog.Info("scheduler: job started", "job", j.Name)
			j.Run(ctx)
			slog.Info("scheduler: job finished", "job", j.Name)
		}))
		if _, err := s.cron.AddJob(j.Spec, job); err != nil {
			return fmt.Errorf("schedule %s: %w", j.Name, err)
		}
		slog.Info("scheduler: job registered", "job", j.Name, "spec", j.Spec)
	}
	s.cron.Start()
	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
	slog.Info("scheduler: stopped")
	return nil
}

// cronLogger routes cron's internal logging to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
