// Package scheduler runs the classification batch on a cron cadence.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/wyzinc/marketsync/internal/classify"
)

// BatchRunner is the part of the classify service the scheduler drives
type BatchRunner interface {
	RunBatch(ctx context.Context) (classify.BatchSummary, error)
}

// Scheduler triggers batch runs on a cron spec
type Scheduler struct {
	cron   *cron.Cron
	runner BatchRunner
	log    *zap.Logger
}

// New creates a scheduler around the given runner
func New(runner BatchRunner, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		log:    log,
	}
}

// Schedule registers the batch job under the given cron spec
func (s *Scheduler) Schedule(spec string) (cron.EntryID, error) {
	return s.cron.AddFunc(spec, s.runOnce)
}

// Start begins firing scheduled jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running job to finish and halts the schedule
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runOnce() {
	summary, err := s.runner.RunBatch(context.Background())
	if err != nil {
		s.log.Error("scheduled batch failed", zap.Error(err))
		return
	}
	s.log.Info("scheduled batch finished",
		zap.Int("total", summary.Total),
		zap.Duration("took", summary.Took),
		zap.String("report", summary.ReportPath),
	)
}
