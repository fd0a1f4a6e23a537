package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wyzinc/marketsync/internal/classify"
)

type countingRunner struct {
	runs int64
	err  error
}

func (r *countingRunner) RunBatch(context.Context) (classify.BatchSummary, error) {
	atomic.AddInt64(&r.runs, 1)
	return classify.BatchSummary{Total: 1}, r.err
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	s := New(&countingRunner{}, nil)
	if _, err := s.Schedule("not a cron spec"); err == nil {
		t.Fatal("expected error for malformed spec")
	}
}

func TestScheduledRunFires(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, nil)
	if _, err := s.Schedule("@every 10ms"); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	s.Start()
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt64(&runner.runs) == 0 {
		select {
		case <-deadline:
			t.Fatal("batch never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRunOnceSurvivesFailure(t *testing.T) {
	runner := &countingRunner{err: errors.New("feed down")}
	s := New(runner, nil)

	s.runOnce()
	s.runOnce()

	if got := atomic.LoadInt64(&runner.runs); got != 2 {
		t.Fatalf("runs = %d, want 2", got)
	}
}
