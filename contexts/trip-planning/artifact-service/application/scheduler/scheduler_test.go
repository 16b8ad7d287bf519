package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"tripforge/contexts/trip-planning/artifact-service/domain/entities"
)

type countingRunner struct {
	mu    sync.Mutex
	calls int
	block chan struct{}
	done  chan struct{}
}

func newCountingRunner() *countingRunner {
	return &countingRunner{done: make(chan struct{}, 16)}
}

func (r *countingRunner) run(_ context.Context, _ string, _ entities.Kind) error {
	r.mu.Lock()
	r.calls++
	block := r.block
	r.mu.Unlock()
	if block != nil {
		<-block
	}
	r.done <- struct{}{}
	return nil
}

func (r *countingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func waitForRun(t *testing.T, r *countingRunner) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a generation run")
	}
}

func TestBurstOfTriggersRunsOnce(t *testing.T) {
	runner := newCountingRunner()
	s := New(runner.run, 40*time.Millisecond, 0, nil)
	defer s.Close()

	for i := 0; i < 10; i++ {
		s.Trigger("trip-1", entities.KindSummary)
	}

	waitForRun(t, runner)
	// settle long enough that a stray second run would have fired
	time.Sleep(120 * time.Millisecond)
	if got := runner.count(); got != 1 {
		t.Fatalf("expected 1 run for a burst of triggers, got %d", got)
	}
}

func TestTriggerDuringRunQueuesSingleFollowup(t *testing.T) {
	runner := newCountingRunner()
	runner.block = make(chan struct{})
	s := New(runner.run, 10*time.Millisecond, 0, nil)
	defer s.Close()

	s.Trigger("trip-1", entities.KindSummary)

	// wait until the first run is in flight
	deadline := time.Now().Add(2 * time.Second)
	for runner.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first run never started")
		}
		time.Sleep(time.Millisecond)
	}

	// several triggers while generating collapse into one follow-up
	s.Trigger("trip-1", entities.KindSummary)
	s.Trigger("trip-1", entities.KindSummary)
	s.Trigger("trip-1", entities.KindSummary)

	runner.mu.Lock()
	block := runner.block
	runner.block = nil
	runner.mu.Unlock()
	close(block)

	waitForRun(t, runner)
	waitForRun(t, runner)
	time.Sleep(120 * time.Millisecond)
	if got := runner.count(); got != 2 {
		t.Fatalf("expected exactly one follow-up run, got %d total", got)
	}
}

func TestIndependentPairsRunIndependently(t *testing.T) {
	runner := newCountingRunner()
	s := New(runner.run, 10*time.Millisecond, 0, nil)
	defer s.Close()

	s.Trigger("trip-1", entities.KindSummary)
	s.Trigger("trip-1", entities.KindBudget)
	s.Trigger("trip-2", entities.KindSummary)

	waitForRun(t, runner)
	waitForRun(t, runner)
	waitForRun(t, runner)
	if got := runner.count(); got != 3 {
		t.Fatalf("expected 3 independent runs, got %d", got)
	}
}

func TestTriggerAfterCloseIsDropped(t *testing.T) {
	runner := newCountingRunner()
	s := New(runner.run, 10*time.Millisecond, 0, nil)
	s.Close()

	s.Trigger("trip-1", entities.KindSummary)
	time.Sleep(60 * time.Millisecond)
	if got := runner.count(); got != 0 {
		t.Fatalf("expected no runs after close, got %d", got)
	}
}
