package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tripforge/contexts/trip-planning/artifact-service/application"
	"tripforge/contexts/trip-planning/artifact-service/domain/entities"
)

// RunFunc executes one regeneration attempt for a (trip, kind) pair.
type RunFunc func(ctx context.Context, tripID string, kind entities.Kind) error

type jobState int

const (
	stateIdle jobState = iota
	stateDebouncing
	stateGenerating
	stateGeneratingPending
)

type job struct {
	tripID string
	kind   entities.Kind
	state  jobState
	timer  *time.Timer
}

// Scheduler coalesces regeneration triggers per (trip, kind). A trigger arms
// a debounce timer; triggers during the debounce window restart it. While a
// generation run is in flight further triggers collapse into a single
// follow-up run that starts after the current one finishes. At most one
// generation call is ever in flight per pair.
type Scheduler struct {
	run      RunFunc
	debounce time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	jobs   map[string]*job
	closed bool
	wg     sync.WaitGroup
}

func New(run RunFunc, debounce, timeout time.Duration, logger *slog.Logger) *Scheduler {
	if debounce <= 0 {
		debounce = 800 * time.Millisecond
	}
	return &Scheduler{
		run:      run,
		debounce: debounce,
		timeout:  timeout,
		logger:   application.ResolveLogger(logger),
		jobs:     make(map[string]*job),
	}
}

// Trigger requests a regeneration. It returns immediately; the work happens
// on the timer goroutine after the debounce window closes.
func (s *Scheduler) Trigger(tripID string, kind entities.Kind) {
	key := tripID + "|" + string(kind)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	j, ok := s.jobs[key]
	if !ok {
		j = &job{tripID: tripID, kind: kind}
		s.jobs[key] = j
	}

	switch j.state {
	case stateIdle:
		j.state = stateDebouncing
		s.arm(key, j)
	case stateDebouncing:
		j.timer.Reset(s.debounce)
	case stateGenerating:
		j.state = stateGeneratingPending
	case stateGeneratingPending:
		// already queued, coalesce
	}
}

// arm starts the debounce timer. Caller holds the mutex.
func (s *Scheduler) arm(key string, j *job) {
	j.timer = time.AfterFunc(s.debounce, func() { s.fire(key) })
}

func (s *Scheduler) fire(key string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	j, ok := s.jobs[key]
	if !ok || j.state != stateDebouncing {
		s.mu.Unlock()
		return
	}
	j.state = stateGenerating
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.run(ctx, j.tripID, j.kind); err != nil {
		s.logger.Error("scheduled regeneration failed",
			"event", "artifact_schedule_run_failed",
			"module", "trip-planning/artifact-service",
			"layer", "application",
			"trip_id", j.tripID,
			"kind", string(j.kind),
			"error", err.Error(),
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if j.state == stateGeneratingPending {
		j.state = stateDebouncing
		s.arm(key, j)
	} else {
		j.state = stateIdle
	}
}

// Close stops all timers and waits for any in-flight run to finish. Triggers
// after Close are dropped.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for _, j := range s.jobs {
		if j.timer != nil {
			j.timer.Stop()
		}
	}
	s.mu.Unlock()
	s.wg.Wait()
}
