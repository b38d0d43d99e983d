// Package scheduler runs deferred invalidation work in deduplicated ticks.
package scheduler

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/zerr"
)

// Task is a unit of deferred work.
type Task func(ctx context.Context) error

type pendingTask struct {
	key domain.TaskKey
	run Task
	seq uint64
}

// Scheduler holds at most one pending task per key.
// Triggers for a key that is already pending are coalesced into the existing task.
type Scheduler struct {
	tracer ports.Tracer
	events ports.EventSink

	mu      sync.Mutex
	pending map[domain.TaskKey]*pendingTask
	seq     uint64
	ran     int
}

// NewScheduler creates a new Scheduler.
func NewScheduler(tracer ports.Tracer, events ports.EventSink) *Scheduler {
	return &Scheduler{
		tracer:  tracer,
		events:  events,
		pending: make(map[domain.TaskKey]*pendingTask),
	}
}

// Schedule queues fn under key. It returns false when a task with the same key
// is already pending, in which case fn is dropped and the pending task runs once.
func (s *Scheduler) Schedule(key domain.TaskKey, fn Task) bool {
	s.mu.Lock()
	if _, ok := s.pending[key]; ok {
		s.mu.Unlock()
		s.events.Emit(domain.Event{Kind: domain.EventTaskCoalesced, Key: key.String()})
		return false
	}
	s.seq++
	s.pending[key] = &pendingTask{key: key, run: fn, seq: s.seq}
	s.mu.Unlock()

	s.events.Emit(domain.Event{Kind: domain.EventTaskScheduled, Key: key.String()})
	return true
}

// Cancel drops every pending task of project. It returns the number of dropped tasks.
func (s *Scheduler) Cancel(project string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for key := range s.pending {
		if key.Project.String() == project {
			delete(s.pending, key)
			dropped++
		}
	}
	return dropped
}

// HasPending reports whether any task is waiting for the next tick.
func (s *Scheduler) HasPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending) > 0
}

// Pending returns the keys of the pending tasks in the order they would run.
func (s *Scheduler) Pending() []domain.TaskKey {
	s.mu.Lock()
	tasks := s.snapshotLocked(false)
	s.mu.Unlock()

	keys := make([]domain.TaskKey, len(tasks))
	for i, t := range tasks {
		keys[i] = t.key
	}
	return keys
}

// Executed returns how many tasks ran since the scheduler was created.
func (s *Scheduler) Executed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ran
}

// RunDue runs every task that was pending when the tick started.
// Tasks run by kind priority, then in scheduling order. Tasks scheduled while
// the tick runs wait for the next tick. Task failures do not stop the tick;
// they are joined into the returned error.
func (s *Scheduler) RunDue(ctx context.Context) (int, error) {
	s.mu.Lock()
	tasks := s.snapshotLocked(true)
	s.mu.Unlock()

	var errs error
	ran := 0
	for i, t := range tasks {
		if err := ctx.Err(); err != nil {
			s.requeue(tasks[i:])
			return ran, errors.Join(errs, err)
		}

		s.events.Emit(domain.Event{Kind: domain.EventTaskRunning, Key: t.key.String()})
		if err := s.execute(ctx, t); err != nil {
			errs = errors.Join(errs, err)
		}
		ran++
	}

	s.mu.Lock()
	s.ran += ran
	s.mu.Unlock()

	return ran, errs
}

// RunUntilIdle runs ticks until no task is pending.
// It fails with domain.ErrTickLimitExceeded when work is still pending after maxTicks ticks.
func (s *Scheduler) RunUntilIdle(ctx context.Context, maxTicks int) (int, error) {
	total := 0
	var errs error
	for tick := 0; tick < maxTicks; tick++ {
		if !s.HasPending() {
			return total, errs
		}
		n, err := s.RunDue(ctx)
		total += n
		if err != nil {
			errs = errors.Join(errs, err)
			if ctx.Err() != nil {
				return total, errs
			}
		}
	}
	if s.HasPending() {
		limitErr := zerr.With(zerr.Wrap(domain.ErrTickLimitExceeded, "work still pending"), "max_ticks", maxTicks)
		return total, errors.Join(errs, limitErr)
	}
	return total, errs
}

func (s *Scheduler) execute(ctx context.Context, t *pendingTask) error {
	ctx, span := s.tracer.Start(ctx, "task."+t.key.Kind.String(),
		ports.WithAttribute("project", t.key.Project.String()),
		ports.WithAttribute("key", t.key.String()),
	)
	defer span.End()

	if err := t.run(ctx); err != nil {
		span.RecordError(err)
		return zerr.With(zerr.Wrap(err, domain.ErrTaskFailed.Error()), "task", t.key.String())
	}
	return nil
}

// requeue puts tasks that did not run back into the pending set.
// A newer task with the same key wins over the requeued one.
func (s *Scheduler) requeue(tasks []*pendingTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tasks {
		if _, ok := s.pending[t.key]; !ok {
			s.pending[t.key] = t
		}
	}
}

func (s *Scheduler) snapshotLocked(take bool) []*pendingTask {
	tasks := make([]*pendingTask, 0, len(s.pending))
	for _, t := range s.pending {
		tasks = append(tasks, t)
	}
	if take {
		clear(s.pending)
	}
	slices.SortFunc(tasks, func(a, b *pendingTask) int {
		if a.key.Kind != b.key.Kind {
			return int(a.key.Kind) - int(b.key.Kind)
		}
		return int(a.seq) - int(b.seq)
	})
	return tasks
}
