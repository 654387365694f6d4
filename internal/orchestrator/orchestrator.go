// Package orchestrator implements the task scheduling core: a queue-backed
// scheduler that routes free-form task requests to capability-specific
// agents and tracks each task through an explicit lifecycle.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/worldai/world-api/internal/agent"
	"github.com/worldai/world-api/internal/domain"
)

// ErrQueueFull is returned by Submit when the bounded queue is at capacity.
var ErrQueueFull = errors.New("task queue is full")

// Config holds scheduler tuning knobs.
type Config struct {
	// QueueSize is the buffer size of the in-memory task queue.
	QueueSize int

	// Retention is how long terminal tasks are kept before housekeeping
	// purges them.
	Retention time.Duration

	// PurgeInterval is how often housekeeping runs.
	PurgeInterval time.Duration

	// ExecuteTimeout bounds a synchronous ExecuteAndWait call.
	ExecuteTimeout time.Duration
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		QueueSize:      1024,
		Retention:      time.Hour,
		PurgeInterval:  5 * time.Minute,
		ExecuteTimeout: 30 * time.Second,
	}
}

// Scheduler owns the internal task queue, a single background consumption
// loop, and the public submission/await API. Tasks submitted through Submit
// are processed in strict FIFO order by one consumer; ExecuteAndWait runs
// the same routing/invocation path inline on the caller's goroutine,
// bypassing the queue.
type Scheduler struct {
	registry *TaskRegistry
	router   *agent.Router
	sink     ExperienceSink
	config   Config
	logger   *slog.Logger

	queue chan uuid.UUID

	// mu guards stopped and coordinates Submit sends with queue close.
	mu      sync.RWMutex
	stopped bool

	started  bool
	stopOnce sync.Once
	cancel   context.CancelFunc
	loopDone chan struct{}
	hkDone   chan struct{}
}

// New creates a Scheduler. The sink may be nil, in which case outcomes are
// not forwarded anywhere.
func New(router *agent.Router, sink ExperienceSink, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}
	if cfg.ExecuteTimeout <= 0 {
		cfg.ExecuteTimeout = DefaultConfig().ExecuteTimeout
	}
	if sink == nil {
		sink = NopSink{}
	}

	return &Scheduler{
		registry: NewTaskRegistry(),
		router:   router,
		sink:     sink,
		config:   cfg,
		logger:   logger.With("component", "scheduler"),
		queue:    make(chan uuid.UUID, cfg.QueueSize),
		loopDone: make(chan struct{}),
		hkDone:   make(chan struct{}),
	}
}

// Registry exposes the task registry for read-only status queries.
func (s *Scheduler) Registry() *TaskRegistry {
	return s.registry
}

// Router exposes the router for introspection (registered agent names).
func (s *Scheduler) Router() *agent.Router {
	return s.router
}

// Start begins the background consumption loop and the housekeeping
// ticker. It must be called at most once.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.stopped {
		return
	}
	s.started = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.run(ctx)
	go s.housekeeping(ctx)

	s.logger.Info("scheduler started", "queue_size", s.config.QueueSize)
}

// Running reports whether the consumption loop has been started and not
// yet stopped.
func (s *Scheduler) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started && !s.stopped
}

// Submit creates a pending task and appends it to the queue, returning its
// id immediately without waiting for processing. Queued tasks are processed
// in submission order; priority is recorded but does not reorder the queue.
// Returns domain.ErrSchedulerStopped after shutdown has begun, or
// ErrQueueFull when the queue is at capacity.
func (s *Scheduler) Submit(taskType, description string, data map[string]any, priority int) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped {
		return uuid.Nil, domain.ErrSchedulerStopped
	}

	task, err := s.registry.Create(taskType, description, data, priority)
	if err != nil {
		return uuid.Nil, err
	}

	select {
	case s.queue <- task.ID:
		s.logger.Debug("task enqueued",
			"task_id", task.ID,
			"queue_len", len(s.queue),
			"queue_cap", cap(s.queue))
		return task.ID, nil
	default:
		s.registry.remove(task.ID)
		return uuid.Nil, fmt.Errorf("%w: capacity %d reached", ErrQueueFull, cap(s.queue))
	}
}

// ExecuteAndWait creates a task and runs the shared routing/invocation path
// synchronously on the caller's goroutine, bypassing the queue. The wait is
// bounded by the configured execute timeout; on expiry the task is marked
// failed and domain.ErrTimeout is returned.
func (s *Scheduler) ExecuteAndWait(ctx context.Context, taskType, description string, data map[string]any) (domain.Task, error) {
	s.mu.RLock()
	stopped := s.stopped
	s.mu.RUnlock()
	if stopped {
		return domain.Task{}, domain.ErrSchedulerStopped
	}

	task, err := s.registry.Create(taskType, description, data, 0)
	if err != nil {
		return domain.Task{}, err
	}

	execCtx, cancel := context.WithTimeout(ctx, s.config.ExecuteTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.process(execCtx, task.ID)
	}()

	select {
	case <-done:
		return s.registry.Get(task.ID)
	case <-execCtx.Done():
		result := &domain.TaskResult{Error: &domain.TaskError{
			Kind:    domain.ErrorKindTimeout,
			Message: "execution timed out",
		}}
		if terr := s.registry.Transition(task.ID, domain.TaskStatusFailed, result, ""); terr != nil {
			// The agent finished in the same instant; return its outcome.
			if finished, gerr := s.registry.Get(task.ID); gerr == nil && finished.Status.Terminal() {
				return finished, nil
			}
		} else {
			s.forward(task.ID)
		}

		finished, _ := s.registry.Get(task.ID)
		return finished, fmt.Errorf("%w: execute-and-wait exceeded %s",
			domain.ErrTimeout, s.config.ExecuteTimeout)
	}
}

// Status returns the aggregated task counts, computed by scanning the
// registry.
func (s *Scheduler) Status() StatusCounts {
	return s.registry.Counts()
}

// Stop stops accepting submissions, lets queued items finish within
// drainTimeout, then cancels the loop. Tasks still pending in the queue
// when the timeout elapses are abandoned as pending, never auto-failed; a
// task already processing is not interrupted mid-call; cancellation only
// takes effect between tasks. Stop is idempotent.
func (s *Scheduler) Stop(drainTimeout time.Duration) {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		started := s.started
		// No Submit can be in flight here (senders hold the read lock),
		// so closing the queue is safe and lets the loop drain it.
		close(s.queue)
		s.mu.Unlock()

		if !started {
			return
		}

		s.logger.Info("scheduler stopping", "drain_timeout", drainTimeout)

		select {
		case <-s.loopDone:
			s.logger.Info("scheduler drained cleanly")
		case <-time.After(drainTimeout):
			s.logger.Warn("drain timeout elapsed, cancelling loop",
				"abandoned_pending", len(s.queue))
		}

		s.cancel()
		<-s.loopDone
		<-s.hkDone

		s.logger.Info("scheduler stopped")
	})
}

// run is the single background consumption loop. It dequeues one task at a
// time and processes it; an agent failure is contained to its task and
// never terminates the loop.
func (s *Scheduler) run(ctx context.Context) {
	defer close(s.loopDone)

	for {
		// Cancellation wins over pending queue items, otherwise the
		// select below could keep draining after the drain timeout.
		select {
		case <-ctx.Done():
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case id, ok := <-s.queue:
			if !ok {
				// Queue closed and drained.
				return
			}
			s.process(ctx, id)
		}
	}
}

// housekeeping periodically purges stale terminal tasks. It stops with the
// scheduler; no orphaned timers survive Stop.
func (s *Scheduler) housekeeping(ctx context.Context) {
	defer close(s.hkDone)

	interval := s.config.PurgeInterval
	if interval <= 0 {
		interval = DefaultConfig().PurgeInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.registry.PurgeStale(s.config.Retention); removed > 0 {
				s.logger.Debug("purged stale tasks", "removed", removed)
			}
		}
	}
}

// process routes one task to an agent and drives it to a terminal status.
// Shared by the background loop and ExecuteAndWait so routing rules cannot
// diverge between the two paths.
func (s *Scheduler) process(ctx context.Context, id uuid.UUID) {
	task, err := s.registry.Get(id)
	if err != nil {
		s.logger.Error("dequeued unknown task", "task_id", id, "error", err)
		return
	}

	selected, err := s.router.Select(&task)
	if err != nil {
		result := &domain.TaskResult{Error: &domain.TaskError{
			Kind:    domain.ErrorKindNoAgent,
			Message: err.Error(),
		}}
		s.transitionTerminal(id, domain.TaskStatusFailed, result, "")
		return
	}

	if err := s.registry.Transition(id, domain.TaskStatusProcessing, nil, selected.Name()); err != nil {
		// Already failed (e.g. a timed-out ExecuteAndWait); nothing to run.
		s.logger.Debug("skipping task no longer pending", "task_id", id, "error", err)
		return
	}

	s.logger.Info("processing task", "task_id", id, "agent", selected.Name())

	output, err := s.invoke(ctx, selected, &task)
	if err != nil {
		s.logger.Error("task execution failed", "task_id", id, "agent", selected.Name(), "error", err)
		result := &domain.TaskResult{Error: &domain.TaskError{
			Kind:    domain.ErrorKindAgentExecution,
			Message: err.Error(),
		}}
		s.transitionTerminal(id, domain.TaskStatusFailed, result, selected.Name())
		return
	}

	s.logger.Info("task completed", "task_id", id, "agent", selected.Name())
	s.transitionTerminal(id, domain.TaskStatusCompleted, &domain.TaskResult{Output: output}, selected.Name())
}

// invoke calls the agent with panic containment: a panicking agent is
// converted into an agent-execution failure instead of killing the loop.
func (s *Scheduler) invoke(ctx context.Context, a agent.Agent, task *domain.Task) (output map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			output = nil
			err = fmt.Errorf("%w: panic: %v", domain.ErrAgentExecution, r)
		}
	}()

	output, err = a.ProcessTask(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAgentExecution, err)
	}
	return output, nil
}

// transitionTerminal applies a terminal transition and forwards the outcome
// to the experience sink.
func (s *Scheduler) transitionTerminal(id uuid.UUID, status domain.TaskStatus, result *domain.TaskResult, agentName string) {
	if err := s.registry.Transition(id, status, result, agentName); err != nil {
		s.logger.Debug("terminal transition skipped", "task_id", id, "error", err)
		return
	}
	s.forward(id)
}

// forward sends the finished task's summary to the experience sink. Sink
// failures are logged, never fatal.
func (s *Scheduler) forward(id uuid.UUID) {
	task, err := s.registry.Get(id)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.sink.Record(ctx, newExperience(task)); err != nil {
		s.logger.Error("failed to record experience", "task_id", id, "error", err)
	}
}
