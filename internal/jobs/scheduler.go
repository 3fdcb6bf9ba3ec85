// Package jobs runs the periodic maintenance tasks on a cron schedule.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/metrics"
)

// Task is one unit of scheduled work. Returning ErrSkipped records the run as
// a deliberate no-op rather than a failure.
type Task func(ctx context.Context) error

var (
	ErrSkipped        = errors.New("job skipped")
	ErrUnknownJob     = errors.New("unknown job")
	ErrAlreadyRunning = errors.New("job already running")
)

type job struct {
	name    string
	spec    string
	task    Task
	entryID cron.EntryID
	running sync.Mutex
}

// Info describes a registered job for the admin API.
type Info struct {
	Name string    `json:"name"`
	Spec string    `json:"spec"`
	Next time.Time `json:"next"`
	Prev time.Time `json:"prev"`
}

type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.RWMutex
	jobs map[string]*job
}

func NewScheduler(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	logger := cronLogger{zap.L().Named("cron").Sugar()}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]*job),
	}
}

// Register adds a named task on the given cron spec.
func (s *Scheduler) Register(name, spec string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}
	j := &job{name: name, spec: spec, task: task}
	id, err := s.cron.AddFunc(spec, func() {
		_ = s.run(s.ctx, j)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule for %s: %w", name, err)
	}
	j.entryID = id
	s.jobs[name] = j
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	zap.L().Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop cancels in-flight tasks and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	zap.L().Info("Scheduler stopped")
}

// RunNow executes a registered job immediately on the caller's goroutine.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.RLock()
	j, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.run(ctx, j)
}

func (s *Scheduler) Jobs() []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Info, 0, len(s.jobs))
	for _, j := range s.jobs {
		e := s.cron.Entry(j.entryID)
		out = append(out, Info{Name: j.name, Spec: j.spec, Next: e.Next, Prev: e.Prev})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

func (s *Scheduler) run(ctx context.Context, j *job) error {
	if !j.running.TryLock() {
		zap.L().Warn("Job still running, skipping", zap.String("job", j.name))
		return ErrAlreadyRunning
	}
	defer j.running.Unlock()

	start := time.Now()
	err := j.task(ctx)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		metrics.RecordJobRun(j.name, metrics.ResultSuccess, elapsed)
		zap.L().Info("Job finished", zap.String("job", j.name), zap.Duration("took", elapsed))
	case errors.Is(err, ErrSkipped):
		metrics.RecordJobRun(j.name, metrics.ResultSkipped, elapsed)
		zap.L().Info("Job skipped", zap.String("job", j.name), zap.Error(err))
		return nil
	default:
		metrics.RecordJobRun(j.name, metrics.ResultError, elapsed)
		zap.L().Error("Job failed", zap.String("job", j.name), zap.Duration("took", elapsed), zap.Error(err))
	}
	return err
}

// cronLogger routes the cron library's own logging through zap.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
