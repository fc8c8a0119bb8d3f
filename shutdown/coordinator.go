// Package shutdown coordinates graceful termination: it listens for
// SIGINT/SIGTERM, cancels a shared context, and runs registered cleanup
// steps in priority order. A second signal forces immediate exit.
package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/salutethegenius/kemis-studio-stable/logging"
)

// Func is a cleanup step executed during shutdown. The context carries the
// remaining shutdown deadline.
type Func func(ctx context.Context) error

type step struct {
	name     string
	priority int // lower runs first
	fn       Func
}

// Coordinator owns the shutdown sequence for the service.
type Coordinator struct {
	log     *logging.Logger
	timeout time.Duration
	exit    func(int)

	mu      sync.Mutex
	steps   []step
	started bool
	done    bool

	ctx    context.Context
	cancel context.CancelFunc

	sigChan chan os.Signal
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTimeout sets the total time budget for the shutdown sequence.
// Default is 30 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) {
		c.timeout = timeout
	}
}

// withExit overrides os.Exit for tests.
func withExit(exit func(int)) Option {
	return func(c *Coordinator) {
		c.exit = exit
	}
}

// NewCoordinator creates a Coordinator ready to accept cleanup steps.
func NewCoordinator(log *logging.Logger, opts ...Option) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		log:     log.Named("shutdown"),
		timeout: 30 * time.Second,
		exit:    os.Exit,
		ctx:     ctx,
		cancel:  cancel,
		sigChan: make(chan os.Signal, 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Context is cancelled when shutdown begins. Long-running components
// should watch it.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// Register adds a cleanup step. Lower priorities run first. Steps
// registered after the sequence has run are ignored.
func (c *Coordinator) Register(name string, priority int, fn Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return
	}
	c.steps = append(c.steps, step{name: name, priority: priority, fn: fn})
}

// Start begins listening for SIGINT and SIGTERM. The first signal cancels
// the coordinator context; a second one exits immediately. Safe to call
// more than once.
func (c *Coordinator) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true

	signal.Notify(c.sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		count := 0
		for sig := range c.sigChan {
			count++
			if count == 1 {
				c.log.Info("Received shutdown signal, draining",
					zap.String("signal", sig.String()))
				c.cancel()
				continue
			}
			c.log.Warn("Received second signal, exiting immediately")
			c.exit(1)
		}
	}()
}

// Trigger initiates shutdown without a signal, for fatal internal errors.
func (c *Coordinator) Trigger() {
	c.cancel()
}

// Wait blocks until shutdown has been initiated.
func (c *Coordinator) Wait() {
	<-c.ctx.Done()
}

// Run executes all registered steps in priority order under the configured
// timeout. Every step runs even when earlier ones fail. Idempotent.
func (c *Coordinator) Run() error {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return nil
	}
	c.done = true
	sorted := make([]step, len(c.steps))
	copy(sorted, c.steps)
	c.mu.Unlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].priority < sorted[j].priority
	})

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	start := time.Now()
	c.log.Info("Running shutdown sequence", zap.Int("steps", len(sorted)))

	var failed int
	for _, s := range sorted {
		if err := s.fn(ctx); err != nil {
			failed++
			c.log.Error("Shutdown step failed",
				zap.String("step", s.name), zap.Error(err))
			continue
		}
		c.log.Debug("Shutdown step completed", zap.String("step", s.name))
	}

	signal.Stop(c.sigChan)

	if failed > 0 {
		return fmt.Errorf("shutdown finished with %d failed steps", failed)
	}
	c.log.Info("Shutdown sequence completed",
		zap.Duration("duration", time.Since(start)))
	return nil
}

// StepNames returns registered step names in execution order.
func (c *Coordinator) StepNames() []string {
	c.mu.Lock()
	sorted := make([]step, len(c.steps))
	copy(sorted, c.steps)
	c.mu.Unlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].priority < sorted[j].priority
	})

	names := make([]string, len(sorted))
	for i, s := range sorted {
		names[i] = s.name
	}
	return names
}
