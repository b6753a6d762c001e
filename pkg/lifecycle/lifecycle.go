// Package lifecycle coordinates subsystem startup and graceful shutdown.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Coordinator tracks startup completion and runs registered shutdown hooks.
// Startup hooks run concurrently; shutdown hooks run in registration order
// under a shared timeout.
type Coordinator struct {
	ctx       context.Context
	cancel    context.CancelFunc
	startupWg sync.WaitGroup
	ready     atomic.Bool

	mu       sync.Mutex
	shutdown []func(context.Context)
}

// New creates a Coordinator with a cancellable root context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator's context, cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a function to run concurrently during startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown registers a cleanup function invoked during Shutdown. The
// supplied context carries the shutdown deadline.
func (c *Coordinator) OnShutdown(fn func(context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutdown = append(c.shutdown, fn)
}

// Ready reports whether all startup hooks have completed.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks until all startup hooks have completed, then marks
// the coordinator ready.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.ready.Store(true)
}

// Shutdown cancels the root context and runs shutdown hooks in order,
// bounded by the given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		c.mu.Lock()
		hooks := c.shutdown
		c.mu.Unlock()

		for _, fn := range hooks {
			fn(ctx)
		}
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
