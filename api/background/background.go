// Package background runs fire and forget work outside of the request that
// started it.
package background

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

type Background struct {
	log    logrus.FieldLogger
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func New(log logrus.FieldLogger) *Background {
	ctx, cancel := context.WithCancel(context.Background())
	return &Background{log: log, ctx: ctx, cancel: cancel}
}

// Submit runs fn in its own goroutine. Errors and panics are logged.
func (b *Background) Submit(name string, fn func(ctx context.Context) error) {
	b.wg.Add(1)

	go func() {
		defer b.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				b.log.WithField("task", name).Error(fmt.Sprintf("panic: %v", rec))
			}
		}()

		if err := fn(b.ctx); err != nil {
			b.log.WithFields(logrus.Fields{
				"task":  name,
				"error": err,
			}).Error("background task failed")
		}
	}()
}

// Shutdown waits for the running tasks. When ctx ends first the tasks are
// cancelled and the context error is returned.
func (b *Background) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.cancel()
		return nil
	case <-ctx.Done():
		b.cancel()
		return ctx.Err()
	}
}
