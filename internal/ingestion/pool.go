package ingestion

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// ErrJobPanicked is returned by Run when the job panicked.
var ErrJobPanicked = errors.New("ingestion job panicked")

// Pool bounds how many CPU-heavy extraction and embedding jobs run at once.
// A nil *Pool runs jobs on the calling goroutine.
type Pool struct {
	pool     *ants.Pool
	inflight atomic.Int32
	logger   *zap.Logger
}

// NewPool creates a pool with the given number of workers.
func NewPool(workers int, logger *zap.Logger) (*Pool, error) {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p, err := ants.NewPool(workers,
		ants.WithExpiryDuration(30*time.Second),
		ants.WithNonblocking(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	logger.Info("ingestion pool created", zap.Int("workers", workers))
	return &Pool{pool: p, logger: logger}, nil
}

// Run submits job and blocks until it finishes. A job that was submitted runs
// to completion; ctx only guards against submitting after cancellation.
func (p *Pool) Run(ctx context.Context, job func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil {
		return safely(job)
	}

	done := make(chan error, 1)
	if err := p.pool.Submit(func() {
		p.inflight.Add(1)
		err := safely(job)
		p.inflight.Add(-1)
		done <- err
	}); err != nil {
		return fmt.Errorf("failed to submit job: %w", err)
	}
	return <-done
}

// Running returns the number of jobs currently executing. Idle workers are
// not counted.
func (p *Pool) Running() int {
	if p == nil {
		return 0
	}
	return int(p.inflight.Load())
}

// Release stops the workers.
func (p *Pool) Release() {
	if p == nil {
		return
	}
	p.pool.Release()
	p.logger.Info("ingestion pool released")
}

func safely(job func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
		}
	}()
	return job()
}
