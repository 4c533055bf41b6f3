package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBatchSize is the number of concurrent fetches per batch.
	DefaultBatchSize = 5

	// DefaultBatchDelay is the pause between consecutive batches.
	DefaultBatchDelay = time.Second

	// DefaultRewindDays is the number of days tried when a date has no proceedings.
	DefaultRewindDays = 5
)

// PipelineConfig tunes batching for crawling and enrichment.
type PipelineConfig struct {
	BatchSize  int
	BatchDelay time.Duration
	RewindDays int
}

// DefaultPipelineConfig returns the production batching settings.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		BatchSize:  DefaultBatchSize,
		BatchDelay: DefaultBatchDelay,
		RewindDays: DefaultRewindDays,
	}
}

func (c PipelineConfig) withDefaults() PipelineConfig {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.BatchDelay < 0 {
		c.BatchDelay = 0
	}
	if c.RewindDays <= 0 {
		c.RewindDays = DefaultRewindDays
	}
	return c
}

// forEachBatch calls fn for every index in [0, n), size at a time.
// Calls within a batch run concurrently; batches run strictly in sequence
// with delay between them. The first error aborts the remaining batches.
func forEachBatch(
	ctx context.Context, n, size int, delay time.Duration,
	fn func(ctx context.Context, i int) error,
) error {
	for start := 0; start < n; start += size {
		if err := ctx.Err(); err != nil {
			return err
		}
		if start > 0 {
			if err := sleep(ctx, delay); err != nil {
				return err
			}
		}

		end := min(start+size, n)
		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				return fn(gctx, i)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
