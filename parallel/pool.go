package parallel

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/on-the-ground/toolkit_go/shared/helper"
	"github.com/on-the-ground/toolkit_go/shared/log"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultWorkers = 10

// Pool bounds how many chunks run at once. It holds no goroutines of its own;
// each Map call spawns at most Workers of them.
type Pool struct {
	workers int
	logger  *zap.Logger
}

// NewPool returns a pool of the given size. workers <= 0 means DefaultWorkers.
func NewPool(workers int, logger *zap.Logger) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pool{workers: workers, logger: log.OrNop(logger)}
}

func (p *Pool) Workers() int {
	return p.workers
}

type mapOptions struct {
	chunkSize      int
	ignoreFailures bool
}

type MapOption func(*mapOptions)

// WithChunkSize overrides the default chunk size of ceil(len(items)/workers).
func WithChunkSize(n int) MapOption {
	return func(o *mapOptions) { o.chunkSize = n }
}

// IgnoreFailures makes a failed chunk log its error and yield the zero result
// instead of aborting the whole map.
func IgnoreFailures() MapOption {
	return func(o *mapOptions) { o.ignoreFailures = true }
}

// Map splits items into chunks and applies fn to each chunk on the pool.
// Results come back in chunk order. Unless IgnoreFailures is set, the first
// failure cancels the context passed to the remaining chunks and is returned.
// A panic inside fn is recovered and reported as an error.
func Map[T, R any](
	ctx context.Context,
	p *Pool,
	fn func(context.Context, []T) (R, error),
	items []T,
	opts ...MapOption,
) ([]R, error) {
	o := mapOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if len(items) == 0 {
		return []R{}, nil
	}
	if o.chunkSize <= 0 {
		o.chunkSize = (len(items) + p.workers - 1) / p.workers
	}

	chunks := Chunk(items, o.chunkSize)
	batchID := uuid.New().String()
	logger := p.logger.With(zap.String("batch_id", batchID))
	logger.Info(fmt.Sprintf(
		"splitting %d elements into %d buckets of size %d", len(items), len(chunks), o.chunkSize,
	))

	results := make([]R, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	run := func(chunk []T) (res R, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in chunk worker: %v", r)
			}
		}()
		return fn(gctx, chunk)
	}
	if o.ignoreFailures {
		run = helper.SwallowWrap(logger, run, false)
	}

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			res, err := run(chunk)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
