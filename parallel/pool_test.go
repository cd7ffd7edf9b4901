package parallel_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/on-the-ground/toolkit_go/parallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func sum(_ context.Context, xs []int) (int, error) {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total, nil
}

func TestMap_DefaultChunking(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	pool := parallel.NewPool(2, zap.New(core))

	res, err := parallel.Map(context.Background(), pool, sum, []int{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, []int{6, 9}, res)

	assert.Equal(t, 1, logs.FilterMessage("splitting 5 elements into 2 buckets of size 3").Len())
}

func TestMap_ChunkSize(t *testing.T) {
	pool := parallel.NewPool(0, nil)
	assert.Equal(t, parallel.DefaultWorkers, pool.Workers())

	res, err := parallel.Map(context.Background(), pool, sum, []int{1, 2, 3, 4, 5}, parallel.WithChunkSize(1))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, res)
}

func TestMap_Empty(t *testing.T) {
	res, err := parallel.Map(context.Background(), parallel.NewPool(4, nil), sum, nil)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestMap_BoundedConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	fn := func(_ context.Context, xs []int) (int, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		defer running.Add(-1)
		return len(xs), nil
	}

	items := make([]int, 100)
	_, err := parallel.Map(context.Background(), parallel.NewPool(3, nil), fn, items, parallel.WithChunkSize(1))
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestMap_FirstErrorFails(t *testing.T) {
	boom := errors.New("boom")
	fn := func(_ context.Context, xs []int) (int, error) {
		if xs[0] == 3 {
			return 0, boom
		}
		return xs[0], nil
	}
	_, err := parallel.Map(context.Background(), parallel.NewPool(2, nil), fn, []int{1, 2, 3, 4}, parallel.WithChunkSize(1))
	assert.ErrorIs(t, err, boom)
}

func TestMap_IgnoreFailures(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	fn := func(_ context.Context, xs []int) (int, error) {
		switch xs[0] {
		case 2:
			return 0, errors.New("bad chunk")
		case 3:
			panic("worse chunk")
		}
		return xs[0] * 10, nil
	}

	res, err := parallel.Map(
		context.Background(),
		parallel.NewPool(2, zap.New(core)),
		fn,
		[]int{1, 2, 3, 4},
		parallel.WithChunkSize(1),
		parallel.IgnoreFailures(),
	)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 0, 0, 40}, res)
	assert.Equal(t, 2, logs.FilterMessage("failed func").Len())
}

func TestMap_PanicBecomesError(t *testing.T) {
	fn := func(_ context.Context, _ []int) (int, error) {
		panic("boom")
	}
	_, err := parallel.Map(context.Background(), parallel.NewPool(1, nil), fn, []int{1})
	assert.ErrorContains(t, err, "panic in chunk worker: boom")
}
