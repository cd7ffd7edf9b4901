package purefn_test

import (
	"context"
	"errors"
	"testing"

	"github.com/on-the-ground/toolkit_go/pure"
	"github.com/on-the-ground/toolkit_go/purefn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) *purefn.Cache {
	t.Helper()
	c, err := purefn.NewCache(purefn.Config{})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestCached_KeywordOrder(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	calls := 0
	fn := purefn.Cached(c, "cached_func", func(_ context.Context, args []any, kwargs map[string]any) ([]any, error) {
		calls++
		return []any{args[0], kwargs["b"]}, nil
	})

	call := func(args []any, kwargs map[string]any) {
		_, err := fn(ctx, args, kwargs)
		require.NoError(t, err)
		c.Wait()
	}

	call([]any{[]any{1, 2, 3}}, nil)
	call([]any{1}, nil)
	call([]any{1, []any{2, 3, 4}}, nil)
	call([]any{1}, map[string]any{"b": map[string]any{"a": 2, "b": 3}})
	assert.Equal(t, 4, calls)

	call([]any{[]any{1, 2, 3}}, nil)
	call([]any{1}, nil)
	call([]any{1, []any{2, 3, 4}}, nil)
	call([]any{1}, map[string]any{"b": map[string]any{"b": 3, "a": 2}})
	assert.Equal(t, 4, calls)

	hits, _ := c.Stats()
	assert.EqualValues(t, 4, hits)
}

func TestCached_NamespacesDoNotCollide(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	double := purefn.Cached1(c, "double", func(_ context.Context, i int) (int, error) { return i * 2, nil })
	square := purefn.Cached1(c, "square", func(_ context.Context, i int) (int, error) { return i * i, nil })

	v, err := double(ctx, 3)
	require.NoError(t, err)
	c.Wait()
	assert.Equal(t, 6, v)

	v, err = square(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 9, v)
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	calls := 0
	fn := purefn.Cached2(c, "flaky", func(_ context.Context, a string, b map[string]int) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("transient")
		}
		return len(a) + len(b), nil
	})

	_, err := fn(ctx, "ab", map[string]int{"x": 1})
	assert.Error(t, err)
	c.Wait()

	v, err := fn(ctx, "ab", map[string]int{"x": 1})
	require.NoError(t, err)
	c.Wait()
	assert.Equal(t, 3, v)

	v, err = fn(ctx, "ab", map[string]int{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, 2, calls)
}

func TestCached_NilResultIsCached(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	calls := 0
	fn := purefn.Cached(c, "lookup_missing", func(_ context.Context, args []any, _ map[string]any) (any, error) {
		calls++
		return nil, nil
	})

	for i := 0; i < 3; i++ {
		v, err := fn(ctx, []any{"absent"}, nil)
		require.NoError(t, err)
		assert.Nil(t, v)
		c.Wait()
	}
	assert.Equal(t, 1, calls)
}

func TestCached_UnhashableArgument(t *testing.T) {
	c := newCache(t)
	called := false
	fn := purefn.Cached1(c, "f", func(_ context.Context, f func()) (int, error) {
		called = true
		return 0, nil
	})

	_, err := fn(context.Background(), func() {})
	assert.ErrorIs(t, err, pure.ErrUnhashable)
	assert.False(t, called)
}

func TestCache_GetSetDel(t *testing.T) {
	c := newCache(t)
	k, err := pure.KeyOf(map[string]any{"a": 1})
	require.NoError(t, err)

	assert.True(t, c.Set(k, "v"))
	c.Wait()
	v, ok := c.Get(k)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	c.Del(k)
	c.Wait()
	_, ok = c.Get(k)
	assert.False(t, ok)
}
