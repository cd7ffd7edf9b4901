package purefn

import (
	"context"
	"fmt"

	"github.com/on-the-ground/toolkit_go/pure"
	"github.com/on-the-ground/toolkit_go/shared/helper"
	"go.uber.org/zap"
)

// Fn is a function of positional and keyword arguments.
type Fn[O any] func(ctx context.Context, args []any, kwargs map[string]any) (O, error)

// Cached memoizes fn in c under the namespace name.
// Unhashable arguments are reported as an error wrapping pure.ErrUnhashable
// and fn is not called.
func Cached[O any](c *Cache, name string, fn Fn[O]) Fn[O] {
	prefix := name + "\x00"
	return func(ctx context.Context, args []any, kwargs map[string]any) (O, error) {
		var zero O
		argsKey, err := pure.ArgsKey(args, kwargs)
		if err != nil {
			return zero, fmt.Errorf("%s: cache key: %w", name, err)
		}
		key := pure.Key(prefix) + argsKey

		if v, ok := helper.GetTypedValueOf2[O](func() (any, bool) { return c.Get(key) }); ok {
			return v, nil
		}

		v, err := fn(ctx, args, kwargs)
		if err != nil {
			return zero, err
		}
		if !c.Set(key, v) {
			c.logger.Debug("cache set dropped", zap.String("func", name), zap.Uint64("key_hash", key.Hash()))
		}
		return v, nil
	}
}

// Cached1 memoizes a single-argument function.
func Cached1[I, O any](c *Cache, name string, fn func(context.Context, I) (O, error)) func(context.Context, I) (O, error) {
	cached := Cached(c, name, func(ctx context.Context, args []any, _ map[string]any) (O, error) {
		return fn(ctx, args[0].(I))
	})
	return func(ctx context.Context, i I) (O, error) {
		return cached(ctx, []any{i}, nil)
	}
}

// Cached2 memoizes a two-argument function.
func Cached2[I1, I2, O any](c *Cache, name string, fn func(context.Context, I1, I2) (O, error)) func(context.Context, I1, I2) (O, error) {
	cached := Cached(c, name, func(ctx context.Context, args []any, _ map[string]any) (O, error) {
		return fn(ctx, args[0].(I1), args[1].(I2))
	})
	return func(ctx context.Context, i1 I1, i2 I2) (O, error) {
		return cached(ctx, []any{i1, i2}, nil)
	}
}
