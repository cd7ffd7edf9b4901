// Package purefn provides an injectable memoization cache for pure functions.
//
// Where pure.Tableize memoizes one function in its own bounded table, a
// purefn.Cache is a single ristretto cache that many functions can share.
// The cache is built explicitly with NewCache and handed to each call site;
// there is no package-level default.
//
// Cached wraps a function of positional and keyword arguments. The cache key
// is the function name plus pure.ArgsKey of the arguments, so maps, slices and
// sets are valid arguments and keyword order does not matter:
//
//	c, _ := purefn.NewCache(purefn.Config{})
//	lookup := purefn.Cached(c, "lookup", func(ctx context.Context, args []any, kwargs map[string]any) (int, error) {
//		...
//	})
//	lookup(ctx, []any{1}, map[string]any{"b": map[string]any{"a": 2, "b": 3}})
//
// Errors are never cached.
//
// WARNING: Do not cache impure functions (e.g., those depending on time, I/O, etc).
package purefn
