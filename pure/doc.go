// Package pure turns arbitrary nested values into immutable, comparable forms
// so they can be used as memoization keys.
//
// Freeze maps a value onto its frozen counterpart:
//
//	map       → FrozenMap   (order of entries irrelevant)
//	slice     → FrozenList  (order significant)
//	*Set      → FrozenSet   (order irrelevant, duplicates collapse)
//	otherwise → unchanged
//
// Unfreeze goes back to the canonical mutable forms (map[string]any or
// map[any]any, []any and *Set). KeyOf yields a Key, the canonical comparable
// encoding that plays the role of a hash key.
//
// Recursion has no depth bound and no cycle detection; self-referencing maps
// or slices must not be frozen.
//
// The Tableize family memoizes pure functions of up to four inputs on top of
// these keys.
package pure
