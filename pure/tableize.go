package pure

import (
	"fmt"
)

// TableizeI1O1 memoizes a pure function of one argument in a trie bounded by
// maxEntries per generation. Arguments are looked up by canonical key, so maps
// and slices work as inputs; an argument without a canonical form panics.
func TableizeI1O1[I1, O1 any](fn func(I1) O1, maxEntries uint32) func(I1) O1 {
	memo := NewTrie[O1](maxEntries)
	return func(i1 I1) O1 {
		return memoize(memo, func() O1 { return fn(i1) }, i1)
	}
}

func TableizeI2O1[I1, I2, O1 any](fn func(I1, I2) O1, maxEntries uint32) func(I1, I2) O1 {
	memo := NewTrie[O1](maxEntries)
	return func(i1 I1, i2 I2) O1 {
		return memoize(memo, func() O1 { return fn(i1, i2) }, i1, i2)
	}
}

func TableizeI3O1[I1, I2, I3, O1 any](fn func(I1, I2, I3) O1, maxEntries uint32) func(I1, I2, I3) O1 {
	memo := NewTrie[O1](maxEntries)
	return func(i1 I1, i2 I2, i3 I3) O1 {
		return memoize(memo, func() O1 { return fn(i1, i2, i3) }, i1, i2, i3)
	}
}

func TableizeI4O1[I1, I2, I3, I4, O1 any](fn func(I1, I2, I3, I4) O1, maxEntries uint32) func(I1, I2, I3, I4) O1 {
	memo := NewTrie[O1](maxEntries)
	return func(i1 I1, i2 I2, i3 I3, i4 I4) O1 {
		return memoize(memo, func() O1 { return fn(i1, i2, i3, i4) }, i1, i2, i3, i4)
	}
}

type pair[A, B any] struct {
	first  A
	second B
}

func TableizeI1O2[I1, O1, O2 any](fn func(I1) (O1, O2), maxEntries uint32) func(I1) (O1, O2) {
	memo := NewTrie[pair[O1, O2]](maxEntries)
	return func(i1 I1) (O1, O2) {
		p := memoize(memo, func() pair[O1, O2] {
			a, b := fn(i1)
			return pair[O1, O2]{a, b}
		}, i1)
		return p.first, p.second
	}
}

func TableizeI2O2[I1, I2, O1, O2 any](fn func(I1, I2) (O1, O2), maxEntries uint32) func(I1, I2) (O1, O2) {
	memo := NewTrie[pair[O1, O2]](maxEntries)
	return func(i1 I1, i2 I2) (O1, O2) {
		p := memoize(memo, func() pair[O1, O2] {
			a, b := fn(i1, i2)
			return pair[O1, O2]{a, b}
		}, i1, i2)
		return p.first, p.second
	}
}

func TableizeI3O2[I1, I2, I3, O1, O2 any](fn func(I1, I2, I3) (O1, O2), maxEntries uint32) func(I1, I2, I3) (O1, O2) {
	memo := NewTrie[pair[O1, O2]](maxEntries)
	return func(i1 I1, i2 I2, i3 I3) (O1, O2) {
		p := memoize(memo, func() pair[O1, O2] {
			a, b := fn(i1, i2, i3)
			return pair[O1, O2]{a, b}
		}, i1, i2, i3)
		return p.first, p.second
	}
}

func TableizeI4O2[I1, I2, I3, I4, O1, O2 any](fn func(I1, I2, I3, I4) (O1, O2), maxEntries uint32) func(I1, I2, I3, I4) (O1, O2) {
	memo := NewTrie[pair[O1, O2]](maxEntries)
	return func(i1 I1, i2 I2, i3 I3, i4 I4) (O1, O2) {
		p := memoize(memo, func() pair[O1, O2] {
			a, b := fn(i1, i2, i3, i4)
			return pair[O1, O2]{a, b}
		}, i1, i2, i3, i4)
		return p.first, p.second
	}
}

func memoize[O any](memo *Trie[O], compute func() O, args ...any) O {
	keys := make([]Key, len(args))
	for i, arg := range args {
		k, err := KeyOf(arg)
		if err != nil {
			panic(fmt.Sprintf("tableize: argument %d: %v", i, err))
		}
		keys[i] = k
	}
	if v, ok := memo.Load(keys); ok {
		return v
	}
	v := compute()
	memo.Store(keys, v)
	return v
}
