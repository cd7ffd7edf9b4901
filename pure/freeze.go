package pure

import (
	"reflect"
	"sort"
)

type mapEntry struct {
	key   any
	enc   Key
	value any
}

// FrozenMap is the immutable counterpart of a Go map.
// Entries are kept in canonical key order, so two FrozenMaps built from the
// same contents are identical regardless of insertion order.
type FrozenMap struct {
	entries []mapEntry
}

func newFrozenMap(entries []mapEntry) FrozenMap {
	sortEntries(entries)
	return FrozenMap{entries: entries}
}

func (m FrozenMap) Len() int {
	return len(m.entries)
}

// Get returns the frozen value stored under k.
func (m FrozenMap) Get(k any) (any, bool) {
	enc := keyOfMapKey(k)
	i := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].enc >= enc
	})
	if i < len(m.entries) && m.entries[i].enc == enc {
		return m.entries[i].value, true
	}
	return nil, false
}

// Keys returns the keys in canonical order.
func (m FrozenMap) Keys() []any {
	keys := make([]any, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.key
	}
	return keys
}

// Range calls fn for every entry in canonical order until fn returns false.
func (m FrozenMap) Range(fn func(k, v any) bool) {
	for _, e := range m.entries {
		if !fn(e.key, e.value) {
			return
		}
	}
}

func (m FrozenMap) Key() (Key, error) { return KeyOf(m) }

func (m FrozenMap) Equal(other any) bool { return Equal(m, other) }

// FrozenList is the immutable counterpart of a Go slice. Order is significant.
type FrozenList struct {
	items []any
}

func (l FrozenList) Len() int {
	return len(l.items)
}

func (l FrozenList) At(i int) any {
	return l.items[i]
}

// Items returns a copy of the frozen elements.
func (l FrozenList) Items() []any {
	return append([]any(nil), l.items...)
}

func (l FrozenList) Key() (Key, error) { return KeyOf(l) }

func (l FrozenList) Equal(other any) bool { return Equal(l, other) }

type setMember struct {
	enc   Key
	value any
}

// FrozenSet is the immutable counterpart of a Set.
type FrozenSet struct {
	members []setMember
}

func (s FrozenSet) Len() int {
	return len(s.members)
}

func (s FrozenSet) Has(v any) bool {
	enc, err := KeyOf(v)
	if err != nil {
		return false
	}
	i := sort.Search(len(s.members), func(i int) bool {
		return s.members[i].enc >= enc
	})
	return i < len(s.members) && s.members[i].enc == enc
}

// Elems returns the members in canonical order.
func (s FrozenSet) Elems() []any {
	elems := make([]any, len(s.members))
	for i, m := range s.members {
		elems[i] = m.value
	}
	return elems
}

func (s FrozenSet) Key() (Key, error) { return KeyOf(s) }

func (s FrozenSet) Equal(other any) bool { return Equal(s, other) }

// Freeze converts v into an immutable value that can serve as a cache key.
//
// Maps become FrozenMap, slices become FrozenList and sets become FrozenSet,
// recursively. Map keys are kept as they are. Everything else, including values
// that are already frozen and Go arrays, is returned unchanged, which makes
// Freeze idempotent. Freeze never fails and never mutates v; a leaf that cannot
// be hashed is carried through and reported by KeyOf.
func Freeze(v any) any {
	switch x := v.(type) {
	case nil, FrozenMap, FrozenList, FrozenSet:
		return v
	case map[string]any:
		entries := make([]mapEntry, 0, len(x))
		for k, val := range x {
			entries = append(entries, mapEntry{key: k, enc: stringKey(k), value: Freeze(val)})
		}
		return newFrozenMap(entries)
	case []any:
		items := make([]any, len(x))
		for i, e := range x {
			items[i] = Freeze(e)
		}
		return FrozenList{items: items}
	case *Set:
		if x == nil {
			return v
		}
		return x.freeze()
	case Set:
		return x.freeze()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		entries := make([]mapEntry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().Interface()
			entries = append(entries, mapEntry{key: k, enc: keyOfMapKey(k), value: Freeze(iter.Value().Interface())})
		}
		return newFrozenMap(entries)
	case reflect.Slice:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = Freeze(rv.Index(i).Interface())
		}
		return FrozenList{items: items}
	}
	return v
}

// Unfreeze converts a frozen value back to its canonical mutable form.
//
// FrozenMap becomes map[string]any when every key is a string and map[any]any
// otherwise, FrozenList becomes []any and FrozenSet becomes *Set. Anything else
// is returned unchanged.
func Unfreeze(v any) any {
	switch x := v.(type) {
	case FrozenMap:
		return x.thaw()
	case FrozenList:
		items := make([]any, len(x.items))
		for i, e := range x.items {
			items[i] = Unfreeze(e)
		}
		return items
	case FrozenSet:
		// members stay frozen: a Set only holds hashable values.
		s := &Set{elems: make(map[Key]any, len(x.members))}
		for _, m := range x.members {
			s.elems[m.enc] = m.value
		}
		return s
	}
	return v
}

func (m FrozenMap) thaw() any {
	allStrings := true
	for _, e := range m.entries {
		if _, ok := e.key.(string); !ok {
			allStrings = false
			break
		}
	}
	if allStrings {
		res := make(map[string]any, len(m.entries))
		for _, e := range m.entries {
			res[e.key.(string)] = Unfreeze(e.value)
		}
		return res
	}
	res := make(map[any]any, len(m.entries))
	for _, e := range m.entries {
		res[e.key] = Unfreeze(e.value)
	}
	return res
}
