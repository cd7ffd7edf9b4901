package pure

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Key is the canonical encoding of a value.
// Two values share a Key iff they are structurally equal: mappings and sets
// compare regardless of order, sequences compare element by element.
// Key is comparable and can be used directly as a Go map key.
type Key string

// Hash returns the xxhash64 digest of the key.
func (k Key) Hash() uint64 {
	return xxhash.Sum64String(string(k))
}

// ErrUnhashable is returned when a value holds a leaf that has no canonical form,
// such as a func or a non-comparable struct without a String method.
var ErrUnhashable = errors.New("unhashable value")

// KeyOf returns the canonical key of v. Frozen and unfrozen forms of the same
// value produce the same key.
func KeyOf(v any) (Key, error) {
	var b strings.Builder
	if err := encode(&b, v); err != nil {
		return "", err
	}
	return Key(b.String()), nil
}

// Hash returns the xxhash64 digest of the canonical key of v.
func Hash(v any) (uint64, error) {
	k, err := KeyOf(v)
	if err != nil {
		return 0, err
	}
	return k.Hash(), nil
}

// Equal reports whether a and b are structurally equal.
// Unhashable values are never equal to anything.
func Equal(a, b any) bool {
	ka, err := KeyOf(a)
	if err != nil {
		return false
	}
	kb, err := KeyOf(b)
	if err != nil {
		return false
	}
	return ka == kb
}

// keyOfMapKey never fails: every Go map key is comparable, and comparable
// leaves always have an encoding.
func keyOfMapKey(k any) Key {
	if key, err := KeyOf(k); err == nil {
		return key
	}
	return Key(fmt.Sprintf("x%T:%#v;", k, k))
}

func encode(b *strings.Builder, v any) error {
	switch x := v.(type) {
	case nil:
		b.WriteString("n;")
		return nil
	case bool:
		writeBool(b, x)
		return nil
	case string:
		writeString(b, 's', x)
		return nil
	case int:
		writeInt(b, int64(x))
		return nil
	case int64:
		writeInt(b, x)
		return nil
	case float64:
		writeFloat(b, x)
		return nil
	case FrozenMap:
		return writeSortedEntries(b, x.entries)
	case FrozenList:
		return writeList(b, len(x.items), func(i int) any { return x.items[i] })
	case FrozenSet:
		writeMembers(b, x.members)
		return nil
	case *Set:
		if x == nil {
			b.WriteString("n;")
			return nil
		}
		writeMembers(b, x.members())
		return nil
	case Set:
		writeMembers(b, x.members())
		return nil
	case map[string]any:
		entries := make([]mapEntry, 0, len(x))
		for k, val := range x {
			entries = append(entries, mapEntry{key: k, enc: stringKey(k), value: val})
		}
		return encodeEntries(b, entries)
	case []any:
		return writeList(b, len(x), func(i int) any { return x[i] })
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		entries := make([]mapEntry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().Interface()
			entries = append(entries, mapEntry{key: k, enc: keyOfMapKey(k), value: iter.Value().Interface()})
		}
		return encodeEntries(b, entries)
	case reflect.Slice, reflect.Array:
		return writeList(b, rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	}

	if s, ok := v.(fmt.Stringer); ok {
		b.WriteByte('S')
		writeString(b, 't', fmt.Sprintf("%T", v))
		writeString(b, 's', s.String())
		return nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		writeBool(b, rv.Bool())
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		writeInt(b, rv.Int())
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		b.WriteByte('i')
		b.WriteString(strconv.FormatUint(rv.Uint(), 10))
		b.WriteByte(';')
		return nil
	case reflect.Float32, reflect.Float64:
		writeFloat(b, rv.Float())
		return nil
	case reflect.String:
		writeString(b, 's', rv.String())
		return nil
	}

	if rv.Comparable() {
		writeString(b, 'x', fmt.Sprintf("%T:%#v", v, v))
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnhashable, v)
}

func writeBool(b *strings.Builder, v bool) {
	if v {
		b.WriteString("b1;")
	} else {
		b.WriteString("b0;")
	}
}

func writeInt(b *strings.Builder, n int64) {
	b.WriteByte('i')
	b.WriteString(strconv.FormatInt(n, 10))
	b.WriteByte(';')
}

// integral floats inside the int64 range encode like ints so 1 and 1.0 share a key.
func writeFloat(b *strings.Builder, f float64) {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		writeInt(b, int64(f))
		return
	}
	b.WriteByte('f')
	b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	b.WriteByte(';')
}

func writeString(b *strings.Builder, tag byte, s string) {
	b.WriteByte(tag)
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}

func stringKey(s string) Key {
	var b strings.Builder
	writeString(&b, 's', s)
	return Key(b.String())
}

func writeList(b *strings.Builder, n int, at func(int) any) error {
	b.WriteByte('l')
	b.WriteString(strconv.Itoa(n))
	b.WriteByte('[')
	for i := 0; i < n; i++ {
		if err := encode(b, at(i)); err != nil {
			return err
		}
	}
	b.WriteByte(']')
	return nil
}

// encodeEntries sorts and writes entries built from a plain Go map.
func encodeEntries(b *strings.Builder, entries []mapEntry) error {
	sortEntries(entries)
	return writeSortedEntries(b, entries)
}

func writeSortedEntries(b *strings.Builder, entries []mapEntry) error {
	b.WriteByte('m')
	b.WriteString(strconv.Itoa(len(entries)))
	b.WriteByte('{')
	for _, e := range entries {
		b.WriteString(string(e.enc))
		if err := encode(b, e.value); err != nil {
			return err
		}
	}
	b.WriteByte('}')
	return nil
}

func writeMembers(b *strings.Builder, members []setMember) {
	b.WriteByte('e')
	b.WriteString(strconv.Itoa(len(members)))
	b.WriteByte('{')
	for _, m := range members {
		b.WriteString(string(m.enc))
	}
	b.WriteByte('}')
}

func sortEntries(entries []mapEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].enc < entries[j].enc
	})
	for i := 0; i < len(entries); {
		j := i + 1
		for j < len(entries) && entries[j].enc == entries[i].enc {
			j++
		}
		if j-i > 1 {
			sortCollisions(entries[i:j])
		}
		i = j
	}
}

// sortCollisions orders entries whose distinct Go keys share one encoding,
// such as 1, 1.0 and int8(1) in a map[any]any, by value key and then by key
// type, so the order never depends on map iteration.
func sortCollisions(run []mapEntry) {
	ties := make([]string, len(run))
	for i, e := range run {
		vk, _ := KeyOf(e.value)
		ties[i] = string(vk) + "\x00" + fmt.Sprintf("%T", e.key)
	}
	sort.Sort(collisionRun{entries: run, ties: ties})
}

type collisionRun struct {
	entries []mapEntry
	ties    []string
}

func (r collisionRun) Len() int           { return len(r.entries) }
func (r collisionRun) Less(i, j int) bool { return r.ties[i] < r.ties[j] }
func (r collisionRun) Swap(i, j int) {
	r.entries[i], r.entries[j] = r.entries[j], r.entries[i]
	r.ties[i], r.ties[j] = r.ties[j], r.ties[i]
}
