package pure

import (
	"fmt"
	"sort"
)

// Set is a mutable unordered collection. Members are deduplicated by their
// canonical key and held in frozen form, so a member can be a slice or a map.
// The zero value is an empty set ready to use.
type Set struct {
	elems map[Key]any
}

// NewSet builds a set from elems. It fails if any element is unhashable.
func NewSet(elems ...any) (*Set, error) {
	s := &Set{elems: make(map[Key]any, len(elems))}
	for _, e := range elems {
		if err := s.Add(e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustNewSet is the panic-on-failure variant of NewSet.
func MustNewSet(elems ...any) *Set {
	s, err := NewSet(elems...)
	if err != nil {
		panic(err)
	}
	return s
}

// Add inserts v. Adding a member that is already present keeps the old one.
func (s *Set) Add(v any) error {
	fv := Freeze(v)
	k, err := KeyOf(fv)
	if err != nil {
		return fmt.Errorf("set member: %w", err)
	}
	if s.elems == nil {
		s.elems = make(map[Key]any)
	}
	if _, ok := s.elems[k]; !ok {
		s.elems[k] = fv
	}
	return nil
}

// Discard removes v if present.
func (s *Set) Discard(v any) {
	if k, err := KeyOf(v); err == nil {
		delete(s.elems, k)
	}
}

func (s *Set) Has(v any) bool {
	k, err := KeyOf(v)
	if err != nil {
		return false
	}
	_, ok := s.elems[k]
	return ok
}

func (s *Set) Len() int {
	return len(s.elems)
}

// Elems returns the members, frozen, in canonical order.
func (s *Set) Elems() []any {
	members := s.members()
	elems := make([]any, len(members))
	for i, m := range members {
		elems[i] = m.value
	}
	return elems
}

func (s *Set) members() []setMember {
	members := make([]setMember, 0, len(s.elems))
	for k, v := range s.elems {
		members = append(members, setMember{enc: k, value: v})
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].enc < members[j].enc
	})
	return members
}

func (s *Set) freeze() FrozenSet {
	return FrozenSet{members: s.members()}
}
