package pure

import (
	"sync"
	"sync/atomic"
)

// Trie is a bounded memo table keyed by a path of canonical keys.
// It keeps two generations; when the head generation is full the older one is
// dropped and the roles swap.
type Trie[O any] struct {
	memos   [2]atomic.Pointer[sync.Map]
	headIdx atomic.Uint32
	size    atomic.Uint32
	maxSize uint32
	mu      sync.Mutex
}

func (t *Trie[O]) Load(keys []Key) (O, bool) {
	headIdx := t.headIdx.Load()
	for _, idx := range [2]uint32{headIdx, 1 - headIdx} {
		m, k := t.traverse(t.memos[idx].Load(), keys)
		if v, ok := m.Load(k); ok {
			return v.(O), true
		}
	}
	var zero O
	return zero, false
}

func (t *Trie[O]) traverse(targetMap *sync.Map, keys []Key) (*sync.Map, Key) {
	length := len(keys)
	if length == 0 {
		panic("traverse: empty keys")
	}

	for _, k := range keys[:length-1] {
		v, _ := targetMap.LoadOrStore(k, &sync.Map{})
		targetMap = v.(*sync.Map)
	}
	return targetMap, keys[length-1]
}

func (t *Trie[O]) Store(keys []Key, value O) {
	t.mu.Lock()
	if t.size.Load() >= t.maxSize {
		next := 1 - t.headIdx.Load()
		t.memos[next].Store(&sync.Map{})
		t.headIdx.Store(next)
		t.size.Store(0)
	}
	targetMap := t.memos[t.headIdx.Load()].Load()
	t.mu.Unlock()

	m, k := t.traverse(targetMap, keys)
	m.Store(k, value)
	t.size.Add(1)
}

func NewTrie[O any](maxSize uint32) *Trie[O] {
	if maxSize == 0 {
		panic("maxSize should be greater than 0")
	}
	t := &Trie[O]{maxSize: maxSize}
	t.memos[0].Store(&sync.Map{})
	t.memos[1].Store(&sync.Map{})
	return t
}
