package engine

import (
	"container/list"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/piwi3910/CaseForge/internal/model"
	"golang.org/x/crypto/blake2b"
)

// DefaultCacheSize is the number of layouts a Resolver keeps.
const DefaultCacheSize = 64

// Key is the structural hash of a resolve input.
type Key [blake2b.Size256]byte

func (k Key) String() string {
	return hex.EncodeToString(k[:8])
}

// KeyOf hashes the canonical JSON form of the tree and envelope. Two inputs
// with the same key resolve to the same layout.
func KeyOf(tree *model.Zone, env model.Envelope, tolerance float64) (Key, error) {
	data, err := json.Marshal(struct {
		Tree      *model.Zone    `json:"tree"`
		Envelope  model.Envelope `json:"envelope"`
		Tolerance float64        `json:"tolerance"`
	}{tree, env, tolerance})
	if err != nil {
		return Key{}, fmt.Errorf("hashing layout input: %w", err)
	}
	return blake2b.Sum256(data), nil
}

type cacheEntry struct {
	key    Key
	layout *Layout
}

// Resolver memoizes Resolve over a bounded least-recently-used cache. It is
// safe for concurrent use. Returned layouts are shared between callers.
type Resolver struct {
	opts     Options
	capacity int

	mu      sync.Mutex
	order   *list.List // front is most recent
	entries map[Key]*list.Element
	hits    int
	misses  int
}

// NewResolver returns a resolver keeping at most capacity layouts.
func NewResolver(capacity int, opts Options) *Resolver {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &Resolver{
		opts:     opts,
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[Key]*list.Element),
	}
}

// Resolve returns the cached layout for the input or computes and stores it.
// Errors are not cached.
func (r *Resolver) Resolve(tree *model.Zone, env model.Envelope) (*Layout, error) {
	key, err := KeyOf(tree, env, r.opts.tolerance())
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if el, ok := r.entries[key]; ok {
		r.order.MoveToFront(el)
		r.hits++
		r.mu.Unlock()
		return el.Value.(*cacheEntry).layout, nil
	}
	r.misses++
	r.mu.Unlock()

	layout, err := Resolve(tree, env, r.opts)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if el, ok := r.entries[key]; ok {
		r.order.MoveToFront(el)
		return el.Value.(*cacheEntry).layout, nil
	}
	r.entries[key] = r.order.PushFront(&cacheEntry{key: key, layout: layout})
	for r.order.Len() > r.capacity {
		oldest := r.order.Back()
		r.order.Remove(oldest)
		delete(r.entries, oldest.Value.(*cacheEntry).key)
	}
	r.opts.logger().Debug("layout resolved", "key", key.String(), "segments", len(layout.Segments))
	return layout, nil
}

// Len returns the number of cached layouts.
func (r *Resolver) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.order.Len()
}

// Stats returns the hit and miss counts since creation or the last Purge.
func (r *Resolver) Stats() (hits, misses int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits, r.misses
}

// Purge empties the cache.
func (r *Resolver) Purge() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order.Init()
	r.entries = make(map[Key]*list.Element)
	r.hits, r.misses = 0, 0
}
