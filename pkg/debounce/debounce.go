// Package debounce coalesces bursts of keyed updates into one call per key
// after a quiet period.
//
// Each key has its own timer. The key is fixed when the update is
// triggered, so a timer that fires later always applies its update to the
// element it was scheduled for, whatever happened in between.
package debounce

import (
	"slices"
	"sync"
	"time"
)

// DefaultDelay is the quiet period used when none is configured.
const DefaultDelay = 300 * time.Millisecond

// Option configures a Debouncer.
type Option[K comparable, V any] func(*Debouncer[K, V])

// WithMerge sets how a new value combines with one that is still pending.
// The default keeps only the newest value.
func WithMerge[K comparable, V any](merge func(pending, next V) V) Option[K, V] {
	return func(d *Debouncer[K, V]) {
		if merge != nil {
			d.merge = merge
		}
	}
}

type entry[V any] struct {
	value V
	timer *time.Timer
	gen   uint64
	seq   uint64
}

// Debouncer delays calls to fire until no new value for the same key has
// arrived for the configured delay.
type Debouncer[K comparable, V any] struct {
	mu      sync.Mutex
	delay   time.Duration
	fire    func(K, V)
	merge   func(pending, next V) V
	pending map[K]*entry[V]
	seq     uint64
	stopped bool
}

// New returns a debouncer calling fire for each key after delay. A
// non-positive delay means DefaultDelay.
func New[K comparable, V any](delay time.Duration, fire func(K, V), opts ...Option[K, V]) *Debouncer[K, V] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	d := &Debouncer[K, V]{
		delay:   delay,
		fire:    fire,
		merge:   func(_, next V) V { return next },
		pending: make(map[K]*entry[V]),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Trigger schedules v for key, merging it with any pending value and
// restarting the key's timer. Triggers after Stop are dropped.
func (d *Debouncer[K, V]) Trigger(key K, v V) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	e, ok := d.pending[key]
	if ok {
		e.timer.Stop()
		e.value = d.merge(e.value, v)
		e.gen++
	} else {
		d.seq++
		e = &entry[V]{value: v, seq: d.seq}
		d.pending[key] = e
	}
	gen := e.gen
	e.timer = time.AfterFunc(d.delay, func() { d.expire(key, e, gen) })
}

func (d *Debouncer[K, V]) expire(key K, e *entry[V], gen uint64) {
	d.mu.Lock()
	if d.pending[key] != e || e.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	v := e.value
	d.mu.Unlock()
	d.fire(key, v)
}

// Flush fires every pending value immediately, in the order the keys were
// first triggered, and returns how many fired.
func (d *Debouncer[K, V]) Flush() int {
	d.mu.Lock()
	type item struct {
		key K
		e   *entry[V]
	}
	items := make([]item, 0, len(d.pending))
	for k, e := range d.pending {
		e.timer.Stop()
		items = append(items, item{k, e})
	}
	clear(d.pending)
	d.mu.Unlock()

	slices.SortFunc(items, func(a, b item) int { return int(a.e.seq) - int(b.e.seq) })
	for _, it := range items {
		d.fire(it.key, it.e.value)
	}
	return len(items)
}

// FlushKey fires the pending value for key immediately. It reports whether
// one was pending.
func (d *Debouncer[K, V]) FlushKey(key K) bool {
	d.mu.Lock()
	e, ok := d.pending[key]
	if ok {
		e.timer.Stop()
		delete(d.pending, key)
	}
	d.mu.Unlock()
	if ok {
		d.fire(key, e.value)
	}
	return ok
}

// Cancel drops the pending value for key without firing it.
func (d *Debouncer[K, V]) Cancel(key K) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.pending[key]
	if ok {
		e.timer.Stop()
		delete(d.pending, key)
	}
	return ok
}

// CancelWhere drops, without firing, every pending value whose key matches
// and returns how many were dropped.
func (d *Debouncer[K, V]) CancelWhere(match func(K) bool) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for k, e := range d.pending {
		if match(k) {
			e.timer.Stop()
			delete(d.pending, k)
			n++
		}
	}
	return n
}

// Pending returns the number of keys waiting to fire.
func (d *Debouncer[K, V]) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop drops every pending value and ignores later triggers.
func (d *Debouncer[K, V]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for _, e := range d.pending {
		e.timer.Stop()
	}
	clear(d.pending)
}
