// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package querycache is a small client-side query cache.

It keeps the results of read queries under hierarchical [Key]s and lets a
caller patch several entries at once, take a snapshot of a key region and
restore it verbatim later. It is the storage half of an optimistic update:
patch, then either invalidate (success) or restore (failure).

Rules:

  - Values are copy-on-write. A stored value is never mutated in place; a
    patch replaces it with a new value. Snapshots therefore hold plain references.
  - Every write, including a multi-entry [Cache.Mutate], happens under one lock,
    so a reader sees either none or all of a patch.
  - A fetch that was cancelled (by [Cache.Cancel], a newer fetch of the same key,
    or [Cache.Close]) never writes its result.
*/
package querycache

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrCancelled is returned by a fetch whose result was discarded.
var ErrCancelled = errors.New("querycache: fetch cancelled")

// ErrClosed is returned once the cache has been closed.
var ErrClosed = errors.New("querycache: cache closed")

// Fetcher loads the authoritative value of one key.
type Fetcher func(context context.Context) (any, error)

// Entry is a read-only view of one cached value.
type Entry struct {
	Key       Key
	Value     any
	Stale     bool
	UpdatedAt time.Time
}

type entry struct {
	key       Key
	value     any
	stale     bool
	updatedAt time.Time

	// fetcher reloads the entry on RefetchStale; nil for entries written directly.
	fetcher Fetcher
}

type inflight struct {
	id     uint64
	key    Key
	cancel context.CancelFunc
}

// Cache holds query results for one client session.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	inflight map[string]*inflight
	nextID   uint64

	root   context.Context
	close  context.CancelFunc
	closed bool

	now func() time.Time
}

// Option configures a [Cache].
type Option func(*Cache)

// WithClock replaces the time source used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New returns an empty cache.
func New(opts ...Option) *Cache {
	root, cancel := context.WithCancel(context.Background())
	cache := &Cache{
		entries:  make(map[string]*entry),
		inflight: make(map[string]*inflight),
		root:     root,
		close:    cancel,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

// Close cancels every in-flight fetch. Later fetches fail with [ErrClosed].
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.close()
	for id, flight := range c.inflight {
		flight.cancel()
		delete(c.inflight, id)
	}
}

// # Reads

// Get returns the value stored under key.
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	found, ok := c.entries[key.String()]
	if !ok {
		return nil, false
	}
	return found.value, true
}

// Lookup returns the full entry stored under key.
func (c *Cache) Lookup(key Key) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	found, ok := c.entries[key.String()]
	if !ok {
		return Entry{}, false
	}
	return found.view(), true
}

// Entries returns every entry at or below prefix.
func (c *Cache) Entries(prefix Key) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Entry
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			out = append(out, e.view())
		}
	}
	return out
}

// IsFetching reports whether a fetch for key is in flight.
func (c *Cache) IsFetching(key Key) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.inflight[key.String()]
	return ok
}

// # Writes

// Set stores value under key and marks it fresh.
func (c *Cache) Set(key Key, value any) {
	c.Mutate(func(tx *Tx) { tx.Set(key, value) })
}

// Remove drops the entry under key.
func (c *Cache) Remove(key Key) {
	c.Mutate(func(tx *Tx) { tx.Remove(key) })
}

// Mutate runs fn with exclusive access to the cache. Everything fn writes
// becomes visible to readers at once, when fn returns.
func (c *Cache) Mutate(fn func(tx *Tx)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&Tx{cache: c})
}

// Invalidate marks every entry at or below prefix as stale. The next
// [Cache.Query] of a stale key fetches again.
func (c *Cache) Invalidate(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	marked := 0
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			e.stale = true
			marked++
		}
	}
	return marked
}

// Cancel aborts every in-flight fetch at or below prefix. Their results are discarded.
func (c *Cache) Cancel(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cancelled := 0
	for id, flight := range c.inflight {
		if flight.key.HasPrefix(prefix) {
			flight.cancel()
			delete(c.inflight, id)
			cancelled++
		}
	}
	return cancelled
}

// # Fetching

// Query returns the cached value for key when it is fresh, otherwise it
// fetches, stores and returns the authoritative value.
func (c *Cache) Query(context context.Context, key Key, fetch Fetcher) (any, error) {
	c.mu.RLock()
	found, ok := c.entries[key.String()]
	if ok && !found.stale {
		value := found.value
		c.mu.RUnlock()
		return value, nil
	}
	c.mu.RUnlock()

	return c.Fetch(context, key, fetch)
}

// Fetch always calls fetch and stores the result unless the fetch was
// cancelled meanwhile. A newer fetch of the same key cancels this one.
func (c *Cache) Fetch(context context.Context, key Key, fetch Fetcher) (any, error) {
	fetchCtx, flight, err := c.begin(context, key)
	if err != nil {
		return nil, err
	}
	defer flight.cancel()

	value, fetchErr := fetch(fetchCtx)

	c.mu.Lock()
	defer c.mu.Unlock()

	id := key.String()
	current, ok := c.inflight[id]
	if !ok || current.id != flight.id {
		return nil, ErrCancelled
	}
	delete(c.inflight, id)

	if fetchErr != nil {
		return nil, fetchErr
	}

	c.entries[id] = &entry{key: key, value: value, updatedAt: c.now(), fetcher: fetch}
	return value, nil
}

// RefetchStale reloads every stale entry at or below prefix that was
// populated by a fetch. Entries written directly stay stale.
func (c *Cache) RefetchStale(context context.Context, prefix Key) error {
	type job struct {
		key   Key
		fetch Fetcher
	}

	c.mu.RLock()
	var jobs []job
	for _, e := range c.entries {
		if e.stale && e.fetcher != nil && e.key.HasPrefix(prefix) {
			jobs = append(jobs, job{key: e.key, fetch: e.fetcher})
		}
	}
	c.mu.RUnlock()

	group, groupCtx := errgroup.WithContext(context)
	for _, j := range jobs {
		group.Go(func() error {
			_, err := c.Fetch(groupCtx, j.key, j.fetch)
			if errors.Is(err, ErrCancelled) {
				return nil
			}
			return err
		})
	}
	return group.Wait()
}

func (c *Cache) begin(parent context.Context, key Key) (context.Context, *inflight, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, nil, ErrClosed
	}

	fetchCtx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(c.root, cancel)

	c.nextID++
	flight := &inflight{
		id:  c.nextID,
		key: key,
		cancel: func() {
			stop()
			cancel()
		},
	}

	id := key.String()
	if previous, ok := c.inflight[id]; ok {
		previous.cancel()
	}
	c.inflight[id] = flight

	return fetchCtx, flight, nil
}

func (e *entry) view() Entry {
	return Entry{Key: e.key, Value: e.value, Stale: e.stale, UpdatedAt: e.updatedAt}
}

// # Typed helpers

// Get returns the value under key when it holds a T.
func Get[T any](c *Cache, key Key) (T, bool) {
	value, ok := c.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := value.(T)
	return typed, ok
}

// Query is [Cache.Query] for a typed fetcher.
func Query[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error)) (T, error) {
	value, err := c.Query(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return value.(T), nil
}
