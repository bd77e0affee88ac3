// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package querycache

// Tx is the view of the cache inside [Cache.Mutate]. It must not escape fn.
type Tx struct {
	cache *Cache
}

// Get returns the value under key.
func (tx *Tx) Get(key Key) (any, bool) {
	found, ok := tx.cache.entries[key.String()]
	if !ok {
		return nil, false
	}
	return found.value, true
}

// Set stores value under key, marks it fresh and keeps any known fetcher.
func (tx *Tx) Set(key Key, value any) {
	id := key.String()
	next := &entry{key: key, value: value, updatedAt: tx.cache.now()}
	if previous, ok := tx.cache.entries[id]; ok {
		next.fetcher = previous.fetcher
	}
	tx.cache.entries[id] = next
}

// Remove drops the entry under key.
func (tx *Tx) Remove(key Key) {
	delete(tx.cache.entries, key.String())
}

// Update replaces the value of every entry at or below prefix with the
// result of fn. Returning false leaves that entry untouched.
func (tx *Tx) Update(prefix Key, fn func(key Key, value any) (any, bool)) int {
	updated := 0
	for _, e := range tx.cache.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		next, ok := fn(e.key, e.value)
		if !ok {
			continue
		}
		e.value = next
		e.updatedAt = tx.cache.now()
		updated++
	}
	return updated
}

// Snapshot records the current state of the key regions under prefixes.
func (tx *Tx) Snapshot(prefixes ...Key) *Snapshot {
	snapshot := &Snapshot{regions: make([]Key, 0, len(prefixes)), entries: make(map[string]entry)}
	for _, prefix := range prefixes {
		snapshot.regions = append(snapshot.regions, prefix)
		for id, e := range tx.cache.entries {
			if e.key.HasPrefix(prefix) {
				snapshot.entries[id] = *e
			}
		}
	}
	return snapshot
}

// Restore puts every region of s back exactly as recorded. Entries that
// appeared in a region after the snapshot are removed.
func (tx *Tx) Restore(s *Snapshot) {
	for id, e := range tx.cache.entries {
		if _, recorded := s.entries[id]; recorded {
			continue
		}
		if s.covers(e.key) {
			delete(tx.cache.entries, id)
		}
	}
	for id, e := range s.entries {
		restored := e
		tx.cache.entries[id] = &restored
	}
}

// Snapshot is a plain copy of cache regions taken before a speculative patch.
type Snapshot struct {
	regions []Key
	entries map[string]entry
}

// Len returns how many entries the snapshot holds.
func (s *Snapshot) Len() int { return len(s.entries) }

func (s *Snapshot) covers(key Key) bool {
	for _, region := range s.regions {
		if key.HasPrefix(region) {
			return true
		}
	}
	return false
}

// Snapshot records the regions under prefixes.
func (c *Cache) Snapshot(prefixes ...Key) *Snapshot {
	var snapshot *Snapshot
	c.Mutate(func(tx *Tx) { snapshot = tx.Snapshot(prefixes...) })
	return snapshot
}

// Restore rolls the regions recorded in s back in one step.
func (c *Cache) Restore(s *Snapshot) {
	c.Mutate(func(tx *Tx) { tx.Restore(s) })
}
