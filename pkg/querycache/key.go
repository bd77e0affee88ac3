// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package querycache

import (
	"slices"
	"strings"
)

// keySeparator cannot appear in a canonical key segment.
const keySeparator = "\x1f"

// Key identifies a cache entry. Keys are hierarchical: ["posts","list",...]
// sits under ["posts","list"], which sits under ["posts"].
type Key []string

// NewKey builds a key from its segments.
func NewKey(segments ...string) Key {
	return Key(slices.Clone(segments))
}

// Append returns a new key with segments added below k.
func (k Key) Append(segments ...string) Key {
	return append(slices.Clone(k), segments...)
}

// HasPrefix reports whether k equals prefix or sits below it.
func (k Key) HasPrefix(prefix Key) bool {
	return len(prefix) <= len(k) && slices.Equal(k[:len(prefix)], prefix)
}

// String returns the map identity of k.
func (k Key) String() string {
	return strings.Join(k, keySeparator)
}
