// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

// Package spancache is a keyed, TTL-expiring store of previously computed
// check results. It exists to avoid repeat network calls for identical
// (language, text) pairs.
package spancache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultTTL and DefaultMaxEntries apply when a zero config is given.
const (
	DefaultTTL        = 5 * time.Minute
	DefaultMaxEntries = 1024
)

type entry[V any] struct {
	value     V
	createdAt time.Time
}

// Cache is a concurrency-safe store with TTL expiry (background sweep
// owned by the underlying LRU) and max-entry LRU eviction. Entries are
// exclusively owned by the cache once stored.
type Cache[V any] struct {
	lru *expirable.LRU[string, entry[V]]
}

// New creates a Cache holding at most maxEntries values, each expiring
// ttl after insertion.
func New[V any](maxEntries int, ttl time.Duration) *Cache[V] {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[V]{
		lru: expirable.NewLRU[string, entry[V]](maxEntries, nil, ttl),
	}
}

// Key derives the cache key for a (normalized language, text) pair.
func Key(language, text string) string {
	sum := sha256.Sum256([]byte(language + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached value for key, if present and unexpired.
func (c *Cache[V]) Get(key string) (V, bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, evicting the least recently used entry if
// the cache is full.
func (c *Cache[V]) Set(key string, value V) {
	c.lru.Add(key, entry[V]{value: value, createdAt: time.Now()})
}

// Age returns how long ago the entry for key was created.
func (c *Cache[V]) Age(key string) (time.Duration, bool) {
	e, ok := c.lru.Peek(key)
	if !ok {
		return 0, false
	}
	return time.Since(e.createdAt), true
}

// Len returns the number of live entries.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

// Purge drops every entry.
func (c *Cache[V]) Purge() {
	c.lru.Purge()
}
