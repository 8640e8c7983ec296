// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package spancache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	t.Run("stable for identical input", func(t *testing.T) {
		require.Equal(t, Key("en", "some text"), Key("en", "some text"))
	})

	t.Run("distinct per language and text", func(t *testing.T) {
		keys := map[string]bool{
			Key("en", "some text"):  true,
			Key("it", "some text"):  true,
			Key("en", "other text"): true,
		}
		require.Len(t, keys, 3)
	})

	t.Run("separator prevents boundary collisions", func(t *testing.T) {
		require.NotEqual(t, Key("en", "x"), Key("e", "nx"))
	})
}

func TestCache(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		cache := New[string](8, time.Minute)
		key := Key("en", "hello")

		_, ok := cache.Get(key)
		require.False(t, ok)

		cache.Set(key, "value")
		got, ok := cache.Get(key)
		require.True(t, ok)
		require.Equal(t, "value", got)
		require.Equal(t, 1, cache.Len())
	})

	t.Run("entries expire after the ttl", func(t *testing.T) {
		cache := New[int](8, 30*time.Millisecond)
		cache.Set("k", 42)

		_, ok := cache.Get("k")
		require.True(t, ok)

		require.Eventually(t, func() bool {
			_, ok := cache.Get("k")
			return !ok
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("size cap evicts the least recently used", func(t *testing.T) {
		cache := New[int](2, time.Minute)
		cache.Set("a", 1)
		cache.Set("b", 2)
		cache.Set("c", 3)

		require.Equal(t, 2, cache.Len())
		_, ok := cache.Get("a")
		require.False(t, ok)
		_, ok = cache.Get("c")
		require.True(t, ok)
	})

	t.Run("age tracks entry creation", func(t *testing.T) {
		cache := New[int](8, time.Minute)
		cache.Set("k", 1)

		age, ok := cache.Age("k")
		require.True(t, ok)
		require.GreaterOrEqual(t, age, time.Duration(0))
		require.Less(t, age, time.Minute)

		_, ok = cache.Age("missing")
		require.False(t, ok)
	})

	t.Run("purge drops everything", func(t *testing.T) {
		cache := New[int](8, time.Minute)
		cache.Set("a", 1)
		cache.Set("b", 2)
		cache.Purge()
		require.Zero(t, cache.Len())
	})
}
