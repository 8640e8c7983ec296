// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glotcheck/glotcheck/annotation"
)

func TestEnglishEngine(t *testing.T) {
	engine := NewRegistry().Engine("en")
	require.NotNil(t, engine)

	t.Run("duplicate word", func(t *testing.T) {
		matches := engine.Check("I saw the the cat.")
		require.Len(t, matches, 1)

		m := matches[0]
		require.Equal(t, 6, m.Offset)
		require.Equal(t, 7, m.Length)
		require.Equal(t, annotation.CategoryGrammar, m.Category)
		require.Equal(t, []string{"the"}, m.Replacements)
	})

	t.Run("duplicate word ignores case", func(t *testing.T) {
		matches := engine.Check("The the cat sat.")
		require.Len(t, matches, 1)
		require.Equal(t, []string{"The"}, matches[0].Replacements)
	})

	t.Run("intervening punctuation is not a duplicate", func(t *testing.T) {
		require.Empty(t, engine.Check("He said that, that day."))
	})

	t.Run("a before vowel", func(t *testing.T) {
		matches := engine.Check("She ate a apple.")
		require.Len(t, matches, 1)
		require.Equal(t, 8, matches[0].Offset)
		require.Equal(t, []string{"an apple"}, matches[0].Replacements)
	})

	t.Run("an before consonant", func(t *testing.T) {
		matches := engine.Check("He has an dog.")
		require.Len(t, matches, 1)
		require.Equal(t, []string{"a dog"}, matches[0].Replacements)
	})

	t.Run("double space", func(t *testing.T) {
		matches := engine.Check("Hello  world.")
		require.Len(t, matches, 1)
		require.Equal(t, 5, matches[0].Offset)
		require.Equal(t, 2, matches[0].Length)
		require.Equal(t, annotation.CategoryFormatting, matches[0].Category)
		require.Equal(t, []string{" "}, matches[0].Replacements)
	})

	t.Run("missing terminal punctuation", func(t *testing.T) {
		text := "This sentence trails off without an ending"
		matches := engine.Check(text)
		require.Len(t, matches, 1)

		m := matches[0]
		require.Equal(t, annotation.CategoryPunctuation, m.Category)
		require.Equal(t, len([]rune(text))-1, m.Offset)
		require.Equal(t, 1, m.Length)
		require.Equal(t, []string{"g."}, m.Replacements)
	})

	t.Run("short text is not flagged for punctuation", func(t *testing.T) {
		require.Empty(t, engine.Check("No ending here"))
	})

	t.Run("clean sentence yields nothing", func(t *testing.T) {
		require.Empty(t, engine.Check("The quick brown fox jumps over the lazy dog."))
	})
}
