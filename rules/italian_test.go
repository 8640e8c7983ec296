// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glotcheck/glotcheck/annotation"
)

func TestItalianEngine(t *testing.T) {
	engine := NewRegistry().Engine("it")
	require.NotNil(t, engine)

	t.Run("invalid verb form", func(t *testing.T) {
		matches := engine.Check("Lui vano al parco")
		require.Len(t, matches, 1)

		m := matches[0]
		require.Equal(t, 4, m.Offset)
		require.Equal(t, 4, m.Length)
		require.Equal(t, annotation.CategoryGrammar, m.Category)
		require.Equal(t, []string{"va", "vanno"}, m.Replacements)
	})

	t.Run("accented invalid forms", func(t *testing.T) {
		matches := engine.Check("Io stò bene")
		require.Len(t, matches, 1)
		require.Equal(t, []string{"sto"}, matches[0].Replacements)
	})

	t.Run("article before s impura", func(t *testing.T) {
		matches := engine.Check("Ho visto il studente")
		require.Len(t, matches, 1)
		require.Equal(t, []string{"lo studente"}, matches[0].Replacements)
	})

	t.Run("capitalized article keeps casing", func(t *testing.T) {
		matches := engine.Check("Il zaino pesa molto")
		require.Len(t, matches, 1)
		require.Equal(t, []string{"Lo zaino"}, matches[0].Replacements)
	})

	t.Run("valid sentence yields nothing", func(t *testing.T) {
		require.Empty(t, engine.Check("Lui va al parco"))
	})
}
