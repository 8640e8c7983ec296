// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glotcheck/glotcheck/annotation"
)

func TestKoreanEngine(t *testing.T) {
	engine := NewRegistry().Engine("ko")
	require.NotNil(t, engine)

	t.Run("duplicate particle", func(t *testing.T) {
		matches := engine.Check("나는는 학생이다")
		require.Len(t, matches, 1)

		m := matches[0]
		require.Equal(t, 1, m.Offset)
		require.Equal(t, 2, m.Length)
		require.Equal(t, annotation.CategoryGrammar, m.Category)
		require.Equal(t, []string{"는"}, m.Replacements)
	})

	t.Run("object particle after open syllable", func(t *testing.T) {
		// 과 has no final consonant, so 을 should be 를.
		matches := engine.Check("사과을 먹었다")
		require.Len(t, matches, 1)
		require.Equal(t, 1, matches[0].Offset)
		require.Equal(t, 2, matches[0].Length)
		require.Equal(t, []string{"과를"}, matches[0].Replacements)
	})

	t.Run("subject particle after closed syllable", func(t *testing.T) {
		// 책 ends in a final consonant, so 가 should be 이.
		matches := engine.Check("책가 있다")
		require.Len(t, matches, 1)
		require.Equal(t, []string{"책이"}, matches[0].Replacements)
	})

	t.Run("agreeing particle is not flagged", func(t *testing.T) {
		require.Empty(t, engine.Check("사과를 먹었다"))
		require.Empty(t, engine.Check("책이 있다"))
	})
}
