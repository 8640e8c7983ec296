// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glotcheck/glotcheck/annotation"
)

func TestChineseEngine(t *testing.T) {
	engine := NewRegistry().Engine("zh")
	require.NotNil(t, engine)

	t.Run("duplicate particle", func(t *testing.T) {
		matches := engine.Check("我的的书")
		require.Len(t, matches, 1)

		m := matches[0]
		require.Equal(t, 1, m.Offset)
		require.Equal(t, 2, m.Length)
		require.Equal(t, annotation.CategoryGrammar, m.Category)
		require.Equal(t, []string{"的"}, m.Replacements)
	})

	t.Run("measure word with person", func(t *testing.T) {
		matches := engine.Check("来了三只学生")
		require.Len(t, matches, 1)
		require.Equal(t, []string{"三个学生", "三位学生"}, matches[0].Replacements)
	})

	t.Run("measure word with animal", func(t *testing.T) {
		matches := engine.Check("我家有两个猫")
		require.Len(t, matches, 1)
		require.Equal(t, []string{"两只猫"}, matches[0].Replacements)
	})

	t.Run("clean text yields nothing", func(t *testing.T) {
		require.Empty(t, engine.Check("我家有两只猫。"))
	})
}
