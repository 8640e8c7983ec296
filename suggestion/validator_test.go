// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package suggestion

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glotcheck/glotcheck/annotation"
	"github.com/glotcheck/glotcheck/logger"
)

type fakeChecker struct {
	mu      sync.Mutex
	checked []string

	// respond maps a submitted text to returned matches; failWith makes a
	// specific text error out.
	respond  map[string][]annotation.Annotation
	failWith string
}

func (c *fakeChecker) CheckText(_ context.Context, text, _ string) ([]annotation.Annotation, error) {
	c.mu.Lock()
	c.checked = append(c.checked, text)
	c.mu.Unlock()

	if c.failWith != "" && text == c.failWith {
		return nil, errors.New("service unavailable")
	}
	return c.respond[text], nil
}

func candidate(offset, length int, replacement string) annotation.Annotation {
	return annotation.Annotation{
		Offset:       offset,
		Length:       length,
		Message:      "suggested",
		Category:     annotation.CategoryGrammar,
		Replacements: []string{replacement},
		Source:       annotation.SourceGenerative,
	}
}

func TestValidate(t *testing.T) {
	text := "Yesterday I have seen him"

	t.Run("confirms a correction the authority accepts", func(t *testing.T) {
		checker := &fakeChecker{}
		v := NewValidator(checker, logger.NewNop())

		kept := v.Validate(context.Background(), text, "en", []annotation.Annotation{
			candidate(12, 4, "had"),
		})
		require.Len(t, kept, 1)
		require.True(t, kept[0].HasConfidence)
		require.Equal(t, float64(1), kept[0].Confidence)

		require.Len(t, checker.checked, 1)
		require.Equal(t, "Yesterday I had seen him", checker.checked[0])
	})

	t.Run("drops a correction the authority still flags", func(t *testing.T) {
		corrected := "Yesterday I haved seen him"
		checker := &fakeChecker{respond: map[string][]annotation.Annotation{
			corrected: {{Offset: 12, Length: 5, Message: "still wrong"}},
		}}
		v := NewValidator(checker, logger.NewNop())

		kept := v.Validate(context.Background(), text, "en", []annotation.Annotation{
			candidate(12, 4, "haved"),
		})
		require.Empty(t, kept)
	})

	t.Run("annotation elsewhere does not block the candidate", func(t *testing.T) {
		corrected := "Yesterday I had seen him"
		checker := &fakeChecker{respond: map[string][]annotation.Annotation{
			corrected: {{Offset: 0, Length: 9, Message: "unrelated"}},
		}}
		v := NewValidator(checker, logger.NewNop())

		kept := v.Validate(context.Background(), text, "en", []annotation.Annotation{
			candidate(12, 4, "had"),
		})
		require.Len(t, kept, 1)
	})

	t.Run("per-candidate failure spares the siblings", func(t *testing.T) {
		checker := &fakeChecker{failWith: "Yesterday I has seen him"}
		v := NewValidator(checker, logger.NewNop())

		kept := v.Validate(context.Background(), text, "en", []annotation.Annotation{
			candidate(12, 4, "has"),
			candidate(12, 4, "had"),
		})
		require.Len(t, kept, 1)
		require.Equal(t, []string{"had"}, kept[0].Replacements)
	})

	t.Run("out of bounds and empty replacements are dropped", func(t *testing.T) {
		checker := &fakeChecker{}
		v := NewValidator(checker, logger.NewNop())

		out := candidate(1000, 4, "had")
		empty := candidate(12, 4, "had")
		empty.Replacements = nil

		kept := v.Validate(context.Background(), text, "en", []annotation.Annotation{out, empty})
		require.Empty(t, kept)
		require.Empty(t, checker.checked)
	})

	t.Run("kept candidates are sorted by offset", func(t *testing.T) {
		text := "teh cat and teh dog"
		checker := &fakeChecker{}
		v := NewValidator(checker, logger.NewNop())

		kept := v.Validate(context.Background(), text, "en", []annotation.Annotation{
			candidate(12, 3, "the"),
			candidate(0, 3, "the"),
		})
		require.Len(t, kept, 2)
		require.True(t, kept[0].Offset < kept[1].Offset)
		for _, k := range kept {
			require.True(t, strings.HasPrefix(k.Replacements[0], "the"))
		}
	})
}
