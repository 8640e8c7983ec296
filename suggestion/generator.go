// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package suggestion

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/glotcheck/glotcheck/annotation"
	"github.com/glotcheck/glotcheck/logger"
)

const systemPrompt = `You are a grammar and spelling checker. Examine the text for errors.
For every error output exactly one line in the format:
original | correction | explanation
Use the exact substring from the text as "original". Output nothing else.
If the text has no errors, output nothing.`

// Generator proposes corrections from a generative-text service. Output
// is unvalidated: confidence is unset and every candidate must pass the
// Validator before it can be merged.
type Generator struct {
	model     LanguageModel
	maxTokens int
	log       logger.Logger
}

// NewGenerator creates a Generator over the given model.
func NewGenerator(model LanguageModel, maxTokens int, log logger.Logger) *Generator {
	return &Generator{model: model, maxTokens: maxTokens, log: log}
}

// Suggest asks the model for corrections and parses them into candidate
// annotations. Malformed lines are discarded, never fatal.
func (g *Generator) Suggest(ctx context.Context, text string) ([]annotation.Annotation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	output, err := g.model.Complete(ctx, CompletionRequest{
		System:    systemPrompt,
		Prompt:    text,
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return nil, errors.Wrap(err, "suggestion completion failed")
	}

	return g.parse(text, output), nil
}

// claimedSpan is a byte range already assigned to an earlier triple.
type claimedSpan struct {
	start int
	end   int
}

// parse applies the strict line grammar "original | correction |
// explanation". Each original is located by forward scan, skipping
// offsets claimed by earlier triples so two suggestions never claim the
// same occurrence of a repeated phrase.
func (g *Generator) parse(text, output string) []annotation.Annotation {
	var results []annotation.Annotation
	var claimed []claimedSpan

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			g.log.Debug("discarding malformed suggestion line", "line", line)
			continue
		}

		original := strings.TrimSpace(parts[0])
		correction := strings.TrimSpace(parts[1])
		explanation := strings.TrimSpace(parts[2])
		if original == "" || correction == "" {
			continue
		}
		// No-op suggestions carry no information.
		if original == correction {
			continue
		}

		start, ok := findUnclaimed(text, original, claimed)
		if !ok {
			g.log.Debug("suggestion target not found in text", "original", original)
			continue
		}
		end := start + len(original)
		claimed = append(claimed, claimedSpan{start: start, end: end})

		results = append(results, annotation.Annotation{
			Offset:       utf8.RuneCountInString(text[:start]),
			Length:       utf8.RuneCountInString(original),
			Message:      explanation,
			ShortMessage: explanation,
			Category:     categorize(explanation),
			Replacements: []string{correction},
			Source:       annotation.SourceGenerative,
		})
	}

	return results
}

// findUnclaimed returns the byte offset of the first occurrence of sub
// that does not overlap a claimed span.
func findUnclaimed(text, sub string, claimed []claimedSpan) (int, bool) {
	from := 0
	for from <= len(text)-len(sub) {
		idx := strings.Index(text[from:], sub)
		if idx < 0 {
			return 0, false
		}
		start := from + idx
		end := start + len(sub)
		if !overlapsClaimed(start, end, claimed) {
			return start, true
		}
		from = start + 1
	}
	return 0, false
}

func overlapsClaimed(start, end int, claimed []claimedSpan) bool {
	for _, c := range claimed {
		if start < c.end && end > c.start {
			return true
		}
	}
	return false
}

// categorize guesses a category from the explanation wording; grammar is
// the safe default.
func categorize(explanation string) annotation.Category {
	lower := strings.ToLower(explanation)
	switch {
	case strings.Contains(lower, "spell"), strings.Contains(lower, "typo"):
		return annotation.CategorySpelling
	case strings.Contains(lower, "punctuat"), strings.Contains(lower, "comma"), strings.Contains(lower, "period"):
		return annotation.CategoryPunctuation
	case strings.Contains(lower, "style"), strings.Contains(lower, "wordy"), strings.Contains(lower, "redundan"):
		return annotation.CategoryStyle
	default:
		return annotation.CategoryGrammar
	}
}
