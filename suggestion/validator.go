// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package suggestion

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/glotcheck/glotcheck/annotation"
	"github.com/glotcheck/glotcheck/logger"
)

const defaultValidationConcurrency = 4

// GrammarChecker is the independent authority candidates are re-checked
// against.
type GrammarChecker interface {
	CheckText(ctx context.Context, text, lang string) ([]annotation.Annotation, error)
}

// Validator confirms generative candidates before they may be merged.
// Generative output is not guaranteed to be grammatically grounded, so
// this step is mandatory, not optional.
type Validator struct {
	checker     GrammarChecker
	concurrency int
	log         logger.Logger
}

// NewValidator creates a Validator.
func NewValidator(checker GrammarChecker, log logger.Logger) *Validator {
	return &Validator{
		checker:     checker,
		concurrency: defaultValidationConcurrency,
		log:         log,
	}
}

// Validate re-checks each candidate by applying its correction and
// submitting the corrected text to the authority. A candidate is kept
// only when the correction resolves the flagged span, i.e. the corrected
// region draws no annotation. Candidates are validated concurrently;
// per-candidate failures drop that candidate silently without aborting
// siblings.
func (v *Validator) Validate(ctx context.Context, text, lang string, candidates []annotation.Annotation) []annotation.Annotation {
	if len(candidates) == 0 {
		return nil
	}

	confirmed := make([]bool, len(candidates))

	var g errgroup.Group
	g.SetLimit(v.concurrency)
	for i, candidate := range candidates {
		g.Go(func() error {
			ok, err := v.validateOne(ctx, text, lang, candidate)
			if err != nil {
				v.log.Debug("suggestion validation failed, dropping candidate",
					"offset", candidate.Offset, "error", err)
				return nil
			}
			confirmed[i] = ok
			return nil
		})
	}
	_ = g.Wait()

	var kept []annotation.Annotation
	for i, candidate := range candidates {
		if !confirmed[i] {
			continue
		}
		candidate.Confidence = 1
		candidate.HasConfidence = true
		kept = append(kept, candidate)
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Offset < kept[j].Offset })
	return kept
}

func (v *Validator) validateOne(ctx context.Context, text, lang string, candidate annotation.Annotation) (bool, error) {
	if len(candidate.Replacements) == 0 || !candidate.WithinBounds(text) {
		return false, nil
	}

	corrected, correctedLen := applyCorrection(text, candidate)
	matches, err := v.checker.CheckText(ctx, corrected, lang)
	if err != nil {
		return false, err
	}

	// Any annotation still touching the corrected region means the
	// correction did not resolve the issue.
	for _, m := range matches {
		if m.Offset < candidate.Offset+correctedLen && m.Offset+m.Length > candidate.Offset {
			return false, nil
		}
	}
	return true, nil
}

// applyCorrection substitutes the candidate's top replacement into text
// and returns the corrected string plus the replacement's rune length.
func applyCorrection(text string, candidate annotation.Annotation) (string, int) {
	runes := []rune(text)
	replacement := []rune(candidate.Replacements[0])
	out := make([]rune, 0, len(runes)-candidate.Length+len(replacement))
	out = append(out, runes[:candidate.Offset]...)
	out = append(out, replacement...)
	out = append(out, runes[candidate.Offset+candidate.Length:]...)
	return string(out), len(replacement)
}
