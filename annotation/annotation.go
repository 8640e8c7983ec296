// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

// Package annotation defines the canonical types every annotation source
// normalizes into, and the merge step that reconciles sources into one
// ranked, deduplicated list. Offsets and lengths are in Unicode code
// points, not bytes.
package annotation

import (
	"unicode/utf8"

	"github.com/glotcheck/glotcheck/langid"
)

// Category classifies what kind of issue an annotation flags.
type Category string

const (
	CategoryGrammar     Category = "Grammar"
	CategorySpelling    Category = "Spelling"
	CategoryStyle       Category = "Style"
	CategoryPunctuation Category = "Punctuation"
	CategoryFormatting  Category = "Formatting"
)

// Source records annotation provenance, used for trust ordering and
// deduplication tie-breaks.
type Source string

const (
	SourceExternalService Source = "external-service"
	SourceGenerative      Source = "generative-suggestion"
)

// RuleEngineSource builds the provenance tag for a per-language rule
// engine, e.g. "rule-engine:ja".
func RuleEngineSource(lang string) Source {
	return Source("rule-engine:" + lang)
}

// Annotation is a single detected issue in a piece of text.
type Annotation struct {
	Offset       int      `json:"offset"`
	Length       int      `json:"length"`
	Message      string   `json:"message"`
	ShortMessage string   `json:"shortMessage"`
	Category     Category `json:"category"`
	Replacements []string `json:"replacements"`
	Source       Source   `json:"source"`

	// Confidence is set by suggestion validation; unvalidated candidates
	// carry none. HasConfidence distinguishes unset from zero.
	Confidence    float64 `json:"confidence,omitempty"`
	HasConfidence bool    `json:"-"`
}

// SpanKey is the duplicate identity of an annotation: two annotations
// with the same key describe the same span regardless of source.
type SpanKey struct {
	Offset int
	Length int
}

// Key returns the annotation's span identity.
func (a Annotation) Key() SpanKey {
	return SpanKey{Offset: a.Offset, Length: a.Length}
}

// WithinBounds reports whether the annotation fits inside text.
func (a Annotation) WithinBounds(text string) bool {
	return a.Offset >= 0 && a.Length >= 1 && a.Offset+a.Length <= utf8.RuneCountInString(text)
}

// SourceStats counts what one source contributed to a check.
type SourceStats struct {
	ElapsedMs int64 `json:"elapsedMs"`
	Count     int   `json:"count"`
}

// Performance is the per-check timing breakdown.
type Performance struct {
	ElapsedMs       int64                  `json:"elapsedMs"`
	SourceBreakdown map[string]SourceStats `json:"sourceBreakdown,omitempty"`
}

// CheckResult is the aggregated outcome of one check request. It is
// transient: constructed per request and optionally cached, never written
// to durable storage by this engine.
type CheckResult struct {
	Matches     []Annotation   `json:"matches"`
	Language    *langid.Result `json:"language,omitempty"`
	Performance Performance    `json:"performance"`
}
