// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

// Package rules holds bespoke per-language checkers. Each engine is a
// closed set of hand-authored pattern rules evaluated uniformly by a
// shared runner; rules do not share state and may fire on overlapping
// spans.
package rules

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/glotcheck/glotcheck/annotation"
)

// Match is a byte-offset span reported by a rule.
type Match struct {
	Start int
	End   int
}

// Rule is one tagged pattern detector. Either Pattern or Scan must be
// set; Scan covers detections Go's regexp (no backreferences) cannot
// express, like adjacent duplicate tokens.
type Rule struct {
	ID           string
	Category     annotation.Category
	Message      string
	ShortMessage string
	Pattern      *regexp.Regexp
	Scan         func(text string) []Match
	Replacements func(matched string) []string
}

// Engine runs a closed rule set for one language.
type Engine struct {
	lang  string
	rules []Rule
}

// NewEngine builds an engine for lang from an ordered rule list. Order
// matters: on span collision the earliest-inserted rule wins.
func NewEngine(lang string, rules []Rule) *Engine {
	return &Engine{lang: lang, rules: rules}
}

// Language returns the base language code this engine checks.
func (e *Engine) Language() string {
	return e.lang
}

// Check scans text with every rule and returns candidate annotations,
// one per unique span. It is synchronous, pure, and side-effect-free;
// empty or trivial input yields an empty list.
func (e *Engine) Check(text string) []annotation.Annotation {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	source := annotation.RuleEngineSource(e.lang)
	seen := make(map[annotation.SpanKey]bool)
	var results []annotation.Annotation

	for _, rule := range e.rules {
		for _, m := range e.matches(rule, text) {
			if m.Start < 0 || m.End > len(text) || m.Start >= m.End {
				continue
			}
			matched := text[m.Start:m.End]
			a := annotation.Annotation{
				Offset:       utf8.RuneCountInString(text[:m.Start]),
				Length:       utf8.RuneCountInString(matched),
				Message:      rule.Message,
				ShortMessage: rule.ShortMessage,
				Category:     rule.Category,
				Source:       source,
			}
			if rule.Replacements != nil {
				a.Replacements = rule.Replacements(matched)
			}
			if a.ShortMessage == "" {
				a.ShortMessage = a.Message
			}
			// Overlapping regex scans can fire twice on one span; the
			// earliest-inserted rule keeps it.
			key := a.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			results = append(results, a)
		}
	}

	return results
}

func (e *Engine) matches(rule Rule, text string) []Match {
	if rule.Scan != nil {
		return rule.Scan(text)
	}
	if rule.Pattern == nil {
		return nil
	}
	idx := rule.Pattern.FindAllStringIndex(text, -1)
	matches := make([]Match, 0, len(idx))
	for _, pair := range idx {
		matches = append(matches, Match{Start: pair[0], End: pair[1]})
	}
	return matches
}

// Registry maps base language codes to their dedicated engine.
type Registry struct {
	engines map[string]*Engine
}

// NewRegistry builds the registry with every bundled engine.
func NewRegistry() *Registry {
	engines := []*Engine{
		newEnglishEngine(),
		newJapaneseEngine(),
		newItalianEngine(),
		newChineseEngine(),
		newKoreanEngine(),
	}
	byLang := make(map[string]*Engine, len(engines))
	for _, e := range engines {
		byLang[e.lang] = e
	}
	return &Registry{engines: byLang}
}

// Engine returns the checker for a language code ("ja", "ja-JP"), or nil
// when the language has no dedicated engine.
func (r *Registry) Engine(lang string) *Engine {
	if e, ok := r.engines[lang]; ok {
		return e
	}
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		if e, ok := r.engines[strings.ToLower(lang[:i])]; ok {
			return e
		}
	}
	return r.engines[strings.ToLower(lang)]
}

// Languages lists the base codes that have a dedicated engine.
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.engines))
	for lang := range r.engines {
		langs = append(langs, lang)
	}
	return langs
}
