// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

// Package checker orchestrates a text check: language identification,
// source selection across the generative, rule-engine and external
// grammar paths, merging, and result caching.
package checker

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/glotcheck/glotcheck/annotation"
	"github.com/glotcheck/glotcheck/langid"
	"github.com/glotcheck/glotcheck/languagetool"
	"github.com/glotcheck/glotcheck/logger"
	"github.com/glotcheck/glotcheck/metrics"
	"github.com/glotcheck/glotcheck/rules"
	"github.com/glotcheck/glotcheck/spancache"
)

// ErrAllSourcesExhausted is the only hard failure a check can surface:
// every annotation source was unavailable. Callers present it as a
// generic failure without leaking internal service identities.
var ErrAllSourcesExhausted = errors.New("all annotation sources exhausted")

// LanguageMismatchError reports text strongly characteristic of a
// language other than the one the caller selected.
type LanguageMismatchError struct {
	Requested  string
	Detected   string
	Confidence float64
}

func (e *LanguageMismatchError) Error() string {
	return fmt.Sprintf("text appears to be %q but %q was requested (confidence %.2f)",
		e.Detected, e.Requested, e.Confidence)
}

// state names the orchestrator's position in a check. Error is terminal
// and reachable from anywhere.
type state string

const (
	stateIdle      state = "idle"
	stateDetecting state = "detecting"
	stateSourcing  state = "sourcing"
	stateMerging   state = "merging"
	stateDone      state = "done"
	stateError     state = "error"
)

// GrammarService is the external general-purpose checker.
type GrammarService interface {
	Check(ctx context.Context, text, lang string) (*languagetool.CheckResponse, error)
}

// SuggestionSource proposes unvalidated generative corrections.
type SuggestionSource interface {
	Suggest(ctx context.Context, text string) ([]annotation.Annotation, error)
}

// SuggestionValidator confirms generative candidates against an
// independent authority; unconfirmed candidates are dropped silently.
type SuggestionValidator interface {
	Validate(ctx context.Context, text, lang string, candidates []annotation.Annotation) []annotation.Annotation
}

// Options tune orchestration policy.
type Options struct {
	DefaultLanguage string

	// MismatchConfidence gates the language-mismatch rejection.
	MismatchConfidence float64

	// GenerativeLanguages are the base codes the generative path runs
	// for.
	GenerativeLanguages []string
}

// Checker is the engine entry point.
type Checker struct {
	identifier *langid.Identifier
	registry   *rules.Registry
	grammar    GrammarService
	generator  SuggestionSource
	validator  SuggestionValidator
	cache      *spancache.Cache[annotation.CheckResult]
	metrics    metrics.Metrics
	log        logger.Logger

	opts            Options
	generativeLangs map[string]bool
}

// New wires a Checker. generator and validator may be nil to disable the
// generative path; cache may be nil to disable result caching.
func New(
	identifier *langid.Identifier,
	registry *rules.Registry,
	grammar GrammarService,
	generator SuggestionSource,
	validator SuggestionValidator,
	cache *spancache.Cache[annotation.CheckResult],
	m metrics.Metrics,
	log logger.Logger,
	opts Options,
) *Checker {
	genLangs := make(map[string]bool, len(opts.GenerativeLanguages))
	for _, lang := range opts.GenerativeLanguages {
		genLangs[langid.Base(lang)] = true
	}
	return &Checker{
		identifier:      identifier,
		registry:        registry,
		grammar:         grammar,
		generator:       generator,
		validator:       validator,
		cache:           cache,
		metrics:         m,
		log:             log,
		opts:            opts,
		generativeLangs: genLangs,
	}
}

// Check runs the full pipeline for text in the requested language
// ("auto" to detect). The only hard failures are LanguageMismatchError
// and ErrAllSourcesExhausted; every other source failure is recovered by
// falling back to the remaining sources.
func (c *Checker) Check(ctx context.Context, text, requestedLang string) (*annotation.CheckResult, error) {
	start := time.Now()
	current := stateIdle

	if requestedLang == "" {
		requestedLang = "auto"
	}

	// Dialect spellings of one request ("en", "en-US") share a cache
	// entry.
	cacheLang := requestedLang
	if cacheLang != "auto" {
		cacheLang = langid.Base(cacheLang)
	}
	cacheKey := spancache.Key(cacheLang, text)
	if c.cache != nil {
		if cached, ok := c.cache.Get(cacheKey); ok {
			c.metrics.IncrementCacheHits()
			return &cached, nil
		}
		c.metrics.IncrementCacheMisses()
	}

	current = stateDetecting
	detected := c.identifier.Identify(ctx, text)

	if mismatch := c.checkMismatch(requestedLang, detected); mismatch != nil {
		current = stateError
		c.log.Debug("language mismatch", "state", current, "requested", requestedLang,
			"detected", detected.Language, "confidence", detected.Confidence)
		return nil, mismatch
	}

	resolved := requestedLang
	if resolved == "auto" {
		resolved = detected.Language
	}
	if resolved == "" {
		resolved = c.opts.DefaultLanguage
	}

	current = stateSourcing
	breakdown := make(map[string]annotation.SourceStats)

	primary := c.generativePrimary(ctx, text, resolved, breakdown)
	secondary, sourcesOK := c.secondary(ctx, text, resolved, breakdown)

	if !sourcesOK && len(primary) == 0 {
		current = stateError
		c.log.Warn("check failed, no annotation source available", "state", current, "language", resolved)
		return nil, ErrAllSourcesExhausted
	}

	current = stateMerging
	merged := annotation.Merge(text, primary, secondary)
	if merged == nil {
		merged = []annotation.Annotation{}
	}

	current = stateDone
	result := annotation.CheckResult{
		Matches:  merged,
		Language: &detected,
		Performance: annotation.Performance{
			ElapsedMs:       time.Since(start).Milliseconds(),
			SourceBreakdown: breakdown,
		},
	}

	if c.cache != nil {
		c.cache.Set(cacheKey, result)
	}
	c.metrics.ObserveCheckDuration(langid.Base(resolved), time.Since(start).Seconds())
	c.log.Debug("check complete", "state", current, "language", resolved,
		"matches", len(merged), "elapsed_ms", result.Performance.ElapsedMs)

	return &result, nil
}

// checkMismatch implements confidence-gated language-mismatch detection.
// Languages are compared by base tag, so two dialects of one language
// ("en-GB" vs a detected "en-US") never mismatch each other.
func (c *Checker) checkMismatch(requestedLang string, detected langid.Result) error {
	if requestedLang == "auto" {
		return nil
	}
	reqBase := langid.Base(requestedLang)
	detBase := langid.Base(detected.Language)
	if detBase == "" || reqBase == detBase {
		return nil
	}
	if detected.Confidence <= c.opts.MismatchConfidence {
		return nil
	}
	return &LanguageMismatchError{
		Requested:  requestedLang,
		Detected:   detected.Language,
		Confidence: detected.Confidence,
	}
}

// generativePrimary runs the generative path when configured for the
// resolved language. Any failure, in generation or validation, is
// treated as "no generative result", never fatal.
func (c *Checker) generativePrimary(ctx context.Context, text, lang string, breakdown map[string]annotation.SourceStats) []annotation.Annotation {
	if c.generator == nil || c.validator == nil || !c.generativeLangs[langid.Base(lang)] {
		return nil
	}

	sourceStart := time.Now()
	candidates, err := c.generator.Suggest(ctx, text)
	if err != nil {
		c.metrics.IncrementSourceFailures(string(annotation.SourceGenerative))
		c.log.Debug("generative suggestion failed, continuing without it", "error", err)
		return nil
	}

	validated := c.validator.Validate(ctx, text, lang, candidates)
	source := string(annotation.SourceGenerative)
	breakdown[source] = annotation.SourceStats{
		ElapsedMs: time.Since(sourceStart).Milliseconds(),
		Count:     len(validated),
	}
	c.metrics.AddSourceAnnotations(source, len(validated))
	return validated
}

// secondary gathers the rule-engine and external-service annotations.
// The external service is consulted when the language has no dedicated
// engine or the engine found nothing. sourcesOK reports whether at least
// one source was available, regardless of how much it found.
func (c *Checker) secondary(ctx context.Context, text, lang string, breakdown map[string]annotation.SourceStats) (result []annotation.Annotation, sourcesOK bool) {
	var ruleMatches []annotation.Annotation
	engine := c.registry.Engine(lang)
	if engine != nil {
		sourceStart := time.Now()
		ruleMatches = engine.Check(text)
		source := string(annotation.RuleEngineSource(engine.Language()))
		breakdown[source] = annotation.SourceStats{
			ElapsedMs: time.Since(sourceStart).Milliseconds(),
			Count:     len(ruleMatches),
		}
		c.metrics.AddSourceAnnotations(source, len(ruleMatches))
		sourcesOK = true
	}

	if engine != nil && len(ruleMatches) > 0 {
		return ruleMatches, true
	}

	sourceStart := time.Now()
	resp, err := c.grammar.Check(ctx, text, lang)
	if err != nil {
		c.metrics.IncrementSourceFailures(string(annotation.SourceExternalService))
		// Non-fatal when a rule engine was available for the language.
		c.log.Debug("external grammar service failed", "error", err)
		return ruleMatches, sourcesOK
	}

	source := string(annotation.SourceExternalService)
	breakdown[source] = annotation.SourceStats{
		ElapsedMs: time.Since(sourceStart).Milliseconds(),
		Count:     len(resp.Matches),
	}
	c.metrics.AddSourceAnnotations(source, len(resp.Matches))

	return annotation.Merge(text, ruleMatches, resp.Matches), true
}
