// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

// Package langid resolves the language of input text through a layered
// strategy: Unicode script heuristics, a statistical trigram classifier,
// and a remote detection service as last resort.
package langid

import (
	"context"
	"time"
	"unicode"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"

	"github.com/glotcheck/glotcheck/logger"
)

// DetectionSource identifies which strategy produced a detection result.
type DetectionSource string

const (
	SourceUnicodePattern DetectionSource = "unicode-pattern"
	SourceStatistical    DetectionSource = "statistical"
	SourceRemote         DetectionSource = "external-service"
	SourceDefault        DetectionSource = "default"
)

// Result is an immutable language detection outcome, produced fresh per
// request.
type Result struct {
	Language   string          `json:"language"`
	Confidence float64         `json:"confidence"`
	Reliable   bool            `json:"reliable"`
	Source     DetectionSource `json:"source"`
	Elapsed    time.Duration   `json:"-"`
	ElapsedMs  int64           `json:"elapsedMs"`
}

// RemoteDetector is the network fallback used when local strategies are
// inconclusive.
type RemoteDetector interface {
	DetectLanguage(ctx context.Context, text string) (Result, error)
}

const (
	unicodeConfidence = 0.95

	// Below this the statistical classifier is considered inconclusive
	// and detection falls through to the remote service.
	statisticalThreshold = 0.35
)

// Identifier implements the layered detection chain. Identify never fails;
// the worst case is the configured default language with Reliable=false.
type Identifier struct {
	remote      RemoteDetector
	supported   map[string]bool
	defaultLang string
	log         logger.Logger
}

// New creates an Identifier. remote may be nil, in which case the chain
// ends at the statistical classifier. supported holds base language codes
// ("en", "ja", ...); resolved codes outside it collapse to defaultLang.
func New(remote RemoteDetector, supported []string, defaultLang string, log logger.Logger) *Identifier {
	set := make(map[string]bool, len(supported))
	for _, code := range supported {
		set[Base(code)] = true
	}
	return &Identifier{
		remote:      remote,
		supported:   set,
		defaultLang: defaultLang,
		log:         log,
	}
}

// Base reduces a language code to its base tag ("en-US" -> "en").
// Unparseable codes are returned unchanged.
func Base(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	base, _ := tag.Base()
	return base.String()
}

// Identify resolves the language of text. It short-circuits on the first
// confident strategy and never returns an error.
func (i *Identifier) Identify(ctx context.Context, text string) Result {
	start := time.Now()

	if lang, ok := detectByScript(text); ok {
		return i.finish(Result{
			Language:   lang,
			Confidence: unicodeConfidence,
			Reliable:   true,
			Source:     SourceUnicodePattern,
		}, start)
	}

	if res, ok := i.detectStatistical(text); ok {
		return i.finish(res, start)
	}

	if i.remote != nil {
		res, err := i.remote.DetectLanguage(ctx, text)
		if err == nil && res.Language != "" {
			res.Source = SourceRemote
			return i.finish(res, start)
		}
		if err != nil {
			i.log.Debug("remote language detection failed", "error", err)
		}
	}

	return i.finish(Result{
		Language:   i.defaultLang,
		Confidence: 0,
		Reliable:   false,
		Source:     SourceDefault,
	}, start)
}

// finish stamps timing and collapses unsupported codes to the default.
// A collapsed result keeps its source but carries no confidence: the
// detection was for a different language than the one reported.
func (i *Identifier) finish(res Result, start time.Time) Result {
	if !i.supported[Base(res.Language)] {
		res = Result{
			Language: i.defaultLang,
			Reliable: false,
			Source:   res.Source,
		}
	}
	res.Elapsed = time.Since(start)
	res.ElapsedMs = res.Elapsed.Milliseconds()
	return res
}

// detectStatistical wraps whatlanggo. It must never panic its caller; on
// any internal failure it reports inconclusive so the chain can continue.
func (i *Identifier) detectStatistical(text string) (res Result, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			i.log.Warn("statistical language classifier panicked", "recovered", r)
			ok = false
		}
	}()

	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	if code == "" || info.Confidence < statisticalThreshold {
		return Result{}, false
	}

	confidence := info.Confidence
	if confidence > 1 {
		confidence = 1
	}

	return Result{
		Language:   code,
		Confidence: confidence,
		Reliable:   info.IsReliable(),
		Source:     SourceStatistical,
	}, true
}

// detectByScript returns a language for scripts uniquely associated with
// one supported checking language. This is O(len(text)) and resolves the
// short-string cases where statistical classification is unreliable.
func detectByScript(text string) (string, bool) {
	var kana, han, hangul, thai, arabic, cyrillic int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r):
			kana++
		case unicode.Is(unicode.Han, r):
			han++
		case unicode.Is(unicode.Hangul, r):
			hangul++
		case unicode.Is(unicode.Thai, r):
			thai++
		case unicode.Is(unicode.Arabic, r):
			arabic++
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		}
	}

	switch {
	case kana > 0:
		return "ja", true
	case hangul > 0:
		return "ko", true
	case han > 0:
		// Han without kana or hangul reads as Chinese.
		return "zh", true
	case thai > 0:
		return "th", true
	case arabic > 0:
		return "ar", true
	case cyrillic > 0:
		return "ru", true
	}
	return "", false
}
