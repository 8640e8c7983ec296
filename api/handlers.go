// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package api

import (
	"context"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/glotcheck/glotcheck/annotation"
	"github.com/glotcheck/glotcheck/checker"
	"github.com/glotcheck/glotcheck/langid"
)

// CheckRequest is the inbound payload for POST /api/v1/check.
type CheckRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`

	// Localize, when set to a language code, translates annotation
	// messages for display. Translation failures leave the original
	// message untouched.
	Localize string `json:"localize,omitempty"`
}

// DetectRequest is the inbound payload for POST /api/v1/language.
type DetectRequest struct {
	Text string `json:"text"`
}

func (a *API) handleCheck(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}

	displayLang := req.Localize
	if displayLang == "" {
		displayLang = "en"
	}

	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": a.bundle.Localize(displayLang, "check.text_required")})
		return
	}
	if utf8.RuneCountInString(req.Text) > a.cfg.GetMaxTextRunes() {
		c.JSON(http.StatusBadRequest, gin.H{"error": a.bundle.Localize(displayLang, "check.text_too_long")})
		return
	}

	lang := req.Language
	if lang == "" {
		lang = "auto"
	}

	result, err := a.checker.Check(c.Request.Context(), req.Text, lang)
	if err != nil {
		var mismatch *checker.LanguageMismatchError
		switch {
		case errors.As(err, &mismatch):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":      a.bundle.Localize(displayLang, "check.language_mismatch"),
				"requested":  mismatch.Requested,
				"detected":   mismatch.Detected,
				"confidence": mismatch.Confidence,
			})
		case errors.Is(err, checker.ErrAllSourcesExhausted):
			// Deliberately generic: internal service identities are not
			// leaked to callers.
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": a.bundle.Localize(displayLang, "check.failed")})
		default:
			a.log.Error("check failed unexpectedly", "request_id", a.requestID(c), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": a.bundle.Localize(displayLang, "check.failed")})
		}
		return
	}

	if req.Localize != "" && langid.Base(req.Localize) != "en" {
		result = a.localized(c.Request.Context(), result, req.Localize)
	}

	c.JSON(http.StatusOK, result)
}

// localized returns a copy of result with annotation messages translated
// for display. The original shares its matches with the result cache and
// must never be written.
func (a *API) localized(ctx context.Context, result *annotation.CheckResult, targetLang string) *annotation.CheckResult {
	out := *result
	out.Matches = make([]annotation.Annotation, len(result.Matches))
	copy(out.Matches, result.Matches)
	for i := range out.Matches {
		out.Matches[i].Message = a.translator.Translate(ctx, out.Matches[i].Message, targetLang)
	}
	return &out
}

func (a *API) handleDetectLanguage(c *gin.Context) {
	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	result := a.identifier.Identify(c.Request.Context(), req.Text)
	c.JSON(http.StatusOK, result)
}

// LanguageInfo describes one supported language.
type LanguageInfo struct {
	Code       string `json:"code"`
	RuleEngine bool   `json:"ruleEngine"`
}

func (a *API) handleLanguages(c *gin.Context) {
	cfg := a.cfg.Config()
	engines := make(map[string]bool)
	for _, lang := range a.registry.Languages() {
		engines[lang] = true
	}

	languages := make([]LanguageInfo, 0, len(cfg.SupportedLanguages))
	for _, code := range cfg.SupportedLanguages {
		languages = append(languages, LanguageInfo{
			Code:       code,
			RuleEngine: engines[langid.Base(code)],
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"languages":       languages,
		"defaultLanguage": cfg.DefaultLanguage,
	})
}
