// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

// Package languagetool adapts a general-purpose grammar/style checking
// service speaking the LanguageTool HTTP API. Responses are normalized
// into the canonical annotation types at this boundary; nothing
// downstream branches on service-specific field names.
package languagetool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/glotcheck/glotcheck/annotation"
	"github.com/glotcheck/glotcheck/langid"
	"github.com/glotcheck/glotcheck/logger"
	"github.com/glotcheck/glotcheck/spancache"
)

// DefaultTimeout bounds a single service call.
const DefaultTimeout = 10 * time.Second

// serviceCodes maps internal base codes to the codes the service
// expects. Unmapped codes pass through as "auto".
var serviceCodes = map[string]string{
	"en": "en-US",
	"de": "de-DE",
	"pt": "pt-PT",
	"ja": "ja-JP",
	"zh": "zh-CN",
	"it": "it",
	"fr": "fr",
	"es": "es",
	"nl": "nl",
	"pl": "pl-PL",
	"ru": "ru-RU",
	"ar": "ar",
	"uk": "uk-UA",
}

// ServiceError is a typed failure carrying the non-success HTTP status.
// Callers decide whether to retry, degrade, or surface.
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("grammar service returned status %d", e.StatusCode)
}

// Config holds the adapter settings.
type Config struct {
	BaseURL     string
	Level       string // "default" or "picky"
	EnabledOnly bool
	Timeout     time.Duration
}

// CheckResponse is the normalized outcome of one service call.
type CheckResponse struct {
	Matches       []annotation.Annotation
	Language      *langid.Result
	PerformanceMs int64
}

// Client calls the grammar service with request timeouts and transparent
// response caching.
type Client struct {
	cfg        Config
	httpClient *http.Client
	cache      *spancache.Cache[CheckResponse]
	log        logger.Logger
}

// New creates a Client. cache may be nil to disable caching.
func New(cfg Config, httpClient *http.Client, cache *spancache.Cache[CheckResponse], log logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Level == "" {
		cfg.Level = "default"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		cache:      cache,
		log:        log,
	}
}

// ServiceCode normalizes an internal language code to the service's
// dialect. Unknown codes become "auto" so the service detects for us.
func ServiceCode(lang string) string {
	if lang == "" || lang == "auto" {
		return "auto"
	}
	if code, ok := serviceCodes[langid.Base(lang)]; ok {
		return code
	}
	return "auto"
}

// Check submits text for grammar checking. Results for identical
// (language, text) pairs are served from cache within the TTL window.
func (c *Client) Check(ctx context.Context, text, lang string) (*CheckResponse, error) {
	serviceLang := ServiceCode(lang)
	cacheKey := spancache.Key(serviceLang, text)

	if c.cache != nil {
		if cached, ok := c.cache.Get(cacheKey); ok {
			c.log.Debug("grammar service cache hit", "language", serviceLang)
			return &cached, nil
		}
	}

	start := time.Now()
	raw, err := c.call(ctx, text, serviceLang)
	if err != nil {
		return nil, err
	}

	resp := &CheckResponse{
		Matches:       normalizeMatches(raw.Matches),
		Language:      normalizeLanguage(raw.Language),
		PerformanceMs: time.Since(start).Milliseconds(),
	}

	if c.cache != nil {
		c.cache.Set(cacheKey, *resp)
	}
	return resp, nil
}

// CheckText is a thin adapter for callers that only want the matches,
// like the suggestion validator.
func (c *Client) CheckText(ctx context.Context, text, lang string) ([]annotation.Annotation, error) {
	resp, err := c.Check(ctx, text, lang)
	if err != nil {
		return nil, err
	}
	return resp.Matches, nil
}

// DetectLanguage uses the service's auto-detection as the last resort of
// the identification chain.
func (c *Client) DetectLanguage(ctx context.Context, text string) (langid.Result, error) {
	start := time.Now()
	raw, err := c.call(ctx, text, "auto")
	if err != nil {
		return langid.Result{}, err
	}
	res := normalizeLanguage(raw.Language)
	if res == nil || res.Language == "" {
		return langid.Result{}, errors.New("grammar service reported no language")
	}
	res.Elapsed = time.Since(start)
	res.ElapsedMs = res.Elapsed.Milliseconds()
	return *res, nil
}

// Warmup pings the service once per language so the first user request
// doesn't pay cold-start latency. Failures are logged, never fatal, and
// one slow language doesn't block the others.
func (c *Client) Warmup(ctx context.Context, languages []string) {
	var g errgroup.Group
	for _, lang := range languages {
		g.Go(func() error {
			if _, err := c.Check(ctx, "ping", lang); err != nil {
				c.log.Warn("grammar service warmup failed", "language", lang, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Client) call(ctx context.Context, text, serviceLang string) (*ltResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	form := url.Values{}
	form.Set("text", text)
	form.Set("language", serviceLang)
	form.Set("enabledOnly", fmt.Sprintf("%t", c.cfg.EnabledOnly))
	form.Set("level", c.cfg.Level)

	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/v2/check"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build grammar service request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "grammar service request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read grammar service response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed ltResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(err, "failed to decode grammar service response")
	}
	return &parsed, nil
}
