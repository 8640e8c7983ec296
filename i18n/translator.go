// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package i18n

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/glotcheck/glotcheck/logger"
)

const defaultTranslateTimeout = 5 * time.Second

// Translator localizes free-form message text into a target language.
// Implementations must degrade, not fail: on any error the original
// message is returned untranslated.
type Translator interface {
	Translate(ctx context.Context, message, targetLang string) string
}

// NoopTranslator returns every message unchanged.
type NoopTranslator struct{}

func (NoopTranslator) Translate(_ context.Context, message, _ string) string {
	return message
}

// HTTPTranslator calls a LibreTranslate-style JSON endpoint.
type HTTPTranslator struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        logger.Logger
}

// NewHTTPTranslator creates a translator against baseURL.
func NewHTTPTranslator(baseURL string, timeout time.Duration, httpClient *http.Client, log logger.Logger) *HTTPTranslator {
	if timeout <= 0 {
		timeout = defaultTranslateTimeout
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPTranslator{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
		log:        log,
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// Translate returns the translated message, or the original on any
// failure.
func (t *HTTPTranslator) Translate(ctx context.Context, message, targetLang string) string {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	payload, err := json.Marshal(translateRequest{Q: message, Source: "auto", Target: targetLang})
	if err != nil {
		return message
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return message
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.log.Debug("translation request failed", "error", err)
		return message
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.log.Debug("translation service returned non-success", "status", resp.StatusCode)
		return message
	}

	var parsed translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil || parsed.TranslatedText == "" {
		return message
	}
	return parsed.TranslatedText
}
