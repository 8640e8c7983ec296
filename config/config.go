// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package config

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

// LanguageToolConfig configures the general-purpose grammar service.
type LanguageToolConfig struct {
	BaseURL        string `json:"baseURL"`
	Level          string `json:"level"`
	EnabledOnly    bool   `json:"enabledOnly"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// GenerativeConfig configures the optional generative-suggestion path.
type GenerativeConfig struct {
	// Provider is one of "openai", "openai-compatible", "anthropic" or
	// "" to disable the generative path entirely.
	Provider  string `json:"provider"`
	APIKey    string `json:"apiKey"`
	APIURL    string `json:"apiURL"`
	Model     string `json:"model"`
	MaxTokens int    `json:"maxTokens"`

	// Languages the generative path is invoked for; richly-resourced
	// languages only.
	Languages []string `json:"languages"`
}

// TranslationConfig configures the optional message translation service.
type TranslationConfig struct {
	BaseURL        string `json:"baseURL"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// CacheConfig bounds the span cache.
type CacheConfig struct {
	TTLSeconds int `json:"ttlSeconds"`
	MaxEntries int `json:"maxEntries"`
}

type Config struct {
	ListenAddress      string   `json:"listenAddress"`
	DefaultLanguage    string   `json:"defaultLanguage"`
	SupportedLanguages []string `json:"supportedLanguages"`
	MaxTextRunes       int      `json:"maxTextRunes"`

	// MismatchConfidence gates the language-mismatch rejection: a
	// detected language different from the requested one is only
	// surfaced above this confidence.
	MismatchConfidence float64 `json:"mismatchConfidence"`

	LanguageTool LanguageToolConfig `json:"languageTool"`
	Generative   GenerativeConfig   `json:"generative"`
	Translation  TranslationConfig  `json:"translation"`
	Cache        CacheConfig        `json:"cache"`

	WarmupLanguages []string `json:"warmupLanguages"`
	Debug           bool     `json:"debug"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		ListenAddress:      ":8090",
		DefaultLanguage:    "en-US",
		SupportedLanguages: []string{"en", "de", "fr", "es", "it", "pt", "nl", "pl", "ja", "zh", "ko", "ru", "ar", "th", "uk"},
		MaxTextRunes:       20000,
		MismatchConfidence: 0.6,
		LanguageTool: LanguageToolConfig{
			BaseURL:        "https://api.languagetool.org",
			Level:          "default",
			TimeoutSeconds: 10,
		},
		Generative: GenerativeConfig{
			Languages: []string{"en", "de", "fr", "es", "it"},
		},
		Cache: CacheConfig{
			TTLSeconds: 300,
			MaxEntries: 1024,
		},
	}
}

func (c *Config) Clone() *Config {
	clone, err := DeepCopyJSON(*c)
	if err != nil {
		panic(fmt.Sprintf("failed to clone configuration: %v", err))
	}

	return &clone
}

// LanguageToolTimeout returns the grammar service timeout as a duration.
func (c *Config) LanguageToolTimeout() time.Duration {
	return time.Duration(c.LanguageTool.TimeoutSeconds) * time.Second
}

// CacheTTL returns the span cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// GenerativeEnabled reports whether the generative-suggestion path is
// configured.
func (c *Config) GenerativeEnabled() bool {
	return c.Generative.Provider != "" && c.Generative.APIKey != ""
}

type UpdateListener func()

// Container holds the live configuration behind an atomic pointer so
// request handlers never see a half-updated config.
type Container struct {
	cfg       atomic.Pointer[Config]
	listeners []UpdateListener
}

// Config returns the whole configuration readonly.
func (c *Container) Config() *Config {
	return c.cfg.Load()
}

func (c *Container) GetDefaultLanguage() string {
	return c.cfg.Load().DefaultLanguage
}

func (c *Container) GetMaxTextRunes() int {
	return c.cfg.Load().MaxTextRunes
}

func (c *Container) GetMismatchConfidence() float64 {
	return c.cfg.Load().MismatchConfidence
}

func (c *Container) RegisterUpdateListener(listener UpdateListener) {
	c.listeners = append(c.listeners, listener)
}

// Update swaps the active configuration and notifies listeners.
func (c *Container) Update(cfg *Config) {
	c.cfg.Store(cfg)
	for _, listener := range c.listeners {
		listener()
	}
}

// DeepCopyJSON round-trips a value through JSON to produce a deep copy.
func DeepCopyJSON[T any](v T) (T, error) {
	var out T
	data, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, err
	}
	return out, nil
}
