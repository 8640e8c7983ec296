// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package config

import (
	"fmt"
	"net/url"

	"github.com/pkg/errors"
)

var validGenerativeProviders = map[string]bool{
	"":                  true, // generative path disabled
	"openai":            true,
	"openai-compatible": true,
	"anthropic":         true,
}

// Validate checks the configuration for values that would make the
// engine misbehave at runtime rather than fail fast at startup.
func (c *Config) Validate() error {
	if c.ListenAddress == "" {
		return errors.New("listen address must be set")
	}
	if c.DefaultLanguage == "" {
		return errors.New("default language must be set")
	}
	if c.MaxTextRunes <= 0 {
		return errors.New("max text length must be positive")
	}
	if c.MismatchConfidence < 0 || c.MismatchConfidence > 1 {
		return fmt.Errorf("mismatch confidence must be in [0,1], got %v", c.MismatchConfidence)
	}

	if c.LanguageTool.BaseURL == "" {
		return errors.New("grammar service base URL must be set")
	}
	if _, err := url.Parse(c.LanguageTool.BaseURL); err != nil {
		return errors.Wrap(err, "invalid grammar service base URL")
	}
	if c.LanguageTool.TimeoutSeconds <= 0 {
		return errors.New("grammar service timeout must be positive")
	}
	switch c.LanguageTool.Level {
	case "", "default", "picky":
	default:
		return fmt.Errorf("unknown grammar service level %q", c.LanguageTool.Level)
	}

	if !validGenerativeProviders[c.Generative.Provider] {
		return fmt.Errorf("unknown generative provider %q", c.Generative.Provider)
	}
	if c.Generative.Provider != "" {
		if c.Generative.APIKey == "" {
			return fmt.Errorf("generative provider %q requires an API key", c.Generative.Provider)
		}
		if c.Generative.Provider == "openai-compatible" && c.Generative.APIURL == "" {
			return errors.New("openai-compatible provider requires an API URL")
		}
	}

	if c.Cache.TTLSeconds < 0 || c.Cache.MaxEntries < 0 {
		return errors.New("cache TTL and max entries must not be negative")
	}

	return nil
}
