// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

// Package i18n localizes the engine's own user-facing messages and
// optionally translates annotation text through an external service.
package i18n

import (
	"embed"
	"encoding/json"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var localeFiles = []string{
	"locales/en.json",
	"locales/it.json",
	"locales/ja.json",
}

// Bundle wraps the message catalog with per-language localizers.
type Bundle struct {
	bundle *goi18n.Bundle
}

// NewBundle loads the embedded catalogs. English is the fallback.
func NewBundle() (*Bundle, error) {
	b := goi18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, file := range localeFiles {
		if _, err := b.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, err
		}
	}
	return &Bundle{bundle: b}, nil
}

// Localize renders messageID for lang, falling back through the bundle's
// language chain. Unknown IDs return the ID itself so callers always get
// something displayable.
func (b *Bundle) Localize(lang, messageID string) string {
	localizer := goi18n.NewLocalizer(b.bundle, lang)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		return messageID
	}
	return msg
}
