// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package languagetool

import (
	"strings"

	"github.com/glotcheck/glotcheck/annotation"
	"github.com/glotcheck/glotcheck/langid"
)

// Wire types for the service's JSON schema. These never leave this
// package.

type ltResponse struct {
	Matches  []ltMatch   `json:"matches"`
	Language *ltLanguage `json:"language"`
}

type ltMatch struct {
	Offset       int             `json:"offset"`
	Length       int             `json:"length"`
	Message      string          `json:"message"`
	ShortMessage string          `json:"shortMessage"`
	Rule         ltRule          `json:"rule"`
	Replacements []ltReplacement `json:"replacements"`
	Context      *ltMatchContext `json:"context,omitempty"`
}

type ltMatchContext struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
}

type ltRule struct {
	ID       string     `json:"id"`
	Category ltCategory `json:"category"`
}

type ltCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ltReplacement struct {
	Value string `json:"value"`
}

type ltLanguage struct {
	Code             string              `json:"code"`
	Name             string              `json:"name"`
	DetectedLanguage *ltDetectedLanguage `json:"detectedLanguage"`
}

type ltDetectedLanguage struct {
	Code       string  `json:"code"`
	Confidence float64 `json:"confidence"`
}

func normalizeMatches(matches []ltMatch) []annotation.Annotation {
	out := make([]annotation.Annotation, 0, len(matches))
	for _, m := range matches {
		if m.Length < 1 || m.Offset < 0 {
			continue
		}
		repls := make([]string, 0, len(m.Replacements))
		for _, r := range m.Replacements {
			if r.Value != "" {
				repls = append(repls, r.Value)
			}
		}
		short := m.ShortMessage
		if short == "" {
			short = m.Message
		}
		out = append(out, annotation.Annotation{
			Offset:       m.Offset,
			Length:       m.Length,
			Message:      m.Message,
			ShortMessage: short,
			Category:     mapCategory(m.Rule.Category.ID),
			Replacements: repls,
			Source:       annotation.SourceExternalService,
		})
	}
	return out
}

func normalizeLanguage(lang *ltLanguage) *langid.Result {
	if lang == nil {
		return nil
	}
	res := &langid.Result{
		Language: lang.Code,
		Source:   langid.SourceRemote,
	}
	if lang.DetectedLanguage != nil {
		res.Language = lang.DetectedLanguage.Code
		res.Confidence = lang.DetectedLanguage.Confidence
		res.Reliable = lang.DetectedLanguage.Confidence >= 0.5
	}
	return res
}

// mapCategory translates the service's category taxonomy into ours.
func mapCategory(id string) annotation.Category {
	switch strings.ToUpper(id) {
	case "TYPOS", "MISSPELLING", "SPELLING":
		return annotation.CategorySpelling
	case "STYLE", "REDUNDANCY", "PLAIN_ENGLISH", "WIKIPEDIA":
		return annotation.CategoryStyle
	case "PUNCTUATION":
		return annotation.CategoryPunctuation
	case "TYPOGRAPHY", "WHITESPACE", "CASING", "COMPOUNDING":
		return annotation.CategoryFormatting
	default:
		return annotation.CategoryGrammar
	}
}
