// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package rules

import (
	"regexp"
	"strings"

	"github.com/glotcheck/glotcheck/annotation"
)

// italianInvalidForms maps misspelled or nonexistent inflected forms to
// the valid forms writers usually meant, most likely first.
var italianInvalidForms = map[string][]string{
	"vano": {"va", "vanno"},
	"stò":  {"sto"},
	"stà":  {"sta"},
	"fà":   {"fa"},
	"dò":   {"do"},
	"sò":   {"so"},
	"pò":   {"po'"},
	"quà":  {"qua"},
	"quì":  {"qui"},
}

var (
	italianWordPattern = regexp.MustCompile(`[\p{L}']+`)
	// "il"/"un" before s+consonant, z, gn, ps take "lo"/"uno".
	italianArticlePattern = regexp.MustCompile(`\b[Ii]l (?:s[bcdfghlmnpqrstvz]|z|gn|ps)\p{L}*`)
)

// scanInvalidForms is a token walk rather than a pattern because Go's
// \b word boundary is ASCII-only and misses the accented forms.
func scanInvalidForms(text string) []Match {
	var matches []Match
	for _, loc := range italianWordPattern.FindAllStringIndex(text, -1) {
		word := strings.ToLower(text[loc[0]:loc[1]])
		if _, ok := italianInvalidForms[word]; ok {
			matches = append(matches, Match{Start: loc[0], End: loc[1]})
		}
	}
	return matches
}

func newItalianEngine() *Engine {
	return NewEngine("it", []Rule{
		{
			ID:           "IT_INVALID_VERB_FORM",
			Category:     annotation.CategoryGrammar,
			Message:      "Forma verbale non valida.",
			ShortMessage: "Forma non valida",
			Scan:         scanInvalidForms,
			Replacements: func(matched string) []string {
				if repl, ok := italianInvalidForms[strings.ToLower(matched)]; ok {
					out := make([]string, len(repl))
					copy(out, repl)
					return out
				}
				return nil
			},
		},
		{
			ID:           "IT_ARTICLE_AGREEMENT",
			Category:     annotation.CategoryGrammar,
			Message:      `Davanti a s impura, z, gn o ps si usa l'articolo "lo".`,
			ShortMessage: "Articolo errato",
			Pattern:      italianArticlePattern,
			Replacements: func(matched string) []string {
				rest := matched[len("il "):]
				if strings.HasPrefix(matched, "Il ") {
					return []string{"Lo " + rest}
				}
				return []string{"lo " + rest}
			},
		},
	})
}
