// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package rules

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/glotcheck/glotcheck/annotation"
)

var (
	englishWordPattern   = regexp.MustCompile(`[\p{L}']+`)
	englishAVowelPattern = regexp.MustCompile(`\b[Aa] [aeiouAEIOU][\p{L}]*`)
	englishAnConsPattern = regexp.MustCompile(`\b[Aa]n [bcdfghjklmnpqrstvwxyzBCDFGHJKLMNPQRSTVWXYZ][\p{L}]*`)
	englishSpacingRule   = regexp.MustCompile(`\S( {2,})\S`)
)

const terminalPunctuationMinRunes = 20

func newEnglishEngine() *Engine {
	return NewEngine("en", []Rule{
		{
			ID:           "EN_DUPLICATE_WORD",
			Category:     annotation.CategoryGrammar,
			Message:      "This word is repeated.",
			ShortMessage: "Repeated word",
			Scan:         scanDuplicateWords,
			Replacements: func(matched string) []string {
				fields := strings.Fields(matched)
				if len(fields) == 0 {
					return nil
				}
				return []string{fields[0]}
			},
		},
		{
			ID:           "EN_A_BEFORE_VOWEL",
			Category:     annotation.CategoryGrammar,
			Message:      `Use "an" before a word starting with a vowel sound.`,
			ShortMessage: "Article agreement",
			Pattern:      englishAVowelPattern,
			Replacements: func(matched string) []string {
				rest := matched[2:]
				if strings.HasPrefix(matched, "A ") {
					return []string{"An " + rest}
				}
				return []string{"an " + rest}
			},
		},
		{
			ID:           "EN_AN_BEFORE_CONSONANT",
			Category:     annotation.CategoryGrammar,
			Message:      `Use "a" before a word starting with a consonant sound.`,
			ShortMessage: "Article agreement",
			Pattern:      englishAnConsPattern,
			Replacements: func(matched string) []string {
				rest := matched[3:]
				if strings.HasPrefix(matched, "An ") {
					return []string{"A " + rest}
				}
				return []string{"a " + rest}
			},
		},
		{
			ID:           "EN_DOUBLE_SPACE",
			Category:     annotation.CategoryFormatting,
			Message:      "Consecutive spaces.",
			ShortMessage: "Extra space",
			Scan:         scanDoubleSpaces,
			Replacements: func(string) []string { return []string{" "} },
		},
		{
			ID:           "EN_MISSING_TERMINAL_PUNCT",
			Category:     annotation.CategoryPunctuation,
			Message:      "Sentence may be missing terminal punctuation.",
			ShortMessage: "Missing punctuation",
			Scan:         scanMissingTerminalPunctuation,
			Replacements: func(matched string) []string { return []string{matched + "."} },
		},
	})
}

// scanDuplicateWords flags immediately repeated tokens ("the the"). Go's
// regexp has no backreferences, so this is a token walk.
func scanDuplicateWords(text string) []Match {
	idx := englishWordPattern.FindAllStringIndex(text, -1)
	var matches []Match
	for i := 1; i < len(idx); i++ {
		prev := text[idx[i-1][0]:idx[i-1][1]]
		curr := text[idx[i][0]:idx[i][1]]
		if !strings.EqualFold(prev, curr) {
			continue
		}
		// Only whitespace may separate the pair, or it's not a repeat.
		if strings.TrimSpace(text[idx[i-1][1]:idx[i][0]]) != "" {
			continue
		}
		matches = append(matches, Match{Start: idx[i-1][0], End: idx[i][1]})
	}
	return matches
}

func scanDoubleSpaces(text string) []Match {
	var matches []Match
	for _, loc := range englishSpacingRule.FindAllStringSubmatchIndex(text, -1) {
		matches = append(matches, Match{Start: loc[2], End: loc[3]})
	}
	return matches
}

// scanMissingTerminalPunctuation fires only under strict conditions: a
// reasonably long single-line text ending in a letter or digit.
func scanMissingTerminalPunctuation(text string) []Match {
	trimmed := strings.TrimRight(text, " \t")
	if trimmed == "" || strings.ContainsAny(trimmed, "\n") {
		return nil
	}
	runes := []rune(trimmed)
	if len(runes) < terminalPunctuationMinRunes {
		return nil
	}
	last := runes[len(runes)-1]
	if !unicode.IsLetter(last) && !unicode.IsDigit(last) {
		return nil
	}
	lastStart := len(trimmed) - len(string(last))
	return []Match{{Start: lastStart, End: len(trimmed)}}
}
