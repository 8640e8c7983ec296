// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package annotation

import (
	"sort"
	"strings"
	"unicode"
)

// MaxReplacements caps the replacement list carried by a merged
// annotation.
const MaxReplacements = 3

// closedClassWords are very common words that make better correction
// candidates than rarer ones of equal distance.
var closedClassWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "am": true,
	"have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true,
	"will": true, "would": true, "can": true, "could": true,
	"to": true, "of": true, "in": true, "on": true, "at": true,
	"and": true, "or": true, "but": true, "not": true,
	"it": true, "its": true, "this": true, "that": true,
	"their": true, "there": true, "they're": true,
	"your": true, "you're": true, "than": true, "then": true,
}

// Merge reconciles two annotation lists. Entries already in primary win:
// a secondary annotation is appended only when its span key is not
// claimed by primary. Within each list, later duplicates of an earlier
// span are dropped. Replacement lists are ranked and capped. The merged
// list is sorted by offset ascending, then by length.
func Merge(text string, primary, secondary []Annotation) []Annotation {
	seen := make(map[SpanKey]bool, len(primary)+len(secondary))
	merged := make([]Annotation, 0, len(primary)+len(secondary))

	appendUnique := func(list []Annotation) {
		for _, a := range list {
			key := a.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			a.Replacements = RankReplacements(spanText(text, a), a.Replacements)
			if a.ShortMessage == "" {
				a.ShortMessage = a.Message
			}
			merged = append(merged, a)
		}
	}

	appendUnique(primary)
	appendUnique(secondary)

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Offset != merged[j].Offset {
			return merged[i].Offset < merged[j].Offset
		}
		return merged[i].Length < merged[j].Length
	})

	return merged
}

// RankReplacements orders candidate fixes most-preferred first and caps
// the list. Ranking keys, in order: edit distance to the original span,
// closed-class word membership, capitalization congruence with the
// original, alphabetical order.
func RankReplacements(original string, replacements []string) []string {
	if len(replacements) <= 1 {
		return replacements
	}

	ranked := make([]string, len(replacements))
	copy(ranked, replacements)

	sort.SliceStable(ranked, func(i, j int) bool {
		di, dj := editDistance(original, ranked[i]), editDistance(original, ranked[j])
		if di != dj {
			return di < dj
		}
		ci, cj := closedClassWords[strings.ToLower(ranked[i])], closedClassWords[strings.ToLower(ranked[j])]
		if ci != cj {
			return ci
		}
		mi, mj := capitalizationMatches(original, ranked[i]), capitalizationMatches(original, ranked[j])
		if mi != mj {
			return mi
		}
		return ranked[i] < ranked[j]
	})

	if len(ranked) > MaxReplacements {
		ranked = ranked[:MaxReplacements]
	}
	return ranked
}

// capitalizationMatches reports whether candidate starts with the same
// case as original.
func capitalizationMatches(original, candidate string) bool {
	or := firstLetter(original)
	cr := firstLetter(candidate)
	if or == 0 || cr == 0 {
		return false
	}
	return unicode.IsUpper(or) == unicode.IsUpper(cr)
}

func firstLetter(s string) rune {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return r
		}
	}
	return 0
}

// editDistance is the Levenshtein distance over runes.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// spanText extracts the code-point span the annotation covers. Out of
// bounds spans yield "" so ranking degrades to alphabetical.
func spanText(text string, a Annotation) string {
	runes := []rune(text)
	if a.Offset < 0 || a.Length < 1 || a.Offset+a.Length > len(runes) {
		return ""
	}
	return string(runes[a.Offset : a.Offset+a.Length])
}
