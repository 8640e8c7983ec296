// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package rules

import (
	"regexp"
	"unicode/utf8"

	"github.com/glotcheck/glotcheck/annotation"
)

var koreanDuplicateParticle = regexp.MustCompile(`을을|를를|이이|가가|은은|는는|에에`)

// koreanParticlePairs maps each object/subject/topic particle to its
// counterpart used after the opposite final-consonant state.
var koreanParticlePairs = map[rune]struct {
	counterpart  rune
	afterBatchim bool // true when this particle follows a syllable with a final consonant
}{
	'을': {'를', true},
	'를': {'을', false},
	'이': {'가', true},
	'가': {'이', false},
	'은': {'는', true},
	'는': {'은', false},
}

func newKoreanEngine() *Engine {
	return NewEngine("ko", []Rule{
		{
			ID:           "KO_DUPLICATE_PARTICLE",
			Category:     annotation.CategoryGrammar,
			Message:      "조사가 중복되었습니다.",
			ShortMessage: "조사 중복",
			Pattern:      koreanDuplicateParticle,
			Replacements: func(matched string) []string {
				runes := []rune(matched)
				return []string{string(runes[0])}
			},
		},
		{
			ID:           "KO_PARTICLE_AGREEMENT",
			Category:     annotation.CategoryGrammar,
			Message:      "받침 유무와 조사가 일치하지 않습니다.",
			ShortMessage: "조사 불일치",
			Scan:         scanKoreanParticleAgreement,
			Replacements: func(matched string) []string {
				particle, _ := utf8.DecodeLastRuneInString(matched)
				pair, ok := koreanParticlePairs[particle]
				if !ok {
					return nil
				}
				prefix := matched[:len(matched)-utf8.RuneLen(particle)]
				return []string{prefix + string(pair.counterpart)}
			},
		},
	})
}

// scanKoreanParticleAgreement finds particles whose form disagrees with
// the final consonant (batchim) of the preceding syllable. The span
// covers the syllable plus the particle so the replacement can carry
// context.
func scanKoreanParticleAgreement(text string) []Match {
	var matches []Match
	prevRune := rune(0)
	prevStart := 0
	for i, r := range text {
		pair, isParticle := koreanParticlePairs[r]
		if isParticle && isHangulSyllable(prevRune) {
			// The particle rune itself can be a word's syllable; only
			// flag when the next rune is a boundary (space, punctuation,
			// end of text).
			next, _ := utf8.DecodeRuneInString(text[i+utf8.RuneLen(r):])
			if next != utf8.RuneError && isHangulSyllable(next) {
				prevRune, prevStart = r, i
				continue
			}
			if hasBatchim(prevRune) != pair.afterBatchim {
				matches = append(matches, Match{Start: prevStart, End: i + utf8.RuneLen(r)})
			}
		}
		prevRune, prevStart = r, i
	}
	return matches
}

func isHangulSyllable(r rune) bool {
	return r >= 0xAC00 && r <= 0xD7A3
}

// hasBatchim reports whether a Hangul syllable ends in a final consonant.
func hasBatchim(r rune) bool {
	return isHangulSyllable(r) && (r-0xAC00)%28 != 0
}
