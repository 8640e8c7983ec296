// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package rules

import (
	"regexp"

	"github.com/glotcheck/glotcheck/annotation"
)

var (
	japaneseDuplicateParticle = regexp.MustCompile(`のの|がが|をを|はは|にに|でで|とと|へへ|もも`)
	japaneseDuplicateCopula   = regexp.MustCompile(`ですです|ますます|でしたでした`)
	japaneseHalfwidthSpace    = regexp.MustCompile(`[\p{Hiragana}\p{Katakana}\p{Han}] [\p{Hiragana}\p{Katakana}\p{Han}]`)
	japaneseDoubleFullSpace   = regexp.MustCompile(`\x{3000}{2,}`)
)

func newJapaneseEngine() *Engine {
	return NewEngine("ja", []Rule{
		{
			ID:           "JA_DUPLICATE_PARTICLE",
			Category:     annotation.CategoryGrammar,
			Message:      "助詞が重複しています。",
			ShortMessage: "助詞の重複",
			Pattern:      japaneseDuplicateParticle,
			Replacements: func(matched string) []string {
				runes := []rune(matched)
				return []string{string(runes[0])}
			},
		},
		{
			ID:           "JA_DUPLICATE_COPULA",
			Category:     annotation.CategoryGrammar,
			Message:      "語尾が重複しています。",
			ShortMessage: "語尾の重複",
			Pattern:      japaneseDuplicateCopula,
			Replacements: func(matched string) []string {
				runes := []rune(matched)
				return []string{string(runes[:len(runes)/2])}
			},
		},
		{
			ID:           "JA_HALFWIDTH_SPACE",
			Category:     annotation.CategoryFormatting,
			Message:      "日本語の文中に半角スペースがあります。",
			ShortMessage: "半角スペース",
			Pattern:      japaneseHalfwidthSpace,
			Replacements: func(matched string) []string {
				runes := []rune(matched)
				return []string{string(runes[0]) + string(runes[2])}
			},
		},
		{
			ID:           "JA_DOUBLE_FULLWIDTH_SPACE",
			Category:     annotation.CategoryFormatting,
			Message:      "全角スペースが連続しています。",
			ShortMessage: "スペースの重複",
			Pattern:      japaneseDoubleFullSpace,
			Replacements: func(string) []string { return []string{"　"} },
		},
	})
}
