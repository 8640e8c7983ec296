// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package rules

import (
	"regexp"
	"strings"

	"github.com/glotcheck/glotcheck/annotation"
)

var (
	chineseDuplicateParticle = regexp.MustCompile(`的的|了了|地地|得得|在在|和和`)
	// Common measure-word mismatches: 只 with people, 个 with animals
	// that take 只, 条 with people.
	chineseMeasurePerson = regexp.MustCompile(`[一二三四五六七八九十两几]只(?:人|老师|学生|朋友|孩子)`)
	chineseMeasureAnimal = regexp.MustCompile(`[一二三四五六七八九十两几]个(?:猫|狗|鸟|羊|鸡)`)
)

func newChineseEngine() *Engine {
	return NewEngine("zh", []Rule{
		{
			ID:           "ZH_DUPLICATE_PARTICLE",
			Category:     annotation.CategoryGrammar,
			Message:      "助词重复。",
			ShortMessage: "助词重复",
			Pattern:      chineseDuplicateParticle,
			Replacements: func(matched string) []string {
				runes := []rune(matched)
				return []string{string(runes[0])}
			},
		},
		{
			ID:           "ZH_MEASURE_WORD_PERSON",
			Category:     annotation.CategoryGrammar,
			Message:      "量词搭配不当：人物应使用「个」或「位」。",
			ShortMessage: "量词不当",
			Pattern:      chineseMeasurePerson,
			Replacements: func(matched string) []string {
				return []string{
					strings.Replace(matched, "只", "个", 1),
					strings.Replace(matched, "只", "位", 1),
				}
			},
		},
		{
			ID:           "ZH_MEASURE_WORD_ANIMAL",
			Category:     annotation.CategoryGrammar,
			Message:      "量词搭配不当：这类动物应使用「只」。",
			ShortMessage: "量词不当",
			Pattern:      chineseMeasureAnimal,
			Replacements: func(matched string) []string {
				return []string{strings.Replace(matched, "个", "只", 1)}
			},
		},
	})
}
