package fetcher

import (
	"github.com/pemistahl/lingua-go"

	"esecure-analyze-go/internal/utils"
)

// 语言检测只看前面一段文本即可
const languageSampleChars = 2000

// LanguageDetector 条款文本语言检测
type LanguageDetector struct {
	detector lingua.LanguageDetector
}

// NewLanguageDetector 创建检测器，只加载常见条款语言的模型
func NewLanguageDetector() *LanguageDetector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.French,
			lingua.German,
			lingua.Spanish,
			lingua.Portuguese,
			lingua.Italian,
			lingua.Dutch,
			lingua.Chinese,
			lingua.Japanese,
			lingua.Russian,
		).
		WithMinimumRelativeDistance(0.1).
		Build()
	return &LanguageDetector{detector: detector}
}

// Detect 返回语言英文名，无法可靠判断时返回空串
func (d *LanguageDetector) Detect(text string) string {
	sample := utils.TruncateRunes(text, languageSampleChars)
	if utils.RuneLen(sample) < 20 {
		return ""
	}
	language, ok := d.detector.DetectLanguageOf(sample)
	if !ok {
		return ""
	}
	return language.String()
}
