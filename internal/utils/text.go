package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// TruncateRunes 截取前 max 个字符（按 rune 计，不会切断多字节字符）
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}

// RuneLen 字符数
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// NormalizeWhitespace 合并连续空白为单个空格
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ContainsAnyFold 不区分大小写，判断是否包含任意一个词
func ContainsAnyFold(s string, words []string) bool {
	lower := strings.ToLower(s)
	return lo.SomeBy(words, func(w string) bool {
		return w != "" && strings.Contains(lower, strings.ToLower(w))
	})
}

// Excerpt 用于日志和CLI输出的摘要
func Excerpt(s string, max int) string {
	s = NormalizeWhitespace(s)
	if RuneLen(s) <= max {
		return s
	}
	return TruncateRunes(s, max) + "..."
}
