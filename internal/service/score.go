package service

import (
	"regexp"
	"strconv"

	"esecure-analyze-go/internal/model"
)

var (
	// "73/100"、"73 / 100"
	fractionScorePattern = regexp.MustCompile(`(\d{1,3})\s*/\s*100`)
	// "Safety score is 85"、"score: 40"，score 后最多隔20个非数字字符
	labeledScorePattern = regexp.MustCompile(`(?i)(?:safety\s+)?score\D{0,20}?(\d+)`)
)

// ParseScore 从模型的自由文本回复中提取 0-100 的分数
// 只取第一个匹配；找不到时返回 nil（缺失，而不是0分）
// 两种写法都会截断到 [0,100]，"250/100" 这类超范围分数得到 100 而不是 nil
func ParseScore(reply string) *int {
	if m := fractionScorePattern.FindStringSubmatch(reply); m != nil {
		return clampScore(m[1])
	}
	if m := labeledScorePattern.FindStringSubmatch(reply); m != nil {
		return clampScore(m[1])
	}
	return nil
}

func clampScore(digits string) *int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		// 只可能是超长数字溢出
		return model.IntPtr(100)
	}
	switch {
	case n < 0:
		n = 0
	case n > 100:
		n = 100
	}
	return model.IntPtr(n)
}
