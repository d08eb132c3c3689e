package model

// AnalysisResult 条款分析结果
// Score 为 nil 表示模型回复中没有可识别的分数，不等同于 0 分
type AnalysisResult struct {
	Score    *int        `json:"score"`
	Feedback string      `json:"feedback"`
	Language string      `json:"language,omitempty"`
	Source   *SourceInfo `json:"source,omitempty"`
	Cached   bool        `json:"cached,omitempty"`
}

// SourceInfo 从URL抓取时的来源信息
type SourceInfo struct {
	URL      string `json:"url" yaml:"url"`
	FinalURL string `json:"final_url,omitempty" yaml:"final_url,omitempty"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	SiteName string `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Selector string `json:"selector" yaml:"selector"` // 命中的选择器
	Chars    int    `json:"chars" yaml:"chars"`
}

// HasScore 是否解析到分数
func (r *AnalysisResult) HasScore() bool {
	return r != nil && r.Score != nil
}

// IntPtr 返回 int 指针
func IntPtr(v int) *int {
	return &v
}
