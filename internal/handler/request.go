package handler

// AnalyzeRequest POST /analyze_terms 请求体
type AnalyzeRequest struct {
	Text string `json:"text,omitempty"` // 条款原文
	URL  string `json:"url,omitempty"`  // 条款页面地址，text 为空时使用
}

// ErrorResponse 所有错误响应的统一结构
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
