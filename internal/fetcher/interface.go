package fetcher

import (
	"context"
	"errors"
)

// PageFetcher 网页获取器
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Page, error)
}

// LLMClient LLM客户端 (OpenRouter)
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrFetchStatus 目标页面返回非2xx状态
	ErrFetchStatus = errors.New("unexpected status fetching page")
	// ErrUnsupportedURL 非 http/https 地址
	ErrUnsupportedURL = errors.New("unsupported url")
	// ErrUnsupportedContent 响应不是 HTML/纯文本（PDF、图片、JSON 等）
	ErrUnsupportedContent = errors.New("unsupported content type")
	// ErrNotPolicyPage 页面文本不包含条款/隐私相关关键词
	ErrNotPolicyPage = errors.New("page does not look like terms or policy content")
	// ErrMissingAPIKey 未配置 LLM API key
	ErrMissingAPIKey = errors.New("missing OPENROUTER_API_KEY")
)

// Page 抓取到的原始页面
type Page struct {
	URL         string
	FinalURL    string // 跟随重定向之后的地址
	HTML        string
	ContentType string // 响应头 Content-Type，可能为空
}

// Document 从页面中抽取出的条款文本
type Document struct {
	Text     string
	Selector string
	Title    string
	SiteName string
	URL      string
	FinalURL string
}
