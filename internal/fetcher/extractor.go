package fetcher

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	"esecure-analyze-go/internal/utils"
)

const (
	// MinContentChars 候选元素的可见文本必须超过该长度才被采用
	MinContentChars = 400
	// DefaultMaxChars 抽取结果的最大字符数
	DefaultMaxChars = 12000
)

// TermsSelectors 按优先级排列的候选选择器，第一个满足长度阈值的胜出
var TermsSelectors = []string{
	"article",
	"main",
	"[role=main]",
	"#terms",
	"#privacy",
	".terms",
	".terms-of-service",
	".privacy-policy",
	".policy",
	".legal",
	"#content",
	".content",
	"body",
}

// PolicyKeywords 条款页面至少要包含其中一个词
var PolicyKeywords = []string{"terms", "conditions", "privacy", "policy"}

// 不可见的元素，在取文本前移除
const invisibleSelector = "script, style, noscript, template, svg, iframe, head"

// TermsExtractor 从网页中抽取条款/隐私政策正文
type TermsExtractor struct {
	fetcher  PageFetcher
	maxChars int
}

// NewTermsExtractor 创建抽取器
func NewTermsExtractor(fetcher PageFetcher, maxChars int) *TermsExtractor {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &TermsExtractor{fetcher: fetcher, maxChars: maxChars}
}

// ExtractURL 抓取并抽取
func (e *TermsExtractor) ExtractURL(ctx context.Context, rawURL string) (*Document, error) {
	page, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return e.Extract(page)
}

// Extract 从已获取的页面中抽取条款文本
func (e *TermsExtractor) Extract(page *Page) (*Document, error) {
	if !textualContent(page.ContentType) {
		log.Debug().Str("url", page.URL).Str("content_type", page.ContentType).Msg("skipping non-text response")
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContent, page.ContentType)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	result := &Document{
		URL:      page.URL,
		FinalURL: page.FinalURL,
	}
	result.Title, result.SiteName = pageMetadata(page, doc)

	doc.Find(invisibleSelector).Remove()

	text, selector := selectContent(doc)
	if !utils.ContainsAnyFold(text, PolicyKeywords) {
		log.Debug().Str("url", page.URL).Str("selector", selector).Msg("no policy keywords in page text")
		return nil, ErrNotPolicyPage
	}

	result.Text = utils.TruncateRunes(text, e.maxChars)
	result.Selector = selector
	return result, nil
}

// textualContent 未声明类型时按 HTML 处理
func textualContent(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml", "text/plain":
		return true
	}
	return false
}

// selectContent 依次尝试选择器，都不满足时退回整页文本
func selectContent(doc *goquery.Document) (string, string) {
	for _, selector := range TermsSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := VisibleText(sel)
		if utils.RuneLen(text) > MinContentChars {
			return text, selector
		}
	}
	return VisibleText(doc.Selection), "document"
}

// VisibleText 拼接选中节点下的所有文本节点，节点之间用空格分隔
func VisibleText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				b.WriteString(t)
				b.WriteByte(' ')
			}
		case html.CommentNode:
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return utils.NormalizeWhitespace(b.String())
}

// pageMetadata 用 readability 取标题和站点名，失败时退回 <title>
func pageMetadata(page *Page, doc *goquery.Document) (string, string) {
	fallback := utils.NormalizeWhitespace(doc.Find("title").First().Text())

	pageURL, err := url.Parse(page.FinalURL)
	if err != nil || page.FinalURL == "" {
		pageURL, err = url.Parse(page.URL)
		if err != nil {
			return fallback, ""
		}
	}

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(page.HTML), pageURL)
	if err != nil {
		return fallback, ""
	}

	title := utils.NormalizeWhitespace(article.Title)
	if title == "" {
		title = fallback
	}
	return title, utils.NormalizeWhitespace(article.SiteName)
}
