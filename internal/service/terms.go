package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"esecure-analyze-go/config"
	"esecure-analyze-go/internal/cache"
	"esecure-analyze-go/internal/fetcher"
	"esecure-analyze-go/internal/model"
	"esecure-analyze-go/internal/utils"
)

// URLExtractor 从URL抽取条款文本
type URLExtractor interface {
	ExtractURL(ctx context.Context, rawURL string) (*fetcher.Document, error)
}

// LanguageDetector 文本语言检测
type LanguageDetector interface {
	Detect(text string) string
}

// AnalyzeInput 分析请求，Text 非空时忽略 URL
type AnalyzeInput struct {
	Text string
	URL  string
}

// TermsService 条款分析服务
type TermsService struct {
	extractor URLExtractor
	llm       fetcher.LLMClient
	detector  LanguageDetector
	cache     cache.Cache
	model     string
	maxChars  int
	cacheTTL  time.Duration
}

// NewTermsService 创建服务，detector 和 resultCache 可以为 nil
func NewTermsService(cfg *config.Config, extractor URLExtractor, llm fetcher.LLMClient, detector LanguageDetector, resultCache cache.Cache) *TermsService {
	return &TermsService{
		extractor: extractor,
		llm:       llm,
		detector:  detector,
		cache:     resultCache,
		model:     cfg.Model,
		maxChars:  cfg.MaxTextChars,
		cacheTTL:  cfg.CacheTTL,
	}
}

// Analyze 执行一次完整分析: 取文本 -> 组装prompt -> 调用LLM -> 解析分数
func (s *TermsService) Analyze(ctx context.Context, input AnalyzeInput) (*model.AnalysisResult, error) {
	logger := zerolog.Ctx(ctx)

	text := input.Text
	rawURL := strings.TrimSpace(input.URL)
	if strings.TrimSpace(text) == "" && rawURL == "" {
		return nil, ErrMissingInput
	}

	var source *model.SourceInfo
	if strings.TrimSpace(text) == "" {
		doc, err := s.extractor.ExtractURL(ctx, rawURL)
		if err != nil {
			logger.Warn().Err(err).Str("url", rawURL).Msg("terms extraction failed")
			return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		}
		text = doc.Text
		source = &model.SourceInfo{
			URL:      doc.URL,
			FinalURL: doc.FinalURL,
			Title:    doc.Title,
			SiteName: doc.SiteName,
			Selector: doc.Selector,
			Chars:    utils.RuneLen(doc.Text),
		}
		logger.Info().Str("url", rawURL).Str("selector", doc.Selector).Int("chars", source.Chars).Msg("terms extracted")
	}

	if strings.TrimSpace(text) == "" {
		return nil, ErrMissingInput
	}
	text = utils.TruncateRunes(text, s.maxChars)

	var language string
	if s.detector != nil {
		language = s.detector.Detect(text)
	}

	key := cache.Key(s.model, text)
	if cached := s.lookup(ctx, key); cached != nil {
		logger.Info().Str("key", key[:12]).Msg("analysis cache hit")
		cached.Cached = true
		cached.Source = source
		return cached, nil
	}

	start := time.Now()
	reply, err := s.llm.Complete(ctx, BuildPrompt(text, language))
	if err != nil {
		return nil, &UpstreamError{Op: "generate analysis", Err: err}
	}

	result := &model.AnalysisResult{
		Score:    ParseScore(reply),
		Feedback: reply,
		Language: language,
		Source:   source,
	}
	logger.Info().
		Dur("llm_elapsed", time.Since(start)).
		Bool("has_score", result.HasScore()).
		Str("language", language).
		Msg("analysis completed")

	s.store(ctx, key, result)
	return result, nil
}

func (s *TermsService) lookup(ctx context.Context, key string) *model.AnalysisResult {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("cache read failed")
		return nil
	}
	if cached == nil {
		return nil
	}
	return cached.Result
}

func (s *TermsService) store(ctx context.Context, key string, result *model.AnalysisResult) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	// Source 属于本次请求，不写入缓存
	stored := *result
	stored.Source = nil
	if err := s.cache.Set(ctx, key, &stored, s.cacheTTL); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("cache write failed")
	}
}
