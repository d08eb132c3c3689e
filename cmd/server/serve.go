package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"esecure-analyze-go/config"
	"esecure-analyze-go/internal/cache"
	"esecure-analyze-go/internal/fetcher"
	"esecure-analyze-go/internal/handler"
	"esecure-analyze-go/internal/ratelimit"
	"esecure-analyze-go/internal/service"
)

// loadConfig 读取配置并初始化日志
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	setupLogger(cfg)
	return cfg, nil
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if cfg.LogFormat != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger
}

// openCache 优先使用PostgreSQL，其次SQLite，否则使用内存缓存
// 返回的关闭函数会先停止过期清理，再关闭底层连接
func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, func()) {
	if cfg.CacheTTL <= 0 {
		log.Info().Msg("CACHE_TTL is 0, result caching disabled")
		return nil, func() {}
	}

	store, closeStore := selectCache(ctx, cfg)
	interval := cache.SweepInterval(cfg.CacheTTL)
	stopJanitor := cache.StartJanitor(store, interval)
	log.Debug().Dur("interval", interval).Msg("Cache janitor started")

	return store, func() {
		stopJanitor()
		closeStore()
	}
}

type sweepingCache interface {
	cache.Cache
	cache.Sweeper
}

func selectCache(ctx context.Context, cfg *config.Config) (sweepingCache, func()) {
	if cfg.DatabaseURL != "" {
		pg, err := cache.NewPostgresCache(ctx, cfg.DatabaseURL)
		if err == nil {
			log.Info().Msg("Using PostgreSQL cache")
			return pg, func() { pg.Close() }
		}
		log.Warn().Err(err).Msg("Failed to connect to PostgreSQL, falling back")
	}

	if cfg.SQLitePath != "" {
		lite, err := cache.NewSQLiteCache(ctx, cfg.SQLitePath)
		if err == nil {
			log.Info().Str("path", cfg.SQLitePath).Msg("Using SQLite cache")
			return lite, func() { lite.Close() }
		}
		log.Warn().Err(err).Msg("Failed to open SQLite cache, falling back")
	}

	log.Info().Msg("Using memory cache")
	return cache.NewMemoryCache(), func() {}
}

// newTermsService 组装分析服务
func newTermsService(cfg *config.Config, resultCache cache.Cache) (*service.TermsService, *fetcher.TermsExtractor) {
	extractor := fetcher.NewTermsExtractor(fetcher.NewHTTPPageFetcher(cfg.FetchTimeout), cfg.MaxTextChars)
	llm := fetcher.NewOpenRouterClient(cfg)
	svc := service.NewTermsService(cfg, extractor, llm, fetcher.NewLanguageDetector(), resultCache)
	return svc, extractor
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if port := c.String("port"); port != "" {
		cfg.Port = strings.TrimPrefix(port, ":")
	}
	if c.Bool("disable-auth") {
		cfg.DisableAuth = true
	}

	// 验证必要的配置
	if cfg.OpenRouterKey == "" {
		log.Warn().Msg("OPENROUTER_API_KEY not configured, analysis requests will fail with 502")
	}
	if cfg.AuthEnabled() && cfg.AccessToken == "" {
		log.Warn().Msg("MY_PUBLIC_TOKEN not configured and auth enabled, all analysis requests will be rejected")
	}
	if !cfg.AuthEnabled() {
		log.Warn().Msg("Access token check disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resultCache, closeCache := openCache(ctx, cfg)
	defer closeCache()

	svc, _ := newTermsService(cfg, resultCache)
	limiter := ratelimit.New(cfg.RateLimitPerMinute, time.Minute)
	defer limiter.Close()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(cfg, handler.NewTermsHandler(svc), limiter),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.FetchTimeout + cfg.LLMTimeout + 10*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("model", cfg.Model).Msg("Server starting")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
