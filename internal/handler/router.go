package handler

import (
	"net/http"

	"esecure-analyze-go/config"
	"esecure-analyze-go/internal/ratelimit"
)

// NewRouter 组装路由和中间件
// 顺序（外到内）: 访问日志 -> recover -> CORS -> 限流 -> 鉴权
// /health 不限流也不鉴权，/ 限流但不鉴权
func NewRouter(cfg *config.Config, terms *TermsHandler, limiter *ratelimit.Limiter) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", terms.Home)
	mux.HandleFunc("/health", terms.Health)
	mux.HandleFunc("/analyze_terms", terms.AnalyzeTerms)

	var h http.Handler = mux
	if cfg.AuthEnabled() {
		h = authMiddleware(cfg.AccessToken, "/", "/health")(h)
	}
	h = rateLimitMiddleware(limiter, "/health")(h)
	h = corsMiddleware(cfg.AllowedOrigins)(h)
	h = recoverMiddleware(h)
	return requestLogger(h)
}
