package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"esecure-analyze-go/internal/model"
	"esecure-analyze-go/internal/service"
)

const maxRequestBody = 1 << 20

// Analyzer 条款分析服务
type Analyzer interface {
	Analyze(ctx context.Context, input service.AnalyzeInput) (*model.AnalysisResult, error)
}

// TermsHandler 条款分析HTTP处理器
type TermsHandler struct {
	service Analyzer
}

// NewTermsHandler 创建处理器
func NewTermsHandler(svc Analyzer) *TermsHandler {
	return &TermsHandler{service: svc}
}

// AnalyzeTerms 处理分析请求
// POST /analyze_terms
// Body: {"text": "..."} 或 {"url": "https://..."}
func (h *TermsHandler) AnalyzeTerms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	logger := zerolog.Ctx(r.Context())

	// 解析失败的请求体按空请求处理
	var req AnalyzeRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		logger.Debug().Err(err).Msg("ignoring unparseable request body")
		req = AnalyzeRequest{}
	}

	result, err := h.service.Analyze(r.Context(), service.AnalyzeInput{Text: req.Text, URL: req.URL})
	if err != nil {
		h.writeAnalyzeError(w, logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *TermsHandler) writeAnalyzeError(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrMissingInput):
		writeError(w, http.StatusBadRequest, "No text provided")
	case errors.Is(err, service.ErrExtractionFailed):
		writeError(w, http.StatusBadRequest, "Failed to extract terms from URL")
	case service.IsUpstream(err):
		logger.Error().Err(err).Msg("AI backend error")
		writeErrorDetail(w, http.StatusBadGateway, "AI backend error", err.Error())
	default:
		logger.Error().Err(err).Msg("analysis failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// Home 服务信息
func (h *TermsHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "ESECURE Backend is running successfully!",
		"endpoints": map[string]string{
			"analyze_terms": "/analyze_terms (POST)",
			"health":        "/health (GET)",
		},
	})
}

// Health 健康检查
func (h *TermsHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
