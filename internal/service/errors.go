package service

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput 既没有 text 也没有 url，或内容为空
	ErrMissingInput = errors.New("no text provided")
	// ErrExtractionFailed 从URL中没有抽取到条款内容
	ErrExtractionFailed = errors.New("failed to extract terms from url")
)

// UpstreamError 调用LLM服务失败（缺少key、网络、服务端错误、超时）
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUpstream 判断是否为上游服务错误
func IsUpstream(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream)
}
