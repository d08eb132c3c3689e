package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"esecure-analyze-go/internal/model"
)

// CachedResult 缓存的分析结果
type CachedResult struct {
	Key       string                `json:"key"`
	Result    *model.AnalysisResult `json:"result"`
	CreatedAt time.Time             `json:"created_at"`
	ExpiresAt time.Time             `json:"expires_at"`
}

// Cache 缓存接口
// Get 未命中或已过期时返回 (nil, nil)
type Cache interface {
	Get(ctx context.Context, key string) (*CachedResult, error)
	Set(ctx context.Context, key string, result *model.AnalysisResult, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Key 由模型名和送给模型的文本生成缓存键
func Key(modelName, text string) string {
	h := sha256.New()
	h.Write([]byte(modelName))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// MemoryCache 内存缓存实现（用于测试或单机部署）
type MemoryCache struct {
	data map[string]*CachedResult
	mu   sync.RWMutex
}

// NewMemoryCache 创建内存缓存
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]*CachedResult),
	}
}

// Get 获取缓存
func (c *MemoryCache) Get(ctx context.Context, key string) (*CachedResult, error) {
	c.mu.RLock()
	result, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	// 检查是否过期
	if time.Now().After(result.ExpiresAt) {
		c.Delete(ctx, key)
		return nil, nil
	}

	copied := *result.Result
	return &CachedResult{
		Key:       result.Key,
		Result:    &copied,
		CreatedAt: result.CreatedAt,
		ExpiresAt: result.ExpiresAt,
	}, nil
}

// Set 设置缓存
func (c *MemoryCache) Set(ctx context.Context, key string, result *model.AnalysisResult, ttl time.Duration) error {
	if result == nil {
		return errors.New("cache: nil result")
	}
	copied := *result
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = &CachedResult{
		Key:       key,
		Result:    &copied,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	return nil
}

// Delete 删除缓存
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
	return nil
}

// CleanExpired 清理过期条目
func (c *MemoryCache) CleanExpired(ctx context.Context) (int64, error) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	var removed int64
	for key, result := range c.data {
		if now.After(result.ExpiresAt) {
			delete(c.data, key)
			removed++
		}
	}
	return removed, nil
}

// Len 当前条目数（包含尚未清理的过期条目）
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
