package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"esecure-analyze-go/internal/model"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS analysis_cache (
	cache_key  TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	expires_at TIMESTAMPTZ NOT NULL
)`

// PostgresCache PostgreSQL缓存实现
type PostgresCache struct {
	db *sql.DB
}

// NewPostgresCache 创建PostgreSQL缓存
func NewPostgresCache(ctx context.Context, databaseURL string) (*PostgresCache, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 测试连接
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}

	return &PostgresCache{db: db}, nil
}

// Get 获取缓存
func (c *PostgresCache) Get(ctx context.Context, key string) (*CachedResult, error) {
	query := `
	SELECT cache_key, data, created_at, expires_at
	FROM analysis_cache
	WHERE cache_key = $1 AND expires_at > NOW()
	`

	var result CachedResult
	var dataJSON []byte

	err := c.db.QueryRowContext(ctx, query, key).Scan(
		&result.Key,
		&dataJSON,
		&result.CreatedAt,
		&result.ExpiresAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // 缓存不存在或已过期
	}
	if err != nil {
		return nil, err
	}

	result.Result = &model.AnalysisResult{}
	if err := json.Unmarshal(dataJSON, result.Result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Set 设置缓存
func (c *PostgresCache) Set(ctx context.Context, key string, result *model.AnalysisResult, ttl time.Duration) error {
	dataJSON, err := json.Marshal(result)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO analysis_cache (cache_key, data, created_at, expires_at)
	VALUES ($1, $2, NOW(), $3)
	ON CONFLICT (cache_key)
	DO UPDATE SET data = $2, created_at = NOW(), expires_at = $3
	`

	_, err = c.db.ExecContext(ctx, query, key, string(dataJSON), time.Now().Add(ttl))
	return err
}

// Delete 删除缓存
func (c *PostgresCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM analysis_cache WHERE cache_key = $1`, key)
	return err
}

// Close 关闭数据库连接
func (c *PostgresCache) Close() error {
	return c.db.Close()
}

// CleanExpired 清理过期缓存
func (c *PostgresCache) CleanExpired(ctx context.Context) (int64, error) {
	result, err := c.db.ExecContext(ctx, `DELETE FROM analysis_cache WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
