package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"esecure-analyze-go/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS analysis_cache (
	cache_key  TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
)`

// SQLiteCache 单文件SQLite缓存，适合没有PostgreSQL的单机部署
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache 打开（或创建）SQLite数据库，path 可以是 ":memory:"
func NewSQLiteCache(ctx context.Context, path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// 单连接，避免 :memory: 每个连接各一份数据库以及写锁竞争
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteCache{db: db}, nil
}

// Get 获取缓存
func (c *SQLiteCache) Get(ctx context.Context, key string) (*CachedResult, error) {
	var (
		dataJSON           string
		created, expiresAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT data, created_at, expires_at FROM analysis_cache WHERE cache_key = ? AND expires_at > ?`,
		key, time.Now().UnixNano(),
	).Scan(&dataJSON, &created, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	result := &CachedResult{
		Key:       key,
		Result:    &model.AnalysisResult{},
		CreatedAt: time.Unix(0, created),
		ExpiresAt: time.Unix(0, expiresAt),
	}
	if err := json.Unmarshal([]byte(dataJSON), result.Result); err != nil {
		return nil, err
	}
	return result, nil
}

// Set 设置缓存
func (c *SQLiteCache) Set(ctx context.Context, key string, result *model.AnalysisResult, ttl time.Duration) error {
	dataJSON, err := json.Marshal(result)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = c.db.ExecContext(ctx, `
	INSERT INTO analysis_cache (cache_key, data, created_at, expires_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (cache_key)
	DO UPDATE SET data = excluded.data, created_at = excluded.created_at, expires_at = excluded.expires_at
	`, key, string(dataJSON), now.UnixNano(), now.Add(ttl).UnixNano())
	return err
}

// Delete 删除缓存
func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM analysis_cache WHERE cache_key = ?`, key)
	return err
}

// CleanExpired 清理过期缓存
func (c *SQLiteCache) CleanExpired(ctx context.Context) (int64, error) {
	result, err := c.db.ExecContext(ctx, `DELETE FROM analysis_cache WHERE expires_at < ?`, time.Now().UnixNano())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Close 关闭数据库连接
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
