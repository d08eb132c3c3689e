package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper 支持批量清理过期条目的缓存
type Sweeper interface {
	CleanExpired(ctx context.Context) (int64, error)
}

// StartJanitor 每隔 interval 清理一次过期条目，返回的函数停止清理并等待退出
func StartJanitor(s Sweeper, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				removed, err := s.CleanExpired(ctx)
				cancel()
				if err != nil {
					log.Warn().Err(err).Msg("cache sweep failed")
					continue
				}
				if removed > 0 {
					log.Debug().Int64("removed", removed).Msg("expired cache entries removed")
				}
			case <-stop:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
		})
	}
}

// SweepInterval 清理间隔：TTL 的十分之一，限制在 [1m, 1h]
func SweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 10
	switch {
	case interval < time.Minute:
		return time.Minute
	case interval > time.Hour:
		return time.Hour
	}
	return interval
}
