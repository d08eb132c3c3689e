package ratelimit

import (
	"sync"
	"time"
)

// Limiter 按 key 固定窗口计数限流
// 每个窗口最多 limit 次，窗口内第 limit+1 次被拒绝，窗口到期后计数清零
type Limiter struct {
	limit   int
	window  time.Duration
	idleTTL time.Duration

	mu      sync.Mutex
	clients map[string]*client
	stop    chan struct{}
	once    sync.Once
}

type client struct {
	windowStart time.Time
	count       int
}

// New 创建限流器，例如 New(5, time.Minute) 即每分钟5次
func New(limit int, window time.Duration) *Limiter {
	l := &Limiter{
		limit:   limit,
		window:  window,
		idleTTL: 2 * window,
		clients: make(map[string]*client),
		stop:    make(chan struct{}),
	}
	go l.janitor(window)
	return l
}

// Allow 记录一次请求，返回是否放行以及被拒绝时距窗口结束的时间
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	return l.allowAt(key, time.Now())
}

func (l *Limiter) allowAt(key string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[key]
	if !ok || now.Sub(c.windowStart) >= l.window {
		c = &client{windowStart: now}
		l.clients[key] = c
	}

	// 被拒绝的请求不计数
	if c.count >= l.limit {
		return false, c.windowStart.Add(l.window).Sub(now)
	}
	c.count++
	return true, 0
}

// Len 当前跟踪的 key 数
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Close 停止后台清理
func (l *Limiter) Close() {
	l.once.Do(func() { close(l.stop) })
}

// janitor 定期清理长时间没有请求的 key
func (l *Limiter) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evictIdle(time.Now())
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) evictIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, c := range l.clients {
		if now.Sub(c.windowStart) > l.idleTTL {
			delete(l.clients, key)
		}
	}
}
