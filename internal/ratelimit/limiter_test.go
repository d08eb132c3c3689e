package ratelimit

import (
	"testing"
	"time"
)

func TestLimiterAllowsUpToLimit(t *testing.T) {
	l := New(5, time.Minute)
	defer l.Close()

	for i := 1; i <= 5; i++ {
		if ok, _ := l.Allow("10.0.0.1"); !ok {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	ok, retry := l.Allow("10.0.0.1")
	if ok {
		t.Fatal("6th request within the window should be rejected")
	}
	if retry <= 0 || retry > time.Minute {
		t.Errorf("retry = %v, want within (0, 1m]", retry)
	}

	// 其他地址互不影响
	if ok, _ := l.Allow("10.0.0.2"); !ok {
		t.Error("a different client must have its own quota")
	}
}

func TestLimiterNoRefillInsideWindow(t *testing.T) {
	l := New(5, 200*time.Millisecond)
	defer l.Close()

	for i := 1; i <= 5; i++ {
		if ok, _ := l.Allow("c"); !ok {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	// 超过 window/limit 但仍在窗口内
	time.Sleep(60 * time.Millisecond)
	if ok, _ := l.Allow("c"); ok {
		t.Fatal("request after window/limit but inside the window should be rejected")
	}
}

func TestLimiterSteadyTrickleCapped(t *testing.T) {
	l := New(5, 10*time.Second)
	defer l.Close()

	start := time.Now()
	allowed := 0
	for i := 0; i < 40; i++ {
		if ok, _ := l.Allow("c"); ok {
			allowed++
		}
		time.Sleep(5 * time.Millisecond)
	}

	if allowed != 5 {
		t.Errorf("allowed %d requests within %v, want 5", allowed, time.Since(start))
	}
}

func TestLimiterWindowReset(t *testing.T) {
	l := New(2, time.Minute)
	defer l.Close()

	base := time.Now()
	l.allowAt("a", base)
	l.allowAt("a", base.Add(10*time.Second))

	ok, retry := l.allowAt("a", base.Add(59*time.Second))
	if ok {
		t.Fatal("3rd request in the same window should be rejected")
	}
	if retry != time.Second {
		t.Errorf("retry = %v, want 1s", retry)
	}

	if ok, _ := l.allowAt("a", base.Add(time.Minute)); !ok {
		t.Error("first request of the next window should be allowed")
	}
	if ok, _ := l.allowAt("a", base.Add(time.Minute+time.Second)); !ok {
		t.Error("second request of the next window should be allowed")
	}
	if ok, _ := l.allowAt("a", base.Add(time.Minute+2*time.Second)); ok {
		t.Error("third request of the next window should be rejected")
	}
}

func TestLimiterRejectedRequestsDoNotExtendWindow(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Close()

	base := time.Now()
	l.allowAt("a", base)
	for i := 1; i <= 3; i++ {
		if ok, _ := l.allowAt("a", base.Add(time.Duration(i)*10*time.Second)); ok {
			t.Fatal("requests inside the window should be rejected")
		}
	}

	if ok, _ := l.allowAt("a", base.Add(time.Minute)); !ok {
		t.Error("rejected requests must not push the window back")
	}
}

func TestLimiterEvictIdle(t *testing.T) {
	l := New(5, time.Minute)
	defer l.Close()

	l.Allow("a")
	l.Allow("b")
	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}

	l.evictIdle(time.Now().Add(3 * time.Minute))
	if l.Len() != 0 {
		t.Errorf("Len after eviction = %d, want 0", l.Len())
	}
}
