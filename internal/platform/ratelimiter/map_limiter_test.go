package ratelimiter

import (
	"testing"
	"time"
)

func TestNilLimiterAllowsEverything(t *testing.T) {
	var l *MapLimiter
	if !l.Allow("typing", time.Now()) {
		t.Fatal("nil limiter must allow")
	}
	if New(0, 10, time.Minute) != nil {
		t.Fatal("invalid rps should yield nil limiter")
	}
}

func TestBurstExhaustionPerKey(t *testing.T) {
	l := New(1, 2, time.Minute)
	now := time.Now()

	if !l.Allow("typing", now) || !l.Allow("typing", now) {
		t.Fatal("burst of 2 should allow two immediate hits")
	}
	if l.Allow("typing", now) {
		t.Fatal("third immediate hit should be limited")
	}
	// Other keys hold their own bucket.
	if !l.Allow("send-message", now) {
		t.Fatal("separate key must not be affected")
	}
}

func TestTokensRefillOverTime(t *testing.T) {
	l := New(10, 1, time.Minute)
	now := time.Now()
	if !l.Allow("k", now) {
		t.Fatal("first hit should pass")
	}
	if l.Allow("k", now) {
		t.Fatal("bucket should be empty")
	}
	if !l.Allow("k", now.Add(150*time.Millisecond)) {
		t.Fatal("token should refill after 100ms at 10 rps")
	}
}
