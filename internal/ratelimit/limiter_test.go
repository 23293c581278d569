package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestHostLimiter_BurstThenThrottle(t *testing.T) {
	hl := NewHostLimiter(100, 2)
	url := "https://tr.wikipedia.org/wiki/Ankara"

	if !hl.Allow(url) || !hl.Allow(url) {
		t.Fatal("burst of 2 should be allowed immediately")
	}
	if hl.Allow(url) {
		t.Error("third immediate request should be throttled")
	}
}

func TestHostLimiter_IndependentBucketsPerHost(t *testing.T) {
	hl := NewHostLimiter(100, 1)

	if !hl.Allow("https://tr.wikipedia.org/wiki/Ankara") {
		t.Fatal("first wikipedia request should pass")
	}
	if !hl.Allow("https://raw.githubusercontent.com/x/y/il.json") {
		t.Error("different host must not share wikipedia's bucket")
	}
	if hl.Allow("https://tr.wikipedia.org/wiki/Konya") {
		t.Error("same host should share one bucket regardless of path")
	}
}

func TestHostLimiter_WaitHonorsContext(t *testing.T) {
	hl := NewHostLimiter(0.001, 1) // effectively frozen after the first token
	url := "https://tr.wikipedia.org/wiki/Sivas"

	if err := hl.Wait(context.Background(), url); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := hl.Wait(ctx, url)
	if err == nil {
		t.Fatal("expected context error while waiting for a token")
	}
	if time.Since(start) > time.Second {
		t.Error("wait did not return promptly after context expiry")
	}
}

func TestHostLimiter_InvalidURLPasses(t *testing.T) {
	hl := NewHostLimiter(1, 1)
	if err := hl.Wait(context.Background(), "://not-a-url"); err != nil {
		t.Errorf("invalid URL should pass through, got %v", err)
	}
}
