package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowBurstThenDeny(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 0.001) {
			t.Fatalf("expected token %d to be allowed", i)
		}
	}
	if l.Allow("k", 3, 0.001) {
		t.Fatalf("expected bucket exhausted")
	}
}

func TestAllowIndependentKeys(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0.001) {
		t.Fatalf("expected a allowed")
	}
	if !l.Allow("b", 1, 0.001) {
		t.Fatalf("expected b allowed despite a being drained")
	}
}

func TestWaitBlocksUntilRefill(t *testing.T) {
	l := New()
	if !l.Allow("k", 1, 50) {
		t.Fatalf("expected first token")
	}

	start := time.Now()
	if err := l.Wait(context.Background(), "k", 1, 50); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatalf("expected wait to pace the second token")
	}
}

func TestWaitHonorsContext(t *testing.T) {
	l := New()
	if !l.Allow("k", 1, 0.001) {
		t.Fatalf("expected first token")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, "k", 1, 0.001); err == nil {
		t.Fatalf("expected context error")
	}
}
