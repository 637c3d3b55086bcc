package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("openai") {
			t.Errorf("Request %d within burst should be allowed", i)
		}
	}
	if l.Allow("openai") {
		t.Error("Request beyond burst should be denied")
	}
}

func TestLimiter_ProvidersAreIndependent(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("openai") {
		t.Error("First openai request should be allowed")
	}
	if l.Allow("openai") {
		t.Error("Second openai request should be denied")
	}
	// A different provider has its own bucket
	if !l.Allow("ollama") {
		t.Error("First ollama request should be allowed")
	}
}

func TestLimiter_DefaultBurst(t *testing.T) {
	l := NewLimiter(1, 0)
	if l.defaultBurst != 5 {
		t.Errorf("Expected default burst 5, got %d", l.defaultBurst)
	}
}

func TestLimiter_SetProviderRate(t *testing.T) {
	l := NewLimiter(1, 1)
	l.SetProviderRate("qwen", 100, 10)

	allowed := 0
	for i := 0; i < 10; i++ {
		if l.Allow("qwen") {
			allowed++
		}
	}
	if allowed != 10 {
		t.Errorf("Expected custom burst of 10, got %d allowed", allowed)
	}
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	l := NewLimiter(0.01, 1)

	// Drain the burst
	if err := l.Wait(context.Background(), "openai"); err != nil {
		t.Fatalf("First wait failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "openai"); err == nil {
		t.Error("Expected context deadline error while throttled")
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	l := NewLimiter(100, 10)

	start := time.Now()
	if err := l.WaitWithDelay(context.Background(), "openai", 20*time.Millisecond); err != nil {
		t.Fatalf("WaitWithDelay failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Expected at least 20ms delay, got %v", elapsed)
	}
}
