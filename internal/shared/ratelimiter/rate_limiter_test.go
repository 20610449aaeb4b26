package ratelimiter

import (
	"context"
	"testing"
	"time"
)

func TestWait_BurstDoesNotBlock(t *testing.T) {
	rl := NewRateLimiter(1, 3)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("burst calls took %v, expected no blocking", elapsed)
	}
}

func TestWait_CancelledContext(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	ctx := context.Background()

	// drain the only token
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := rl.Wait(cancelled); err == nil {
		t.Fatal("Wait() with a cancelled context should fail")
	}
}

func TestNewRateLimiter_RaisesZeroBurst(t *testing.T) {
	rl := NewRateLimiter(1, 0)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("first Wait() error = %v, burst should be at least 1", err)
	}
}
