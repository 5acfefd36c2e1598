package timeout

import (
	"errors"
	"testing"
	"time"
)

func TestCheckPassesWithinBudget(t *testing.T) {
	c := New(time.Minute)
	if err := c.Check(); err != nil {
		t.Fatalf("expected no error within budget, got %v", err)
	}
	if c.IsExpired() {
		t.Fatal("expected not expired")
	}
}

func TestCheckFailsAfterBudget(t *testing.T) {
	c := New(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	err := c.Check()
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestExpiryIsSticky(t *testing.T) {
	c := New(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if err := c.Check(); err == nil {
		t.Fatal("expected first check to fail")
	}
	// Every subsequent check must keep failing.
	for i := 0; i < 3; i++ {
		if err := c.Check(); !errors.Is(err, ErrExpired) {
			t.Fatalf("check %d: expected ErrExpired, got %v", i, err)
		}
	}
	if !c.IsExpired() {
		t.Fatal("expected IsExpired after expiry")
	}
}

func TestRemainingNeverNegative(t *testing.T) {
	c := New(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if r := c.Remaining(); r < 0 {
		t.Fatalf("expected non-negative remaining, got %v", r)
	}
	c.Check()
	if r := c.Remaining(); r != 0 {
		t.Fatalf("expected zero remaining after expiry, got %v", r)
	}
}

func TestElapsedGrows(t *testing.T) {
	c := New(time.Minute)
	e1 := c.Elapsed()
	time.Sleep(2 * time.Millisecond)
	e2 := c.Elapsed()
	if e2 <= e1 {
		t.Fatalf("expected elapsed to grow, got %v then %v", e1, e2)
	}
}
