package ratelimit

import (
	"testing"
	"time"
)

func newTestLimiter(max int, window time.Duration) (*Limiter, *time.Time) {
	l := NewLimiter(max, window)
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestIsAllowed_WindowCapacity(t *testing.T) {
	l, _ := newTestLimiter(10, time.Minute)

	for i := 0; i < 10; i++ {
		if !l.IsAllowed("U1") {
			t.Fatalf("request %d rejected inside capacity", i+1)
		}
	}
	if l.IsAllowed("U1") {
		t.Error("11th request in the window must be rejected")
	}
}

func TestIsAllowed_WindowLapse(t *testing.T) {
	l, now := newTestLimiter(2, time.Minute)

	l.IsAllowed("U1")
	l.IsAllowed("U1")
	if l.IsAllowed("U1") {
		t.Fatal("request over capacity admitted")
	}

	*now = now.Add(61 * time.Second)
	if !l.IsAllowed("U1") {
		t.Error("fresh window after lapse must admit")
	}
}

func TestIsAllowed_KeysIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	if !l.IsAllowed("U1") {
		t.Fatal("first key rejected")
	}
	if !l.IsAllowed("U2") {
		t.Error("second key must have its own window")
	}
	if l.IsAllowed("U1") {
		t.Error("first key is at capacity")
	}
}

func TestReset(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	l.IsAllowed("U1")
	l.Reset("U1")
	if !l.IsAllowed("U1") {
		t.Error("reset key must admit again")
	}
}

func TestCleanup(t *testing.T) {
	l, now := newTestLimiter(5, time.Minute)

	l.IsAllowed("U1")
	l.IsAllowed("U2")

	if removed := l.Cleanup(); removed != 0 {
		t.Errorf("removed %d live windows", removed)
	}

	*now = now.Add(2 * time.Minute)
	l.IsAllowed("U3")

	if removed := l.Cleanup(); removed != 2 {
		t.Errorf("removed = %d, want 2 expired windows", removed)
	}
	if l.IsAllowed("U3") != true {
		t.Error("live window dropped by cleanup")
	}
}
