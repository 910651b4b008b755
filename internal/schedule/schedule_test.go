package schedule

import (
	"testing"
	"time"
)

func TestNewRejectsBadRange(t *testing.T) {
	if _, err := New(0, 10); err == nil {
		t.Fatalf("expected zero minimum to be rejected")
	}
	if _, err := New(-3, 10); err == nil {
		t.Fatalf("expected negative minimum to be rejected")
	}
	if _, err := New(20, 10); err == nil {
		t.Fatalf("expected inverted range to be rejected")
	}
}

func TestNextStaysInRange(t *testing.T) {
	s, err := New(2, 5)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	seen := map[time.Duration]bool{}
	for i := 0; i < 1000; i++ {
		d := s.Next()
		if d < 2*time.Second || d > 5*time.Second {
			t.Fatalf("delay %v outside [2s, 5s]", d)
		}
		if d%time.Second != 0 {
			t.Fatalf("delay %v is not a whole second", d)
		}
		seen[d] = true
	}
	for _, want := range []time.Duration{2 * time.Second, 3 * time.Second, 4 * time.Second, 5 * time.Second} {
		if !seen[want] {
			t.Fatalf("expected %v to be drawn at least once", want)
		}
	}
}

func TestNextDegenerateRange(t *testing.T) {
	s, err := New(4, 4)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	for i := 0; i < 10; i++ {
		if d := s.Next(); d != 4*time.Second {
			t.Fatalf("expected 4s from degenerate range, got %v", d)
		}
	}
}
