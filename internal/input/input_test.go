package input

import (
	"errors"
	"testing"
	"time"
)

func TestParseKeyNormalizes(t *testing.T) {
	cases := []struct {
		in   string
		want Key
	}{
		{"f", "f"},
		{"F", "f"},
		{" F ", "f"},
		{"j", "j"},
		{"space", KeySpace},
		{"Space", KeySpace},
		{" ", KeySpace},
		{"7", "7"},
	}
	for _, c := range cases {
		got, err := ParseKey(c.in)
		if err != nil {
			t.Fatalf("ParseKey(%q) returned error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseKeyRejectsUnsupported(t *testing.T) {
	for _, in := range []string{"", "fn", "ctrl+c", "\t"} {
		if _, err := ParseKey(in); err == nil {
			t.Fatalf("expected ParseKey(%q) to fail", in)
		}
	}
}

func TestFromRune(t *testing.T) {
	if got := FromRune('F'); got != "f" {
		t.Fatalf("FromRune('F') = %q, want %q", got, "f")
	}
	if got := FromRune(' '); got != KeySpace {
		t.Fatalf("FromRune(' ') = %q, want %q", got, KeySpace)
	}
}

func TestWatcherFiltersOtherKeys(t *testing.T) {
	w := NewWatcher("f")
	at := time.Now()
	if w.Offer("g", at) {
		t.Fatalf("expected press of another key to be ignored")
	}
	if !w.Offer("f", at) {
		t.Fatalf("expected matching press to be enqueued")
	}
	select {
	case got := <-w.Presses():
		if !got.Equal(at) {
			t.Fatalf("expected press at %v, got %v", at, got)
		}
	default:
		t.Fatalf("expected a press to be queued")
	}
}

func TestWatcherDropsWhenBufferFull(t *testing.T) {
	w := NewWatcher("f")
	at := time.Now()
	for i := 0; i < pressBuffer; i++ {
		if !w.Offer("f", at) {
			t.Fatalf("expected press %d to be enqueued", i)
		}
	}
	if w.Offer("f", at) {
		t.Fatalf("expected press to be dropped once the buffer is full")
	}
}

func TestWatcherClose(t *testing.T) {
	w := NewWatcher("f")
	if err := w.Err(); err != nil {
		t.Fatalf("expected no error while open, got %v", err)
	}
	w.Close(nil)
	if w.Offer("f", time.Now()) {
		t.Fatalf("expected press after close to be ignored")
	}
	if _, ok := <-w.Presses(); ok {
		t.Fatalf("expected press channel to be closed")
	}
	if !errors.Is(w.Err(), ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", w.Err())
	}
	w.Close(nil)
}

func TestWatcherCloseCause(t *testing.T) {
	cause := errors.New("terminal went away")
	w := NewWatcher("f")
	w.Close(cause)
	if !errors.Is(w.Err(), cause) {
		t.Fatalf("expected close cause, got %v", w.Err())
	}
}
