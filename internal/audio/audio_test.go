package audio

import (
	"bytes"
	"testing"
)

func TestBellPlayerRingsOnPunchOnly(t *testing.T) {
	var buf bytes.Buffer
	p := NewBellPlayer(&buf)
	p.Play(CueParry)
	p.Play(CueHit)
	if buf.Len() != 0 {
		t.Fatalf("expected no bell for parry or hit, got %q", buf.String())
	}
	p.Play(CuePunch)
	if buf.String() != "\a" {
		t.Fatalf("expected bell on punch, got %q", buf.String())
	}
}

func TestNopPlayer(t *testing.T) {
	p := NewNopPlayer()
	p.Play(CuePunch)
	p.Play(CueParry)
	p.Play(CueHit)
}
