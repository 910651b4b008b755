// Package audio plays the punch, parry, and hit cues.
package audio

import (
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
)

// Cue identifies one of the practice sounds.
type Cue string

const (
	CuePunch Cue = "punch"
	CueParry Cue = "parry"
	CueHit   Cue = "hit"
)

// Player plays practice cues. Playback is best effort and must never
// delay a round.
type Player interface {
	Play(cue Cue)
}

// NewNopPlayer returns a player that stays silent.
func NewNopPlayer() Player { return nopPlayer{} }

type nopPlayer struct{}

func (nopPlayer) Play(Cue) {}

// NewBellPlayer returns a player that rings the terminal bell on the
// punch cue. Parry and hit feedback is already visible on screen.
func NewBellPlayer(w io.Writer) Player {
	return &bellPlayer{w: w}
}

type bellPlayer struct {
	w io.Writer
}

func (p *bellPlayer) Play(cue Cue) {
	if cue != CuePunch {
		return
	}
	_, _ = p.w.Write([]byte("\a"))
}

// NewCommandPlayer returns a player that launches command with the
// cue's wav file from dir appended as the last argument.
func NewCommandPlayer(command, dir string, logger *slog.Logger) Player {
	return &commandPlayer{command: command, dir: dir, logger: logger}
}

type commandPlayer struct {
	command string
	dir     string
	logger  *slog.Logger
}

func (p *commandPlayer) Play(cue Cue) {
	parts := strings.Fields(p.command)
	if len(parts) == 0 {
		return
	}
	args := append(parts[1:], filepath.Join(p.dir, fmt.Sprintf("%s.wav", cue)))
	cmd := exec.Command(parts[0], args...)
	go func() {
		if err := cmd.Run(); err != nil {
			p.logger.Warn("sound playback failed", "cue", string(cue), "err", err)
		}
	}()
}
