// Package session runs the practice loop: wait quietly, punch, judge
// the parry, record the outcome, repeat.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bohdon/deadlock-parry/internal/audio"
	"github.com/bohdon/deadlock-parry/internal/judge"
	"github.com/bohdon/deadlock-parry/internal/logging"
	"github.com/bohdon/deadlock-parry/internal/model"
	"github.com/bohdon/deadlock-parry/internal/schedule"
	"github.com/bohdon/deadlock-parry/internal/stats"
)

// End reasons recorded with a finished session.
const (
	EndReasonQuit  = "quit"
	EndReasonDeath = "death"
	EndReasonFault = "fault"
)

// Options wires the collaborators of a practice session.
type Options struct {
	Config     model.Config
	Scheduler  *schedule.Scheduler
	Judge      *judge.Judge
	Aggregator *stats.Aggregator
	Player     audio.Player
	Transcript io.Writer
	Logger     *slog.Logger
	Events     chan<- Event
}

// Session drives rounds until the player quits, a death ends the run
// under the end-on-death policy, or the input stream fails.
type Session struct {
	opts   Options
	reason string
}

// New returns a session with optional collaborators defaulted.
func New(opts Options) *Session {
	if opts.Player == nil {
		opts.Player = audio.NewNopPlayer()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Session{opts: opts}
}

// Reason returns why the session ended. Valid after Run returns.
func (s *Session) Reason() string {
	return s.reason
}

// Run executes rounds until the session ends. It returns nil when the
// context is canceled or a death stops the run, and an error only for
// input stream faults.
func (s *Session) Run(ctx context.Context) error {
	cfg := s.opts.Config
	s.opts.Logger.Info("starting parry practice",
		"delay_min_s", cfg.DelayMin,
		"delay_max_s", cfg.DelayMax,
		"parry_window_ms", cfg.ParryWindowMs,
		"parry_key", cfg.ParryKey)

	for {
		delay := s.opts.Scheduler.Next()
		s.opts.Logger.Debug("punch scheduled", "delay_s", delay.Seconds())
		s.emit(ctx, RoundScheduled{Delay: delay})

		if err := s.opts.Judge.Wait(ctx, delay); err != nil {
			return s.finish(err)
		}

		armedAt := time.Now()
		s.opts.Player.Play(audio.CuePunch)
		s.emit(ctx, Punch{ArmedAt: armedAt})

		out, err := s.opts.Judge.Round(ctx)
		if err != nil {
			return s.finish(err)
		}
		if out.Success {
			s.opts.Player.Play(audio.CueParry)
			s.opts.Logger.Info("parry success", "latency_ms", out.LatencyMs)
		} else {
			s.opts.Player.Play(audio.CueHit)
			s.opts.Logger.Info("parry failed")
		}

		totals := s.opts.Aggregator.Record(armedAt, out)
		s.report(out, totals)
		s.emit(ctx, RoundResolved{Outcome: out, Totals: totals})

		if !out.Success && cfg.EndOnDeath {
			s.reason = EndReasonDeath
			s.emitEnded(EndReasonDeath, nil)
			return nil
		}
	}
}

func (s *Session) finish(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.reason = EndReasonQuit
		s.emitEnded(EndReasonQuit, nil)
		return nil
	}
	err = fmt.Errorf("input stream failed: %w", err)
	s.reason = EndReasonFault
	s.opts.Logger.Error("session aborted", "err", err)
	s.emitEnded(EndReasonFault, err)
	return err
}

func (s *Session) report(out model.Outcome, totals model.SessionStats) {
	if s.opts.Transcript == nil {
		return
	}
	fmt.Fprintln(s.opts.Transcript, stats.FormatOutcomeLine(out))
	fmt.Fprintln(s.opts.Transcript, stats.FormatSummaryLine(totals))
}

func (s *Session) emit(ctx context.Context, ev Event) {
	if s.opts.Events == nil {
		return
	}
	select {
	case s.opts.Events <- ev:
	case <-ctx.Done():
	}
}

// emitEnded never blocks; the UI may already be gone when the loop
// stops.
func (s *Session) emitEnded(reason string, err error) {
	if s.opts.Events == nil {
		return
	}
	select {
	case s.opts.Events <- Ended{Reason: reason, Err: err}:
	default:
	}
}
