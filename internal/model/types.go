// Package model defines the value types shared across the trainer.
package model

import "time"

// Config holds the practice session settings.
type Config struct {
	DelayMin      int    // minimum punch delay, seconds
	DelayMax      int    // maximum punch delay, seconds
	ParryWindowMs int    // parry window, milliseconds
	ParryKey      string // normalized parry key name
	EndOnDeath    bool   // stop the session after a failed parry
}

// StatsConfig narrows which sessions the stats views load.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Outcome is the result of one judged round: a parry inside the window
// with its measured latency, or a death.
type Outcome struct {
	Success   bool
	LatencyMs int64
}

// RoundRecord captures one judged round for session history.
type RoundRecord struct {
	Seq       int
	ArmedAt   time.Time
	Success   bool
	LatencyMs int64
}

// SessionStats tracks running totals for the current practice run.
// Totals only grow; they reset with the process.
type SessionStats struct {
	Attempts     int
	Successes    int
	LatencySumMs int64
}

// SessionRecord captures a completed practice session.
type SessionRecord struct {
	StartedAt     time.Time
	EndedAt       time.Time
	DelayMin      int
	DelayMax      int
	ParryWindowMs int
	ParryKey      string
	Attempts      int
	Successes     int
	LatencySumMs  int64
	EndReason     string
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID     int64
	EndedAt       time.Time
	ParryWindowMs int
	ParryKey      string
	Attempts      int
	Successes     int
	LatencySumMs  int64
	EndReason     string
}

// RoundAggregate is one stored round, used for response curves.
type RoundAggregate struct {
	SessionID int64
	Seq       int
	Success   bool
	LatencyMs int64
}
