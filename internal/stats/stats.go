// Package stats computes and renders practice statistics.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/bohdon/deadlock-parry/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SuccessRate returns the fraction of punches answered with a parry.
func SuccessRate(s model.SessionStats) float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Attempts)
}

// AverageLatencyMs returns the mean parry latency rounded to the
// nearest millisecond. It reports false until a parry has landed.
func AverageLatencyMs(s model.SessionStats) (int64, bool) {
	if s.Successes == 0 {
		return 0, false
	}
	return int64(math.Round(float64(s.LatencySumMs) / float64(s.Successes))), true
}

// FormatOutcomeLine renders the transcript line for one judged round.
func FormatOutcomeLine(out model.Outcome) string {
	if out.Success {
		return fmt.Sprintf("Parry success: %dms", out.LatencyMs)
	}
	return "Parry failed, you died."
}

// FormatSummaryLine renders the running totals line shown after every
// round and at exit.
func FormatSummaryLine(s model.SessionStats) string {
	avg := "n/a"
	if ms, ok := AverageLatencyMs(s); ok {
		avg = fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%d / %d (%.2f%%), average response: %s", s.Successes, s.Attempts, SuccessRate(s)*100, avg)
}

// SessionMetrics computes the success rate and mean latency for a
// stored session.
func SessionMetrics(s model.SessionAggregate) (rate, avgMs float64) {
	if s.Attempts > 0 {
		rate = float64(s.Successes) / float64(s.Attempts)
	}
	if s.Successes > 0 {
		avgMs = float64(s.LatencySumMs) / float64(s.Successes)
	}
	return rate, avgMs
}

// MovingAverage smooths values with a trailing window mean.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if n > window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline compresses values into one line of ASCII levels.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := valueRange(values)
	if math.Abs(hi-lo) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	out := make([]byte, len(values))
	for i, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		} else if idx > len(sparkChars)-1 {
			idx = len(sparkChars) - 1
		}
		out[i] = sparkChars[idx]
	}
	return string(out)
}

// RenderSummary prints overall totals for the stored sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate, rounds []model.RoundAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totals model.SessionStats
	bestRate := 0.0
	for _, s := range sessions {
		totals.Attempts += s.Attempts
		totals.Successes += s.Successes
		totals.LatencySumMs += s.LatencySumMs
		rate, _ := SessionMetrics(s)
		if rate > bestRate {
			bestRate = rate
		}
	}
	avg := "n/a"
	if ms, ok := AverageLatencyMs(totals); ok {
		avg = fmt.Sprintf("%dms", ms)
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", len(sessions)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Rounds: %d\n", totals.Attempts); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Parries: %d (%.2f%%)\n", totals.Successes, SuccessRate(totals)*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Average response: %s\n", avg); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best session: %.2f%%\n", bestRate*100); err != nil {
		return err
	}
	if streak := LongestStreak(AggregateSuccessFlags(rounds)); streak > 1 {
		if _, err := fmt.Fprintf(w, "Longest streak: %d parries\n", streak); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderSessionTable prints one row per stored session.
func RenderSessionTable(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Sessions"); err != nil {
		return err
	}
	cols := []tableColumn{
		{Title: "When"},
		{Title: "Rounds", Right: true},
		{Title: "Parries", Right: true},
		{Title: "Rate", Right: true},
		{Title: "Avg (ms)", Right: true},
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rate, avgMs := SessionMetrics(s)
		avg := "n/a"
		if s.Successes > 0 {
			avg = fmt.Sprintf("%.0f", avgMs)
		}
		rows = append(rows, []string{
			s.EndedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", s.Attempts),
			fmt.Sprintf("%d", s.Successes),
			fmt.Sprintf("%.2f%%", rate*100),
			avg,
		})
	}
	for _, line := range renderTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCurves prints success rate and response time curves across
// sessions.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	return RenderCurvesWithSize(w, sessions, window, 0, 10, false)
}

// RenderCurvesWithSize prints the session curves sized to a given total
// width.
func RenderCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	rates := make([]float64, len(sessions))
	avgs := make([]float64, len(sessions))
	for i, s := range sessions {
		rate, avgMs := SessionMetrics(s)
		rates[i] = rate * 100
		avgs[i] = avgMs
	}
	rates = MovingAverage(rates, window)
	avgs = MovingAverage(avgs, window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Progress", []Series{
		{Name: "Parry Rate (%)", Values: rates},
		{Name: "Avg Response (ms)", Values: avgs},
	}, width, height, useColor)
}

// RenderResponseCurve prints per-round response times for successful
// parries, oldest first.
func RenderResponseCurve(w io.Writer, rounds []model.RoundAggregate, window int) error {
	return RenderResponseCurveWithSize(w, rounds, window, 0, 10, false)
}

// RenderResponseCurveWithSize prints the response curve sized to a
// given total width.
func RenderResponseCurveWithSize(w io.Writer, rounds []model.RoundAggregate, window, totalWidth, height int, useColor bool) error {
	latencies := SuccessLatencies(rounds)
	if len(latencies) == 0 {
		_, err := fmt.Fprintln(w, "No successful parries yet.")
		return err
	}
	trend := MovingAverage(latencies, window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Response Times", []Series{
		{Name: "Response (ms)", Values: latencies},
		{Name: "Trend", Values: trend},
	}, width, height, useColor)
}

// SuccessLatencies extracts the latencies of successful parries in
// round order.
func SuccessLatencies(rounds []model.RoundAggregate) []float64 {
	out := make([]float64, 0, len(rounds))
	for _, r := range rounds {
		if !r.Success {
			continue
		}
		out = append(out, float64(r.LatencyMs))
	}
	return out
}
