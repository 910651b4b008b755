// Package stats computes and renders practice statistics.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// Series is a named sequence of values for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelHi         = "max"
	axisLabelMid        = "mid"
	axisLabelLo         = "min"
	axisSeparator       = " │ "
	scaleNote           = "Scaled per series; ranges below."
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var plotColors = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
}

// dashPattern distinguishes overlapping series without color.
type dashPattern struct {
	name   string
	period int
	on     int
}

var dashPatterns = []dashPattern{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
	{name: "dashdot", period: 8, on: 3},
}

func (p dashPattern) at(x int) bool {
	if p.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%p.period < p.on
}

// brailleCanvas accumulates dots at double horizontal and quadruple
// vertical resolution per character cell. The first series to touch a
// cell owns its color.
type brailleCanvas struct {
	width  int
	height int
	cells  [][]uint8
	owner  [][]int
}

var brailleDotMasks = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func newBrailleCanvas(width, height int) *brailleCanvas {
	cells := make([][]uint8, height)
	owner := make([][]int, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
		owner[y] = make([]int, width)
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}
	return &brailleCanvas{width: width, height: height, cells: cells, owner: owner}
}

func (c *brailleCanvas) setDot(series, x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cx, cy := x/2, y/4
	if cy >= c.height || cx >= c.width {
		return
	}
	c.cells[cy][cx] |= brailleDotMasks[y%4][x%2]
	if c.owner[cy][cx] < 0 {
		c.owner[cy][cx] = series
	}
}

// PlotSeries draws the series as a braille line plot.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return plotSeries(w, title, series, width, height, false)
}

// PlotSeriesWithColor renders a multi-line text plot with optional
// forced color output.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	return plotSeries(w, title, series, width, height, forceColor)
}

func plotSeries(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	drawable := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			drawable = append(drawable, s)
		}
	}
	if len(drawable) == 0 {
		return nil
	}

	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	width = max(width, minPlotWidth)

	canvas := newBrailleCanvas(width, height)
	ranges := make([][2]float64, len(drawable))
	for i, s := range drawable {
		values := resample(s.Values, width)
		lo, hi := valueRange(values)
		if hi-lo < 1e-9 {
			lo--
			hi++
		}
		ranges[i] = [2]float64{lo, hi}
		drawSeries(canvas, i, values, lo, hi, dashPatterns[i%len(dashPatterns)])
	}

	useColor := shouldUseColor(w, forceColor)
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, scaleNote); err != nil {
		return err
	}
	for i, s := range drawable {
		if _, err := fmt.Fprintf(w, "%s: min=%.2f max=%.2f\n", s.Name, ranges[i][0], ranges[i][1]); err != nil {
			return err
		}
	}

	labels := makeAxisLabels(height)
	labelWidth := displayWidth(axisLabelHi)
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", labelWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			ch := rune(0x2800 + int(canvas.cells[y][x]))
			owner := canvas.owner[y][x]
			if useColor && owner >= 0 {
				row.WriteString(plotColors[owner%len(plotColors)])
				row.WriteRune(ch)
				row.WriteString(colorReset)
				continue
			}
			row.WriteRune(ch)
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, renderLegend(drawable, useColor)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func drawSeries(c *brailleCanvas, idx int, values []float64, lo, hi float64, dash dashPattern) {
	prevX, prevY := -1, -1
	for i, v := range values {
		x := i * 2
		y := rowFor(v, lo, hi, c.height*4)
		if prevX >= 0 {
			plotLine(prevX, prevY, x, y, func(px, py int) {
				if dash.at(px) {
					c.setDot(idx, px, py)
				}
			})
		} else if dash.at(x) {
			c.setDot(idx, x, y)
		}
		prevX, prevY = x, y
	}
}

// rowFor maps a value onto a dot row, row zero at the top.
func rowFor(v, lo, hi float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	if row < 0 {
		row = 0
	}
	if row >= rows {
		row = rows - 1
	}
	return row
}

// resample stretches or shrinks values to the given width, averaging
// buckets when shrinking and interpolating when stretching.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) == width {
		return append([]float64(nil), values...)
	}
	res := make([]float64, width)
	if len(values) > width {
		for i := range res {
			start := i * len(values) / width
			end := (i + 1) * len(values) / width
			if end <= start {
				end = start + 1
			}
			if end > len(values) {
				end = len(values)
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			res[i] = sum / float64(end-start)
		}
		return res
	}
	if width == 1 || len(values) == 1 {
		for i := range res {
			res[i] = values[0]
		}
		return res
	}
	for i := range res {
		t := float64(i) * float64(len(values)-1) / float64(width-1)
		base := int(math.Floor(t))
		if base >= len(values)-1 {
			res[i] = values[len(values)-1]
			continue
		}
		f := t - float64(base)
		res[i] = values[base]*(1-f) + values[base+1]*f
	}
	return res
}

func valueRange(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func makeAxisLabels(height int) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = axisLabelHi
	if height > 2 {
		labels[height/2] = axisLabelMid
	}
	if height > 1 {
		labels[height-1] = axisLabelLo
	}
	return labels
}

func autoPlotWidth() int {
	return PlotWidthFor(terminalWidth())
}

// PlotWidthFor computes a plot width that fits within the total
// available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := displayWidth(axisLabelHi) + displayWidth(axisSeparator)
	plotWidth := totalWidth - axisWidth
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func renderLegend(series []Series, useColor bool) string {
	marker := rune(0x2800 + int(brailleDotMasks[0][0]))
	parts := make([]string, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", marker, s.Name, dashPatterns[i%len(dashPatterns)].name)
		if useColor {
			label = plotColors[i%len(plotColors)] + label + colorReset
		}
		parts[i] = label
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// plotLine rasterizes a segment with Bresenham's algorithm.
func plotLine(ax, ay, bx, by int, plot func(x, y int)) {
	dx := absInt(bx - ax)
	dy := -absInt(by - ay)
	stepX, stepY := 1, 1
	if bx < ax {
		stepX = -1
	}
	if by < ay {
		stepY = -1
	}
	diff := dx + dy
	for {
		plot(ax, ay)
		if ax == bx && ay == by {
			return
		}
		d2 := diff * 2
		if d2 >= dy {
			if ax == bx {
				return
			}
			diff += dy
			ax += stepX
		}
		if d2 <= dx {
			if ay == by {
				return
			}
			diff += dx
			ay += stepY
		}
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
