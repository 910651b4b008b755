package stats

import "testing"

func TestPlotWidthFor(t *testing.T) {
	axisWidth := displayWidth(axisLabelHi) + displayWidth(axisSeparator)
	total := 80
	expected := total - axisWidth
	if expected < minPlotWidth {
		expected = minPlotWidth
	}
	if got := PlotWidthFor(total); got != expected {
		t.Fatalf("expected width %d, got %d", expected, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestResample(t *testing.T) {
	shrunk := resample([]float64{1, 2, 3, 4}, 2)
	if len(shrunk) != 2 || shrunk[0] != 1.5 || shrunk[1] != 3.5 {
		t.Fatalf("unexpected shrink result: %v", shrunk)
	}
	grown := resample([]float64{0, 10}, 3)
	if len(grown) != 3 || grown[0] != 0 || grown[1] != 5 || grown[2] != 10 {
		t.Fatalf("unexpected grow result: %v", grown)
	}
	if out := resample(nil, 5); out != nil {
		t.Fatalf("expected nil for empty input, got %v", out)
	}
}
